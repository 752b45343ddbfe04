package dimension

import (
	"fmt"
	"sort"

	"github.com/abhisek/thinkforge/internal/apperr"
)

// Concept is a named sub-skill within a dimension, tracked independently
// for mastery.
type Concept struct {
	Key       string
	Dimension Dimension
	Name      string
}

// taxonomy holds the concept catalog with lookup indices.
type taxonomy struct {
	concepts    []Concept
	byKey       map[string]*Concept
	byDimension map[Dimension][]Concept
}

var tx = buildTaxonomy(seedConcepts)

func buildTaxonomy(concepts []Concept) *taxonomy {
	t := &taxonomy{
		concepts:    concepts,
		byKey:       make(map[string]*Concept, len(concepts)),
		byDimension: make(map[Dimension][]Concept),
	}
	for i := range t.concepts {
		c := &t.concepts[i]
		if _, dup := t.byKey[c.Key]; dup {
			panic(fmt.Sprintf("duplicate concept key %q", c.Key))
		}
		if !c.Dimension.Valid() {
			panic(fmt.Sprintf("concept %q has unknown dimension %q", c.Key, c.Dimension))
		}
		t.byKey[c.Key] = c
		t.byDimension[c.Dimension] = append(t.byDimension[c.Dimension], *c)
	}
	for d := range t.byDimension {
		sort.Slice(t.byDimension[d], func(i, j int) bool {
			return t.byDimension[d][i].Key < t.byDimension[d][j].Key
		})
	}
	return t
}

// Concepts returns the concepts of d sorted by key.
func Concepts(d Dimension) []Concept {
	src := tx.byDimension[d]
	out := make([]Concept, len(src))
	copy(out, src)
	return out
}

// AllConcepts returns every concept in seed order.
func AllConcepts() []Concept {
	out := make([]Concept, len(tx.concepts))
	copy(out, tx.concepts)
	return out
}

// LookupConcept returns the concept with the given key.
func LookupConcept(key string) (Concept, bool) {
	c, ok := tx.byKey[key]
	if !ok {
		return Concept{}, false
	}
	return *c, true
}

// ValidateConcept checks that key names a concept belonging to d.
func ValidateConcept(d Dimension, key string) error {
	c, ok := tx.byKey[key]
	if !ok {
		return apperr.Invalid("concept", key, "unknown concept")
	}
	if c.Dimension != d {
		return apperr.Invalid("concept", key, fmt.Sprintf("belongs to %s, not %s", c.Dimension, d))
	}
	return nil
}
