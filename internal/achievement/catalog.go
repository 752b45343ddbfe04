package achievement

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/thinkforge/internal/apperr"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed catalog.json
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema []byte

const catalogSchemaURL = "schema://achievement-catalog.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Definition is one achievement as authored in a catalog document.
type Definition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Criteria    json.RawMessage `json:"criteria"`
}

// Record converts the definition for storage; order is its catalog position.
func (d Definition) Record(order int) store.AchievementRecord {
	return store.AchievementRecord{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    string(d.Category),
		Criteria:    []byte(d.Criteria),
		SortOrder:   order,
	}
}

type catalogDoc struct {
	Achievements []Definition `json:"achievements"`
}

// DefaultCatalog returns the built-in achievement catalog.
func DefaultCatalog() ([]Definition, error) {
	return LoadCatalog(defaultCatalog)
}

// LoadCatalog validates a catalog document against the catalog schema and
// decodes every criterion.
func LoadCatalog(data []byte) ([]Definition, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	sch, err := schema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("catalog schema validation failed: %w", err)
	}

	var doc catalogDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	seen := make(map[string]bool, len(doc.Achievements))
	for i := range doc.Achievements {
		d := &doc.Achievements[i]
		if seen[d.ID] {
			return nil, apperr.Invalid("achievement.id", d.ID, "duplicate id")
		}
		seen[d.ID] = true
		if _, err := ParseCriterion(d.Criteria); err != nil {
			return nil, fmt.Errorf("achievement %s: %w", d.ID, err)
		}
	}
	return doc.Achievements, nil
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(catalogSchema, &def); err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(catalogSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(catalogSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile catalog schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Seed upserts the definitions into the catalog table in order.
func Seed(ctx context.Context, repo store.AchievementRepo, defs []Definition) error {
	for i, d := range defs {
		if err := repo.UpsertAchievement(ctx, d.Record(i)); err != nil {
			return apperr.Storage("seed achievement "+d.ID, err)
		}
	}
	return nil
}
