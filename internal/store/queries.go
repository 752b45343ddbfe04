package store

import (
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// queries implements Repos on top of either *sqlx.DB or *sqlx.Tx.
// Static statements are written with '?' and rebound; statements with a
// variable shape go through the ent SQL builder.
type queries struct {
	q       sqlx.ExtContext
	dialect string
}

func (r *queries) postgres() bool {
	return r.dialect == dialect.Postgres
}

// rebind converts '?' placeholders to the driver's bind style.
func (r *queries) rebind(query string) string {
	return r.q.Rebind(query)
}

// build starts a statement in the store's dialect.
func (r *queries) build() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// anys converts a string slice for IN predicates.
func anys[T ~string](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
