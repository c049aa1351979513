package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySchemasAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, schema := range Registry() {
		require.NotEmpty(t, schema.Slug)
		assert.False(t, seen[schema.Slug], "duplicate slug %s", schema.Slug)
		seen[schema.Slug] = true

		assert.NotEmpty(t, schema.Title, "%s needs a title", schema.Slug)
		assert.NotEmpty(t, schema.Endpoint, "%s needs an endpoint", schema.Slug)
		assert.NotEmpty(t, schema.ListField, "%s needs a list field", schema.Slug)
		assert.NotEmpty(t, schema.Columns, "%s needs columns", schema.Slug)

		for _, col := range schema.Columns {
			if col.Aggregate {
				assert.Equal(t, ColNumber, col.Kind, "%s.%s: only numeric columns aggregate", schema.Slug, col.Key)
			}
			if col.Searchable {
				assert.NotEqual(t, ColNumber, col.Kind, "%s.%s: search fields are textual", schema.Slug, col.Key)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	schema, ok := Lookup("branch")
	require.True(t, ok)
	assert.Equal(t, "branch", schema.Slug)

	_, ok = Lookup("no-such-report")
	assert.False(t, ok)
}
