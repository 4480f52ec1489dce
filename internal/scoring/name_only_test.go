package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/gcbaptista/go-reconcile/internal/testing"
)

func TestNameOnly(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		results := NameOnly(nil)
		require.NotNil(t, results)
		assert.Empty(t, results)
	})

	t.Run("single candidate is a certain match", func(t *testing.T) {
		results := NameOnly(testutil.Candidates("7", "Safed"))
		require.Len(t, results, 1)
		assert.Equal(t, "7", results[0].ID)
		assert.Equal(t, 100.0, results[0].Score)
		assert.True(t, results[0].IsMatch)
		testutil.AssertValidResults(t, results)
	})

	t.Run("two candidates split the score", func(t *testing.T) {
		results := NameOnly(testutil.Candidates("2", "Beta", "1", "Alpha"))
		require.Len(t, results, 2)

		assert.Equal(t, "1", results[0].ID)
		assert.Equal(t, "Alpha", results[0].Name)
		assert.Equal(t, "2", results[1].ID)
		assert.Equal(t, "Beta", results[1].Name)
		for _, r := range results {
			assert.Equal(t, 50.0, r.Score)
			assert.False(t, r.IsMatch)
		}
	})

	t.Run("many candidates are sorted by name", func(t *testing.T) {
		results := NameOnly(testutil.Candidates("a", "Wilno", "b", "Vilnius", "c", "Vilna NY"))
		require.Len(t, results, 3)

		assert.Equal(t, []string{"Vilna NY", "Vilnius", "Wilno"},
			[]string{results[0].Name, results[1].Name, results[2].Name})
		for _, r := range results {
			assert.InDelta(t, 100.0/3.0, r.Score, 1e-9)
			assert.False(t, r.IsMatch)
		}
		testutil.AssertValidResults(t, results)
	})
}
