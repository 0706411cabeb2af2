package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DefaultIndex(t *testing.T) {
	c := NewClassifier(DefaultIndex())

	tests := []struct {
		desc string
		want string
	}{
		{"UPI/ZOMATO ORDER 1234", "Restaurant"},
		{"POS APOLLO PHARMACY", "Hospital"},
		{"UBER TRIP BLR", "Taxi"},
		{"NETFLIX.COM", "Subscription"},
		{"SUTHERLAND GLOBAL SAL", "Sutherland"},
		{"IRCTC E-TICKET", "Travel"},
		// fuzzy: "grocerry" is a near miss of "grocery"
		{"XX GROCERRY", "Grocery"},
		{"CHQ 000123", "Misc"},
		{"", "Misc"},
		{"   \t ", "Misc"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.desc, nil))
		})
	}
}

func TestClassify_ActiveOrderWins(t *testing.T) {
	idx := NewIndex()
	idx.AddKeyword("Food", "market")
	idx.AddKeyword("Shopping", "market")
	c := NewClassifier(idx)

	assert.Equal(t, "Food", c.Classify("SUPER MARKET", []string{"Food", "Shopping"}))
	assert.Equal(t, "Shopping", c.Classify("SUPER MARKET", []string{"Shopping", "Food"}))
}

func TestClassify_FuzzyUsesWholeIndex(t *testing.T) {
	idx := NewIndex()
	idx.AddKeyword("Fuel", "petrol")
	idx.AddKeyword("Other", "zzz")
	c := NewClassifier(idx)

	// Fuel is not active, but the fuzzy pass still finds it.
	assert.Equal(t, "Fuel", c.Classify("HPCL PETRL", []string{"Other"}))
}

func TestClassify_CategoryNameContainment(t *testing.T) {
	idx := NewIndex()
	idx.AddCategory("Insurance")
	c := NewClassifier(idx)

	assert.Equal(t, "Insurance", c.Classify("LIC INSURANCE PREMIUM", nil))
	assert.Equal(t, DefaultCategory, c.Classify("LIC PREMIUM", nil))
}

func TestClassify_Options(t *testing.T) {
	idx := NewIndex()
	idx.AddKeyword("Fuel", "petrol")

	strict := NewClassifier(idx, WithCutoff(0.99), WithDefault("Uncategorised"))
	assert.Equal(t, "Uncategorised", strict.Classify("PETRL", nil))
	assert.Equal(t, "Fuel", NewClassifier(idx).Classify("PETRL", nil))
}

func TestClassify_SeesLaterAdditions(t *testing.T) {
	idx := DefaultIndex()
	c := NewClassifier(idx)
	require.Equal(t, "Misc", c.Classify("GYM MEMBERSHIP", nil))

	idx.AddKeyword("Fitness", "GYM")
	assert.Equal(t, "Fitness", c.Classify("GYM MEMBERSHIP", nil))
}

func TestIndex_AppendOnly(t *testing.T) {
	idx := NewIndex()
	idx.AddCategory("A")
	idx.AddCategory("B")
	idx.AddCategory("A")
	idx.AddKeyword("A", "Foo")
	idx.AddKeyword("A", "foo")
	idx.AddKeyword("C", "bar")
	idx.AddKeyword("", "ignored")
	idx.AddKeyword("B", "  ")

	assert.Equal(t, []string{"A", "B", "C"}, idx.Categories())
	assert.Equal(t, []string{"foo"}, idx.Keywords("A"))
	assert.Empty(t, idx.Keywords("B"))
	assert.Equal(t, []string{"bar"}, idx.Keywords("C"))
}

func TestDefaultIndex_Independent(t *testing.T) {
	a := DefaultIndex()
	b := DefaultIndex()
	a.AddCategory("Pets")

	assert.True(t, a.Has("Pets"))
	assert.False(t, b.Has("Pets"))
	assert.Equal(t, "Restaurant", b.Categories()[0])
	assert.Contains(t, b.Categories(), DefaultCategory)

	clone := a.Clone()
	clone.AddKeyword("Restaurant", "bistro")
	assert.NotContains(t, a.Keywords("Restaurant"), "bistro")
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: Fuel
  keywords: [HPCL, petrol]
- name: Restaurant
  keywords: [bistro]
`), 0o644))

	idx := DefaultIndex()
	require.NoError(t, LoadSeed(idx, path))

	cats := idx.Categories()
	assert.Equal(t, "Fuel", cats[len(cats)-1])
	assert.Equal(t, []string{"hpcl", "petrol"}, idx.Keywords("Fuel"))
	assert.Contains(t, idx.Keywords("Restaurant"), "bistro")

	assert.Error(t, LoadSeed(idx, filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, ParseSeed(idx, []byte("name: [unterminated")))
}

func TestExport_RoundTripsOrder(t *testing.T) {
	idx := DefaultIndex()
	seeds := idx.Export()
	require.Len(t, seeds, len(idx.Categories()))
	assert.Equal(t, "Misc", seeds[3].Name)
	assert.Empty(t, seeds[3].Keywords)
}
