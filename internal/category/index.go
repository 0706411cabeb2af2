// Package category maps free-text transaction descriptions to spending
// categories using a keyword index.
package category

import "strings"

// DefaultCategory is returned when nothing else matches.
const DefaultCategory = "Misc"

// Index is an ordered set of categories, each with an ordered list of
// lower-cased keywords. It only grows: categories and keywords are never
// removed or reordered.
//
// Index does no locking. Callers sharing one across goroutines must
// synchronise writes against reads themselves.
type Index struct {
	names    []string
	keywords map[string][]string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{keywords: make(map[string][]string)}
}

// DefaultIndex returns a fresh index seeded with the built-in categories.
// Every call returns an independent copy.
func DefaultIndex() *Index {
	idx := NewIndex()
	for _, s := range defaultSeed {
		idx.AddCategory(s.Name)
		for _, kw := range s.Keywords {
			idx.AddKeyword(s.Name, kw)
		}
	}
	return idx
}

// AddCategory appends name to the category list. Adding an existing
// category has no effect.
func (idx *Index) AddCategory(name string) {
	name = strings.TrimSpace(name)
	if name == "" || idx.Has(name) {
		return
	}
	idx.names = append(idx.names, name)
	if _, ok := idx.keywords[name]; !ok {
		idx.keywords[name] = nil
	}
}

// AddKeyword appends a lower-cased keyword to category, creating the
// category if needed. Duplicate keywords are ignored.
func (idx *Index) AddKeyword(category, keyword string) {
	category = strings.TrimSpace(category)
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if category == "" || keyword == "" {
		return
	}
	idx.AddCategory(category)
	for _, kw := range idx.keywords[category] {
		if kw == keyword {
			return
		}
	}
	idx.keywords[category] = append(idx.keywords[category], keyword)
}

// Has reports whether the category exists.
func (idx *Index) Has(name string) bool {
	for _, n := range idx.names {
		if n == name {
			return true
		}
	}
	return false
}

// Categories returns the category names in insertion order.
func (idx *Index) Categories() []string {
	return append([]string(nil), idx.names...)
}

// Keywords returns a copy of the keywords for category.
func (idx *Index) Keywords(category string) []string {
	return append([]string(nil), idx.keywords[category]...)
}

// Clone returns an independent copy of the index.
func (idx *Index) Clone() *Index {
	out := NewIndex()
	for _, name := range idx.names {
		out.AddCategory(name)
		out.keywords[name] = idx.Keywords(name)
	}
	return out
}
