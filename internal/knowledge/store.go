// Package knowledge loads the FAQ knowledge base from sharded source files
// and serves it read-only to every chat session.
package knowledge

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"charterbot/internal/domain"
)

// Store is an immutable, categorized FAQ collection with a keyword index.
// It is safe for concurrent use because nothing mutates it after New.
type Store struct {
	charter  []domain.FAQRecord
	sales    []domain.FAQRecord
	metadata map[string]any
	index    map[string][]domain.FAQRecord
}

// Counts summarizes the number of records per category.
type Counts struct {
	Charter  int
	Sales    int
	Keywords int
}

// Total is the number of FAQ records across all categories.
func (c Counts) Total() int { return c.Charter + c.Sales }

// New builds a store from already-loaded records and derives its index.
func New(charter, sales []domain.FAQRecord, metadata map[string]any) *Store {
	s := &Store{
		charter:  slices.Clone(charter),
		sales:    slices.Clone(sales),
		metadata: maps.Clone(metadata),
	}
	s.index = BuildIndex(s.charter, s.sales)
	return s
}

// Empty returns a store without records.
func Empty() *Store { return New(nil, nil, nil) }

// BuildIndex maps every trigger keyword to the records declaring it.
// Groups are walked in argument order and records in slice order, so the
// result only depends on the input. Keywords are trimmed and lower-cased;
// blank keywords are skipped.
func BuildIndex(groups ...[]domain.FAQRecord) map[string][]domain.FAQRecord {
	index := make(map[string][]domain.FAQRecord)
	for _, group := range groups {
		for _, rec := range group {
			for _, kw := range rec.TriggerKeywords {
				key := normalizeKeyword(kw)
				if key == "" {
					continue
				}
				index[key] = append(index[key], rec)
			}
		}
	}
	return index
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

// Charter returns the charter records in stored order.
func (s *Store) Charter() []domain.FAQRecord { return slices.Clone(s.charter) }

// Sales returns the sales records in stored order.
func (s *Store) Sales() []domain.FAQRecord { return slices.Clone(s.sales) }

// Records returns the records of one category in stored order.
func (s *Store) Records(c domain.Category) []domain.FAQRecord {
	switch c {
	case domain.CategoryCharter:
		return s.Charter()
	case domain.CategorySales:
		return s.Sales()
	}
	return nil
}

// Head returns at most n records of a category, first n in stored order.
func (s *Store) Head(c domain.Category, n int) []domain.FAQRecord {
	var src []domain.FAQRecord
	switch c {
	case domain.CategoryCharter:
		src = s.charter
	case domain.CategorySales:
		src = s.sales
	}
	if n <= 0 || len(src) == 0 {
		return nil
	}
	if n > len(src) {
		n = len(src)
	}
	return slices.Clone(src[:n])
}

// Metadata returns a shallow copy of the metadata taken from the first charter shard.
func (s *Store) Metadata() map[string]any { return maps.Clone(s.metadata) }

// Index returns a copy of the keyword index.
func (s *Store) Index() map[string][]domain.FAQRecord {
	out := make(map[string][]domain.FAQRecord, len(s.index))
	for k, v := range s.index {
		out[k] = slices.Clone(v)
	}
	return out
}

// Lookup returns the records declaring keyword, in index order.
func (s *Store) Lookup(keyword string) []domain.FAQRecord {
	return slices.Clone(s.index[normalizeKeyword(keyword)])
}

// Keywords returns every indexed keyword, sorted.
func (s *Store) Keywords() []string {
	out := make([]string, 0, len(s.index))
	for k := range s.index {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Counts reports record and keyword totals.
func (s *Store) Counts() Counts {
	return Counts{Charter: len(s.charter), Sales: len(s.sales), Keywords: len(s.index)}
}
