package labels

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownCategory = errors.New("unknown category")

// UnknownCategoryError reports a category string that is not a key of a mapping.
type UnknownCategoryError struct {
	Mapping  string
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for label mapping %s", e.Category, e.Mapping)
}

func (e *UnknownCategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// Mapping implements an immutable mapping between category names and label ids.
// Ids are not required to be dense.
type Mapping struct {
	name        string
	nameToIndex map[string]int
	indexToName map[int]string
}

func newMapping(name string, entries map[string]int) Mapping {
	m := Mapping{
		name:        name,
		nameToIndex: make(map[string]int, len(entries)),
		indexToName: make(map[int]string, len(entries)),
	}
	for category, id := range entries {
		m.nameToIndex[category] = id
		m.indexToName[id] = category
	}
	return m
}

func (m Mapping) Name() string {
	return m.name
}

func (m Mapping) Size() int {
	return len(m.nameToIndex)
}

// Resolve returns the id of category or an *UnknownCategoryError.
func (m Mapping) Resolve(category string) (int, error) {
	id, ok := m.nameToIndex[category]
	if !ok {
		return 0, &UnknownCategoryError{Mapping: m.name, Category: category}
	}
	return id, nil
}

func (m Mapping) ContainsName(category string) (int, bool) {
	id, ok := m.nameToIndex[category]
	return id, ok
}

func (m Mapping) NameFor(id int) (string, bool) {
	name, ok := m.indexToName[id]
	return name, ok
}

// Categories returns the category names ordered by id.
func (m Mapping) Categories() []string {
	result := make([]string, 0, len(m.nameToIndex))
	for category := range m.nameToIndex {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool {
		return m.nameToIndex[result[i]] < m.nameToIndex[result[j]]
	})
	return result
}

// NumClasses returns one past the largest id, the width a classifier head needs.
func (m Mapping) NumClasses() int {
	n := 0
	for id := range m.indexToName {
		if id+1 > n {
			n = id + 1
		}
	}
	return n
}

const (
	ExplicitHate = "explicit_hate"
	ImplicitHate = "implicit_hate"
	NotHate      = "not_hate"
	Hate         = "hate"

	Other = "other"

	// Missing is substituted for absent values in stage 2 annotations.
	Missing = "None"
)

var (
	Stage1 = newMapping("stage1", map[string]int{
		ExplicitHate: 0,
		ImplicitHate: 1,
		NotHate:      2,
	})

	// Stage1ExplicitDropped keeps implicit_hate at 1 and moves not_hate to 0.
	Stage1ExplicitDropped = newMapping("stage1-explicit-dropped", map[string]int{
		ImplicitHate: 1,
		NotHate:      0,
	})

	Stage1Merged = newMapping("stage1-merged", map[string]int{
		NotHate: 0,
		Hate:    1,
	})

	Stage2Implicit = newMapping("stage2-implicit", map[string]int{
		"white_grievance": 0,
		"incitement":      1,
		"inferiority":     2,
		"irony":           3,
		"stereotypical":   4,
		"threatening":     5,
		Other:             6,
	})

	Stage2ExtraImplicit = newMapping("stage2-extra-implicit", map[string]int{
		"white_grievance": 0,
		"incitement":      1,
		"inferiority":     2,
		"irony":           3,
		"stereotypical":   4,
		"threatening":     5,
		Other:             6,
		Missing:           7,
	})
)

// ForStage1 selects the stage 1 mapping. dropExplicitHate wins when both are set.
func ForStage1(dropExplicitHate, mergeHateLabels bool) Mapping {
	switch {
	case dropExplicitHate:
		return Stage1ExplicitDropped
	case mergeHateLabels:
		return Stage1Merged
	default:
		return Stage1
	}
}

// ResolveAll resolves every category, failing on the first unknown one.
func ResolveAll(m Mapping, categories []string) ([]int, error) {
	ids := make([]int, len(categories))
	for i, category := range categories {
		id, err := m.Resolve(category)
		if err != nil {
			return nil, &RowError{Row: i, Err: err}
		}
		ids[i] = id
	}
	return ids, nil
}

// RowError locates a resolution failure at a 0-based position.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
