package labels

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		mapping  Mapping
		category string
		id       int
	}{
		{Stage1, ExplicitHate, 0},
		{Stage1, ImplicitHate, 1},
		{Stage1, NotHate, 2},
		{Stage1ExplicitDropped, ImplicitHate, 1},
		{Stage1ExplicitDropped, NotHate, 0},
		{Stage1Merged, NotHate, 0},
		{Stage1Merged, Hate, 1},
		{Stage2Implicit, "white_grievance", 0},
		{Stage2Implicit, Other, 6},
		{Stage2ExtraImplicit, "threatening", 5},
		{Stage2ExtraImplicit, Missing, 7},
	}

	for _, tt := range tests {
		id, err := tt.mapping.Resolve(tt.category)
		require.NoError(t, err, tt.mapping.Name())
		require.Equal(t, tt.id, id, "%s/%s", tt.mapping.Name(), tt.category)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := Stage2Implicit.Resolve(Missing)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownCategory))

	var catErr *UnknownCategoryError
	require.True(t, errors.As(err, &catErr))
	require.Equal(t, "stage2-implicit", catErr.Mapping)
	require.Equal(t, Missing, catErr.Category)

	_, err = Stage1ExplicitDropped.Resolve(ExplicitHate)
	require.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestForStage1(t *testing.T) {
	require.Equal(t, Stage1.Name(), ForStage1(false, false).Name())
	require.Equal(t, Stage1ExplicitDropped.Name(), ForStage1(true, false).Name())
	require.Equal(t, Stage1Merged.Name(), ForStage1(false, true).Name())
	require.Equal(t, Stage1ExplicitDropped.Name(), ForStage1(true, true).Name())
}

func TestCategoriesAndNumClasses(t *testing.T) {
	require.Equal(t, []string{ExplicitHate, ImplicitHate, NotHate}, Stage1.Categories())
	require.Equal(t, []string{NotHate, ImplicitHate}, Stage1ExplicitDropped.Categories())
	require.Equal(t, 3, Stage1.NumClasses())
	require.Equal(t, 2, Stage1ExplicitDropped.NumClasses())
	require.Equal(t, 8, Stage2ExtraImplicit.NumClasses())
	require.Equal(t, 8, Stage2ExtraImplicit.Size())

	name, ok := Stage2ExtraImplicit.NameFor(7)
	require.True(t, ok)
	require.Equal(t, Missing, name)
	_, ok = Stage1Merged.NameFor(2)
	require.False(t, ok)
}

func TestResolveAll(t *testing.T) {
	ids, err := ResolveAll(Stage1Merged, []string{Hate, NotHate, Hate})
	require.NoError(t, err)
	require.Equal(t, []int{1, 0, 1}, ids)

	_, err = ResolveAll(Stage1Merged, []string{Hate, ExplicitHate})
	require.True(t, errors.Is(err, ErrUnknownCategory))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	require.Equal(t, 1, rowErr.Row)
}
