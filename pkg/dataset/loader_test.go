package dataset

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoaderOriginalOrder(t *testing.T) {
	d, err := BuildStage1(Stage1Parameters{DataFile: "../../datasets/stage1.tsv"}, &fakeTokenizer{})
	require.NoError(t, err)

	loader, err := NewLoader[Stage1Item](d, 4, nil)
	require.NoError(t, err)
	require.Equal(t, 6, loader.Size())
	require.Equal(t, 2, loader.NumBatches())

	batch, err := loader.Next()
	require.NoError(t, err)
	require.Len(t, batch, 4)
	require.Equal(t, "he is one of them, you know what they are", batch[0].Text)

	batch, err = loader.Next()
	require.NoError(t, err)
	require.Len(t, batch, 2)
	require.Equal(t, "they should be wiped out", batch[1].Text)

	batch, err = loader.Next()
	require.NoError(t, err)
	require.Empty(t, batch)

	loader.ResetOrder(OriginalOrder)
	batch, err = loader.Next()
	require.NoError(t, err)
	require.Len(t, batch, 4)
}

func TestLoaderRandomOrder(t *testing.T) {
	d, err := BuildStage1(Stage1Parameters{DataFile: "../../datasets/stage1.tsv"}, &fakeTokenizer{})
	require.NoError(t, err)

	loader, err := NewLoader[Stage1Item](d, 5, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	loader.ResetOrder(RandomOrder)

	var texts []string
	for batch, err := loader.Next(); len(batch) > 0; batch, err = loader.Next() {
		require.NoError(t, err)
		for _, item := range batch {
			texts = append(texts, item.Text)
		}
	}
	require.Len(t, texts, 6)

	expected, _, _ := stage1Texts(t, d)
	sort.Strings(expected)
	sort.Strings(texts)
	require.Equal(t, expected, texts)
}

func TestLoaderRejectsBatchSize(t *testing.T) {
	d, err := BuildStage1(Stage1Parameters{DataFile: "../../datasets/stage1.tsv"}, &fakeTokenizer{})
	require.NoError(t, err)
	_, err = NewLoader[Stage1Item](d, 0, nil)
	require.Error(t, err)
}
