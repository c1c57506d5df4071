package pkg

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"implicithate/pkg/dataset"
	"implicithate/pkg/labels"
	"implicithate/pkg/tokenize"
)

type constTokenizer struct{}

func (constTokenizer) TokenizeBatch(texts []string, _ tokenize.Variant) (tokenize.Encodings, error) {
	result := tokenize.Encodings{}
	for range texts {
		result.InputIDs = append(result.InputIDs, []int{101, 102, 0})
		result.AttentionMasks = append(result.AttentionMasks, []int{1, 1, 0})
	}
	return result, nil
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	b := &bytes.Buffer{}
	previous := log.Logger
	log.Logger = zerolog.New(b)
	t.Cleanup(func() { log.Logger = previous })
	return b
}

func TestInspectStage1(t *testing.T) {
	b := captureLog(t)
	err := InspectStage1(dataset.Stage1Parameters{
		DataFile:        "../datasets/stage1.tsv",
		MergeHateLabels: true,
	}, constTokenizer{}, InspectParameters{BatchSize: 4, RndSeed: 42})
	require.NoError(t, err)

	out := b.String()
	require.Contains(t, out, `"Mapping":"stage1-merged"`)
	require.Contains(t, out, `"Class":"hate","Label":1,"Count":4`)
	require.Contains(t, out, `"Batches":2,"Examples":6`)
	require.False(t, strings.Contains(strings.ToLower(out), "error"))
}

func TestInspectStage2(t *testing.T) {
	b := captureLog(t)
	err := InspectStage2(dataset.Stage2Parameters{
		DataFile:  "../datasets/stage2.tsv",
		DropOther: true,
	}, constTokenizer{}, InspectParameters{BatchSize: 10, RndSeed: 1})
	require.NoError(t, err)

	out := b.String()
	require.Contains(t, out, `"Examples":5`)
	require.Contains(t, out, `"Axis":"extra_implicit_class","Class":"None","Label":7,"Count":2`)
	require.Contains(t, out, `"Batches":1,"Examples":5`)
}

func TestInspectFailsOnBadInput(t *testing.T) {
	captureLog(t)
	err := InspectStage1(dataset.Stage1Parameters{DataFile: "../datasets/stage1_unknown_class.tsv"},
		constTokenizer{}, InspectParameters{BatchSize: 4})
	require.True(t, errors.Is(err, labels.ErrUnknownCategory))
}
