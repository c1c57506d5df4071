package dataset

import (
	"fmt"

	"github.com/nlpodyssey/spago/pkg/mat"
)

// Stage1Batch is a collated batch: InputIDs and AttentionMask are [B x T], Labels is [B].
type Stage1Batch struct {
	Texts         []string
	InputIDs      *mat.Dense
	AttentionMask *mat.Dense
	Labels        *mat.Dense
}

func (b Stage1Batch) Size() int {
	return len(b.Texts)
}

type Stage2Batch struct {
	Texts               []string
	InputIDs            *mat.Dense
	AttentionMask       *mat.Dense
	ImplicitLabels      *mat.Dense
	ExtraImplicitLabels *mat.Dense
}

func (b Stage2Batch) Size() int {
	return len(b.Texts)
}

func CollateStage1(items []Stage1Item) (Stage1Batch, error) {
	if len(items) == 0 {
		return Stage1Batch{}, fmt.Errorf("cannot collate an empty batch")
	}
	ids := make([][]int, len(items))
	masks := make([][]int, len(items))
	batch := Stage1Batch{Texts: make([]string, len(items))}
	targets := make([]float64, len(items))
	for i, item := range items {
		batch.Texts[i] = item.Text
		ids[i], masks[i] = item.InputIDs, item.AttentionMask
		targets[i] = float64(item.Label)
	}
	var err error
	if batch.InputIDs, batch.AttentionMask, err = stackSequences(ids, masks); err != nil {
		return Stage1Batch{}, err
	}
	batch.Labels = mat.NewVecDense(targets)
	return batch, nil
}

func CollateStage2(items []Stage2Item) (Stage2Batch, error) {
	if len(items) == 0 {
		return Stage2Batch{}, fmt.Errorf("cannot collate an empty batch")
	}
	ids := make([][]int, len(items))
	masks := make([][]int, len(items))
	batch := Stage2Batch{Texts: make([]string, len(items))}
	implicit := make([]float64, len(items))
	extra := make([]float64, len(items))
	for i, item := range items {
		batch.Texts[i] = item.Text
		ids[i], masks[i] = item.InputIDs, item.AttentionMask
		implicit[i] = float64(item.ImplicitLabel)
		extra[i] = float64(item.ExtraImplicitLabel)
	}
	var err error
	if batch.InputIDs, batch.AttentionMask, err = stackSequences(ids, masks); err != nil {
		return Stage2Batch{}, err
	}
	batch.ImplicitLabels = mat.NewVecDense(implicit)
	batch.ExtraImplicitLabels = mat.NewVecDense(extra)
	return batch, nil
}

func stackSequences(ids, masks [][]int) (*mat.Dense, *mat.Dense, error) {
	length := len(ids[0])
	idData := make([]float64, 0, len(ids)*length)
	maskData := make([]float64, 0, len(ids)*length)
	for i := range ids {
		if len(ids[i]) != length || len(masks[i]) != length {
			return nil, nil, fmt.Errorf("sequence %d has length %d, expected %d", i, len(ids[i]), length)
		}
		for t := 0; t < length; t++ {
			idData = append(idData, float64(ids[i][t]))
			maskData = append(maskData, float64(masks[i][t]))
		}
	}
	return mat.NewDense(len(ids), length, idData), mat.NewDense(len(ids), length, maskData), nil
}
