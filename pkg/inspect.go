package pkg

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"implicithate/pkg/dataset"
	"implicithate/pkg/labels"
	"implicithate/pkg/tokenize"
)

type InspectParameters struct {
	BatchSize int
	RndSeed   int64
}

// InspectStage1 builds a stage 1 dataset, logs its label distribution and runs one
// shuffled epoch of collated batches over it.
func InspectStage1(p dataset.Stage1Parameters, tk tokenize.Tokenizer, ip InspectParameters) error {
	d, err := dataset.BuildStage1(p, tk)
	if err != nil {
		return fmt.Errorf("error building stage 1 dataset from %s: %w", p.DataFile, err)
	}
	log.Info().Str("File", p.DataFile).Int("Examples", d.Len()).Int("SequenceLength", d.SequenceLength()).
		Str("Mapping", d.Mapping().Name()).Msg("built stage 1 dataset")
	if err := logLabelStats("class", d.Labels(), d.Mapping()); err != nil {
		return err
	}
	return runEpoch[dataset.Stage1Item](d, ip, func(items []dataset.Stage1Item) (int, error) {
		batch, err := dataset.CollateStage1(items)
		return batch.Size(), err
	})
}

func InspectStage2(p dataset.Stage2Parameters, tk tokenize.Tokenizer, ip InspectParameters) error {
	d, err := dataset.BuildStage2(p, tk)
	if err != nil {
		return fmt.Errorf("error building stage 2 dataset from %s: %w", p.DataFile, err)
	}
	log.Info().Str("File", p.DataFile).Int("Examples", d.Len()).Int("SequenceLength", d.SequenceLength()).
		Msg("built stage 2 dataset")
	if err := logLabelStats("implicit_class", d.ImplicitLabels(), labels.Stage2Implicit); err != nil {
		return err
	}
	if err := logLabelStats("extra_implicit_class", d.ExtraImplicitLabels(), labels.Stage2ExtraImplicit); err != nil {
		return err
	}
	return runEpoch[dataset.Stage2Item](d, ip, func(items []dataset.Stage2Item) (int, error) {
		batch, err := dataset.CollateStage2(items)
		return batch.Size(), err
	})
}

func logLabelStats(axis string, ids []int, m labels.Mapping) error {
	stats, err := dataset.LabelStats(ids, m.NumClasses())
	if err != nil {
		return fmt.Errorf("error computing %s statistics: %w", axis, err)
	}
	for _, class := range m.Categories() {
		id, _ := m.ContainsName(class)
		log.Info().Str("Axis", axis).Str("Class", class).Int("Label", id).
			Int("Count", stats.Counts[id]).
			Float64("Weight", stats.Weights[id]).
			Msg("")
	}
	log.Info().Str("Axis", axis).Float64("Entropy", stats.Entropy).Msg("")
	return nil
}

func runEpoch[T any](d dataset.Dataset[T], ip InspectParameters, collate func([]T) (int, error)) error {
	if d.Len() == 0 {
		log.Warn().Msg("dataset is empty")
		return nil
	}
	loader, err := dataset.NewLoader(d, ip.BatchSize, rand.New(rand.NewSource(ip.RndSeed)))
	if err != nil {
		return err
	}
	loader.ResetOrder(dataset.RandomOrder)
	batches, examples := 0, 0
	for {
		items, err := loader.Next()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			break
		}
		size, err := collate(items)
		if err != nil {
			return fmt.Errorf("error collating batch %d: %w", batches, err)
		}
		batches++
		examples += size
		log.Debug().Int("Batch", batches).Int("Size", size).Msg("")
	}
	log.Info().Int("Batches", batches).Int("Examples", examples).Msg("completed epoch")
	return nil
}
