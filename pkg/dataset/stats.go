package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises a label column.
type Stats struct {
	Counts []int
	// Weights are inverse class frequencies scaled to average 1 over the classes present.
	// Absent classes get weight 0.
	Weights []float64
	// Entropy of the label distribution, in nats.
	Entropy float64
}

func LabelStats(labels []int, numClasses int) (Stats, error) {
	s := Stats{
		Counts:  make([]int, numClasses),
		Weights: make([]float64, numClasses),
	}
	for i, label := range labels {
		if label < 0 || label >= numClasses {
			return Stats{}, fmt.Errorf("label %d at position %d outside [0, %d)", label, i, numClasses)
		}
		s.Counts[label]++
	}
	if len(labels) == 0 {
		return s, nil
	}

	distribution := make([]float64, numClasses)
	present := 0
	for c, count := range s.Counts {
		distribution[c] = float64(count) / float64(len(labels))
		if count > 0 {
			s.Weights[c] = float64(len(labels)) / float64(count)
			present++
		}
	}
	floats.Scale(float64(present)/floats.Sum(s.Weights), s.Weights)
	s.Entropy = stat.Entropy(distribution)
	return s, nil
}
