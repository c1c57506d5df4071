package dataset

import (
	"fmt"
	"math/rand"
)

type Order int

const (
	OriginalOrder Order = iota
	RandomOrder
)

// Loader iterates over a dataset in batches of at most BatchSize elements.
// A Loader is not safe for concurrent use; the dataset it reads from is.
type Loader[T any] struct {
	Data         Dataset[T]
	BatchSize    int
	Rand         *rand.Rand
	currentOrder []int
	currentIndex int
}

func NewLoader[T any](data Dataset[T], batchSize int, rnd *rand.Rand) (*Loader[T], error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	l := &Loader[T]{Data: data, BatchSize: batchSize, Rand: rnd}
	l.ResetOrder(OriginalOrder)
	return l, nil
}

// ResetOrder starts a new epoch. RandomOrder requires Rand to be set.
func (l *Loader[T]) ResetOrder(order Order) {
	if len(l.currentOrder) != l.Data.Len() {
		l.currentOrder = make([]int, l.Data.Len())
	}
	switch order {
	case OriginalOrder:
		for i := range l.currentOrder {
			l.currentOrder[i] = i
		}
	case RandomOrder:
		copy(l.currentOrder, l.Rand.Perm(len(l.currentOrder)))
	}
	l.currentIndex = 0
}

// Next returns the next batch, or an empty batch once the epoch is exhausted.
func (l *Loader[T]) Next() ([]T, error) {
	batch := make([]T, 0, l.BatchSize)
	for ; l.currentIndex < len(l.currentOrder) && len(batch) < l.BatchSize; l.currentIndex++ {
		item, err := l.Data.At(l.currentOrder[l.currentIndex])
		if err != nil {
			return nil, err
		}
		batch = append(batch, item)
	}
	return batch, nil
}

func (l *Loader[T]) Size() int {
	return l.Data.Len()
}

// NumBatches returns the number of batches in an epoch.
func (l *Loader[T]) NumBatches() int {
	return (l.Data.Len() + l.BatchSize - 1) / l.BatchSize
}
