package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"implicithate/pkg/io"
	"implicithate/pkg/labels"
	"implicithate/pkg/tokenize"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Dataset is a read-only, positionally addressable collection.
type Dataset[T any] interface {
	Len() int
	At(index int) (T, error)
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, length)
	}
	return nil
}

// encodedPosts holds the text, token id and mask columns shared by both stages.
type encodedPosts struct {
	texts     []string
	inputIDs  [][]int
	masks     [][]int
	seqLength int
}

func encodePosts(table *io.Table, tk tokenize.Tokenizer, variant tokenize.Variant) (encodedPosts, error) {
	texts, err := table.Column("post")
	if err != nil {
		return encodedPosts{}, err
	}
	encodings, err := tk.TokenizeBatch(texts, variant)
	if err != nil {
		return encodedPosts{}, fmt.Errorf("error tokenizing posts: %w", err)
	}
	if len(encodings.InputIDs) != len(texts) || len(encodings.AttentionMasks) != len(texts) {
		return encodedPosts{}, fmt.Errorf("%w: %d texts produced %d id sequences and %d masks",
			tokenize.ErrTokenization, len(texts), len(encodings.InputIDs), len(encodings.AttentionMasks))
	}
	seqLength := -1
	for i := range texts {
		ids, mask := encodings.InputIDs[i], encodings.AttentionMasks[i]
		if len(ids) != len(mask) {
			return encodedPosts{}, fmt.Errorf("%w: text %d has %d ids and a mask of %d", tokenize.ErrTokenization, i, len(ids), len(mask))
		}
		if seqLength >= 0 && len(ids) != seqLength {
			return encodedPosts{}, fmt.Errorf("%w: text %d has length %d, expected %d", tokenize.ErrTokenization, i, len(ids), seqLength)
		}
		seqLength = len(ids)
	}
	if seqLength < 0 {
		seqLength = 0
	}
	log.Debug().Int("Posts", len(texts)).Int("SequenceLength", seqLength).Str("Variant", variant.String()).Msg("tokenized posts")
	return encodedPosts{
		texts:     texts,
		inputIDs:  encodings.InputIDs,
		masks:     encodings.AttentionMasks,
		seqLength: seqLength,
	}, nil
}

func (e *encodedPosts) row(index int) (string, []int, []int) {
	return e.texts[index], clone(e.inputIDs[index]), clone(e.masks[index])
}

func clone(values []int) []int {
	result := make([]int, len(values))
	copy(result, values)
	return result
}

// resolveColumn returns the values of column and their ids under m.
func resolveColumn(table *io.Table, column string, m labels.Mapping) ([]string, []int, error) {
	values, err := table.Column(column)
	if err != nil {
		return nil, nil, err
	}
	ids, err := labels.ResolveAll(m, values)
	if err != nil {
		var rowErr *labels.RowError
		if errors.As(err, &rowErr) {
			return nil, nil, fmt.Errorf("column %s at line %d: %w", column, table.Line(rowErr.Row), rowErr.Err)
		}
		return nil, nil, err
	}
	return values, ids, nil
}

// Subset is a view over selected positions of another dataset.
type Subset[T any] struct {
	source  Dataset[T]
	indices []int
}

func NewSubset[T any](source Dataset[T], indices []int) (*Subset[T], error) {
	for _, index := range indices {
		if err := checkIndex(index, source.Len()); err != nil {
			return nil, err
		}
	}
	return &Subset[T]{source: source, indices: append([]int(nil), indices...)}, nil
}

func (s *Subset[T]) Len() int {
	return len(s.indices)
}

func (s *Subset[T]) At(index int) (T, error) {
	if err := checkIndex(index, len(s.indices)); err != nil {
		var zero T
		return zero, err
	}
	return s.source.At(s.indices[index])
}

// RandomSplit shuffles the positions of d and cuts them into consecutive subsets of the given sizes.
func RandomSplit[T any](d Dataset[T], rnd *rand.Rand, sizes ...int) ([]*Subset[T], error) {
	total := 0
	for _, size := range sizes {
		if size < 0 {
			return nil, fmt.Errorf("negative split size %d", size)
		}
		total += size
	}
	if total > d.Len() {
		return nil, fmt.Errorf("split sizes add up to %d, dataset has %d elements", total, d.Len())
	}
	indices := rnd.Perm(d.Len())
	splits := make([]*Subset[T], len(sizes))
	idx := 0
	for i, size := range sizes {
		splits[i] = &Subset[T]{source: d, indices: indices[idx : idx+size : idx+size]}
		idx += size
	}
	return splits, nil
}
