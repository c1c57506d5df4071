package dataset

import (
	"github.com/rs/zerolog/log"

	"implicithate/pkg/io"
	"implicithate/pkg/labels"
	"implicithate/pkg/tokenize"
)

type Stage1Parameters struct {
	DataFile string
	// DropExplicitHate removes explicit_hate rows. It takes precedence over MergeHateLabels.
	DropExplicitHate bool
	// MergeHateLabels relabels explicit_hate and implicit_hate as hate.
	MergeHateLabels bool
	Variant         tokenize.Variant
}

// Stage1Item is one element of a Stage1Dataset.
type Stage1Item struct {
	Text          string
	Class         string
	InputIDs      []int
	AttentionMask []int
	Label         int
}

// Stage1Dataset holds hate / implicit hate / not hate posts. It is immutable and
// safe for concurrent readers.
type Stage1Dataset struct {
	posts   encodedPosts
	classes []string
	labels  []int
	mapping labels.Mapping
}

var _ Dataset[Stage1Item] = &Stage1Dataset{}

// BuildStage1 reads p.DataFile, applies the label policy and tokenizes every post.
// Any failure aborts the build.
func BuildStage1(p Stage1Parameters, tk tokenize.Tokenizer) (*Stage1Dataset, error) {
	table, err := io.LoadTable(io.TableParameters{
		DataFile:        p.DataFile,
		RequiredColumns: []string{"post", "class"},
	})
	if err != nil {
		return nil, err
	}
	return buildStage1(table, p, tk)
}

func buildStage1(table *io.Table, p Stage1Parameters, tk tokenize.Tokenizer) (*Stage1Dataset, error) {
	loaded := table.Len()
	mapping := labels.ForStage1(p.DropExplicitHate, p.MergeHateLabels)

	var err error
	switch {
	case p.DropExplicitHate:
		table, err = table.Filter("class", func(class string) bool {
			return class != labels.ExplicitHate
		})
	case p.MergeHateLabels:
		table, err = table.MapColumn("class", func(class string) string {
			if class == labels.ImplicitHate || class == labels.ExplicitHate {
				return labels.Hate
			}
			return class
		})
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Int("Loaded", loaded).Int("Kept", table.Len()).Str("Mapping", mapping.Name()).Msg("applied stage 1 label policy")

	classes, ids, err := resolveColumn(table, "class", mapping)
	if err != nil {
		return nil, err
	}
	posts, err := encodePosts(table, tk, p.Variant)
	if err != nil {
		return nil, err
	}
	return &Stage1Dataset{
		posts:   posts,
		classes: classes,
		labels:  ids,
		mapping: mapping,
	}, nil
}

func (d *Stage1Dataset) Len() int {
	return len(d.classes)
}

func (d *Stage1Dataset) At(index int) (Stage1Item, error) {
	if err := checkIndex(index, d.Len()); err != nil {
		return Stage1Item{}, err
	}
	text, ids, mask := d.posts.row(index)
	return Stage1Item{
		Text:          text,
		Class:         d.classes[index],
		InputIDs:      ids,
		AttentionMask: mask,
		Label:         d.labels[index],
	}, nil
}

// Mapping returns the label mapping the dataset was built with.
func (d *Stage1Dataset) Mapping() labels.Mapping {
	return d.mapping
}

func (d *Stage1Dataset) Labels() []int {
	return clone(d.labels)
}

func (d *Stage1Dataset) SequenceLength() int {
	return d.posts.seqLength
}
