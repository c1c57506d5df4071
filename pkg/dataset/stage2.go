package dataset

import (
	"github.com/rs/zerolog/log"

	"implicithate/pkg/io"
	"implicithate/pkg/labels"
	"implicithate/pkg/tokenize"
)

type Stage2Parameters struct {
	DataFile string
	// DropOther removes rows whose implicit_class is other.
	DropOther bool
	Variant   tokenize.Variant
}

type Stage2Item struct {
	Text               string
	ImplicitClass      string
	ExtraImplicitClass string
	InputIDs           []int
	AttentionMask      []int
	ImplicitLabel      int
	ExtraImplicitLabel int
}

// Stage2Dataset holds implicit hate posts with their subtype on two label axes.
// Missing values read as labels.Missing, which only the extra implicit axis accepts.
type Stage2Dataset struct {
	posts               encodedPosts
	implicitClasses     []string
	extraClasses        []string
	implicitLabels      []int
	extraImplicitLabels []int
}

var _ Dataset[Stage2Item] = &Stage2Dataset{}

func BuildStage2(p Stage2Parameters, tk tokenize.Tokenizer) (*Stage2Dataset, error) {
	table, err := io.LoadTable(io.TableParameters{
		DataFile:        p.DataFile,
		RequiredColumns: []string{"post", "implicit_class", "extra_implicit_class"},
	})
	if err != nil {
		return nil, err
	}
	return buildStage2(table, p, tk)
}

func buildStage2(table *io.Table, p Stage2Parameters, tk tokenize.Tokenizer) (*Stage2Dataset, error) {
	loaded := table.Len()
	table = table.FillMissing(labels.Missing)
	if p.DropOther {
		var err error
		table, err = table.Filter("implicit_class", func(class string) bool {
			return class != labels.Other
		})
		if err != nil {
			return nil, err
		}
	}
	log.Debug().Int("Loaded", loaded).Int("Kept", table.Len()).Bool("DropOther", p.DropOther).Msg("applied stage 2 label policy")

	implicitClasses, implicitLabels, err := resolveColumn(table, "implicit_class", labels.Stage2Implicit)
	if err != nil {
		return nil, err
	}
	extraClasses, extraLabels, err := resolveColumn(table, "extra_implicit_class", labels.Stage2ExtraImplicit)
	if err != nil {
		return nil, err
	}
	posts, err := encodePosts(table, tk, p.Variant)
	if err != nil {
		return nil, err
	}
	return &Stage2Dataset{
		posts:               posts,
		implicitClasses:     implicitClasses,
		extraClasses:        extraClasses,
		implicitLabels:      implicitLabels,
		extraImplicitLabels: extraLabels,
	}, nil
}

func (d *Stage2Dataset) Len() int {
	return len(d.implicitClasses)
}

func (d *Stage2Dataset) At(index int) (Stage2Item, error) {
	if err := checkIndex(index, d.Len()); err != nil {
		return Stage2Item{}, err
	}
	text, ids, mask := d.posts.row(index)
	return Stage2Item{
		Text:               text,
		ImplicitClass:      d.implicitClasses[index],
		ExtraImplicitClass: d.extraClasses[index],
		InputIDs:           ids,
		AttentionMask:      mask,
		ImplicitLabel:      d.implicitLabels[index],
		ExtraImplicitLabel: d.extraImplicitLabels[index],
	}, nil
}

func (d *Stage2Dataset) ImplicitLabels() []int {
	return clone(d.implicitLabels)
}

func (d *Stage2Dataset) ExtraImplicitLabels() []int {
	return clone(d.extraImplicitLabels)
}

func (d *Stage2Dataset) SequenceLength() int {
	return d.posts.seqLength
}
