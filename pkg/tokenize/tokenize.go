package tokenize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

var ErrTokenization = errors.New("tokenization failed")

// Variant selects the tokenizer a batch is encoded with.
type Variant int

const (
	Standard Variant = iota
	// Social is tuned for social media posts (mentions, links).
	Social
)

func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case Social:
		return "social"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "standard", "":
		return Standard, nil
	case "social":
		return Social, nil
	}
	return Standard, fmt.Errorf("unknown tokenizer variant %s", s)
}

// Encodings holds one token id sequence and one attention mask per input text, in input order.
type Encodings struct {
	InputIDs       [][]int
	AttentionMasks [][]int
}

func (e Encodings) Len() int {
	return len(e.InputIDs)
}

// Tokenizer turns a batch of texts into fixed-length token id sequences and masks.
type Tokenizer interface {
	TokenizeBatch(texts []string, variant Variant) (Encodings, error)
}

const DefaultMaxLength = 64

type Config struct {
	// StandardPath and SocialPath point to tokenizer.json files. At least one is required.
	StandardPath string
	SocialPath   string
	MaxLength    int
}

type encodeFunc func(text string) (*tokenizer.Encoding, error)

type variantEncoder struct {
	encode encodeFunc
	padID  int
}

// Pretrained encodes batches with HuggingFace tokenizer.json models, truncating and
// right-padding every sequence to MaxLength.
type Pretrained struct {
	encoders  map[Variant]variantEncoder
	maxLength int
}

var _ Tokenizer = &Pretrained{}

func NewPretrained(c Config) (*Pretrained, error) {
	if c.StandardPath == "" && c.SocialPath == "" {
		return nil, fmt.Errorf("at least one tokenizer path is required")
	}
	if c.MaxLength <= 0 {
		c.MaxLength = DefaultMaxLength
	}
	p := &Pretrained{encoders: map[Variant]variantEncoder{}, maxLength: c.MaxLength}
	for variant, path := range map[Variant]string{Standard: c.StandardPath, Social: c.SocialPath} {
		if path == "" {
			continue
		}
		tk, err := pretrained.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("error loading %s tokenizer from %s: %w", variant, path, err)
		}
		p.encoders[variant] = variantEncoder{
			encode: func(text string) (*tokenizer.Encoding, error) {
				return tk.EncodeSingle(text, true)
			},
			padID: padTokenID(tk),
		}
		log.Debug().Str("Variant", variant.String()).Str("Path", path).Msg("loaded tokenizer")
	}
	return p, nil
}

func padTokenID(tk *tokenizer.Tokenizer) int {
	for _, token := range []string{"[PAD]", "<pad>"} {
		if id, ok := tk.TokenToId(token); ok {
			return id
		}
	}
	return 0
}

func (p *Pretrained) MaxLength() int {
	return p.maxLength
}

func (p *Pretrained) TokenizeBatch(texts []string, variant Variant) (Encodings, error) {
	enc, ok := p.encoders[variant]
	if !ok {
		return Encodings{}, fmt.Errorf("%w: no %s tokenizer configured", ErrTokenization, variant)
	}
	result := Encodings{
		InputIDs:       make([][]int, len(texts)),
		AttentionMasks: make([][]int, len(texts)),
	}
	for i, text := range texts {
		if variant == Social {
			text = NormalizeSocial(text)
		}
		encoding, err := enc.encode(text)
		if err != nil {
			return Encodings{}, fmt.Errorf("%w: text %d: %v", ErrTokenization, i, err)
		}
		result.InputIDs[i], result.AttentionMasks[i] = fit(encoding, p.maxLength, enc.padID)
	}
	return result, nil
}

// fit truncates an encoding to maxLength, keeping a trailing special token, and pads it.
func fit(e *tokenizer.Encoding, maxLength, padID int) ([]int, []int) {
	ids := make([]int, maxLength)
	mask := make([]int, maxLength)

	n := len(e.Ids)
	if n > maxLength {
		n = maxLength
	}
	copy(ids, e.Ids[:n])
	for t := 0; t < n; t++ {
		mask[t] = 1
		if t < len(e.AttentionMask) {
			mask[t] = e.AttentionMask[t]
		}
	}
	last := len(e.Ids) - 1
	if len(e.Ids) > maxLength && last < len(e.SpecialTokenMask) && e.SpecialTokenMask[last] == 1 {
		ids[maxLength-1] = e.Ids[last]
	}
	for t := n; t < maxLength; t++ {
		ids[t] = padID
	}
	return ids, mask
}

var (
	mentionPattern = regexp.MustCompile(`\B@\w+`)
	urlPattern     = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
)

// NormalizeSocial rewrites user mentions to @USER and links to HTTPURL, and collapses whitespace.
func NormalizeSocial(text string) string {
	text = urlPattern.ReplaceAllString(text, "HTTPURL")
	text = mentionPattern.ReplaceAllString(text, "@USER")
	return strings.Join(strings.Fields(text), " ")
}
