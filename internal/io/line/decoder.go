package line

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/javasync/RxIo/internal/errors"
)

// DecodePolicy selects what happens to malformed input sequences.
type DecodePolicy int

const (
	// DecodeReplace substitutes U+FFFD for malformed sequences and keeps reading.
	DecodeReplace DecodePolicy = iota
	// DecodeStrict fails the session with ErrMalformedEncoding.
	DecodeStrict
)

func (p DecodePolicy) String() string {
	switch p {
	case DecodeReplace:
		return "replace"
	case DecodeStrict:
		return "strict"
	default:
		return fmt.Sprintf("DecodePolicy(%d)", int(p))
	}
}

// ParseDecodePolicy parses "replace" or "strict".
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace", "":
		return DecodeReplace, nil
	case "strict":
		return DecodeStrict, nil
	}
	return DecodeReplace, errors.Wrapf(errors.ErrInvalidArgument, "unknown decode policy %q", s)
}

// Decoder converts completed line bytes into text.
type Decoder struct {
	policy  DecodePolicy
	charset string
	enc     encoding.Encoding
	utf8    bool
}

// NewDecoder returns a Decoder for the named charset (any WHATWG encoding
// label, "utf-8" when empty).
func NewDecoder(charset string, policy DecodePolicy) (*Decoder, error) {
	if charset == "" {
		charset = "utf-8"
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "unknown charset %q", charset)
	}
	name, _ := htmlindex.Name(enc)
	return &Decoder{
		policy:  policy,
		charset: name,
		enc:     enc,
		utf8:    name == "utf-8",
	}, nil
}

// Charset returns the canonical name of the decoded charset.
func (d *Decoder) Charset() string {
	return d.charset
}

// IsUTF8 reports whether the decoder reads UTF-8.
func (d *Decoder) IsUTF8() bool {
	return d.utf8
}

// Decode returns b as text. b is not retained.
func (d *Decoder) Decode(b []byte) (string, error) {
	if d.utf8 {
		if utf8.Valid(b) {
			return string(b), nil
		}
		if d.policy == DecodeStrict {
			return "", errors.Wrapf(errors.ErrMalformedEncoding, "invalid %s sequence in %q", d.charset, b)
		}
		out, err := unicode.UTF8.NewDecoder().Bytes(b)
		if err != nil {
			return "", errors.Wrap(errors.ErrMalformedEncoding, err.Error())
		}
		return string(out), nil
	}

	out, err := d.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(errors.ErrMalformedEncoding, "decoding %s: %v", d.charset, err)
	}
	if d.policy == DecodeStrict && strings.ContainsRune(string(out), utf8.RuneError) {
		return "", errors.Wrapf(errors.ErrMalformedEncoding, "unmappable %s sequence in %q", d.charset, b)
	}
	return string(out), nil
}
