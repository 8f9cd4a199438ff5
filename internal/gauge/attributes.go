package gauge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPadding is the track inset used when no padding is given.
const DefaultPadding = 20

var (
	// ErrInvalidAttribute is returned when an attribute value is not a number.
	ErrInvalidAttribute = errors.New("invalid attribute value")
	// ErrUnknownAttribute is returned for names outside ObservedAttributes.
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// ObservedAttributes are the attribute names a gauge reacts to.
var ObservedAttributes = []string{"balance", "credit", "padding"}

// Attributes are the externally supplied display inputs, already defaulted.
type Attributes struct {
	Balance float64 `json:"balance" toml:"balance"`
	Credit  float64 `json:"credit" toml:"credit"`
	Padding float64 `json:"padding" toml:"padding"`
}

// DefaultAttributes returns balance 0, credit 0 and padding 20.
func DefaultAttributes() Attributes {
	return Attributes{Padding: DefaultPadding}
}

// ParseAttributes builds Attributes from raw string values. Missing keys keep
// their defaults; an empty value counts as zero. Unknown keys are ignored.
func ParseAttributes(raw map[string]string) (Attributes, error) {
	attrs := DefaultAttributes()
	for _, name := range ObservedAttributes {
		v, ok := raw[name]
		if !ok {
			continue
		}
		if err := attrs.Set(name, v); err != nil {
			return DefaultAttributes(), err
		}
	}
	return attrs, nil
}

// Set applies a single attribute change.
func (a *Attributes) Set(name, value string) error {
	var dst *float64
	switch name {
	case "balance":
		dst = &a.Balance
	case "credit":
		dst = &a.Credit
	case "padding":
		dst = &a.Padding
	default:
		return fmt.Errorf("%q: %w", name, ErrUnknownAttribute)
	}

	n, err := parseNumber(value)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", name, value, err)
	}
	*dst = n
	return nil
}

// Input pairs the attributes with a track width for one render pass.
func (a Attributes) Input(trackWidth float64) Input {
	return Input{
		Balance:    a.Balance,
		Credit:     a.Credit,
		TrackWidth: trackWidth,
		Padding:    a.Padding,
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAttribute
	}
	return n, nil
}
