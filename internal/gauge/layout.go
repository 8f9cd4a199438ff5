// Package gauge maps a balance and a credit limit onto a five-segment track.
//
// The track is split into five equal fifths. The middle three fifths (the
// span) represent the range from nothing owed up to the credit limit; the
// outer fifths leave room for markers that fall outside that range.
package gauge

import "math"

// AmberThreshold is the balance/credit ratio above which an in-range fill
// turns red.
const AmberThreshold = 0.8

// FillColor is the colour role of the filled bar.
type FillColor int

const (
	FillNone FillColor = iota
	FillGreen
	FillAmber
	FillRed
)

func (c FillColor) String() string {
	switch c {
	case FillGreen:
		return "green"
	case FillAmber:
		return "amber"
	case FillRed:
		return "red"
	default:
		return "none"
	}
}

// Hex returns the bar colour used by the HTML gauge, or "" for FillNone.
func (c FillColor) Hex() string {
	switch c {
	case FillGreen:
		return "#33FF00"
	case FillAmber:
		return "#FF9900"
	case FillRed:
		return "#FF0000"
	default:
		return ""
	}
}

// MarshalText encodes the colour by name.
func (c FillColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Case identifies which branch of the layout produced an Output.
type Case int

const (
	CaseEmpty Case = iota
	CaseInRange
	CaseInCredit
	CaseOverLimit
)

func (c Case) String() string {
	switch c {
	case CaseInRange:
		return "in_range"
	case CaseInCredit:
		return "in_credit"
	case CaseOverLimit:
		return "over_limit"
	default:
		return "empty"
	}
}

// MarshalText encodes the case by name.
func (c Case) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Input is one render pass worth of gauge inputs.
type Input struct {
	Balance    float64 `json:"balance"`
	Credit     float64 `json:"credit"`
	TrackWidth float64 `json:"track_width"`
	Padding    float64 `json:"padding"`
}

// Geometry holds the segment sizes for one render pass. Fifth and Span are
// always derived together by NewGeometry.
type Geometry struct {
	Fifth float64 `json:"fifth"`
	Span  float64 `json:"span"` // three fifths: the 0..credit range
}

// NewGeometry derives the segment sizes for a track.
func NewGeometry(trackWidth, padding float64) Geometry {
	fifth := (trackWidth - padding*2) / 5
	return Geometry{Fifth: fifth, Span: fifth * 3}
}

// Output is the computed layout. Positions are left offsets in pixels from
// the track's left edge.
type Output struct {
	Geometry
	ZeroLeft    float64   `json:"zero_left"`
	MaxLeft     float64   `json:"max_left"`
	ActualLeft  float64   `json:"actual_left"`
	ActualWidth float64   `json:"actual_width"`
	Fill        FillColor `json:"fill"`
	Case        Case      `json:"case"`
}

// BarLeft is where the filled bar starts. The bar is anchored at the start of
// the second fifth in every case; only its width varies.
func (o Output) BarLeft() float64 {
	return o.Fifth
}

// ComputeLayout converts a balance and credit limit into marker positions.
// It never fails; nonsensical inputs such as a negative credit limit produce
// whatever the formulas yield.
func ComputeLayout(in Input) Output {
	g := NewGeometry(in.TrackWidth, in.Padding)
	b, c := in.Balance, in.Credit

	switch {
	case b == 0 && c == 0:
		return Output{
			Geometry:   g,
			ZeroLeft:   g.Fifth,
			MaxLeft:    g.Fifth,
			ActualLeft: g.Fifth,
			Fill:       FillNone,
			Case:       CaseEmpty,
		}

	case b >= 0 && b <= c:
		ratio := b / c
		fill := FillAmber
		if ratio > AmberThreshold {
			fill = FillRed
		}
		return Output{
			Geometry:    g,
			ZeroLeft:    g.Fifth,
			MaxLeft:     g.Fifth * 4,
			ActualLeft:  g.Fifth + g.Span*ratio,
			ActualWidth: g.Span * ratio,
			Fill:        fill,
			Case:        CaseInRange,
		}

	case b < 0:
		owed := math.Abs(b)
		ratio := owed / (owed + c)
		// The balance tick stays at the bar start; only the bar width and the
		// zero marker move.
		return Output{
			Geometry:    g,
			ZeroLeft:    g.Span*ratio + g.Fifth,
			MaxLeft:     g.Fifth * 4,
			ActualLeft:  g.Fifth,
			ActualWidth: g.Span * ratio,
			Fill:        FillGreen,
			Case:        CaseInCredit,
		}

	default:
		return Output{
			Geometry:    g,
			ZeroLeft:    g.Fifth,
			MaxLeft:     g.Fifth + g.Span*(c/b),
			ActualLeft:  g.Fifth * 4,
			ActualWidth: g.Span,
			Fill:        FillRed,
			Case:        CaseOverLimit,
		}
	}
}
