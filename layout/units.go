package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for length and line-height.
// The layout engine works in device pixels at 96 dpi; author-specified
// values keep their unit until resolved here.

// Unit represents the original unit of a length value as written by the
// document author.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitPX               // device pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
)

// Conversion constants at 96 dpi.
const (
	PxPerIn = 96.0
	PxPerPt = PxPerIn / 72.0
	PxPerMm = PxPerIn / 25.4
)

// String returns the short unit suffix.
func (u Unit) String() string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPx converts this length to device pixels. Unit-less values pass through
// numerically.
func (l Length) ToPx() float64 {
	switch l.Unit {
	case UnitPX, UnitNone:
		return l.Value
	case UnitPT:
		return l.Value * PxPerPt
	case UnitMM:
		return l.Value * PxPerMm
	case UnitCM:
		return l.Value * 10 * PxPerMm
	case UnitIN:
		return l.Value * PxPerIn
	default:
		return l.Value
	}
}

// ToPt converts this length to points, the unit font systems expect.
func (l Length) ToPt() float64 { return l.ToPx() / PxPerPt }

var unitSuffixes = []struct {
	s string
	u Unit
}{
	{"px", UnitPX},
	{"pt", UnitPT},
	{"mm", UnitMM},
	{"cm", UnitCM},
	{"in", UnitIN},
}

// ParseLength parses a length string such as "12pt", "4.5mm" or "900px",
// preserving its unit. Bare numbers parse as unit-less.
func ParseLength(value string) (Length, bool) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// LineHeightKind distinguishes factor-based vs absolute line-height.
type LineHeightKind int

const (
	LineHeightDefault LineHeightKind = iota
	LineHeightFactor
	LineHeightAbsolute
)

// defaultLineHeightFactor applies when a style specifies no line-height.
const defaultLineHeightFactor = 1.4

// LineHeightSpec preserves author intent: either a factor of the font size
// (e.g. "1.2x") or an absolute length (e.g. "18pt").
type LineHeightSpec struct {
	Kind   LineHeightKind
	Factor float64
	Len    Length
}

// ParseLineHeight parses "1.4x" as a factor and any length as absolute.
func ParseLineHeight(value string) (LineHeightSpec, bool) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return LineHeightSpec{}, false
	}
	if strings.HasSuffix(v, "x") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, false
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, true
	}
	l, ok := ParseLength(v)
	if !ok {
		return LineHeightSpec{}, false
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, true
}

// Resolve computes the absolute line height in pixels for the given font
// size (in pixels).
func (s LineHeightSpec) Resolve(fontSizePx float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSizePx * s.Factor
	case LineHeightAbsolute:
		return s.Len.ToPx()
	default:
		return fontSizePx * defaultLineHeightFactor
	}
}
