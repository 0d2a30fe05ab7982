package chart

import (
	"fmt"
	"math"
)

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B float64
}

// BaseBarColor is the colour of a single-member bar.
var BaseBarColor = RGB{R: 155, G: 173, B: 255}

const darker = 0.7

// Darker returns c darkened k steps.
func (c RGB) Darker(k float64) RGB {
	f := math.Pow(darker, k)
	return RGB{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	ch := func(v float64) int {
		return int(math.Max(0, math.Min(255, math.Round(v))))
	}
	return fmt.Sprintf("#%02x%02x%02x", ch(c.R), ch(c.G), ch(c.B))
}

// Sequential maps member counts in [1, maxCount] onto progressively darker shades
// of BaseBarColor.
type Sequential struct {
	lo, hi float64
}

// CountScale returns the bar colour scale for groups of up to maxCount members.
func CountScale(maxCount int) Sequential {
	return Sequential{lo: 1, hi: float64(maxCount)}
}

// T returns the interpolation parameter for count. A degenerate domain yields 0.5.
func (s Sequential) T(count int) float64 {
	if s.hi == s.lo {
		return 0.5
	}
	return (float64(count) - s.lo) / (s.hi - s.lo)
}

// Color returns the bar colour for count as #rrggbb.
func (s Sequential) Color(count int) string {
	return BaseBarColor.Darker(s.T(count)).Hex()
}
