// Package chart holds the geometry and text of the popularity bar chart: scales,
// colours, legend ticks, feature bars and tooltips. Nothing in here draws; the
// terminal UI and the exporters consume these values.
package chart

// Band maps an ordered set of keys onto evenly spaced bands of a continuous range,
// with the same padding and alignment rules as a d3 band scale.
type Band struct {
	index     map[string]int
	starts    []float64
	step      float64
	bandwidth float64
}

// NewBand lays keys out over [r0, r1]. When r1 < r0 the first key lands at the high
// end of the range. padding is used for both the inner and the outer padding.
func NewBand(keys []string, r0, r1, padding float64) *Band {
	b := &Band{index: make(map[string]int, len(keys))}
	for _, k := range keys {
		if _, dup := b.index[k]; dup {
			continue
		}
		b.index[k] = len(b.index)
	}
	n := float64(len(b.index))

	reverse := r1 < r0
	start, stop := r0, r1
	if reverse {
		start, stop = r1, r0
	}

	b.step = (stop - start) / max(1, n-padding+padding*2)
	start += (stop - start - b.step*(n-padding)) * 0.5
	b.bandwidth = b.step * (1 - padding)

	b.starts = make([]float64, len(b.index))
	for i := range b.starts {
		b.starts[i] = start + b.step*float64(i)
	}
	if reverse {
		for i, j := 0, len(b.starts)-1; i < j; i, j = i+1, j-1 {
			b.starts[i], b.starts[j] = b.starts[j], b.starts[i]
		}
	}
	return b
}

// Position returns the start of key's band.
func (b *Band) Position(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.starts[i], true
}

// Bandwidth is the width of every band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// Linear is a continuous linear scale.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear maps the domain [d0, d1] onto the range [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// PopularityAxis is the y scale of the chart: [-1, maxMean] onto [height, 0].
func PopularityAxis(maxMean, height float64) Linear {
	return NewLinear(-1, maxMean, height, 0)
}

// Scale maps v into the range.
func (l Linear) Scale(v float64) float64 {
	if l.d1 == l.d0 {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}
