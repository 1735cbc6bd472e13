package entropy

// Fixed replays a scripted sequence of floats. Intn maps the next float onto
// [0, n). When the script runs out it repeats the last value (or 0.5 when
// empty). Used by tests that need an exact roll.
type Fixed struct {
	Values []float64
	pos    int
}

// NewFixed creates a scripted source.
func NewFixed(values ...float64) *Fixed {
	return &Fixed{Values: values}
}

func (f *Fixed) next() float64 {
	if len(f.Values) == 0 {
		return 0.5
	}
	if f.pos >= len(f.Values) {
		return f.Values[len(f.Values)-1]
	}
	v := f.Values[f.pos]
	f.pos++
	return v
}

func (f *Fixed) Float64() float64 {
	return f.next()
}

func (f *Fixed) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(f.next() * float64(n))
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
