package calculator

// rollingSum keeps the sum and sum of squares of a fixed window in O(1) per
// value. The sums are rebuilt from the window once per full turn so rounding
// error cannot accumulate over long series.
type rollingSum struct {
	window    *Window[float64]
	sum       float64
	sumSq     float64
	evictions int
}

func newRollingSum(period int) rollingSum {
	return rollingSum{window: NewWindow[float64](period)}
}

func (r *rollingSum) push(v float64) {
	if old, ok := r.window.Push(v); ok {
		r.evictions++
		if r.evictions%r.window.Cap() == 0 {
			r.rebuild()
			return
		}
		r.sum -= old
		r.sumSq -= old * old
	}
	r.sum += v
	r.sumSq += v * v
}

func (r *rollingSum) rebuild() {
	r.sum, r.sumSq = 0, 0
	for i := 0; i < r.window.Len(); i++ {
		v := r.window.At(i)
		r.sum += v
		r.sumSq += v * v
	}
}

func (r *rollingSum) mean() float64 {
	if r.window.Len() == 0 {
		return 0
	}
	return r.sum / float64(r.window.Len())
}

// variance is the population variance of the window, never negative.
func (r *rollingSum) variance() float64 {
	n := r.window.Len()
	if n == 0 {
		return 0
	}
	m := r.mean()
	v := r.sumSq/float64(n) - m*m
	if v < 0 {
		return 0
	}
	return v
}
