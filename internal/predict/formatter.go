package predict

import (
	"errors"
	"fmt"
	"math"
)

// ErrShape is returned when the prediction series does not line up with
// the hour series. A contract violation, fatal to the request.
var ErrShape = errors.New("prediction shape mismatch")

// Result pairs one hour label with its predicted ride count.
type Result struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// Results is the per-hour prediction list plus the day total.
type Results struct {
	Hours []Result `json:"results"`
	Sum   int      `json:"sum"`
}

// Counts returns just the integer counts, in hour order.
func (r Results) Counts() []int {
	counts := make([]int, len(r.Hours))
	for i, h := range r.Hours {
		counts[i] = h.Count
	}
	return counts
}

// Format shapes raw model output into display counts: negatives are
// clipped to zero, values rounded to the nearest integer, each paired
// with an "H : 00" hour label. Pure, no side effects.
func Format(hours []int, raw []float64) (Results, error) {
	if len(hours) != len(raw) {
		return Results{}, fmt.Errorf("%w: %d hours vs %d predictions", ErrShape, len(hours), len(raw))
	}

	out := Results{Hours: make([]Result, len(hours))}
	for i, hour := range hours {
		v := raw[i]
		if v < 0 {
			v = 0
		}
		count := int(math.Round(v))
		out.Hours[i] = Result{
			Hour:  fmt.Sprintf(" %d : 00", hour),
			Count: count,
		}
		out.Sum += count
	}
	return out, nil
}
