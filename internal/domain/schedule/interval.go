package schedule

import (
	"errors"
	"iter"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Span returns [start, start+d).
func Span(start time.Time, d time.Duration) (Interval, error) {
	return NewInterval(start, start.Add(d))
}

func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

func (iv Interval) IsEmpty() bool { return !iv.Start.Before(iv.End) }

// Overlaps reports whether the two half-open intervals share any instant.
// Touching intervals (one ends where the other starts) do not overlap.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

func (iv Interval) Contains(o Interval) bool {
	return !o.Start.Before(iv.Start) && !o.End.After(iv.End)
}

func (iv Interval) Equal(o Interval) bool {
	return iv.Start.Equal(o.Start) && iv.End.Equal(o.End)
}

// Slots enumerates consecutive, non-overlapping intervals of length step that
// fit entirely inside window, starting at window.Start. The sequence is lazy
// and recomputed on every range.
func Slots(window Interval, step time.Duration) iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		if step <= 0 || window.IsEmpty() {
			return
		}
		for cursor := window.Start; !cursor.Add(step).After(window.End); cursor = cursor.Add(step) {
			if !yield(Interval{Start: cursor, End: cursor.Add(step)}) {
				return
			}
		}
	}
}
