// Package planner computes, per section and day, the contiguous period
// window that day-block placement must fill, per spec.md §4.3.
package planner

import (
	"sort"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
)

// Window is the inclusive [Start, End] period range a section should be
// filled into on one day.
type Window struct {
	Start int
	End   int
}

// Contains reports whether period lies within the window.
func (w Window) Contains(period int) bool {
	return period >= w.Start && period <= w.End
}

// Plan computes the per-day target period count and window for one
// section given its total required weekly periods, the working days, the
// periods-per-day bound, and any fixed slots already mandated for that
// section (by day).
//
// Targets are split as evenly as possible across the given days: base =
// R/len(days) with the first R mod len(days) days (in day order)
// receiving one extra period (R/6 and R mod 6 for a six-day week). Each day's
// default window follows the table in spec.md §4.3, then is grown (never
// shrunk) to cover every fixed period already pre-placed that day, and
// finally clipped to [1, periodsPerDay].
func Plan(days []string, periodsPerDay, totalRequired int, fixedByDay map[string][]int) map[string]Window {
	targets := splitEvenly(totalRequired, len(days))

	windows := make(map[string]Window, len(days))
	for i, day := range days {
		target := targets[i]
		w := defaultWindow(target, periodsPerDay)
		w = growToFixed(w, fixedByDay[day])
		w = clip(w, periodsPerDay)
		windows[day] = w
	}
	return windows
}

func splitEvenly(total, n int) []int {
	if n <= 0 {
		return nil
	}
	base := total / n
	rem := total % n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

func defaultWindow(target, periodsPerDay int) Window {
	switch {
	case target >= 6:
		end := target
		if end > periodsPerDay {
			end = periodsPerDay
		}
		return Window{Start: 1, End: end}
	case target == 5:
		return Window{Start: 2, End: 6}
	case target == 4:
		return Window{Start: 2, End: 5}
	case target <= 0:
		return Window{Start: 0, End: -1} // empty window: no periods required
	default: // 1..3
		return Window{Start: 2, End: 2 + target - 1}
	}
}

// growToFixed enlarges w, if necessary, so every fixed period is inside
// it. If the fixed periods lie wholly after the default window's end
// (e.g. an afternoon-only activity with a short theory load), the window
// is extended downward to period 2 and upward to the maximum fixed
// period, so the morning can still fill first while fixed coverage is
// guaranteed.
func growToFixed(w Window, fixed []int) Window {
	if len(fixed) == 0 {
		return w
	}
	sorted := append([]int(nil), fixed...)
	sort.Ints(sorted)
	minFixed, maxFixed := sorted[0], sorted[len(sorted)-1]

	start, end := w.Start, w.End
	if w.End < 0 {
		// empty window (no periods required otherwise): bound exactly to
		// the fixed periods.
		return Window{Start: minFixed, End: maxFixed}
	}
	if minFixed > end {
		// fixed slots lie wholly after the window: extend downward to 2
		// and upward to the max fixed period.
		if start > 2 {
			start = 2
		}
		end = maxFixed
	} else {
		if minFixed < start {
			start = minFixed
		}
		if maxFixed > end {
			end = maxFixed
		}
	}
	return Window{Start: start, End: end}
}

func clip(w Window, periodsPerDay int) Window {
	if w.End < 0 {
		return w
	}
	start, end := w.Start, w.End
	if start < 1 {
		start = 1
	}
	if end > periodsPerDay {
		end = periodsPerDay
	}
	if start > end {
		start, end = end, start
	}
	return Window{Start: start, End: end}
}

// TotalRequired sums hours_per_week across subjects, which is the R value
// spec.md §4.3 partitions across the week.
func TotalRequired(subjects []catalog.Subject) int {
	total := 0
	for _, s := range subjects {
		total += s.HoursPerWeek
	}
	return total
}
