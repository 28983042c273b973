package placer

import (
	"sort"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
)

// swrrState is one section's Smooth Weighted Round-Robin bookkeeping, per
// spec.md §4.4. All arithmetic is integer, per design note §9 ("Selector
// state is cyclic-free"), so results are reproducible across platforms.
type swrrState struct {
	weight    map[string]int
	remaining map[string]int
	current   map[string]int
	order     []string // stable iteration order, lexical on subject code
}

func newSWRR(subjects []catalog.Subject, alreadyPlaced func(code string) int) *swrrState {
	s := &swrrState{
		weight:    make(map[string]int, len(subjects)),
		remaining: make(map[string]int, len(subjects)),
		current:   make(map[string]int, len(subjects)),
	}
	for _, subj := range subjects {
		s.weight[subj.Code] = subj.HoursPerWeek
		s.remaining[subj.Code] = subj.HoursPerWeek - alreadyPlaced(subj.Code)
		s.current[subj.Code] = 0
		s.order = append(s.order, subj.Code)
	}
	sort.Strings(s.order)
	return s
}

// active returns the subject codes with enough remaining hours to satisfy
// duration, i.e. the pool spec.md step 1 considers this tick.
func (s *swrrState) active(durationOf func(code string) int) []string {
	var codes []string
	for _, code := range s.order {
		if s.remaining[code] >= durationOf(code) {
			codes = append(codes, code)
		}
	}
	return codes
}

// choose scores the survivors (already feasibility-filtered by the
// caller) and returns the subject code with the highest current+weight
// score, tie-broken lexically. Returns "" if survivors is empty.
func (s *swrrState) choose(survivors []string) string {
	if len(survivors) == 0 {
		return ""
	}
	best := survivors[0]
	bestScore := s.current[best] + s.weight[best]
	for _, code := range survivors[1:] {
		score := s.current[code] + s.weight[code]
		if score > bestScore || (score == bestScore && code < best) {
			best = code
			bestScore = score
		}
	}
	return best
}

// tick applies the SWRR accumulator update for the given active pool and
// the chosen subject (spec.md §4.4 step 5): every active subject accrues
// its weight, then the chosen subject is debited by the sum of all active
// weights.
func (s *swrrState) tick(active []string, chosen string) {
	var sumWeights int
	for _, code := range active {
		s.current[code] += s.weight[code]
		sumWeights += s.weight[code]
	}
	if chosen != "" {
		s.current[chosen] -= sumWeights
	}
}

// place records that duration hours of chosen were successfully placed.
func (s *swrrState) place(chosen string, duration int) {
	s.remaining[chosen] -= duration
}

// unmet returns the subject codes still carrying remaining hours, for the
// HoursUnmet error path.
func (s *swrrState) unmet() []string {
	var codes []string
	for _, code := range s.order {
		if s.remaining[code] > 0 {
			codes = append(codes, code)
		}
	}
	return codes
}
