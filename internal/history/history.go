// Package history keeps a log of spins and where they landed.
package history

import (
	"sort"
	"time"
)

// Record is one accepted spin.
type Record struct {
	Index     int
	Label     string
	From      float64
	To        float64
	Started   time.Time
	Ended     time.Time
	Cancelled bool
}

// Duration is the wall time between start and end, or zero if the spin has
// not finished.
func (r Record) Duration() time.Duration {
	if r.Started.IsZero() || r.Ended.IsZero() {
		return 0
	}
	return r.Ended.Sub(r.Started)
}

type Summary struct {
	Spins     int
	Landed    int
	Cancelled int
	// Counts maps a label to how many spins landed on it.
	Counts map[string]int
}

// History implements the spin listener methods, so it can be attached to a
// controller directly or through a fan-out listener.
type History struct {
	records []Record
	current *Record

	now func() time.Time
}

func New() *History {
	return &History{now: time.Now}
}

// WithClock replaces time.Now, for tests.
func (h *History) WithClock(now func() time.Time) *History {
	h.now = now
	return h
}

// Begin opens a record for a spin the controller accepted. An unfinished
// previous record is closed as cancelled.
func (h *History) Begin(index int, label string, from, to float64) {
	if h.current != nil {
		h.Cancel()
	}
	h.current = &Record{
		Index: index,
		Label: label,
		From:  from,
		To:    to,
	}
}

func (h *History) OnRotateStart() {
	if h.current != nil && h.current.Started.IsZero() {
		h.current.Started = h.now()
	}
}

func (h *History) OnRotateEnd(index int) {
	if h.current == nil {
		// Spin started outside Begin: still log where it landed.
		h.current = &Record{Index: index}
	}
	h.current.Index = index
	h.current.Ended = h.now()
	h.commit()
}

// Cancel closes the open record as cancelled.
func (h *History) Cancel() {
	if h.current == nil {
		return
	}
	h.current.Cancelled = true
	h.current.Ended = h.now()
	h.commit()
}

func (h *History) commit() {
	h.records = append(h.records, *h.current)
	h.current = nil
}

// Current returns the open record, if a spin is in flight.
func (h *History) Current() (Record, bool) {
	if h.current == nil {
		return Record{}, false
	}
	return *h.current, true
}

func (h *History) Records() []Record {
	return append([]Record(nil), h.records...)
}

// Last returns the most recent landed (not cancelled) record.
func (h *History) Last() (Record, bool) {
	for i := len(h.records) - 1; i >= 0; i-- {
		if !h.records[i].Cancelled {
			return h.records[i], true
		}
	}
	return Record{}, false
}

func (h *History) Summary() Summary {
	s := Summary{Counts: make(map[string]int)}
	for _, r := range h.records {
		s.Spins++
		if r.Cancelled {
			s.Cancelled++
			continue
		}
		s.Landed++
		s.Counts[r.Label]++
	}
	return s
}

// LabelCount is one row of Summary.Counts.
type LabelCount struct {
	Label string
	Count int
}

// Top returns label counts sorted by count descending, then label.
func (s Summary) Top(n int) []LabelCount {
	out := make([]LabelCount, 0, len(s.Counts))
	for l, c := range s.Counts {
		out = append(out, LabelCount{Label: l, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
