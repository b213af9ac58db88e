package log

import (
	"sort"
	"time"
)

// Stats summarizes a sequence of events.
type Stats struct {
	Events   int
	Attempts int
	Outcomes map[Outcome]int
	// ErrorsByLayer counts error events by the stage that reported them.
	ErrorsByLayer map[Layer]int
	// MeanDuration is the mean duration of finished attempts.
	MeanDuration time.Duration
	First, Last  time.Time
}

// Summarize aggregates events into Stats.
func Summarize(events []Event) Stats {
	s := Stats{
		Outcomes:      make(map[Outcome]int),
		ErrorsByLayer: make(map[Layer]int),
	}
	var total time.Duration
	var finished int
	for _, e := range events {
		s.Events++
		if s.First.IsZero() || e.Timestamp.Before(s.First) {
			s.First = e.Timestamp
		}
		if e.Timestamp.After(s.Last) {
			s.Last = e.Timestamp
		}
		switch {
		case e.Attempt != nil:
			s.Outcomes[e.Attempt.Outcome]++
			if e.Attempt.Outcome == OutcomeStarted {
				s.Attempts++
			} else {
				finished++
				total += e.Attempt.Duration
			}
		case e.Error != nil:
			s.ErrorsByLayer[e.Error.Layer]++
		}
	}
	if finished > 0 {
		s.MeanDuration = total / time.Duration(finished)
	}
	return s
}

// Layers returns the layers that reported errors, in ascending order.
func (s Stats) Layers() []Layer {
	layers := make([]Layer, 0, len(s.ErrorsByLayer))
	for l := range s.ErrorsByLayer {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })
	return layers
}
