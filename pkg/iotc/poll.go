package iotc

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Status poll schedule defaults.
const (
	// DefaultPollInitial is the first wait between status polls.
	DefaultPollInitial = 1 * time.Second

	// DefaultPollMax caps the wait between status polls.
	DefaultPollMax = 16 * time.Second

	pollMultiplier = 2.0
	pollJitter     = 0.25
)

// pollSchedule spaces operation status polls. A Retry-After hint from the
// service takes precedence over the exponential value.
type pollSchedule struct {
	current time.Duration
	max     time.Duration
	jitter  float64
	rng     *rand.Rand
}

func newPollSchedule(initial, max time.Duration) *pollSchedule {
	if initial <= 0 {
		initial = DefaultPollInitial
	}
	if max < initial {
		max = initial
	}
	return &pollSchedule{
		current: initial,
		max:     max,
		jitter:  pollJitter,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// next returns the wait before the next poll and advances the schedule.
func (p *pollSchedule) next(hint time.Duration) time.Duration {
	if hint > 0 {
		if hint > p.max {
			return p.max
		}
		return hint
	}

	delay := p.current
	if p.jitter > 0 {
		delay += time.Duration(float64(delay) * p.jitter * p.rng.Float64())
	}

	advanced := time.Duration(float64(p.current) * pollMultiplier)
	if advanced > p.max {
		advanced = p.max
	}
	p.current = advanced

	if delay > p.max {
		delay = p.max
	}
	return delay
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
