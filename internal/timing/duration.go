package timing

import (
	"fmt"
	"time"

	"valet-board-backend/internal/model"
)

// Elapsed computes the time spanned between start and end. A nil start yields
// zero. A present end is honored only when it is not before start; an end that
// precedes its start (clock skew between writers) falls back to now. The
// result is never negative.
func Elapsed(start, end *time.Time, now time.Time) time.Duration {
	if start == nil {
		return 0
	}
	effective := now
	if end != nil && !end.Before(*start) {
		effective = *end
	}
	d := effective.Sub(*start)
	if d < 0 {
		return 0
	}
	return d
}

// MasterDuration is the master cycle: arrival to staged-for-customer, or now
// while the ticket is still open. The active-phase start is preferred; tickets
// that were never explicitly activated fall back to their creation time.
func MasterDuration(t *model.Ticket, now time.Time) time.Duration {
	start := t.ActiveStartedAt
	if start == nil {
		created := t.CreatedAt
		start = &created
	}
	return Elapsed(start, t.WaitingClientAt, now)
}

// ValetDuration is the time keys spent with a named valet. The cycle ends at
// the earliest of keys reaching the machine, the car being staged for the
// customer, or completion. ok is false when keys never went to a valet.
func ValetDuration(t *model.Ticket, now time.Time) (time.Duration, bool) {
	if t.KeysWithValetAt == nil {
		return 0, false
	}
	end := earliest(t.KeysAtMachineAt, t.WaitingClientAt, t.CompletedAt)
	return Elapsed(t.KeysWithValetAt, end, now), true
}

func earliest(candidates ...*time.Time) *time.Time {
	var min *time.Time
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if min == nil || c.Before(*min) {
			min = c
		}
	}
	return min
}

// snapIncrement is the display granularity for timers. Snapping hides the
// jitter of frequent recomputation; it is presentational only and never feeds
// severity classification.
const snapIncrement = 15 * time.Second

// Snap rounds d to the nearest 15-second increment.
func Snap(d time.Duration) time.Duration {
	if d < 0 {
		d = 0
	}
	return d.Round(snapIncrement)
}

// FormatDuration renders a snapped duration as "<m>m <ss>s".
func FormatDuration(d time.Duration) string {
	s := int(Snap(d).Seconds())
	return fmt.Sprintf("%dm %02ds", s/60, s%60)
}

// FormatClock renders a duration for wide-range timer columns: "<h>h <m>m"
// above an hour, "<m>m <s>s" above a minute, plain seconds below that.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Seconds())
	switch {
	case s >= 3600:
		return fmt.Sprintf("%dh %dm", s/3600, (s%3600)/60)
	case s >= 60:
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
