package domain

import "time"

// TimeWindow is a half-open interval [StartsAt, EndsAt).
type TimeWindow struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (w TimeWindow) Validate() error {
	if w.StartsAt.IsZero() || w.EndsAt.IsZero() {
		return ErrInvalidWindow
	}
	if !w.StartsAt.Before(w.EndsAt) {
		return ErrInvalidWindow
	}
	return nil
}

// RawMinutes is the exact wall-clock length of the window in minutes,
// rounded up to the next whole minute.
func (w TimeWindow) RawMinutes() int64 {
	d := w.EndsAt.Sub(w.StartsAt)
	mins := int64(d / time.Minute)
	if d%time.Minute != 0 {
		mins++
	}
	return mins
}

// BillableMinutes rounds the raw duration up to the room's slot granularity.
// A zero or negative granularity means whole-hour billing.
func (w TimeWindow) BillableMinutes(granularityMinutes int) int64 {
	g := int64(granularityMinutes)
	if g <= 0 {
		g = 60
	}
	raw := w.RawMinutes()
	if rem := raw % g; rem != 0 {
		raw += g - rem
	}
	return raw
}
