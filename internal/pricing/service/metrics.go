package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roomlylabs/roomly/internal/pricing/domain"
)

var (
	quotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomly",
		Subsystem: "pricing",
		Name:      "quotes_total",
		Help:      "Quote computations by outcome.",
	}, []string{"outcome"})

	quotesClampedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roomly",
		Subsystem: "pricing",
		Name:      "quotes_clamped_total",
		Help:      "Quotes whose discounts were clamped to keep the final price non-negative.",
	})
)

func observeQuote(err error) {
	quotesTotal.WithLabelValues(quoteOutcome(err)).Inc()
}

func quoteOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var (
		below     *domain.BelowMinimumStayError
		spanning  *domain.SpanningWindowError
		ambiguous *domain.AmbiguousOverrideError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidGuests),
		errors.Is(err, domain.ErrInvalidRoomID):
		return "invalid_request"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.As(err, &below):
		return "below_minimum_stay"
	case errors.As(err, &spanning):
		return "spanning_window"
	case errors.As(err, &ambiguous):
		return "ambiguous_override"
	}
	return "error"
}
