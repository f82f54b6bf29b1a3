package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pricingdomain "github.com/roomlylabs/roomly/internal/pricing/domain"
	roomdomain "github.com/roomlylabs/roomly/internal/room/domain"
)

// AbortWithError maps domain errors onto HTTP statuses. Authoring defects
// (ambiguous overrides) deliberately surface as a generic pricing-unavailable
// message: they are not user-fixable and the details are already logged.
func AbortWithError(c *gin.Context, err error) {
	var (
		below     *pricingdomain.BelowMinimumStayError
		spanning  *pricingdomain.SpanningWindowError
		ambiguous *pricingdomain.AmbiguousOverrideError
	)

	switch {
	case errors.As(err, &below):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": below.Error()})
	case errors.As(err, &spanning):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": spanning.Error()})
	case errors.As(err, &ambiguous):
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "pricing unavailable"})
	case isNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isValidationError(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func invalidRequestError() error {
	return pricingdomain.ErrInvalidWindow
}

func isNotFound(err error) bool {
	switch {
	case errors.Is(err, pricingdomain.ErrRoomNotFound),
		errors.Is(err, roomdomain.ErrRoomNotFound),
		errors.Is(err, roomdomain.ErrOverrideNotFound),
		errors.Is(err, roomdomain.ErrRuleNotFound):
		return true
	}
	return false
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, pricingdomain.ErrInvalidWindow),
		errors.Is(err, pricingdomain.ErrInvalidGuests),
		errors.Is(err, pricingdomain.ErrInvalidRoomID),
		errors.Is(err, pricingdomain.ErrInvalidRule),
		errors.Is(err, pricingdomain.ErrInvalidKind),
		errors.Is(err, pricingdomain.ErrEmptyRateTable),
		errors.Is(err, pricingdomain.ErrTierOrder),
		errors.Is(err, roomdomain.ErrInvalidName),
		errors.Is(err, roomdomain.ErrInvalidCurrency):
		return true
	}
	return false
}
