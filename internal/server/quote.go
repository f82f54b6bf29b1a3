package server

import (
	"github.com/gin-gonic/gin"

	pricingdomain "github.com/roomlylabs/roomly/internal/pricing/domain"
)

// @Summary      Quote a booking
// @Description  Compute the itemized price for a room, window and guest count
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Room ID"
// @Param        request  body  pricingdomain.QuoteArgs   true  "Quote Request"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id}/quote [post]
func (s *Server) QuoteRoom(c *gin.Context) {
	var args pricingdomain.QuoteArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	args.RoomID = c.Param("id")

	quote, err := s.pricingSvc.Quote(c.Request.Context(), args)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, quote)
}
