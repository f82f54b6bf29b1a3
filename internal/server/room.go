package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	roomdomain "github.com/roomlylabs/roomly/internal/room/domain"
	"github.com/roomlylabs/roomly/pkg/db/pagination"
)

// @Summary      Create Room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body roomdomain.CreateRoomRequest true "Create Room Request"
// @Success      200  {object}  map[string]any
// @Router       /rooms [post]
func (s *Server) CreateRoom(c *gin.Context) {
	var req roomdomain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.CreateRoom(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Rooms
// @Tags         rooms
// @Produce      json
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Success      200  {object}  map[string]any
// @Router       /rooms [get]
func (s *Server) ListRooms(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.ListRooms(c.Request.Context(), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, resp.Rooms, &resp.PageInfo)
}

// @Summary      Get Room
// @Tags         rooms
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id} [get]
func (s *Server) GetRoom(c *gin.Context) {
	resp, err := s.roomSvc.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id      path  string                       true  "Room ID"
// @Param        request body  roomdomain.UpdateRoomRequest true  "Update Room Request"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id} [patch]
func (s *Server) UpdateRoom(c *gin.Context) {
	var req roomdomain.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.UpdateRoom(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Replace Rate Table
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id      path  string                             true  "Room ID"
// @Param        request body  roomdomain.ReplaceRateTableRequest true  "Rate Table"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id}/rate-table [put]
func (s *Server) ReplaceRateTable(c *gin.Context) {
	var req roomdomain.ReplaceRateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.ReplaceRateTable(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Add Pricing Override
// @Tags         overrides
// @Accept       json
// @Produce      json
// @Param        id      path  string                           true  "Room ID"
// @Param        request body  roomdomain.CreateOverrideRequest true  "Override"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id}/overrides [post]
func (s *Server) AddOverride(c *gin.Context) {
	var req roomdomain.CreateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.AddOverride(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Pricing Overrides
// @Tags         overrides
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id}/overrides [get]
func (s *Server) ListOverrides(c *gin.Context) {
	resp, err := s.roomSvc.ListOverrides(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Pricing Override
// @Tags         overrides
// @Param        id           path  string  true  "Room ID"
// @Param        override_id  path  string  true  "Override ID"
// @Success      204
// @Router       /rooms/{id}/overrides/{override_id} [delete]
func (s *Server) DeleteOverride(c *gin.Context) {
	err := s.roomSvc.DeleteOverride(c.Request.Context(), c.Param("id"), c.Param("override_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Add Modifier Rule
// @Tags         modifier-rules
// @Accept       json
// @Produce      json
// @Param        id      path  string                       true  "Room ID"
// @Param        request body  roomdomain.CreateRuleRequest true  "Rule"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id}/modifier-rules [post]
func (s *Server) AddRule(c *gin.Context) {
	var req roomdomain.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.AddRule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      List Modifier Rules
// @Tags         modifier-rules
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  map[string]any
// @Router       /rooms/{id}/modifier-rules [get]
func (s *Server) ListRules(c *gin.Context) {
	resp, err := s.roomSvc.ListRules(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Modifier Rule
// @Tags         modifier-rules
// @Param        id       path  string  true  "Room ID"
// @Param        rule_id  path  string  true  "Rule ID"
// @Success      204
// @Router       /rooms/{id}/modifier-rules/{rule_id} [delete]
func (s *Server) DeleteRule(c *gin.Context) {
	err := s.roomSvc.DeleteRule(c.Request.Context(), c.Param("id"), c.Param("rule_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
