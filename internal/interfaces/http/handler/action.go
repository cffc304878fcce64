package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	appledger "github.com/ledgerly/backend/internal/application/ledger"
	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/interfaces/http/middleware"
)

// ActionHandler serves the generic entity endpoint: one route,
// query-string dispatched CRUD over the closed logical-type set.
type ActionHandler struct {
	BaseHandler
	entities *appledger.EntityService
}

// NewActionHandler creates a new action handler
func NewActionHandler(entities *appledger.EntityService) *ActionHandler {
	return &ActionHandler{entities: entities}
}

// RegisterRoutes registers the action route. The action query parameter
// carries the verb; clients send whichever HTTP method matches it, so the
// same handler answers all four.
func (h *ActionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/action", h.Handle)
	rg.POST("/action", h.Handle)
	rg.PUT("/action", h.Handle)
	rg.DELETE("/action", h.Handle)
}

// Handle dispatches one action invocation.
func (h *ActionHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	result, err := h.entities.Handle(c.Request.Context(), appledger.Request{
		Type:      c.Query("type"),
		Action:    c.Query("action"),
		ID:        c.Query("id"),
		Page:      c.Query("page"),
		PageSize:  c.Query("pageSize"),
		UniqProps: c.Query("uniqProps"),
		Force:     c.Query("force") == "true",
		Owner:     middleware.GetJWTEmail(c),
		Body:      body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	switch result.Action {
	case ledger.ActionAdd, ledger.ActionAddBatch:
		h.Created(c, result.Payload)
	case ledger.ActionDelete:
		h.NoContent(c)
	default:
		h.Success(c, result.Payload)
	}
}
