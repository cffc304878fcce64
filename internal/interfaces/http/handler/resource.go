package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	appledger "github.com/ledgerly/backend/internal/application/ledger"
	"github.com/ledgerly/backend/internal/application/resource"
	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/interfaces/http/middleware"
)

// ResourceHandler serves uploads and downloads for images and files:
// bytes live in object storage, rows go through the entity stores.
type ResourceHandler struct {
	BaseHandler
	resources *resource.Service
	entities  *appledger.EntityService
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resources *resource.Service, entities *appledger.EntityService) *ResourceHandler {
	return &ResourceHandler{resources: resources, entities: entities}
}

// RegisterRoutes registers the resource routes
func (h *ResourceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resource/:type", h.Upload)
	rg.GET("/resource/:type", h.List)
	rg.DELETE("/resource/:type/:id", h.Delete)
}

// Upload accepts a multipart request with a file part and an optional
// metadata JSON part, stores the bytes and upserts the row.
func (h *ResourceHandler) Upload(c *gin.Context) {
	kind, err := ledger.ParseEntityType(c.Param("type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file part is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}

	var metadata json.RawMessage
	if raw := c.PostForm("metadata"); raw != "" {
		metadata = json.RawMessage(raw)
	}

	item, err := h.resources.Upload(c.Request.Context(), resource.UploadInput{
		Kind:        kind,
		Owner:       middleware.GetJWTEmail(c),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		Metadata:    metadata,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List returns a paginated listing of the caller's resources, in the
// same envelope as the action endpoint.
func (h *ResourceHandler) List(c *gin.Context) {
	result, err := h.entities.Handle(c.Request.Context(), appledger.Request{
		Type:     c.Param("type"),
		Action:   string(ledger.ActionGet),
		Page:     c.Query("page"),
		PageSize: c.Query("pageSize"),
		Owner:    middleware.GetJWTEmail(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result.Payload)
}

// Delete removes the row and its stored object.
func (h *ResourceHandler) Delete(c *gin.Context) {
	kind, err := ledger.ParseEntityType(c.Param("type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.resources.Delete(c.Request.Context(), kind, middleware.GetJWTEmail(c), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
