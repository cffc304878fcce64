package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly/backend/internal/application/importer"
)

// StatementHandler parses uploaded bank statement exports into record
// candidates. Parsing only: saving candidates goes through the batch
// add action.
type StatementHandler struct {
	BaseHandler
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler() *StatementHandler {
	return &StatementHandler{}
}

// RegisterRoutes registers the statement routes
func (h *StatementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/statements/tangerine", h.Tangerine)
	rg.POST("/statements/rbc", h.RBC)
	rg.POST("/statements/txt", h.TangerineTXT)
}

// Tangerine parses a Tangerine CSV export. An optional bank form field
// overrides the bank name stamped on the candidates.
func (h *StatementHandler) Tangerine(c *gin.Context) {
	data, ok := h.readStatementFile(c)
	if !ok {
		return
	}
	result, err := importer.ParseTangerineCSV(data, c.PostForm("bank"))
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.Success(c, result)
}

// RBC parses an RBC online-banking HTML export.
func (h *StatementHandler) RBC(c *gin.Context) {
	data, ok := h.readStatementFile(c)
	if !ok {
		return
	}
	result, err := importer.ParseRBCHTML(data)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.Success(c, result)
}

// TangerineTXT parses a plain-text Tangerine statement export.
func (h *StatementHandler) TangerineTXT(c *gin.Context) {
	data, ok := h.readStatementFile(c)
	if !ok {
		return
	}
	result, err := importer.ParseTangerineTXT(data, time.Now().UTC())
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.Success(c, result)
}

func (h *StatementHandler) readStatementFile(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file part is required")
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to open uploaded file")
		return nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return nil, false
	}
	return data, true
}
