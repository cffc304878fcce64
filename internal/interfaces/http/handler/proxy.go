package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly/backend/internal/application/proxy"
)

// ProxyHandler fetches stored file links server-side and relays the
// bytes to the browser.
type ProxyHandler struct {
	BaseHandler
	proxy *proxy.Service
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(proxy *proxy.Service) *ProxyHandler {
	return &ProxyHandler{proxy: proxy}
}

// RegisterRoutes registers the proxy route
func (h *ProxyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/proxy", h.Fetch)
}

// Fetch retrieves the allowlisted URL and relays body and content type.
func (h *ProxyHandler) Fetch(c *gin.Context) {
	result, err := h.proxy.Fetch(c.Request.Context(), c.Query("url"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
