// Package proxy fetches stored file links server-side so the browser
// never talks to the storage backend directly.
package proxy

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/infrastructure/config"
)

// Proxy errors surfaced to the handler.
var (
	ErrInvalidURL      = shared.NewDomainError("INVALID_URL", "The url parameter is missing or not an absolute http(s) URL")
	ErrHostNotAllowed  = shared.NewDomainError("INVALID_URL", "The requested host is not allowed")
	ErrUpstreamFailure = shared.NewDomainError("UPSTREAM_FAILURE", "The upstream fetch failed")
)

// Result is one fetched upstream response.
type Result struct {
	Data        []byte
	ContentType string
}

// Service fetches allowlisted URLs with a bounded client.
type Service struct {
	client       *resty.Client
	allowedHosts map[string]bool
	maxBodySize  int64
	logger       *zap.Logger
}

// NewService creates a new proxy Service
func NewService(cfg config.ProxyConfig, logger *zap.Logger) *Service {
	allowed := make(map[string]bool, len(cfg.AllowedHosts))
	for _, h := range cfg.AllowedHosts {
		allowed[strings.ToLower(h)] = true
	}

	// Responses are read manually so the size cap applies while streaming,
	// before the body is buffered.
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRedirectPolicy(resty.NoRedirectPolicy()).
		SetDoNotParseResponse(true)

	return &Service{
		client:       client,
		allowedHosts: allowed,
		maxBodySize:  cfg.MaxBodySize,
		logger:       logger,
	}
}

// Fetch retrieves the URL and returns its bytes and content type.
func (s *Service) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	if !s.allowedHosts[strings.ToLower(u.Hostname())] {
		return nil, ErrHostNotAllowed
	}

	resp, err := s.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		s.logger.Warn("proxy fetch failed", zap.String("host", u.Hostname()), zap.Error(err))
		return nil, ErrUpstreamFailure
	}
	raw := resp.RawBody()
	defer func() { _ = raw.Close() }()

	if resp.IsError() {
		s.logger.Warn("proxy upstream returned error",
			zap.String("host", u.Hostname()),
			zap.Int("status", resp.StatusCode()))
		return nil, ErrUpstreamFailure
	}

	reader := io.Reader(raw)
	if s.maxBodySize > 0 {
		reader = io.LimitReader(raw, s.maxBodySize+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		s.logger.Warn("proxy body read failed", zap.String("host", u.Hostname()), zap.Error(err))
		return nil, ErrUpstreamFailure
	}
	if s.maxBodySize > 0 && int64(len(body)) > s.maxBodySize {
		s.logger.Warn("proxy upstream body exceeds limit",
			zap.String("host", u.Hostname()),
			zap.Int64("limit", s.maxBodySize))
		return nil, ErrUpstreamFailure
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Result{Data: body, ContentType: contentType}, nil
}
