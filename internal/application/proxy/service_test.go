package proxy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/infrastructure/config"
)

func newTestProxy(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	svc := NewService(config.ProxyConfig{
		AllowedHosts: []string{u.Hostname()},
		Timeout:      5 * time.Second,
		MaxBodySize:  1 << 20,
	}, zap.NewNop())
	return svc, srv
}

func TestFetchAllowedHost(t *testing.T) {
	svc, srv := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 0x50})
	})

	res, err := svc.Fetch(context.Background(), srv.URL+"/images/r.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, []byte{0x89, 0x50}, res.Data)
}

func TestFetchRejectsBadURL(t *testing.T) {
	svc, _ := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, raw := range []string{"", "not-a-url", "ftp://host/file", "//missing-scheme"} {
		_, err := svc.Fetch(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestFetchRejectsUnknownHost(t *testing.T) {
	svc, _ := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := svc.Fetch(context.Background(), "http://evil.example.com/steal")
	assert.ErrorIs(t, err, ErrHostNotAllowed)
}

func TestFetchUpstreamError(t *testing.T) {
	svc, srv := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := svc.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrUpstreamFailure)
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 256))
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	svc := NewService(config.ProxyConfig{
		AllowedHosts: []string{u.Hostname()},
		Timeout:      5 * time.Second,
		MaxBodySize:  64,
	}, zap.NewNop())

	_, err = svc.Fetch(context.Background(), srv.URL+"/huge")
	assert.ErrorIs(t, err, ErrUpstreamFailure)
}

func TestFetchDefaultsContentType(t *testing.T) {
	svc, srv := newTestProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte("raw"))
	})

	res, err := svc.Fetch(context.Background(), srv.URL+"/blob")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", res.ContentType)
}
