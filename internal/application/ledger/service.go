package ledger

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/infrastructure/persistence"
)

// Request carries one action invocation, straight off the query string.
// Pagination values stay raw strings here so the service owns their
// validation.
type Request struct {
	Type      string
	Action    string
	ID        string
	Page      string
	PageSize  string
	UniqProps string // comma-separated JSON field names
	Force     bool
	Owner     string // caller email from the access token
	Body      json.RawMessage
}

// PageInfo describes one page of a listing.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// PageEnvelope is the get response shape: the page of items plus its
// pagination block.
type PageEnvelope struct {
	Items      any      `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

// Result is the outcome of a dispatched action. Payload is nil for
// deletes.
type Result struct {
	Action  ledger.Action
	Payload any
}

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// EntityService validates action requests and dispatches them to the
// per-type stores.
type EntityService struct {
	stores *persistence.Registry
	logger *zap.Logger
}

// NewEntityService creates a new EntityService
func NewEntityService(stores *persistence.Registry, logger *zap.Logger) *EntityService {
	return &EntityService{stores: stores, logger: logger}
}

// Handle validates and executes one action request.
func (s *EntityService) Handle(ctx context.Context, req Request) (*Result, error) {
	entityType, err := ledger.ParseEntityType(req.Type)
	if err != nil {
		return nil, err
	}
	action, err := ledger.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}
	store := s.stores.Store(entityType)

	switch action {
	case ledger.ActionGet:
		page, pageSize, err := parsePagination(req.Page, req.PageSize)
		if err != nil {
			return nil, err
		}
		items, total, err := store.List(ctx, req.Owner, page, pageSize)
		if err != nil {
			return nil, err
		}
		return &Result{Action: action, Payload: PageEnvelope{
			Items: items,
			Pagination: PageInfo{
				Page:       page,
				PageSize:   pageSize,
				TotalItems: total,
				TotalPages: totalPages(total, pageSize),
			},
		}}, nil

	case ledger.ActionAdd:
		uniqProps := parseUniqProps(req.UniqProps)
		if len(uniqProps) == 0 {
			uniqProps = []string{"id"}
		}
		item, err := store.Upsert(ctx, req.Owner, req.Body, uniqProps)
		if err != nil {
			return nil, err
		}
		return &Result{Action: action, Payload: item}, nil

	case ledger.ActionAddBatch:
		var bodies []json.RawMessage
		if err := json.Unmarshal(req.Body, &bodies); err != nil {
			return nil, shared.ErrInvalidBody
		}
		uniqProps := parseUniqProps(req.UniqProps)
		if !req.Force && len(uniqProps) == 0 {
			// Without unique properties every element would blindly insert;
			// that mode has to be asked for explicitly.
			return nil, shared.ErrMissingUniqueProps
		}
		s.logger.Debug("dispatching batch",
			zap.String("type", string(entityType)),
			zap.Int("size", len(bodies)),
			zap.Bool("force", req.Force))
		items, err := store.UpsertBatch(ctx, req.Owner, bodies, uniqProps, req.Force)
		if err != nil {
			return nil, err
		}
		return &Result{Action: action, Payload: items}, nil

	case ledger.ActionUpdate:
		if req.ID == "" {
			return nil, shared.ErrMissingID
		}
		item, err := store.Update(ctx, req.Owner, req.ID, req.Body)
		if err != nil {
			return nil, err
		}
		return &Result{Action: action, Payload: item}, nil

	case ledger.ActionDelete:
		if req.ID == "" {
			return nil, shared.ErrMissingID
		}
		if err := store.Delete(ctx, req.Owner, req.ID); err != nil {
			return nil, err
		}
		return &Result{Action: action}, nil
	}

	return nil, shared.ErrInvalidAction
}

func parsePagination(pageStr, pageSizeStr string) (int, int, error) {
	page, pageSize := defaultPage, defaultPageSize
	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil || n < 1 {
			return 0, 0, shared.ErrInvalidPagination
		}
		page = n
	}
	if pageSizeStr != "" {
		n, err := strconv.Atoi(pageSizeStr)
		if err != nil || n < 1 {
			return 0, 0, shared.ErrInvalidPagination
		}
		pageSize = n
	}
	return page, pageSize, nil
}

func parseUniqProps(csv string) []string {
	if csv == "" {
		return nil
	}
	var props []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			props = append(props, p)
		}
	}
	return props
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
