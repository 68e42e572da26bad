package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"golang.org/x/sync/singleflight"
)

// Opener connects to a store by its path (DSN).
type Opener func(ctx context.Context, path string) (*database.DB, error)

type routerImpl struct {
	registry     tenant.TenantRepository
	open         Opener
	alignments   *database.AlignmentRegistry
	defaultStore string

	mu     sync.Mutex
	stores map[string]*database.DB
	group  singleflight.Group
}

// NewRouter caches one handle per store path. Every handed-out store has been
// schema aligned at least once in this process.
func NewRouter(registry tenant.TenantRepository, open Opener, alignments *database.AlignmentRegistry, defaultStore string) tenant.Router {
	return &routerImpl{
		registry:     registry,
		open:         open,
		alignments:   alignments,
		defaultStore: defaultStore,
		stores:       make(map[string]*database.DB),
	}
}

// Resolve implements tenant.Router.
func (r *routerImpl) Resolve(ctx context.Context, code *string) (*database.DB, *tenant.Tenant, error) {
	if code == nil || strings.TrimSpace(*code) == "" {
		db, err := r.acquire(ctx, r.defaultStore)
		if err != nil {
			return nil, nil, err
		}
		return db, nil, nil
	}

	normalized := tenant.NormalizeCode(*code)
	t, err := r.registry.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			slog.WarnContext(ctx, "unknown company code", "company_code", normalized)
			return nil, nil, tenant.ErrTenantNotFound
		}
		return nil, nil, fmt.Errorf("failed to look up tenant: %w", err)
	}
	if !t.IsActive {
		slog.WarnContext(ctx, "inactive company code", "company_code", normalized)
		return nil, nil, tenant.ErrTenantNotFound
	}

	db, err := r.acquire(ctx, t.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return db, &t, nil
}

func (r *routerImpl) cached(path string) (*database.DB, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	db, ok := r.stores[path]
	return db, ok
}

func (r *routerImpl) acquire(ctx context.Context, path string) (*database.DB, error) {
	db, ok := r.cached(path)
	if !ok {
		v, err, _ := r.group.Do(path, func() (interface{}, error) {
			if db, ok := r.cached(path); ok {
				return db, nil
			}
			// a cancelled first caller must not fail the others waiting here
			opened, err := r.open(context.WithoutCancel(ctx), path)
			if err != nil {
				return nil, err
			}
			r.mu.Lock()
			r.stores[path] = opened
			r.mu.Unlock()
			slog.Info("Store opened", "store", database.RedactKey(opened.Key))
			return opened, nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		db = v.(*database.DB)
	}

	if err := r.alignments.Ensure(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to align store: %w", err)
	}
	return db, nil
}

// Close implements tenant.Router.
func (r *routerImpl) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for path, db := range r.stores {
		db.Close()
		delete(r.stores, path)
	}
}
