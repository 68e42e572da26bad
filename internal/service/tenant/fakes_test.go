package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type fakeRegistry struct {
	mu      sync.Mutex
	tenants map[string]tenant.Tenant
	nextID  int64
}

func newFakeRegistry(ts ...tenant.Tenant) *fakeRegistry {
	r := &fakeRegistry{tenants: make(map[string]tenant.Tenant)}
	for _, t := range ts {
		r.tenants[t.Code] = t
	}
	return r
}

func (r *fakeRegistry) GetByCode(_ context.Context, code string) (tenant.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[code]
	if !ok {
		return tenant.Tenant{}, tenant.ErrTenantNotFound
	}
	return t, nil
}

func (r *fakeRegistry) List(context.Context) ([]tenant.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []tenant.Tenant
	for _, t := range r.tenants {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeRegistry) ListActive(ctx context.Context) ([]tenant.Tenant, error) {
	all, _ := r.List(ctx)
	var out []tenant.Tenant
	for _, t := range all {
		if t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRegistry) Create(_ context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tenants[t.Code]; ok {
		return tenant.Tenant{}, tenant.ErrTenantCodeExists
	}
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	r.tenants[t.Code] = t
	return t, nil
}

func (r *fakeRegistry) SetActive(_ context.Context, code string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[code]
	if !ok {
		return tenant.ErrTenantNotFound
	}
	t.IsActive = active
	r.tenants[code] = t
	return nil
}

func (r *fakeRegistry) UpdateRecipients(_ context.Context, code string, chatIDs, emails []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[code]
	if !ok {
		return tenant.ErrTenantNotFound
	}
	t.TelegramChatIDs = chatIDs
	t.NotificationEmails = emails
	r.tenants[code] = t
	return nil
}

// countingOpener hands out pool-less handles and counts opens per path.
type countingOpener struct {
	mu    sync.Mutex
	opens map[string]int
	fail  map[string]error
}

func newCountingOpener() *countingOpener {
	return &countingOpener{opens: make(map[string]int), fail: make(map[string]error)}
}

func (o *countingOpener) Open(_ context.Context, path string) (*database.DB, error) {
	// widen the window for concurrent first opens
	time.Sleep(5 * time.Millisecond)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.fail[path]; err != nil {
		return nil, err
	}
	o.opens[path]++
	return &database.DB{Key: path}, nil
}

func (o *countingOpener) count(path string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens[path]
}

type countingAligner struct {
	calls    atomic.Int32
	failNext atomic.Bool
}

func (a *countingAligner) Align(context.Context, *database.DB) error {
	a.calls.Add(1)
	if a.failNext.CompareAndSwap(true, false) {
		return errors.New("alter table failed")
	}
	return nil
}

type fakeProvisioner struct {
	created []string
	err     error
}

func (p *fakeProvisioner) CreateStore(_ context.Context, name string) error {
	if p.err != nil {
		return p.err
	}
	p.created = append(p.created, name)
	return nil
}
