package tenant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(CodeAlphabet, r), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190)
}

func newService(registry *fakeRegistry, prov *fakeProvisioner, codes ...string) tenant.TenantService {
	svc := NewTenantService(registry, prov, "postgres://app@localhost/%s?sslmode=disable", "hris_tenant_").(*TenantServiceImpl)
	if len(codes) > 0 {
		i := 0
		svc.generateCode = func() (string, error) {
			c := codes[i%len(codes)]
			i++
			return c, nil
		}
	}
	return svc
}

func TestCreate(t *testing.T) {
	registry := newFakeRegistry(tenant.Tenant{Code: "TAKEN2", IsActive: true})
	prov := &fakeProvisioner{}
	svc := newService(registry, prov, "TAKEN2", "FRESH3")

	resp, err := svc.Create(context.Background(), tenant.CreateTenantRequest{
		Name:       " Acme Corp ",
		AdminEmail: "owner@acme.test",
	})
	require.NoError(t, err)

	assert.Equal(t, "FRESH3", resp.Code)
	assert.Equal(t, "Acme Corp", resp.Name)
	assert.True(t, resp.IsActive)
	assert.Equal(t, []string{"hris_tenant_fresh3"}, prov.created)

	stored, err := registry.GetByCode(context.Background(), "FRESH3")
	require.NoError(t, err)
	assert.Equal(t, "postgres://app@localhost/hris_tenant_fresh3?sslmode=disable", stored.StorePath)
}

func TestCreate_Failures(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := newService(newFakeRegistry(), &fakeProvisioner{})
		_, err := svc.Create(context.Background(), tenant.CreateTenantRequest{AdminEmail: "nope"})
		var verrs validator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs, 2)
	})

	t.Run("codes exhausted", func(t *testing.T) {
		svc := newService(newFakeRegistry(tenant.Tenant{Code: "SAME22"}), &fakeProvisioner{}, "SAME22")
		_, err := svc.Create(context.Background(), tenant.CreateTenantRequest{Name: "X", AdminEmail: "x@x.io"})
		assert.ErrorIs(t, err, tenant.ErrTenantCodeExists)
	})

	t.Run("provisioning", func(t *testing.T) {
		registry := newFakeRegistry()
		svc := newService(registry, &fakeProvisioner{err: errors.New("permission denied")}, "NEW234")
		_, err := svc.Create(context.Background(), tenant.CreateTenantRequest{Name: "X", AdminEmail: "x@x.io"})
		require.Error(t, err)

		_, err = registry.GetByCode(context.Background(), "NEW234")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}

func TestSetActiveAndRecipients(t *testing.T) {
	registry := newFakeRegistry(tenant.Tenant{Code: "ACME12", IsActive: true})
	svc := newService(registry, &fakeProvisioner{})
	ctx := context.Background()

	require.NoError(t, svc.SetActive(ctx, tenant.SetActiveRequest{Code: "acme12", IsActive: false}))
	stored, _ := registry.GetByCode(ctx, "ACME12")
	assert.False(t, stored.IsActive)

	assert.ErrorIs(t, svc.SetActive(ctx, tenant.SetActiveRequest{Code: "none00"}), tenant.ErrTenantNotFound)

	require.NoError(t, svc.UpdateRecipients(ctx, tenant.UpdateRecipientsRequest{
		Code:               "Acme12",
		TelegramChatIDs:    []string{" 111 ", ""},
		NotificationEmails: []string{"hr@acme.test"},
	}))
	stored, _ = registry.GetByCode(ctx, "ACME12")
	assert.Equal(t, []string{"111"}, stored.TelegramChatIDs)
	assert.Equal(t, []string{"hr@acme.test"}, stored.NotificationEmails)

	err := svc.UpdateRecipients(ctx, tenant.UpdateRecipientsRequest{Code: "ACME12", NotificationEmails: []string{"bad"}})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ACME12", list[0].Code)
}
