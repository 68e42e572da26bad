package notification

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmail struct {
	punches []string
	digests [][]string
	entries []email.OpenPunchEntry
}

func (f *fakeEmail) SendPunchConfirmation(_ context.Context, to string, _ email.PunchEmailData) error {
	f.punches = append(f.punches, to)
	return nil
}

func (f *fakeEmail) SendOpenPunchDigest(_ context.Context, to []string, data email.OpenPunchDigestData) error {
	f.digests = append(f.digests, to)
	f.entries = append(f.entries, data.Entries...)
	return nil
}

func ptr[T any](v T) *T { return &v }

var punchTime = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func TestEmailNotifier(t *testing.T) {
	fe := &fakeEmail{}
	n := NewEmailNotifier(fe)
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, notification.Event{Type: notification.TypePunchIn, Timestamp: punchTime}))
	assert.Empty(t, fe.punches)

	require.NoError(t, n.Notify(ctx, notification.Event{
		Type:          notification.TypePunchOut,
		EmployeeEmail: ptr("asha@example.com"),
		Timestamp:     punchTime,
	}))
	assert.Equal(t, []string{"asha@example.com"}, fe.punches)

	require.NoError(t, n.Notify(ctx, notification.Event{
		Type:        notification.TypeOpenPunchDigest,
		AdminEmails: []string{"hr@example.com"},
		Timestamp:   punchTime,
		OpenPunches: []notification.OpenPunchEntry{{EmployeeName: "Ravi", Mobile: "98", InTime: "09:00"}},
	}))
	require.Len(t, fe.digests, 1)
	assert.Equal(t, "Ravi", fe.entries[0].EmployeeName)
}

func TestSSENotifier(t *testing.T) {
	hub := sse.NewHub()
	ch, stop := hub.Subscribe("ACME12")
	defer stop()

	n := NewSSENotifier(hub)
	require.NoError(t, n.Notify(context.Background(), notification.Event{
		Type:         notification.TypePunchIn,
		TenantCode:   "ACME12",
		EmployeeID:   5,
		EmployeeName: "Asha",
		Action:       "IN",
		Timestamp:    punchTime,
	}))

	select {
	case ev := <-ch:
		assert.Equal(t, string(notification.TypePunchIn), ev.Event)
		payload, ok := ev.Data.(notification.SSEEvent)
		require.True(t, ok)
		assert.Equal(t, int64(5), payload.EmployeeID)
		assert.Equal(t, "2024-03-04 09:00:00", payload.Timestamp)
	default:
		t.Fatal("no event published")
	}
}

func TestTelegramText(t *testing.T) {
	text := TelegramText(notification.Event{
		Type:         notification.TypePunchIn,
		TenantName:   "Acme",
		EmployeeName: "Asha",
		Timestamp:    punchTime,
		Latitude:     ptr(13.0827),
		Longitude:    ptr(80.2707),
		Subject:      ptr("site visit"),
	})
	assert.Contains(t, text, "Punch IN: Asha")
	assert.Contains(t, text, "Company: Acme")
	assert.Contains(t, text, "2024-03-04 09:00:00")
	assert.Contains(t, text, "q=13.082700,80.270700")
	assert.Contains(t, text, "Note: site visit")

	digest := TelegramText(notification.Event{
		Type:        notification.TypeOpenPunchDigest,
		Timestamp:   punchTime,
		OpenPunches: []notification.OpenPunchEntry{{EmployeeName: "Ravi", Mobile: "98", InTime: "09:10"}},
	})
	assert.Contains(t, digest, "No OUT punch report")
	assert.Contains(t, digest, "- Ravi (98) in at 09:10")
}
