package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/telegram"
)

func coord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// EmailNotifier mails punch confirmations to the employee and digests to the
// tenant's notification addresses.
type EmailNotifier struct {
	email email.EmailService
}

func NewEmailNotifier(svc email.EmailService) *EmailNotifier {
	return &EmailNotifier{email: svc}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, ev notification.Event) error {
	switch ev.Type {
	case notification.TypePunchIn, notification.TypePunchOut:
		if ev.EmployeeEmail == nil || *ev.EmployeeEmail == "" {
			return nil
		}
		data := email.PunchEmailData{
			EmployeeName: ev.EmployeeName,
			CompanyName:  ev.TenantName,
			Action:       ev.Action,
			Timestamp:    ev.Timestamp.Format(attendance.TimestampLayout),
			Latitude:     coord(ev.Latitude),
			Longitude:    coord(ev.Longitude),
		}
		if ev.Subject != nil {
			data.Subject = *ev.Subject
		}
		return n.email.SendPunchConfirmation(ctx, *ev.EmployeeEmail, data)

	case notification.TypeOpenPunchDigest:
		if len(ev.AdminEmails) == 0 {
			return nil
		}
		return n.email.SendOpenPunchDigest(ctx, ev.AdminEmails, email.OpenPunchDigestData{
			CompanyName: ev.TenantName,
			Date:        ev.Timestamp.Format(attendance.DateLayout),
			Entries:     digestEntries(ev.OpenPunches),
		})
	}
	return nil
}

func digestEntries(in []notification.OpenPunchEntry) []email.OpenPunchEntry {
	out := make([]email.OpenPunchEntry, 0, len(in))
	for _, e := range in {
		out = append(out, email.OpenPunchEntry{EmployeeName: e.EmployeeName, Mobile: e.Mobile, InTime: e.InTime})
	}
	return out
}

// TelegramNotifier posts to the tenant's chats, or the configured admin chats.
type TelegramNotifier struct {
	client *telegram.Client
}

func NewTelegramNotifier(client *telegram.Client) *TelegramNotifier {
	return &TelegramNotifier{client: client}
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(ctx context.Context, ev notification.Event) error {
	if !n.client.Configured() {
		return nil
	}
	chats := n.client.Recipients(ev.TelegramChatIDs)
	if len(chats) == 0 {
		return notification.ErrNoRecipients
	}
	return n.client.Broadcast(ctx, chats, TelegramText(ev))
}

// TelegramText renders an event as a plain message.
func TelegramText(ev notification.Event) string {
	var b strings.Builder
	b.WriteString(ev.Title())
	b.WriteString("\n")
	if ev.TenantName != "" {
		fmt.Fprintf(&b, "Company: %s\n", ev.TenantName)
	}

	if ev.Type == notification.TypeOpenPunchDigest {
		fmt.Fprintf(&b, "Date: %s\n", ev.Timestamp.Format(attendance.DateLayout))
		for _, e := range ev.OpenPunches {
			fmt.Fprintf(&b, "- %s (%s) in at %s\n", e.EmployeeName, e.Mobile, e.InTime)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	fmt.Fprintf(&b, "Time: %s\n", ev.Timestamp.Format(attendance.TimestampLayout))
	if ev.Latitude != nil && ev.Longitude != nil {
		fmt.Fprintf(&b, "Location: https://maps.google.com/?q=%s,%s\n", coord(ev.Latitude), coord(ev.Longitude))
	}
	if ev.Subject != nil && *ev.Subject != "" {
		fmt.Fprintf(&b, "Note: %s\n", *ev.Subject)
	}
	return strings.TrimRight(b.String(), "\n")
}

// SSENotifier pushes events to dashboards subscribed to the tenant's topic.
type SSENotifier struct {
	hub *sse.Hub
}

func NewSSENotifier(hub *sse.Hub) *SSENotifier {
	return &SSENotifier{hub: hub}
}

func (n *SSENotifier) Name() string { return "sse" }

func (n *SSENotifier) Notify(_ context.Context, ev notification.Event) error {
	topic := sse.TopicFor(ev.TenantCode)
	n.hub.Publish(topic, sse.Event{
		Topic: topic,
		Event: string(ev.Type),
		Data: notification.SSEEvent{
			Type:       ev.Type,
			TenantCode: ev.TenantCode,
			EmployeeID: ev.EmployeeID,
			Name:       ev.EmployeeName,
			Action:     ev.Action,
			Timestamp:  ev.Timestamp.Format(attendance.TimestampLayout),
			Latitude:   ev.Latitude,
			Longitude:  ev.Longitude,
			Message:    ev.Message,
		},
	})
	return nil
}
