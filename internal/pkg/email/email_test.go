package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesRender(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)

	var buf bytes.Buffer
	err = impl.templates.ExecuteTemplate(&buf, "punch.html", PunchEmailData{
		EmployeeName: "Asha <script>",
		Action:       "IN",
		Timestamp:    "2024-03-04 09:00:00",
		Latitude:     "13.0827",
		Longitude:    "80.2707",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2024-03-04 09:00:00")
	assert.Contains(t, buf.String(), "13.0827, 80.2707")
	assert.NotContains(t, buf.String(), "<script>")

	buf.Reset()
	err = impl.templates.ExecuteTemplate(&buf, "open_punch.html", OpenPunchDigestData{
		Date:    "2024-03-04",
		Entries: []OpenPunchEntry{{EmployeeName: "Ravi", Mobile: "9876543210", InTime: "09:12"}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ravi")
	assert.Contains(t, buf.String(), "09:12")
}

func TestSend_SkipsWhenUnconfigured(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	err = svc.SendPunchConfirmation(context.Background(), "asha@example.com", PunchEmailData{Action: "IN"})
	assert.NoError(t, err)
}

func TestSend_UnreachableServerFails(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{Host: "127.0.0.1", Port: 1, From: "noreply@example.com"})
	require.NoError(t, err)

	err = svc.SendOpenPunchDigest(context.Background(), []string{"admin@example.com"}, OpenPunchDigestData{Date: "2024-03-04"})
	assert.Error(t, err)
}
