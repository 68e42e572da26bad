package tenant

import (
	"strings"
	"time"
)

// Tenant is an isolated organisation with its own employee and ledger store.
type Tenant struct {
	ID                 int64
	Code               string
	Name               string
	AdminEmail         string
	IsActive           bool
	StorePath          string
	TelegramChatIDs    []string
	NotificationEmails []string
	CreatedAt          time.Time
}

// NormalizeCode makes company codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SplitRecipients parses a recipient list separated by commas or semicolons.
func SplitRecipients(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	var out []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
