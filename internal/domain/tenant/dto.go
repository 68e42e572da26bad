package tenant

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"

type CreateTenantRequest struct {
	Name            string   `json:"company_name"`
	AdminEmail      string   `json:"admin_email"`
	TelegramChatIDs []string `json:"telegram_chat_ids,omitempty"`
}

func (r *CreateTenantRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "company_name", Message: "company_name is required"})
	}
	if !validator.IsValidEmail(r.AdminEmail) {
		errs = append(errs, validator.ValidationError{Field: "admin_email", Message: "admin_email is invalid"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRecipientsRequest struct {
	Code               string   `json:"-"`
	TelegramChatIDs    []string `json:"telegram_chat_ids"`
	NotificationEmails []string `json:"notification_emails"`
}

func (r *UpdateRecipientsRequest) Validate() error {
	var errs validator.ValidationErrors
	for _, e := range r.NotificationEmails {
		if !validator.IsValidEmail(e) {
			errs = append(errs, validator.ValidationError{Field: "notification_emails", Message: "notification_emails must contain valid emails"})
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetActiveRequest struct {
	Code     string `json:"-"`
	IsActive bool   `json:"is_active"`
}

type TenantResponse struct {
	Code               string   `json:"company_code"`
	Name               string   `json:"company_name"`
	AdminEmail         string   `json:"admin_email"`
	IsActive           bool     `json:"is_active"`
	TelegramChatIDs    []string `json:"telegram_chat_ids"`
	NotificationEmails []string `json:"notification_emails"`
	CreatedAt          string   `json:"created_at"`
}
