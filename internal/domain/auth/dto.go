package auth

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"

// EmployeeLoginRequest logs an employee into their company's store.
type EmployeeLoginRequest struct {
	CompanyCode *string `json:"company_code,omitempty"`
	Mobile      string  `json:"mobile"`
	Password    string  `json:"password"`
}

func (r *EmployeeLoginRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Mobile) {
		errs = append(errs, validator.ValidationError{Field: "mobile", Message: "mobile is required"})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}
	if r.CompanyCode != nil && *r.CompanyCode != "" && !validator.IsValidCompanyCode(*r.CompanyCode) {
		errs = append(errs, validator.ValidationError{Field: "company_code", Message: "company_code must be 4 to 12 letters or digits"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CredentialLoginRequest is used by the admin and master logins.
type CredentialLoginRequest struct {
	CompanyCode *string `json:"company_code,omitempty"`
	Username    string  `json:"username"`
	Password    string  `json:"password"`
}

func (r *CredentialLoginRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{Field: "username", Message: "username is required"})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}
	if r.CompanyCode != nil && *r.CompanyCode != "" && !validator.IsValidCompanyCode(*r.CompanyCode) {
		errs = append(errs, validator.ValidationError{Field: "company_code", Message: "company_code must be 4 to 12 letters or digits"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TokenResponse struct {
	AccessToken  string  `json:"access_token"`
	TokenType    string  `json:"token_type"`
	ExpiresAt    int64   `json:"expires_at"`
	Role         string  `json:"role"`
	CompanyCode  *string `json:"company_code,omitempty"`
	CompanyName  *string `json:"company_name,omitempty"`
	EmployeeID   *int64  `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
