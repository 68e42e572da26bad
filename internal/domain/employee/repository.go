package employee

import "context"

// EmployeeRepository reads and writes employees of the store attached to ctx.
type EmployeeRepository interface {
	Create(ctx context.Context, emp Employee) (Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetByMobile(ctx context.Context, mobile string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, emp Employee) error
	// Delete removes the employee row only; ledger rows are kept.
	Delete(ctx context.Context, id int64) error
}
