package payroll

import "errors"

var ErrPeriodTooLong = errors.New("payroll period must not exceed 366 days")
