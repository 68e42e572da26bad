package attendance

import "errors"

var (
	ErrPersistence   = errors.New("failed to save attendance")
	ErrRecordMissing = errors.New("attendance record not found")
)
