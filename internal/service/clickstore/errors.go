package clickstore

import "errors"

// Sentinel errors for the clickstore service layer.
var (
	ErrNotFound   = errors.New("click event not found")
	ErrDuplicate  = errors.New("click event already exists for this user, dept, and campaign")
	ErrMissingKey = errors.New("user_id, dept, and campaign are required")
)
