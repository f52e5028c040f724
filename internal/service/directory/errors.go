package directory

import "errors"

// Sentinel errors for the directory service layer.
var (
	ErrNotFound      = errors.New("record not found")
	ErrNameTaken     = errors.New("a record with this name already exists")
	ErrMissingFields = errors.New("required fields are missing")
)
