package dispatch

import "errors"

// Sentinel errors for the dispatch service layer.
var (
	ErrNoRecipients    = errors.New("recipients list is empty")
	ErrMissingCampaign = errors.New("campaign is required")
	ErrMissingTemplate = errors.New("template subject or body is required")
)
