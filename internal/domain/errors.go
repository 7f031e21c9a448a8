package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrNoSession          = errors.New("not signed in")
	ErrNoModuleSelected   = errors.New("no export module selected")
	ErrUnknownModule      = errors.New("unknown export module")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrEmptyExport        = errors.New("no rows to export")
	ErrNoAnswer           = errors.New("assistant returned no usable answer")
)
