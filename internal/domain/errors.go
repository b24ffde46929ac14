package domain

import "errors"

var (
	// Scan errors
	ErrInvalidScanTarget = errors.New("path does not exist")

	// Collection errors
	ErrDuplicateElement = errors.New("element is a duplicate and can't be edited")
	ErrElementNotFound  = errors.New("element not found")
	ErrRowOutOfRange    = errors.New("row out of range")

	// Conversion errors
	ErrNoEnabledElements = errors.New("no images to convert")
	ErrCommandFailed     = errors.New("command failed")
	ErrToolNotFound      = errors.New("maketx not found")

	// History errors
	ErrReportNotFound = errors.New("report not found")
	ErrReportExpired  = errors.New("report expired")
)
