package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeInvalidURL represents a URL that could not be parsed
	ErrorTypeInvalidURL ErrorType = "invalid_url"
	// ErrorTypeNetwork represents network-layer errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeDecode represents response bodies that are not decodable as text
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeUnparseable represents a detail page yielding neither ID nor name
	ErrorTypeUnparseable ErrorType = "unparseable"
	// ErrorTypePersistence represents store commit failures
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeDeckCode represents deck code URL construction failures
	ErrorTypeDeckCode ErrorType = "deck_code"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// HarvestError represents a harvester-specific error
type HarvestError struct {
	Type    ErrorType
	Subject string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *HarvestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Subject, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Subject, e.Message)
}

// Unwrap returns the underlying error
func (e *HarvestError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is a HarvestError of the given type
func IsType(err error, t ErrorType) bool {
	var he *HarvestError
	if errors.As(err, &he) {
		return he.Type == t
	}
	return false
}

// New creates a new HarvestError
func New(errType ErrorType, subject, message string, err error) *HarvestError {
	return &HarvestError{
		Type:    errType,
		Subject: subject,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewInvalidURL creates a new invalid URL error
func NewInvalidURL(rawURL string, err error) *HarvestError {
	return New(ErrorTypeInvalidURL, rawURL, "URL could not be parsed", err)
}

// NewNetwork creates a new network error
func NewNetwork(subject, message string, err error) *HarvestError {
	return New(ErrorTypeNetwork, subject, message, err)
}

// NewDecode creates a new decode error
func NewDecode(subject, message string, err error) *HarvestError {
	return New(ErrorTypeDecode, subject, message, err)
}

// NewUnparseable creates a new unparseable record error
func NewUnparseable(pageURL string) *HarvestError {
	return New(ErrorTypeUnparseable, pageURL, "neither card ID nor name could be extracted", nil)
}

// NewPersistence creates a new persistence error
func NewPersistence(message string, err error) *HarvestError {
	return New(ErrorTypePersistence, "store", message, err)
}

// NewDeckCode creates a new deck code error
func NewDeckCode(code, message string) *HarvestError {
	return New(ErrorTypeDeckCode, code, message, nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(subject string, duration time.Duration) *HarvestError {
	return New(ErrorTypeRateLimit, subject, fmt.Sprintf("rate limited for %v", duration), nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *HarvestError {
	return New(ErrorTypeConfiguration, "", message, err)
}
