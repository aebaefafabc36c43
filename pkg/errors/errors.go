package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents page fetch failures
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents a jurisdiction blocked after a 429 response
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypeSink represents record publishing errors
	ErrorTypeSink ErrorType = "sink"
	// ErrorTypeValidation represents invalid site profiles
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeDiscovery represents an index page that yielded no profile links
	ErrorTypeDiscovery ErrorType = "discovery"
)

// Sentinels for errors.Is checks against a CrawlerError's type.
var (
	ErrNetwork       = &CrawlerError{Type: ErrorTypeNetwork}
	ErrParsing       = &CrawlerError{Type: ErrorTypeParsing}
	ErrRateLimit     = &CrawlerError{Type: ErrorTypeRateLimit}
	ErrCache         = &CrawlerError{Type: ErrorTypeCache}
	ErrSink          = &CrawlerError{Type: ErrorTypeSink}
	ErrValidation    = &CrawlerError{Type: ErrorTypeValidation}
	ErrConfiguration = &CrawlerError{Type: ErrorTypeConfiguration}
	ErrDiscovery     = &CrawlerError{Type: ErrorTypeDiscovery}
)

// CrawlerError is an error scoped to one jurisdiction
type CrawlerError struct {
	Type         ErrorType
	Jurisdiction string
	Message      string
	Err          error
	Time         time.Time
}

// Error implements the error interface
func (e *CrawlerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Jurisdiction, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Jurisdiction, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlerError) Unwrap() error {
	return e.Err
}

// Is matches any CrawlerError of the same type
func (e *CrawlerError) Is(target error) bool {
	t, ok := target.(*CrawlerError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// IsRetryable returns true if the error is retryable
func (e *CrawlerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeSink:
		return true
	default:
		return false
	}
}

// New creates a new CrawlerError
func New(errType ErrorType, jurisdiction, message string, err error) *CrawlerError {
	return &CrawlerError{
		Type:         errType,
		Jurisdiction: jurisdiction,
		Message:      message,
		Err:          err,
		Time:         time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(jurisdiction, message string, err error) *CrawlerError {
	return New(ErrorTypeNetwork, jurisdiction, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(jurisdiction, message string, err error) *CrawlerError {
	return New(ErrorTypeParsing, jurisdiction, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(jurisdiction string, duration time.Duration) *CrawlerError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, jurisdiction, message, nil)
}

// NewCache creates a new cache error
func NewCache(jurisdiction, message string, err error) *CrawlerError {
	return New(ErrorTypeCache, jurisdiction, message, err)
}

// NewSink creates a new sink error
func NewSink(jurisdiction, message string, err error) *CrawlerError {
	return New(ErrorTypeSink, jurisdiction, message, err)
}

// NewValidation creates a new validation error
func NewValidation(jurisdiction, message string, err error) *CrawlerError {
	return New(ErrorTypeValidation, jurisdiction, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewDiscovery creates a new discovery miss error
func NewDiscovery(jurisdiction, selector string) *CrawlerError {
	return New(ErrorTypeDiscovery, jurisdiction, fmt.Sprintf("no profile links matched %q", selector), nil)
}
