package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents network failures while retrieving a page
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeStructure represents missing or unexpected page structure
	ErrorTypeStructure ErrorType = "structure"
	// ErrorTypeConversion represents failures converting parsed text to a value
	ErrorTypeConversion ErrorType = "conversion"
	// ErrorTypeLoad represents warehouse ingestion failures
	ErrorTypeLoad ErrorType = "load"
	// ErrorTypeNotify represents notification delivery failures
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents a pipeline-specific error
type PipelineError struct {
	Type    ErrorType
	Stage   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// New creates a new PipelineError
func New(errType ErrorType, stage, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Stage:   stage,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(stage, message string, err error) *PipelineError {
	return New(ErrorTypeFetch, stage, message, err)
}

// NewStructure creates a new structure error
func NewStructure(stage, message string) *PipelineError {
	return New(ErrorTypeStructure, stage, message, nil)
}

// NewConversion creates a new conversion error
func NewConversion(stage, message string, err error) *PipelineError {
	return New(ErrorTypeConversion, stage, message, err)
}

// NewLoad creates a new load error
func NewLoad(stage, message string, err error) *PipelineError {
	return New(ErrorTypeLoad, stage, message, err)
}

// NewNotify creates a new notify error
func NewNotify(stage, message string, err error) *PipelineError {
	return New(ErrorTypeNotify, stage, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a PipelineError of the given type
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}
