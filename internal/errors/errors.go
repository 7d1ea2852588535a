// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoDividendData  = errors.New("no dividend data")
	ErrNoData          = errors.New("data not found")
	ErrMissingToken    = errors.New("provider token is not configured")
	ErrEmptyTickerList = errors.New("ticker list is empty")
	ErrNoIndex         = errors.New("record has no row index")
)

// APIError represents a non-2xx response from a data provider.
type APIError struct {
	Provider   string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api error [%s] GET %s: status %d: %s", e.Provider, e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api error [%s] GET %s: status %d", e.Provider, e.Endpoint, e.StatusCode)
}

// NewAPIError creates a new APIError.
func NewAPIError(provider, endpoint string, statusCode int, body string) *APIError {
	return &APIError{
		Provider:   provider,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Body:       body,
	}
}

// DataError represents a data-related error for a dataset and symbol.
type DataError struct {
	Dataset string
	Symbol  string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Dataset, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Dataset, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataset, symbol, message string, err error) *DataError {
	return &DataError{
		Dataset: dataset,
		Symbol:  symbol,
		Message: message,
		Err:     err,
	}
}

// MissingColumnError signals that a record lacks an expected column.
// The presentation boundary uses it to decide which absences are
// acceptable and which abort the run.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("record has no column %q", e.Column)
}

// NewMissingColumnError creates a new MissingColumnError.
func NewMissingColumnError(column string) *MissingColumnError {
	return &MissingColumnError{Column: column}
}

// IsMissingColumn reports whether err signals an absent column.
func IsMissingColumn(err error) bool {
	var mc *MissingColumnError
	return errors.As(err, &mc)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
