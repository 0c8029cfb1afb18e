// Package faults defines the error taxonomy for fern's read/write paths.
package faults

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// NotFoundError means a logical id matched no record in the register.
// It is recoverable and maps to a 404 at the HTTP edge.
type NotFoundError struct {
	Collection string
	ID         string
}

func NewNotFound(collection, id string) *NotFoundError {
	return &NotFoundError{Collection: collection, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Collection, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IntegrityError means a record matched a logical id but carries no row
// handle. That signals corruption upstream of fern: it is fatal, surfaced,
// and never retried.
type IntegrityError struct {
	Collection string
	ID         string
	Reason     string
}

func NewIntegrity(collection, id, reason string) *IntegrityError {
	return &IntegrityError{Collection: collection, ID: id, Reason: reason}
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation on %s '%s': %s", e.Collection, e.ID, e.Reason)
}

func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// SourceUnavailableError wraps a directory (federated store) failure. The
// convergence layer recovers it with a register fallback and logs a warning;
// it never reaches a caller.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func NewSourceUnavailable(source string, err error) *SourceUnavailableError {
	return &SourceUnavailableError{Source: source, Err: err}
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source '%s' unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

func IsSourceUnavailable(err error) bool {
	var su *SourceUnavailableError
	return errors.As(err, &su)
}

// ValidationError rejects a write whose payload breaks a domain rule, e.g. a
// parent link that would make an opportunity its own ancestor.
type ValidationError struct {
	Collection string
	ID         string
	Reason     string
}

func NewValidation(collection, id, reason string) *ValidationError {
	return &ValidationError{Collection: collection, ID: id, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Collection, e.ID, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsFault reports whether err belongs to fern's taxonomy.
func IsFault(err error) bool {
	return IsNotFound(err) || IsIntegrity(err) || IsSourceUnavailable(err) || IsValidation(err)
}

// ToHTTPError maps a domain fault to the edge representation.
func ToHTTPError(err error) *httperror.HTTPError {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return httperror.NewHTTPError(http.StatusNotFound, nf.Error()).
			AddMetaValue("collection", nf.Collection).
			AddMetaValue("id", nf.ID)
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return httperror.NewHTTPError(http.StatusBadRequest, ve.Error()).
			AddMetaValue("collection", ve.Collection).
			AddMetaValue("id", ve.ID)
	}

	var ie *IntegrityError
	if errors.As(err, &ie) {
		return httperror.NewHTTPError(http.StatusInternalServerError, ie.Error()).
			AddMetaValue("collection", ie.Collection).
			AddMetaValue("id", ie.ID)
	}

	return httperror.NewHTTPError(http.StatusInternalServerError, err.Error())
}
