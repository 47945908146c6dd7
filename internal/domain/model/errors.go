package model

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is wrapped by errors caused by a non-2xx HTTP response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError records a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// FetchError is returned when open merge requests could not be retrieved.
type FetchError struct {
	Project string // Empty for the unscoped query.
	Err     error
}

func (e *FetchError) Error() string {
	if e.Project == "" {
		return fmt.Sprintf("fetching open merge requests: %v", e.Err)
	}
	return fmt.Sprintf("fetching open merge requests for project %s: %v", e.Project, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DeliveryError is returned when a webhook could not be reached at all.
// A webhook that answers with a non-2xx status is not a DeliveryError.
type DeliveryError struct {
	Channel Channel
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering to %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
