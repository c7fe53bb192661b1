package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// User-facing messages of locally produced outcomes.
const (
	SessionExpiredMessage = "Your session has expired. Please sign in again."
	ConnectivityMessage   = "Unable to reach the server. Please try again later."
	StorageFailureMessage = "Local session storage is unavailable."
)

var (
	ErrTransport      = errors.New("transport failure")
	ErrDecode         = errors.New("malformed response body")
	ErrSessionExpired = errors.New("session expired")
	ErrNoData         = errors.New("response carries no data")
)

// Pagination is the paging metadata of list responses.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// Outcome is the normalized result of every client call.
type Outcome struct {
	Success    bool
	Data       json.RawMessage
	Message    string
	Errors     json.RawMessage
	Pagination *Pagination
	// Status is the HTTP status code, or 0 when no response was obtained.
	Status int
	// Err is set for locally detected failures only; server-reported
	// failures leave it nil.
	Err error
}

// envelope is the response body contract of the remote API.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Errors     json.RawMessage `json:"errors"`
	Pagination *Pagination     `json:"pagination"`
}

func (e envelope) outcome(status int) *Outcome {
	return &Outcome{
		Success:    e.Success,
		Data:       nullToNil(e.Data),
		Message:    e.Message,
		Errors:     nullToNil(e.Errors),
		Pagination: e.Pagination,
		Status:     status,
	}
}

func nullToNil(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

// Decode unmarshals Data into v.
func (o *Outcome) Decode(v any) error {
	if len(o.Data) == 0 {
		return ErrNoData
	}
	if err := json.Unmarshal(o.Data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// DecodeErrors unmarshals the server's validation errors into v.
func (o *Outcome) DecodeErrors(v any) error {
	if len(o.Errors) == 0 {
		return ErrNoData
	}
	if err := json.Unmarshal(o.Errors, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// SessionExpired reports whether the outcome ended the session.
func (o *Outcome) SessionExpired() bool {
	return errors.Is(o.Err, ErrSessionExpired)
}

// Unauthorized reports a 401, whether server-reported or local.
func (o *Outcome) Unauthorized() bool {
	return o.Status == http.StatusUnauthorized
}

// Clone returns a shallow copy, safe to hand to another caller.
func (o *Outcome) Clone() *Outcome {
	c := *o
	return &c
}

// Failure builds a locally produced failed outcome.
func Failure(status int, message string, err error) *Outcome {
	return &Outcome{Status: status, Message: message, Err: err}
}

func transportFailure(err error) *Outcome {
	return Failure(0, ConnectivityMessage, err)
}

func storageFailure(err error) *Outcome {
	return Failure(0, StorageFailureMessage, err)
}

func sessionExpired() *Outcome {
	return Failure(http.StatusUnauthorized, SessionExpiredMessage, ErrSessionExpired)
}
