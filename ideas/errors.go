// Package ideas talks to a text-generation service to expand a node into
// related ideas. Failures are classified into a small set of reasons the
// editor can surface without ever mutating the graph.
package ideas

import (
	"errors"
	"fmt"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// Reason classifies a generation failure.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonAuth
	ReasonQuota
	ReasonRateLimit
	ReasonNetwork
	ReasonModelUnavailable
	ReasonEmptyResponse
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonAuth:
		return "auth"
	case ReasonQuota:
		return "quota"
	case ReasonRateLimit:
		return "rate-limit"
	case ReasonNetwork:
		return "network"
	case ReasonModelUnavailable:
		return "model-unavailable"
	case ReasonEmptyResponse:
		return "empty-response"
	default:
		return "unknown"
	}
}

// Message returns the user-facing text for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonAuth:
		return "API key is missing or invalid"
	case ReasonQuota:
		return "account quota exhausted"
	case ReasonRateLimit:
		return "rate limited, try again shortly"
	case ReasonNetwork:
		return "could not reach the generation service"
	case ReasonModelUnavailable:
		return "the requested model is unavailable"
	case ReasonEmptyResponse:
		return "the model returned an empty response"
	default:
		return "generation failed"
	}
}

// Error is a classified generation failure for a specific model.
type Error struct {
	Reason Reason
	Model  string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generate[%s]: %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("generate[%s]: %s", e.Model, e.Reason)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps an error from the OpenAI client into a typed Error.
func Classify(model string, err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return &Error{Reason: ReasonAuth, Model: model, Err: err}
		case apiErr.HTTPStatusCode == 429 && apiErr.Type == "insufficient_quota":
			return &Error{Reason: ReasonQuota, Model: model, Err: err}
		case apiErr.HTTPStatusCode == 429:
			return &Error{Reason: ReasonRateLimit, Model: model, Err: err}
		case apiErr.HTTPStatusCode == 404:
			return &Error{Reason: ReasonModelUnavailable, Model: model, Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &Error{Reason: ReasonNetwork, Model: model, Err: err}
		}
		return &Error{Reason: ReasonUnknown, Model: model, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &Error{Reason: ReasonNetwork, Model: model, Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &Error{Reason: ReasonNetwork, Model: model, Err: err}
	}
	return &Error{Reason: ReasonUnknown, Model: model, Err: err}
}
