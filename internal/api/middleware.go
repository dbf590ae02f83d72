package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped only when the envelope structure itself changes.
// Clients key their parsers off the "v" field.
const envelopeVersion = 1

// Envelope is the uniform JSON wrapper for every API response.
// Success responses carry Data; error responses carry Error and,
// when available, the machine-readable Code/Message/Details triple.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload on success"`
	Error   string `json:"error,omitempty" doc:"Human-readable error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Detailed error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in an Envelope.
// Registered on the huma config so handlers return plain bodies.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if strings.HasPrefix(status, "2") {
		return &Envelope{
			V:       envelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}

	env := &Envelope{
		V:       envelopeVersion,
		Success: false,
	}

	switch e := v.(type) {
	case *APIError:
		env.Error = e.Message
		env.Code = e.Code
		env.Message = e.Message
		env.Details = e.Details
	case error:
		env.Error = e.Error()
	default:
		// Non-error body on an error status. Pass it through as data so
		// nothing is silently dropped.
		env.Data = v
	}

	return env, nil
}
