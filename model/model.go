// Package model provides interfaces for working with LLMs.
package model

import "context"

// Generator is the interface for all language model backends.
//
// Error handling uses two layers: the returned error covers system-level
// failures (nil request, transport errors), while Response.Error carries
// API-level errors from the provider. Callers that treat generation as
// advisory should inspect Response.Error and fall back rather than abort.
type Generator interface {
	// Generate produces a single completion for the given request.
	Generate(ctx context.Context, request *Request) (*Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info contains basic information about a Generator.
type Info struct {
	Name string
}
