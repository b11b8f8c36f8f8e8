package model

// Error type constants for ResponseError.
const (
	ErrorTypeAPIError     = "api_error"
	ErrorTypeInvalidInput = "invalid_input"
)

// ResponseError carries an API-level error from the provider.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the output of Generator.Generate.
type Response struct {
	// ID is the provider-assigned completion id, when available.
	ID string `json:"id,omitempty"`
	// Model is the provider-reported model name.
	Model string `json:"model,omitempty"`
	// Message is the completed assistant message, possibly carrying
	// tool calls instead of (or in addition to) text content.
	Message Message `json:"message"`
	// Usage reports token accounting, when available.
	Usage *Usage `json:"usage,omitempty"`
	// Error carries an API-level error from the provider.
	Error *ResponseError `json:"error,omitempty"`
}
