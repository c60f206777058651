package models

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`

	// Context labels the log entry. Defaults to Manual.
	Context string `json:"context,omitempty"`
}
