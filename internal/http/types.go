package http

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// AskResponse is the response body for POST /api/v1/ask.
type AskResponse struct {
	Transcript string   `json:"transcript"`
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	AudioURL   string   `json:"audio_url"`
}

// AskTextRequest is the request body for POST /api/v1/ask/text.
type AskTextRequest struct {
	Question string `json:"question"`
}

// AskTextResponse is the response body for POST /api/v1/ask/text.
type AskTextResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// AddDocumentRequest is the request body for POST /api/v1/documents.
type AddDocumentRequest struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AddDocumentResponse is the response body for POST /api/v1/documents.
type AddDocumentResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// CountResponse is the response body for GET /api/v1/documents/count.
type CountResponse struct {
	Count int `json:"count"`
}

// VoicesResponse is the response body for GET /api/v1/voices.
type VoicesResponse struct {
	Voices   []string `json:"voices"`
	Selected string   `json:"selected"`
}

// SetVoiceRequest is the request body for PUT /api/v1/voice.
type SetVoiceRequest struct {
	Voice string `json:"voice"`
}

// SetVoiceResponse is the response body for PUT /api/v1/voice.
type SetVoiceResponse struct {
	Voice string `json:"voice"`
}
