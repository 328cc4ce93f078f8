package backendapi

import "encoding/json"

// errorResponse is the backend's error body. Parsing it is best effort: an
// unreadable body falls back to a generic message, never an error.
type errorResponse struct {
	Detail string `json:"detail"`
}

func parseDetail(body []byte, fallback string) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return fallback
}

// Session is the payload returned by a successful login. The terminal
// forwards it untouched to the clerk UI.
type Session struct {
	Payload json.RawMessage
}
