package sse

// ConnectedPayload is the payload of the first event on a new SSE stream,
// echoing back the filters the connection was registered with.
type ConnectedPayload struct {
	ClientID  string   `json:"client_id"`
	ProfileID string   `json:"profile_id,omitempty"`
	Filters   []string `json:"filters,omitempty"`
}
