package types

// ErrorBody is the wire shape of every failed API response.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}
