package types

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// OKBody acknowledges operations that return no resource.
type OKBody struct {
	OK bool `json:"ok"`
}
