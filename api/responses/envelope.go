package responses

// Success wraps every 2xx body.
type Success struct {
	Data any `json:"data"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Failure wraps every error body.
type Failure struct {
	Error ErrorBody `json:"error"`
}
