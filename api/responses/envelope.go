package responses

// SuccessEnvelope wraps every 2xx body so clients always unwrap "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire shape of a failed request. Details carries
// structured context (step failures, shortfalls) only when the error
// code permits exposing it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
