package middleware

// Context keys used to store request and operator metadata.
const (
	ContextKeyOperator  = "operator"
	ContextKeyRole      = "role"
	ContextKeyRequestID = "request_id"
)
