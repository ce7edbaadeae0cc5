package log

// Canonical field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldCardID    = "card_id"
	FieldDeviceID  = "device_id"
	FieldUserID    = "user_id"
	FieldSessionID = "session_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
)
