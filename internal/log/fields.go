package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldDurationHuman = "duration_human"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"

	FieldUserPhone   = "user_phone"
	FieldMessageID   = "message_id"
	FieldMessageType = "message_type"
	FieldIntent      = "intent"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldConfidence  = "confidence"
	FieldPeriod      = "period"
	FieldExpenseID   = "expense_id"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
