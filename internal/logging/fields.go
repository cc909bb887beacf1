package logging

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldHook       = "hook"
	FieldQueryKey   = "query_key"
	FieldQueryHash  = "query_hash"
	FieldEntity     = "entity"
	FieldIdentifier = "identifier"
	FieldAccount    = "account"
	FieldPaymentID  = "payment_id"
	FieldUpdated    = "updated"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
)

// Components defines standard component names
const (
	ComponentCache     = "cache"
	ComponentAPI       = "api"
	ComponentMutations = "mutations"
)
