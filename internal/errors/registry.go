package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Pattern Errors (P001-P099)
	// ============================================

	"P001": {
		Category: CategoryPattern,
		Message:  "Route pattern must start with /",
		Detail:   "Patterns are absolute path templates like /game/:id. Relative patterns are not supported.",
	},
	"P002": {
		Category: CategoryPattern,
		Message:  "Duplicate parameter name in pattern",
		Detail:   "A pattern may bind each :name at most once. A repeated name would silently overwrite the earlier capture.",
	},
	"P003": {
		Category: CategoryPattern,
		Message:  "Empty parameter name in pattern",
		Detail:   "A dynamic segment must name its parameter, e.g. /game/:id rather than /game/:.",
	},

	// ============================================
	// Route Errors (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRoute,
		Message:  "Engine not initialized",
		Detail:   "Call Init before Navigate. Guarded routes require the guard chain to be wired first.",
	},
	"R002": {
		Category: CategoryRoute,
		Message:  "Engine destroyed",
		Detail:   "A destroyed engine is inert and must not be reused. Construct a new engine instead.",
	},
	"R003": {
		Category: CategoryRoute,
		Message:  "Auth guard not configured",
		Detail:   "A route was registered with RequireAuth but the engine has no auth guard. Pass WithAuthGuard when constructing the engine.",
	},

	// ============================================
	// State Errors (S001-S099)
	// ============================================

	"S001": {
		Category: CategoryState,
		Message:  "State type must be a struct",
		Detail:   "store.Base requires a struct state type so commits can be compared field by field.",
	},

	// ============================================
	// Protocol Errors (W001-W099)
	// ============================================

	"W001": {
		Category: CategoryProtocol,
		Message:  "Invalid message format",
		Detail:   "The client sent a frame that could not be decoded.",
	},
	"W002": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Unknown snapshot backend",
		Detail:   "Supported backends are memory, disk, sql, and s3.",
	},
}
