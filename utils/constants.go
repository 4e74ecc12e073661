package utils

// Gin context keys shared by middleware and handlers.
const (
	RequestIDKey = "requestID"
	SubjectKey   = "subject"
	RoleKey      = "role"
	LoggerKey    = "logger"
)

// Token roles.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)
