package handler

const (
	errInternalServer    = "Internal server error"
	errUnauthorizedEmail = "Unauthorized email"
	errTokenInvalid      = "Invalid token"
	errTokenExpired      = "Token expired"
)
