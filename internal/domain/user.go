package domain

// UserRole is the role carried in the bearer token issued by the main
// application. Token issuance happens outside this service.
type UserRole string

const (
	UserRoleAdmin      UserRole = "admin"
	UserRoleInstructor UserRole = "instructor"
)
