package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"

	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"

	ResourceTypeLink  = "LINK"
	ResourceTypePDF   = "PDF"
	ResourceTypeVideo = "VIDEO"
	ResourceTypeCode  = "CODE"

	CertificatePrefix = "CERT"
)
