package domain

// SubjectType differentiates admin vs staff tokens.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
	SubjectTypeStaff SubjectType = "STAFF"
)
