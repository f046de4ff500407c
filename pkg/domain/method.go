package domain

import dErrors "campustrust/pkg/domain-errors"

// Method is a domain value identifying one independent way to prove student
// identity.
//
// Usage: construct via ParseMethod at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Method string

// Supported verification methods.
const (
	MethodUniversityEmail Method = "university_email"
	MethodStudentID       Method = "student_id"
	MethodPhone           Method = "phone"
	MethodSocialMedia     Method = "social_media"
	MethodLocation        Method = "location"
)

// validMethods is the single source of truth for valid verification methods.
var validMethods = map[Method]bool{
	MethodUniversityEmail: true,
	MethodStudentID:       true,
	MethodPhone:           true,
	MethodSocialMedia:     true,
	MethodLocation:        true,
}

// Methods returns all supported methods in canonical order.
func Methods() []Method {
	return []Method{
		MethodUniversityEmail,
		MethodStudentID,
		MethodPhone,
		MethodSocialMedia,
		MethodLocation,
	}
}

// ParseMethod constructs a Method from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "method cannot be empty")
	}
	m := Method(s)
	if !m.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported verification method")
	}
	return m, nil
}

// IsValid checks if the method is one of the supported enum values.
func (m Method) IsValid() bool {
	return validMethods[m]
}

// String returns the string representation of the method.
func (m Method) String() string {
	return string(m)
}
