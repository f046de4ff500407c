// Package evidence defines the collaborator ports the intake wizard calls to
// check submitted evidence, plus development implementations that run
// without external providers.
//
// Every rejection is returned as a domain error with CodeEvidenceRejected so
// the wizard can surface the reason without advancing the step. Transport
// failures stay ordinary errors and must not look like rejections.
package evidence

//go:generate mockgen -source=evidence.go -destination=mocks/mocks.go -package=mocks

import "context"

// Result is a successful check: the opaque reference stored on the
// completion instead of the raw evidence.
type Result struct {
	Reference string
}

// DocumentAnalyzer checks a student ID document.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, documentRef string) (Result, error)
}

// EmailVerifier runs the challenge/confirm loop for a university email.
type EmailVerifier interface {
	Challenge(ctx context.Context, email string) error
	Confirm(ctx context.Context, email, code string) (Result, error)
}

// PhoneVerifier runs the challenge/confirm loop for a phone number.
type PhoneVerifier interface {
	Challenge(ctx context.Context, phone string) error
	Confirm(ctx context.Context, phone, code string) (Result, error)
}

// SocialVerifier checks a linked social media profile.
type SocialVerifier interface {
	Verify(ctx context.Context, profileURL string) (Result, error)
}

// LocationVerifier checks submitted coordinates against the campus area.
type LocationVerifier interface {
	Verify(ctx context.Context, lat, lon float64) (Result, error)
}

// Verifiers bundles the ports the session service needs.
type Verifiers struct {
	Document DocumentAnalyzer
	Email    EmailVerifier
	Phone    PhoneVerifier
	Social   SocialVerifier
	Location LocationVerifier
}
