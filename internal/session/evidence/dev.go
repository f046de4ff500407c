package evidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"regexp"
	"strings"

	"campustrust/internal/session/evidence/otp"
	dErrors "campustrust/pkg/domain-errors"
)

// DevEmailVerifier accepts university domains and delivers codes to the log
// instead of an email provider.
type DevEmailVerifier struct {
	codes   *otp.Store
	domains []string
	logger  *slog.Logger
}

// NewDevEmailVerifier builds the dev verifier. domains lists accepted email
// suffixes; empty means the ".edu" default.
func NewDevEmailVerifier(codes *otp.Store, domains []string, logger *slog.Logger) *DevEmailVerifier {
	if len(domains) == 0 {
		domains = []string{".edu"}
	}
	return &DevEmailVerifier{codes: codes, domains: domains, logger: logger}
}

func (v *DevEmailVerifier) Challenge(ctx context.Context, email string) error {
	if err := v.checkDomain(email); err != nil {
		return err
	}
	code, err := v.codes.Issue(ctx, email)
	if err != nil {
		return err
	}
	// Dev-only delivery. A real provider integration replaces this log line.
	v.logger.InfoContext(ctx, "verification code issued", "channel", "email", "destination", email, "code", code)
	return nil
}

func (v *DevEmailVerifier) Confirm(ctx context.Context, email, code string) (Result, error) {
	if err := v.checkDomain(email); err != nil {
		return Result{}, err
	}
	if err := v.codes.Check(ctx, email, code); err != nil {
		return Result{}, err
	}
	return Result{Reference: "email:" + hashRef(email)}, nil
}

func (v *DevEmailVerifier) checkDomain(email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	domain := strings.ToLower(email[at+1:])
	for _, suffix := range v.domains {
		if strings.HasSuffix("."+domain, strings.ToLower(suffix)) {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeEvidenceRejected, "email domain is not a recognized university domain")
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// DevPhoneVerifier delivers codes to the log instead of an SMS provider.
type DevPhoneVerifier struct {
	codes  *otp.Store
	logger *slog.Logger
}

func NewDevPhoneVerifier(codes *otp.Store, logger *slog.Logger) *DevPhoneVerifier {
	return &DevPhoneVerifier{codes: codes, logger: logger}
}

func (v *DevPhoneVerifier) Challenge(ctx context.Context, phone string) error {
	if !phonePattern.MatchString(phone) {
		return dErrors.New(dErrors.CodeValidation, "invalid phone number")
	}
	code, err := v.codes.Issue(ctx, phone)
	if err != nil {
		return err
	}
	v.logger.InfoContext(ctx, "verification code issued", "channel", "sms", "destination", phone, "code", code)
	return nil
}

func (v *DevPhoneVerifier) Confirm(ctx context.Context, phone, code string) (Result, error) {
	if !phonePattern.MatchString(phone) {
		return Result{}, dErrors.New(dErrors.CodeValidation, "invalid phone number")
	}
	if err := v.codes.Check(ctx, phone, code); err != nil {
		return Result{}, err
	}
	return Result{Reference: "phone:" + hashRef(phone)}, nil
}

// DevDocumentAnalyzer accepts uploads that look like a scanned document.
type DevDocumentAnalyzer struct{}

func NewDevDocumentAnalyzer() *DevDocumentAnalyzer {
	return &DevDocumentAnalyzer{}
}

var documentExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}

func (a *DevDocumentAnalyzer) Analyze(_ context.Context, documentRef string) (Result, error) {
	if documentRef == "" {
		return Result{}, dErrors.New(dErrors.CodeValidation, "document reference is required")
	}
	lower := strings.ToLower(documentRef)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(lower, ext) {
			return Result{Reference: "document:" + hashRef(documentRef)}, nil
		}
	}
	return Result{}, dErrors.New(dErrors.CodeEvidenceRejected, "document must be a jpg, png, or pdf scan")
}

var socialHosts = map[string]bool{
	"instagram.com":     true,
	"www.instagram.com": true,
	"linkedin.com":      true,
	"www.linkedin.com":  true,
	"facebook.com":      true,
	"www.facebook.com":  true,
}

// DevSocialVerifier accepts profile URLs on the supported networks.
type DevSocialVerifier struct{}

func NewDevSocialVerifier() *DevSocialVerifier {
	return &DevSocialVerifier{}
}

func (v *DevSocialVerifier) Verify(_ context.Context, profileURL string) (Result, error) {
	u, err := url.Parse(profileURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return Result{}, dErrors.New(dErrors.CodeValidation, "profile URL must be an https link")
	}
	if !socialHosts[strings.ToLower(u.Host)] {
		return Result{}, dErrors.New(dErrors.CodeEvidenceRejected, "unsupported social network")
	}
	if strings.Trim(u.Path, "/") == "" {
		return Result{}, dErrors.New(dErrors.CodeEvidenceRejected, "link must point at a profile, not the network homepage")
	}
	return Result{Reference: "social:" + hashRef(profileURL)}, nil
}

// DevLocationVerifier accepts coordinates within a radius of the campus.
type DevLocationVerifier struct {
	lat      float64
	lon      float64
	radiusKM float64
}

func NewDevLocationVerifier(lat, lon, radiusKM float64) *DevLocationVerifier {
	return &DevLocationVerifier{lat: lat, lon: lon, radiusKM: radiusKM}
}

func (v *DevLocationVerifier) Verify(_ context.Context, lat, lon float64) (Result, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Result{}, dErrors.New(dErrors.CodeValidation, "coordinates out of range")
	}
	if haversineKM(v.lat, v.lon, lat, lon) > v.radiusKM {
		return Result{}, dErrors.New(dErrors.CodeEvidenceRejected, "location is outside the campus area")
	}
	return Result{Reference: fmt.Sprintf("location:%.4f,%.4f", lat, lon)}, nil
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

func hashRef(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
