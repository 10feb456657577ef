package token

import (
	"errors"
	"fmt"
	"time"

	"aiqr-api/apperror"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed lifetime of every access token. Issued-at and expiry are
// whole seconds, truncated, so a token expires up to a second before issue
// time + TTL.
const TTL = 2 * time.Hour

const unauthorizedMessage = "Unauthorized Access, Please Login/Register first"

// Role selects the signing secret. The zero value is not a role.
type Role int

const (
	roleUnknown Role = iota
	Authorizer
	Vendor
	Consumer
	roleCount
)

var roleNames = [roleCount]string{
	Authorizer: "AUTHORIZER",
	Vendor:     "VENDOR",
	Consumer:   "CONSUMER",
}

func (r Role) valid() bool { return r > roleUnknown && r < roleCount }

func (r Role) String() string {
	if !r.valid() {
		return "UNKNOWN"
	}
	return roleNames[r]
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.valid() {
		return nil, fmt.Errorf("token: invalid role %d", int(r))
	}
	return []byte(roleNames[r]), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	for candidate := Authorizer; candidate < roleCount; candidate++ {
		if roleNames[candidate] == string(b) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("token: unknown role %q", b)
}

// Secrets holds one signing key per role
type Secrets struct {
	Authorizer string
	Vendor     string
	Consumer   string
}

// Claims is what a verified token tells the caller
type Claims struct {
	Role Role `json:"generatedBy"`
	jwt.RegisteredClaims
}

// SubjectID is the id of the authorizer, restaurant or consumer the token was issued to
func (c *Claims) SubjectID() string { return c.Subject }

func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

type Service struct {
	keys [roleCount][]byte
	now  func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService refuses empty or shared secrets, so a role without its own key
// cannot exist at runtime.
func NewService(secrets Secrets, opts ...Option) (*Service, error) {
	s := &Service{now: time.Now}
	s.keys[Authorizer] = []byte(secrets.Authorizer)
	s.keys[Vendor] = []byte(secrets.Vendor)
	s.keys[Consumer] = []byte(secrets.Consumer)

	seen := map[string]Role{}
	for r := Authorizer; r < roleCount; r++ {
		key := string(s.keys[r])
		if key == "" {
			return nil, fmt.Errorf("token: %s secret is empty", r)
		}
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("token: %s and %s share a secret", other, r)
		}
		seen[key] = r
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject with the role's secret
func (s *Service) Issue(subject string, role Role) (string, error) {
	if !role.valid() {
		return "", apperror.Server("issue token", fmt.Errorf("token: invalid role %d", int(role)))
	}
	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.keys[role])
	if err != nil {
		return "", apperror.Server("sign token", err)
	}
	return signed, nil
}

// Verify checks raw against the expected role's secret only. Any failure,
// including a missing token, is InvalidAuthorization.
func (s *Service) Verify(raw string, expected Role) (*Claims, error) {
	if raw == "" || !expected.valid() {
		return nil, apperror.InvalidAuthorization(unauthorizedMessage)
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.keys[expected], nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return nil, &apperror.Error{
			Kind:    apperror.KindInvalidAuthorization,
			Message: unauthorizedMessage,
			Err:     errors.Join(errInvalidToken, err),
		}
	}
	if claims.Role != expected || claims.Subject == "" {
		return nil, apperror.InvalidAuthorization(unauthorizedMessage)
	}
	return claims, nil
}

var errInvalidToken = errors.New("token: verification failed")
