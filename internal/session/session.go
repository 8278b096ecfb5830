// Package session carries the signed-in user's identity explicitly to the
// parts of careerdesk that need it.
package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// Role is the platform role carried in the token payload.
type Role string

const (
	RoleAnonymous  Role = ""
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole normalises spellings such as "Super_Admin" or "super-admin".
func ParseRole(raw string) Role {
	cleaned := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch cleaned {
	case "student":
		return RoleStudent
	case "admin":
		return RoleAdmin
	case "superadmin":
		return RoleSuperAdmin
	default:
		return Role(cleaned)
	}
}

// Claims is the subset of the token payload careerdesk relies on.
type Claims struct {
	Role      Role
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Session is the token plus its decoded claims. The zero value is an
// anonymous session.
type Session struct {
	Token  string
	Claims Claims
}

// Anonymous returns a session with no identity.
func Anonymous() Session {
	return Session{}
}

// FromToken decodes token without verifying its signature. The backend
// remains the authority; the client only needs the role and user id.
func FromToken(token string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Session{}, apperrors.NewValidationError("token", "token is empty", nil)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, apperrors.NewValidationError("token", "token payload could not be decoded", err)
	}

	decoded := Claims{
		Role:   ParseRole(stringClaim(claims, "role")),
		UserID: firstClaim(claims, "id", "_id", "userId", "user_id", "sub"),
		Email:  stringClaim(claims, "email"),
	}
	if exp, ok := numericClaim(claims, "exp"); ok {
		decoded.ExpiresAt = time.Unix(exp, 0).UTC()
	}
	if decoded.Role == RoleAnonymous {
		return Session{}, apperrors.NewValidationError("token", "token payload has no role", nil)
	}

	return Session{Token: token, Claims: decoded}, nil
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Expired reports whether the token's exp claim is before now. Tokens
// without exp never expire client-side.
func (s Session) Expired(now time.Time) bool {
	return !s.Claims.ExpiresAt.IsZero() && now.After(s.Claims.ExpiresAt)
}

// Role returns the session role.
func (s Session) Role() Role {
	return s.Claims.Role
}

// CanPost reports whether the user may publish jobs and internships.
func (s Session) CanPost() bool {
	return s.Claims.Role == RoleAdmin || s.Claims.Role == RoleSuperAdmin
}

// CanManageStudents reports whether the user may view and edit student
// records and achievements.
func (s Session) CanManageStudents() bool {
	return s.Claims.Role == RoleSuperAdmin
}

// CanApply reports whether the user may apply to listings.
func (s Session) CanApply() bool {
	return s.Claims.Role == RoleStudent
}

// Describe is a one-line summary for whoami and the profile menu.
func (s Session) Describe() string {
	if !s.Authenticated() {
		return "not signed in"
	}
	who := s.Claims.UserID
	if s.Claims.Email != "" {
		who = s.Claims.Email
	}
	if who == "" {
		who = "unknown user"
	}
	return fmt.Sprintf("%s (%s)", who, s.Claims.Role)
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v := stringClaim(claims, key); v != "" {
			return v
		}
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func numericClaim(claims jwt.MapClaims, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
