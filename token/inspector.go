package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
	"github.com/jrsteele09/go-portal-session/internal/utils"
)

// Role name markers embedded in the IAM role ARNs the identity pool hands out.
const (
	AdminRoleMarker      = "-CognitoAdminRole-"
	RegisteredRoleMarker = "-CognitoRegisteredRole-"
)

const (
	preferredRoleClaim = "cognito:preferred_role"
	groupsClaim        = "cognito:groups"
)

// DecodedToken holds the claims the portal reads from an identity token.
// It is derived from the raw token every time it is needed and never stored.
type DecodedToken struct {
	ExpiresAt     int64    // Expiry in epoch seconds
	PreferredRole string   // IAM role ARN selected by the user pool, empty when absent
	Subject       string   // Users unique ID
	Email         string   // Email address, when the token carries it
	Groups        []string // User pool groups
}

// IsExpired reports whether the token expired at or before now.
func (d DecodedToken) IsExpired(now time.Time) bool {
	return d.ExpiresAt*1000 <= now.UnixMilli()
}

func (d DecodedToken) IsAdmin() bool {
	return IsAdminRole(d.PreferredRole)
}

func (d DecodedToken) IsRegistered() bool {
	return IsRegisteredRole(d.PreferredRole)
}

// Inspector decodes identity tokens without verifying their signature.
// The token was handed to us by the identity provider redirect; trust is the provider's concern.
type Inspector struct {
	parser *jwtlib.Parser
}

// NewInspector creates a new token inspector
func NewInspector() *Inspector {
	return &Inspector{parser: jwtlib.NewParser()}
}

// Decode extracts the claims of rawToken. It fails with ErrMalformedToken when the
// token is not a JWT or carries no expiry.
func (i *Inspector) Decode(rawToken string) (DecodedToken, error) {
	if strings.TrimSpace(rawToken) == "" {
		return DecodedToken{}, fmt.Errorf("%w: empty token", apperrors.ErrMalformedToken)
	}

	token, _, err := i.parser.ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return DecodedToken{}, fmt.Errorf("%w: %w", apperrors.ErrMalformedToken, err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return DecodedToken{}, fmt.Errorf("%w: error extracting claims", apperrors.ErrMalformedToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return DecodedToken{}, fmt.Errorf("%w: %w", apperrors.ErrMalformedToken, err)
	}
	if exp == nil {
		return DecodedToken{}, fmt.Errorf("%w: token missing exp claim", apperrors.ErrMalformedToken)
	}

	role, _ := claims[preferredRoleClaim].(string)
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)

	return DecodedToken{
		ExpiresAt:     exp.Unix(),
		PreferredRole: role,
		Subject:       sub,
		Email:         email,
		Groups:        utils.ToStringSlice(claims[groupsClaim]),
	}, nil
}

// IsExpired decodes rawToken and compares its expiry with now.
func (i *Inspector) IsExpired(rawToken string, now time.Time) (bool, error) {
	decoded, err := i.Decode(rawToken)
	if err != nil {
		return true, err
	}
	return decoded.IsExpired(now), nil
}

// PreferredRole returns the preferred role claim, or "" if it is absent or the token can't be decoded.
// A token without an exp claim does not decode, so its role is reported as "" too.
func (i *Inspector) PreferredRole(rawToken string) string {
	decoded, err := i.Decode(rawToken)
	if err != nil {
		return ""
	}
	return decoded.PreferredRole
}

func (i *Inspector) IsAdmin(rawToken string) bool {
	return IsAdminRole(i.PreferredRole(rawToken))
}

func (i *Inspector) IsRegistered(rawToken string) bool {
	return IsRegisteredRole(i.PreferredRole(rawToken))
}

func IsAdminRole(role string) bool {
	return role != "" && strings.Contains(role, AdminRoleMarker)
}

func IsRegisteredRole(role string) bool {
	return role != "" && strings.Contains(role, RegisteredRoleMarker)
}
