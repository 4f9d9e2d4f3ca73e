package tokenfakes

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	AdminRole      = "arn:aws:iam::123456789012:role/portal-CognitoAdminRole-1A2B3C"
	RegisteredRole = "arn:aws:iam::123456789012:role/portal-CognitoRegisteredRole-4D5E6F"
)

var signingKey = []byte("portal-session-test-key")

// New mints an HS256 identity token expiring at exp with the given preferred role.
// An empty role leaves the claim out.
func New(exp time.Time, role string) string {
	claims := jwtlib.MapClaims{
		"sub":       "user-1",
		"email":     "john.doe@example.com",
		"token_use": "id",
		"exp":       exp.Unix(),
	}
	if role != "" {
		claims["cognito:preferred_role"] = role
	}
	return NewWithClaims(claims)
}

// NewWithClaims mints an HS256 token carrying exactly claims.
func NewWithClaims(claims jwtlib.MapClaims) string {
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}
