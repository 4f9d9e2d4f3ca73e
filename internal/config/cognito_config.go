package config

import "strings"

type Cognito struct{}

var _ CognitoConfig = Cognito{}

// GetCognitoDomain returns the hosted UI domain. Empty disables identity provider redirects.
func (Cognito) GetCognitoDomain() string {
	domain := strings.TrimSuffix(GetEnv("COGNITO_DOMAIN", ""), "/")
	if domain != "" && !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}
	return domain
}

func (Cognito) GetClientID() string {
	return GetEnv("COGNITO_CLIENT_ID", "")
}

func (Cognito) GetIdentityPoolID() string {
	return GetEnv("COGNITO_IDENTITY_POOL_ID", "")
}

func (Cognito) GetUserPoolID() string {
	return GetEnv("COGNITO_USER_POOL_ID", "")
}

func (Cognito) GetRegion() string {
	return GetEnv("COGNITO_REGION", "us-east-1")
}
