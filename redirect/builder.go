package redirect

import (
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Return reasons the portal's own URLs are marked with
const (
	ReasonQueryParam = "reason"
	ReasonLogout     = "logout"
	ReasonInactive   = "inactive"

	LoginRedirectPath = "/login-redirect"
)

// FlowType selects a hosted UI page
type FlowType string

const (
	FlowLogin  FlowType = "login"
	FlowSignup FlowType = "signup"
)

// Builder computes identity provider and portal return URLs. It has no side effects.
type Builder struct {
	origin   string // Portal origin, e.g. "https://portal.example.com"
	domain   string // Hosted UI domain, e.g. "https://auth.example.com"
	clientID string
}

func NewBuilder(origin, domain, clientID string) *Builder {
	return &Builder{
		origin:   strings.TrimSuffix(origin, "/"),
		domain:   strings.TrimSuffix(domain, "/"),
		clientID: clientID,
	}
}

// HasDomain reports whether an identity provider domain is configured.
func (b *Builder) HasDomain() bool {
	return b.domain != ""
}

// LoginRedirectURL is where the hosted UI sends the browser after a login, with the token in the fragment.
func (b *Builder) LoginRedirectURL() string {
	return b.origin + LoginRedirectPath
}

func (b *Builder) LogoutRedirectURL() string {
	return b.returnURL(ReasonLogout)
}

func (b *Builder) InactiveLogoutRedirectURL() string {
	return b.returnURL(ReasonInactive)
}

func (b *Builder) returnURL(reason string) string {
	return b.origin + "/?" + url.Values{ReasonQueryParam: {reason}}.Encode()
}

// CognitoAuthURL returns the hosted UI URL for flow using the implicit grant.
func (b *Builder) CognitoAuthURL(flow FlowType) string {
	if flow != FlowSignup {
		flow = FlowLogin
	}
	cfg := oauth2.Config{
		ClientID:    b.clientID,
		RedirectURL: b.LoginRedirectURL(),
		Endpoint: oauth2.Endpoint{
			AuthURL: b.domain + "/" + string(flow),
		},
	}
	return cfg.AuthCodeURL("", oauth2.SetAuthURLParam("response_type", "token"))
}

// CognitoLogoutURL returns the hosted UI logout URL that comes back to the portal marked with reason.
func (b *Builder) CognitoLogoutURL(reason string) string {
	logoutURI := b.LogoutRedirectURL()
	if reason == ReasonInactive {
		logoutURI = b.InactiveLogoutRedirectURL()
	}
	v := url.Values{
		"client_id":  {b.clientID},
		"logout_uri": {logoutURI},
	}
	return b.domain + "/logout?" + v.Encode()
}
