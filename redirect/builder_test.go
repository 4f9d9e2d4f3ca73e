package redirect_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-portal-session/redirect"
	"github.com/stretchr/testify/require"
)

const (
	testOrigin   = "https://portal.example.com"
	testDomain   = "https://auth.example.com"
	testClientID = "client-1"
)

func TestBuilder_PortalURLs(t *testing.T) {
	b := redirect.NewBuilder(testOrigin+"/", testDomain, testClientID)

	require.Equal(t, "https://portal.example.com/login-redirect", b.LoginRedirectURL())
	require.Equal(t, "https://portal.example.com/?reason=logout", b.LogoutRedirectURL())
	require.Equal(t, "https://portal.example.com/?reason=inactive", b.InactiveLogoutRedirectURL())
	require.NotEqual(t, b.LogoutRedirectURL(), b.InactiveLogoutRedirectURL())
}

func TestBuilder_CognitoAuthURL(t *testing.T) {
	b := redirect.NewBuilder(testOrigin, testDomain, testClientID)

	t.Run("login", func(t *testing.T) {
		u, err := url.Parse(b.CognitoAuthURL(redirect.FlowLogin))
		require.NoError(t, err)
		require.Equal(t, "auth.example.com", u.Host)
		require.Equal(t, "/login", u.Path)

		q := u.Query()
		require.Equal(t, "token", q.Get("response_type"))
		require.Equal(t, testClientID, q.Get("client_id"))
		require.Equal(t, b.LoginRedirectURL(), q.Get("redirect_uri"))
		require.Empty(t, q.Get("state"))
		require.Empty(t, q.Get("scope"))
	})

	t.Run("signup", func(t *testing.T) {
		u, err := url.Parse(b.CognitoAuthURL(redirect.FlowSignup))
		require.NoError(t, err)
		require.Equal(t, "/signup", u.Path)
		require.Equal(t, "token", u.Query().Get("response_type"))
	})

	t.Run("unknown flow falls back to login", func(t *testing.T) {
		require.Equal(t, b.CognitoAuthURL(redirect.FlowLogin), b.CognitoAuthURL(redirect.FlowType("other")))
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, b.CognitoAuthURL(redirect.FlowLogin), b.CognitoAuthURL(redirect.FlowLogin))
	})
}

func TestBuilder_CognitoLogoutURL(t *testing.T) {
	b := redirect.NewBuilder(testOrigin, testDomain, testClientID)

	t.Run("normal logout", func(t *testing.T) {
		u, err := url.Parse(b.CognitoLogoutURL(redirect.ReasonLogout))
		require.NoError(t, err)
		require.Equal(t, "/logout", u.Path)
		require.Equal(t, testClientID, u.Query().Get("client_id"))
		require.Equal(t, b.LogoutRedirectURL(), u.Query().Get("logout_uri"))
	})

	t.Run("inactivity logout", func(t *testing.T) {
		u, err := url.Parse(b.CognitoLogoutURL(redirect.ReasonInactive))
		require.NoError(t, err)
		require.Equal(t, b.InactiveLogoutRedirectURL(), u.Query().Get("logout_uri"))
	})
}

func TestBuilder_HasDomain(t *testing.T) {
	require.True(t, redirect.NewBuilder(testOrigin, testDomain, testClientID).HasDomain())
	require.False(t, redirect.NewBuilder(testOrigin, "", testClientID).HasDomain())
}
