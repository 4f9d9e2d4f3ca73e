package apiclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/jrsteele09/go-portal-session/apiclient"
	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
	"github.com/stretchr/testify/require"
)

var testCreds = aws.Credentials{
	AccessKeyID:     "AKIDEXAMPLE",
	SecretAccessKey: "secret",
	SessionToken:    "session-token",
}

func TestClient_NotifySignIn(t *testing.T) {
	var gotPath, gotAuth, gotToken, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotToken = r.Header.Get("X-Amz-Security-Token")
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, r.Body)
		gotBody = buf.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, "eu-west-1")
	c.SetCredentials(testCreds)

	require.NoError(t, c.NotifySignIn(context.Background()))
	require.Equal(t, apiclient.SignInPath, gotPath)
	require.True(t, strings.HasPrefix(gotAuth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/"))
	require.Contains(t, gotAuth, "/eu-west-1/execute-api/aws4_request")
	require.Equal(t, "session-token", gotToken)
	require.Equal(t, "{}", gotBody)
}

func TestClient_Post(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		c := apiclient.New("http://127.0.0.1:1", "eu-west-1")
		err := c.Post(context.Background(), "/x", nil)
		require.ErrorIs(t, err, apperrors.ErrNoCredentials)
	})

	t.Run("cleared credentials", func(t *testing.T) {
		c := apiclient.New("http://127.0.0.1:1", "eu-west-1")
		c.SetCredentials(testCreds)
		c.ClearCredentials()
		_, ok := c.Credentials()
		require.False(t, ok)
	})

	t.Run("error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c := apiclient.New(srv.URL+"/", "eu-west-1", apiclient.WithHTTPClient(srv.Client()))
		c.SetCredentials(testCreds)
		err := c.Post(context.Background(), "/items", map[string]string{"a": "b"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unexpected status 403")
	})
}
