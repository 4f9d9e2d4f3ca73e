package sessions_test

import (
	"testing"

	"github.com/jrsteele09/go-portal-session/sessions"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		s := sessions.NewState()
		require.False(t, s.IsSet())
		require.Empty(t, s.IDToken())
		require.Empty(t, s.SessionID())
	})

	t.Run("set token assigns a session id", func(t *testing.T) {
		s := sessions.NewState()
		s.SetIDToken("token-1")
		require.True(t, s.IsSet())
		require.Equal(t, "token-1", s.IDToken())
		first := s.SessionID()
		require.NotEmpty(t, first)

		s.SetIDToken("token-2")
		require.Equal(t, "token-2", s.IDToken())
		require.NotEqual(t, first, s.SessionID())
	})

	t.Run("reset clears token and session id together", func(t *testing.T) {
		s := sessions.NewState()
		s.SetIDToken("token-1")
		s.ResetUserData()
		require.False(t, s.IsSet())
		require.Empty(t, s.SessionID())
	})

	t.Run("setting an empty token clears the session id", func(t *testing.T) {
		s := sessions.NewState()
		s.SetIDToken("token-1")
		s.SetIDToken("")
		require.Empty(t, s.SessionID())
	})
}
