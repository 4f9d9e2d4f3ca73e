package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-portal-session/activity"
	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
	"github.com/jrsteele09/go-portal-session/redirect"
	"github.com/rs/zerolog/log"
)

// SessionStatus is what UI components read to decide what to render
type SessionStatus struct {
	Authenticated bool     `json:"authenticated"`
	Admin         bool     `json:"admin"`
	Registered    bool     `json:"registered"`
	Email         string   `json:"email,omitempty"`
	Groups        []string `json:"groups,omitempty"`
	Redirect      string   `json:"redirect,omitempty"` // Pending navigation, e.g. after an inactivity logout
}

type loginRequest struct {
	Fragment string `json:"fragment"`
}

type loginResponse struct {
	IDToken string `json:"id_token"`
}

type logoutResponse struct {
	Redirect string `json:"redirect,omitempty"`
}

type activityRequest struct {
	Type string `json:"type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// IndexHandler reports the application name and the hosted UI login URL
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]interface{}{
			"app_name": s.config.GetAppName(),
		}
		if s.urls.HasDomain() {
			data["login_url"] = s.urls.CognitoAuthURL(redirect.FlowLogin)
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// SessionStatusHandler returns the session flags and hands over any pending redirect
func (s *Server) SessionStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := SessionStatus{
			Authenticated: s.controller.IsAuthenticated(),
			Admin:         s.controller.IsAdmin(),
			Registered:    s.controller.IsRegistered(),
			Redirect:      s.navigator.Take(),
		}
		if profile, err := s.controller.Profile(); err == nil {
			status.Email = profile.Email
			status.Groups = profile.Groups
		}
		writeJSON(w, http.StatusOK, status)
	}
}

// LoginRedirectHandler sends the browser to the hosted UI (?flow=signup for sign up)
func (s *Server) LoginRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.urls.HasDomain() {
			writeError(w, http.StatusServiceUnavailable, "identity provider not configured")
			return
		}
		flow := redirect.FlowType(r.URL.Query().Get("flow"))
		redirectSuccess(w, r, s.urls.CognitoAuthURL(flow))
	}
}

// LoginHandler completes a login from the fragment the hosted UI returned to the portal
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rawToken, err := s.controller.Login(r.Context(), req.Fragment)
		if err != nil {
			if errors.Is(err, apperrors.ErrMissingToken) {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			log.Err(err).Msg("Login failed")
			writeError(w, http.StatusInternalServerError, "login failed")
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{IDToken: rawToken})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.controller.Logout()
		writeJSON(w, http.StatusOK, logoutResponse{Redirect: s.navigator.Take()})
	}
}

// ActivityHandler forwards an interaction signal to the activity monitor
func (s *Server) ActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		signal, ok := activity.ParseSignal(req.Type)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown activity type")
			return
		}
		s.monitor.Signal(signal)
		w.WriteHeader(http.StatusNoContent)
	}
}

// RefreshHandler retries the credential exchange for the current session
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.controller.RefreshCredentials(r.Context())
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, apperrors.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, err.Error())
		default:
			writeError(w, http.StatusBadGateway, "credential refresh failed")
		}
	}
}
