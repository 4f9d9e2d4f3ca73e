package auth

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/jrsteele09/go-portal-session/credentials"
	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
	"github.com/jrsteele09/go-portal-session/redirect"
	"github.com/jrsteele09/go-portal-session/sessions"
	"github.com/jrsteele09/go-portal-session/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSessionTimeout is the inactivity period used when none is configured
	DefaultSessionTimeout = 60 * time.Minute

	idTokenParam = "id_token"
)

// CredentialRefresher exchanges an identity token for backend credentials. The result
// is only propagated if guard accepts it.
type CredentialRefresher interface {
	Refresh(ctx context.Context, rawToken string, guard credentials.Guard) (aws.Credentials, error)
}

// CredentialsClearer drops backend credentials when the session ends.
type CredentialsClearer interface {
	ClearCredentials()
}

// Navigator sends the user agent to another URL.
type Navigator interface {
	Redirect(url string)
}

// Timer is a cancellable scheduled callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// Deps are the collaborators a Controller orchestrates.
type Deps struct {
	State       *sessions.State
	Storage     sessions.Storage
	StorageKey  string // User pool ID the token is persisted under
	Refresher   CredentialRefresher
	Credentials CredentialsClearer // Optional
	URLs        *redirect.Builder
	Navigator   Navigator // Optional
}

// Profile is what the portal shows about the signed in user.
type Profile struct {
	Subject string
	Email   string
	Role    string
	Groups  []string
}

// Controller owns the session lifecycle: login, logout, credential refresh and the
// inactivity deadline. It is the only component that mutates the session state.
type Controller struct {
	mu          sync.Mutex
	state       *sessions.State
	storage     sessions.Storage
	storageKey  string
	inspector   *token.Inspector
	refresher   CredentialRefresher
	credentials CredentialsClearer
	urls        *redirect.Builder
	navigator   Navigator

	timeout   time.Duration
	afterFunc AfterFunc
	nowFunc   func() time.Time
	logger    zerolog.Logger

	timer    Timer     // Inactivity timer, non-nil iff authenticated
	timerGen uint64    // Bumped whenever the timer is cancelled
	deadline time.Time // When the current timer fires
}

type ControllerOption func(*Controller)

func WithSessionTimeout(timeout time.Duration) ControllerOption {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

func WithAfterFunc(afterFunc AfterFunc) ControllerOption {
	return func(c *Controller) {
		c.afterFunc = afterFunc
	}
}

func WithNowFunc(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.nowFunc = now
	}
}

func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(deps Deps, options ...ControllerOption) *Controller {
	c := &Controller{
		state:       deps.State,
		storage:     deps.Storage,
		storageKey:  deps.StorageKey,
		inspector:   token.NewInspector(),
		refresher:   deps.Refresher,
		credentials: deps.Credentials,
		urls:        deps.URLs,
		navigator:   deps.Navigator,
		logger:      log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.state == nil {
		c.state = sessions.NewState()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultSessionTimeout
	}
	if c.afterFunc == nil {
		c.afterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	if c.nowFunc == nil {
		c.nowFunc = time.Now
	}
	return c
}

// Init restores a persisted session. A missing, malformed or expired token leaves
// the controller logged out; nothing is reported to the caller.
func (c *Controller) Init(ctx context.Context) {
	raw, err := c.storage.Get(c.storageKey)
	if err != nil || raw == "" {
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			c.logger.Warn().Err(err).Msg("Init: failed to read persisted token")
		}
		c.Logout()
		return
	}

	decoded, err := c.inspector.Decode(raw)
	if err == nil && decoded.IsExpired(c.nowFunc()) {
		err = apperrors.ErrTokenExpired
	}
	if err != nil {
		c.logger.Debug().Err(err).Msg("Init: discarding persisted token")
		if err := c.storage.Clear(); err != nil {
			c.logger.Warn().Err(err).Msg("Init: failed to clear storage")
		}
		c.Logout()
		return
	}

	c.authenticate(ctx, raw, false)
}

// Login reads the id_token from a hosted UI return fragment such as "#id_token=...&access_token=...".
// Without one it fails with ErrMissingToken and the session is left untouched.
// A failed credential exchange is logged and does not fail the login.
func (c *Controller) Login(ctx context.Context, fragment string) (string, error) {
	raw, err := ParseFragment(fragment)
	if err != nil {
		return "", err
	}

	c.authenticate(ctx, raw, true)
	return raw, nil
}

// ParseFragment extracts the id_token parameter from a URL fragment.
func ParseFragment(fragment string) (string, error) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	// ParseQuery keeps every pair it could decode, so a bad pair elsewhere is not fatal
	values, _ := url.ParseQuery(fragment)
	raw := values.Get(idTokenParam)
	if raw == "" {
		return "", apperrors.ErrMissingToken
	}
	return raw, nil
}

// authenticate makes raw the session token, persisting it first when asked, then
// exchanges it for credentials outside the lock.
func (c *Controller) authenticate(ctx context.Context, raw string, persist bool) {
	c.mu.Lock()
	if persist {
		if err := c.storage.Set(c.storageKey, raw); err != nil {
			c.logger.Err(err).Msg("Login: failed to persist token")
		}
	}
	c.state.SetIDToken(raw)
	c.resetTimerLocked()
	sessionID := c.state.SessionID()
	c.mu.Unlock()

	c.logger.Info().
		Str("session_id", sessionID).
		Str("role", c.inspector.PreferredRole(raw)).
		Msg("Session authenticated")

	if err := c.refresh(ctx, raw, sessionID); err != nil {
		c.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Session kept without backend credentials")
	}
}

// RefreshCredentials retries the credential exchange for the current token.
func (c *Controller) RefreshCredentials(ctx context.Context) error {
	c.mu.Lock()
	raw, sessionID := c.state.IDToken(), c.state.SessionID()
	c.mu.Unlock()

	if raw == "" {
		return apperrors.ErrNotAuthenticated
	}
	return c.refresh(ctx, raw, sessionID)
}

func (c *Controller) refresh(ctx context.Context, raw, sessionID string) error {
	_, err := c.refresher.Refresh(ctx, raw, c.guard(sessionID))
	if apperrors.Is(err, apperrors.ErrSessionChanged) {
		c.logger.Debug().Str("session_id", sessionID).Msg("Credentials arrived after the session changed")
	}
	return err
}

// guard applies exchanged credentials under the controller lock, and only while
// sessionID is still the current session. Logout clears credentials under the same
// lock, so a late exchange can never resurrect them.
func (c *Controller) guard(sessionID string) credentials.Guard {
	return func(apply func()) bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sessionID == "" || c.state.SessionID() != sessionID {
			return false
		}
		apply()
		return true
	}
}

// Logout ends the session and sends the browser to the provider's logout page.
// Without a session it does nothing, so calling it twice redirects at most once.
func (c *Controller) Logout() {
	c.logout(redirect.ReasonLogout)
}

func (c *Controller) logout(reason string) {
	c.mu.Lock()
	target, ok := c.logoutLocked(reason)
	c.mu.Unlock()

	if ok && target != "" && c.navigator != nil {
		c.navigator.Redirect(target)
	}
}

// logoutLocked clears the session and returns the logout URL to navigate to, if any.
func (c *Controller) logoutLocked(reason string) (string, bool) {
	if !c.state.IsSet() {
		return "", false
	}
	sessionID := c.state.SessionID()

	c.state.ResetUserData()
	if err := c.storage.Clear(); err != nil {
		c.logger.Err(err).Msg("Logout: failed to clear storage")
	}
	c.stopTimerLocked()
	if c.credentials != nil {
		c.credentials.ClearCredentials()
	}

	c.logger.Info().Str("session_id", sessionID).Str("reason", reason).Msg("Session logged out")

	if c.urls == nil || !c.urls.HasDomain() {
		return "", true
	}
	return c.urls.CognitoLogoutURL(reason), true
}

// OnActivity pushes the inactivity deadline out to now plus the session timeout.
func (c *Controller) OnActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.IsSet() {
		return
	}
	c.resetTimerLocked()
}

func (c *Controller) resetTimerLocked() {
	c.stopTimerLocked()
	gen := c.timerGen
	c.deadline = c.nowFunc().Add(c.timeout)
	c.timer = c.afterFunc(c.timeout, func() { c.onDeadline(gen) })
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.deadline = time.Time{}
	c.timerGen++
}

func (c *Controller) onDeadline(gen uint64) {
	c.mu.Lock()
	if c.timer == nil || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.logger.Info().Str("session_id", c.state.SessionID()).Msg("Inactivity deadline reached")
	target, ok := c.logoutLocked(redirect.ReasonInactive)
	c.mu.Unlock()

	if ok && target != "" && c.navigator != nil {
		c.navigator.Redirect(target)
	}
}

// Deadline returns when the session will be logged out for inactivity.
func (c *Controller) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deadline, c.timer != nil
}

// Close cancels the inactivity timer without ending the session, e.g. on shutdown.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func (c *Controller) IsAuthenticated() bool {
	return c.state.IsSet()
}

func (c *Controller) IsAdmin() bool {
	return c.inspector.IsAdmin(c.state.IDToken())
}

func (c *Controller) IsRegistered() bool {
	return c.inspector.IsRegistered(c.state.IDToken())
}

// Profile decodes the current token.
func (c *Controller) Profile() (Profile, error) {
	raw := c.state.IDToken()
	if raw == "" {
		return Profile{}, apperrors.ErrNotAuthenticated
	}
	decoded, err := c.inspector.Decode(raw)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Subject: decoded.Subject,
		Email:   decoded.Email,
		Role:    decoded.PreferredRole,
		Groups:  decoded.Groups,
	}, nil
}
