package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
	"github.com/jrsteele09/go-portal-session/internal/utils"
	"github.com/jrsteele09/go-portal-session/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	credentialsSource   = "CognitoIdentityPool"
	notificationTimeout = 10 * time.Second
)

// IdentityClient is the subset of the Cognito Identity API used for the exchange.
type IdentityClient interface {
	GetId(ctx context.Context, params *cognitoidentity.GetIdInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetIdOutput, error)
	GetCredentialsForIdentity(ctx context.Context, params *cognitoidentity.GetCredentialsForIdentityInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetCredentialsForIdentityOutput, error)
}

// CredentialsSink receives freshly exchanged credentials, i.e. the API calling layer.
type CredentialsSink interface {
	SetCredentials(creds aws.Credentials)
}

// Notifier is told, best effort, about a successful sign-in.
type Notifier interface {
	NotifySignIn(ctx context.Context) error
}

// Guard runs apply only while the session that requested the exchange is still the
// current one, and reports whether it did. A nil Guard always applies.
type Guard func(apply func()) bool

// PoolConfig scopes the exchange to one identity pool.
type PoolConfig struct {
	IdentityPoolID string
	UserPoolID     string
	Region         string
}

// Bridge exchanges identity tokens for temporary AWS credentials.
type Bridge struct {
	identity  IdentityClient
	inspector *token.Inspector
	pool      PoolConfig
	sink      CredentialsSink
	notifier  Notifier
	runTask   func(task func())
	logger    zerolog.Logger
}

type BridgeOption func(*Bridge)

// WithTaskRunner replaces how detached tasks (the sign-in notification) are started.
func WithTaskRunner(run func(task func())) BridgeOption {
	return func(b *Bridge) {
		b.runTask = run
	}
}

func WithLogger(logger zerolog.Logger) BridgeOption {
	return func(b *Bridge) {
		b.logger = logger
	}
}

func NewBridge(identity IdentityClient, pool PoolConfig, sink CredentialsSink, notifier Notifier, options ...BridgeOption) *Bridge {
	b := &Bridge{
		identity:  identity,
		inspector: token.NewInspector(),
		pool:      pool,
		sink:      sink,
		notifier:  notifier,
		runTask:   func(task func()) { go task() },
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// NewCognitoIdentityClient builds an unsigned Cognito Identity client; GetId and
// GetCredentialsForIdentity are authorised by the identity token itself.
func NewCognitoIdentityClient(region string) *cognitoidentity.Client {
	return cognitoidentity.NewFromConfig(aws.Config{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	})
}

// LoginsKey is the provider name the user pool is registered under in the identity pool.
func (p PoolConfig) LoginsKey() string {
	return fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", p.Region, p.UserPoolID)
}

// Refresh exchanges rawToken for credentials scoped to the token's preferred role and
// hands them to the sink through guard. Failures are returned wrapped in
// ErrCredentialRefresh; the caller decides whether to retry or log out. If guard
// rejects the result nothing is propagated and ErrSessionChanged is returned.
func (b *Bridge) Refresh(ctx context.Context, rawToken string, guard Guard) (aws.Credentials, error) {
	creds, err := b.exchange(ctx, rawToken)
	if err != nil {
		err = fmt.Errorf("%w: %w", apperrors.ErrCredentialRefresh, err)
		b.logger.Err(err).Str("identity_pool", b.pool.IdentityPoolID).Msg("Credential refresh failed")
		return aws.Credentials{}, err
	}

	propagate := func() {
		if b.sink != nil {
			b.sink.SetCredentials(creds)
		}
		b.notifySignIn(ctx)
	}
	if guard == nil {
		propagate()
		return creds, nil
	}
	if !guard(propagate) {
		b.logger.Debug().Str("identity_pool", b.pool.IdentityPoolID).Msg("Discarding credentials for a replaced session")
		return aws.Credentials{}, apperrors.ErrSessionChanged
	}
	return creds, nil
}

func (b *Bridge) exchange(ctx context.Context, rawToken string) (aws.Credentials, error) {
	logins := map[string]string{b.pool.LoginsKey(): rawToken}

	idOut, err := b.identity.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(b.pool.IdentityPoolID),
		Logins:         logins,
	})
	if err != nil {
		return aws.Credentials{}, apperrors.Wrapf(err, "GetId")
	}
	identityID := utils.Value(idOut.IdentityId)
	if identityID == "" {
		return aws.Credentials{}, fmt.Errorf("GetId: no identity id returned")
	}

	input := &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: aws.String(identityID),
		Logins:     logins,
	}
	if role := b.inspector.PreferredRole(rawToken); role != "" {
		input.CustomRoleArn = aws.String(role)
	}

	credsOut, err := b.identity.GetCredentialsForIdentity(ctx, input)
	if err != nil {
		return aws.Credentials{}, apperrors.Wrapf(err, "GetCredentialsForIdentity")
	}
	if credsOut.Credentials == nil {
		return aws.Credentials{}, fmt.Errorf("GetCredentialsForIdentity: no credentials returned")
	}

	c := credsOut.Credentials
	expires := utils.Value(c.Expiration)
	return aws.Credentials{
		AccessKeyID:     utils.Value(c.AccessKeyId),
		SecretAccessKey: utils.Value(c.SecretKey),
		SessionToken:    utils.Value(c.SessionToken),
		Source:          credentialsSource,
		CanExpire:       !expires.IsZero(),
		Expires:         expires,
	}, nil
}

// notifySignIn runs detached from the caller; its failure is only logged.
func (b *Bridge) notifySignIn(ctx context.Context) {
	if b.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	b.runTask(func() {
		ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
		defer cancel()
		if err := b.notifier.NotifySignIn(ctx); err != nil {
			b.logger.Warn().Err(fmt.Errorf("%w: %w", apperrors.ErrNotification, err)).Msg("Sign-in notification failed")
		}
	})
}
