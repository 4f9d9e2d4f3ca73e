package apiclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
)

const (
	// SignInPath is the backend route told about every successful credential refresh
	SignInPath = "/signin"

	signingService = "execute-api"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Client calls the IAM protected backend API with the credentials the bridge hands it.
type Client struct {
	baseURL    string
	region     string
	httpClient *http.Client
	signer     *v4.Signer

	mu    sync.RWMutex
	creds aws.Credentials
	set   bool
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL, region string, options ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		region:  region,
		signer:  v4.NewSigner(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// SetCredentials replaces the credentials used to sign outbound requests.
func (c *Client) SetCredentials(creds aws.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
	c.set = true
}

// ClearCredentials drops the current credentials, e.g. on logout.
func (c *Client) ClearCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = aws.Credentials{}
	c.set = false
}

func (c *Client) Credentials() (aws.Credentials, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds, c.set
}

// Post sends body as JSON to path, signed with SigV4. A nil body sends an empty object.
func (c *Client) Post(ctx context.Context, path string, body any) error {
	creds, ok := c.Credentials()
	if !ok {
		return apperrors.ErrNoCredentials
	}
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("[apiclient Post] marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("[apiclient Post] new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hash := sha256.Sum256(payload)
	if err := c.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(hash[:]), signingService, c.region, NowTimeFunc()); err != nil {
		return fmt.Errorf("[apiclient Post] sign request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("[apiclient Post] %s: %w", path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("[apiclient Post] %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}

// NotifySignIn tells the backend that the user signed in.
func (c *Client) NotifySignIn(ctx context.Context) error {
	return c.Post(ctx, SignInPath, nil)
}
