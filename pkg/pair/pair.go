// Package pair is a client library for programmatic access to the DQM
// GraphQL API. A Client owns an authenticated session to the endpoint and
// exposes typed operations for the DQM entities (datasets, expectation
// suites, checkpoints, expectations, evaluations, sensors, workflows and
// friends) plus composed flows such as creating a dataset, uploading its
// file to object storage, and registering an evaluation over it.
//
// Connection management is transparent: the transport is constructed on
// first need with bounded retries, the login handshake runs with the
// configured credentials, and a request rejected for authorization is
// resubmitted exactly once over a fresh session.
package pair

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/greatexpectationslabs/cooper-pair/internal/common/gqlclient"
)

// Client is the entrypoint to the API.
type Client struct {
	session    *gqlclient.Session
	httpClient *http.Client
	logger     zerolog.Logger
	config     Config
}

// ExecuteOption adjusts a single Execute call.
type ExecuteOption = gqlclient.ExecuteOption

// Unauthenticated marks a request as one that does not expect a session
// token, suppressing the not-authenticated warning for open operations.
func Unauthenticated() ExecuteOption {
	return gqlclient.Unauthenticated()
}

// New creates a Client configured from the environment (see FromEnv) with
// the given options applied on top. Construction performs no network
// activity; a missing endpoint is the only fatal condition, while missing
// credentials merely log a warning.
func New(opts ...Option) (*Client, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, opts...)
}

// NewWithConfig creates a Client from an explicit configuration.
func NewWithConfig(cfg Config, opts ...Option) (*Client, error) {
	o := options{cfg: cfg}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	session, err := gqlclient.NewSession(gqlclient.Config{
		Endpoint:   o.cfg.GraphQLEndpoint,
		Email:      o.cfg.Email,
		Password:   o.cfg.Password,
		Token:      o.token,
		Timeout:    o.cfg.Timeout,
		MaxRetries: o.cfg.MaxRetries,
		HTTPClient: o.httpClient,
		Logger:     o.logger,
	})
	if err != nil {
		return nil, err
	}

	// Uploads move whole files, so the default upload client carries no
	// deadline of its own; cancel through the request context.
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}
	return &Client{
		session:    session,
		httpClient: httpClient,
		logger:     logger,
		config:     o.cfg,
	}, nil
}

// Login authenticates with the configured credentials. Returns false with
// a warning, and no network activity, when either credential is missing.
func (c *Client) Login(ctx context.Context) (bool, error) {
	return c.session.Login(ctx)
}

// LoginAs authenticates with explicit credentials, falling back to the
// configured values for empty arguments.
func (c *Client) LoginAs(ctx context.Context, email, password string) (bool, error) {
	return c.session.LoginAs(ctx, email, password)
}

// EnsureSession establishes the transport and, when credentials are
// configured, the login handshake. Useful to fail fast before a batch of
// calls; every operation performs it implicitly.
func (c *Client) EnsureSession(ctx context.Context) error {
	return c.session.EnsureSession(ctx)
}

// Execute submits a raw GraphQL document and returns the response's data
// subtree. It is the escape hatch for operations the typed surface does
// not cover; all typed operations go through it internally.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, opts ...ExecuteOption) (map[string]any, error) {
	return c.session.Execute(ctx, query, variables, opts...)
}

// Token returns the current bearer token, empty when unauthenticated.
func (c *Client) Token() string {
	return c.session.Token()
}

// TokenExpiry returns the recorded expiry of the current token, zero when
// the token carries none.
func (c *Client) TokenExpiry() time.Time {
	return c.session.TokenExpiry()
}

// Authenticated reports whether the client holds an unexpired token.
func (c *Client) Authenticated() bool {
	return c.session.Authenticated()
}

// Endpoint returns the GraphQL endpoint the client is bound to.
func (c *Client) Endpoint() string {
	return c.session.Endpoint()
}
