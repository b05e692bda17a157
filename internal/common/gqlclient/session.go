// Package gqlclient manages the connection to a remote GraphQL data quality
// management endpoint. It owns transport construction with bounded retries,
// the login handshake and bearer-token attachment, and a single transparent
// re-authentication cycle when the server rejects a request's credentials.
package gqlclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Defaults applied when the corresponding Config fields are zero.
const (
	DefaultTimeout    = 2 * time.Second
	DefaultMaxRetries = 10
)

const loginDocument = `
mutation loginMutation($input: LoginInput!) {
  login(input: $input) {
    token
  }
}
`

// probeDocument establishes that the endpoint answers GraphQL at all.
// Any HTTP response, including an auth rejection, proves the channel is live.
const probeDocument = `query { __typename }`

// Config carries the settings for a Session. Endpoint is required;
// everything else has a usable default.
type Config struct {
	Endpoint   string
	Email      string
	Password   string
	Token      string        // previously issued bearer token to resume
	Timeout    time.Duration // per-attempt network timeout and inter-attempt delay
	MaxRetries uint          // transport construction attempts
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Session owns the channel to the endpoint: a lazily constructed transport,
// the current bearer token, and the policies for connecting and
// re-authenticating. A Session is safe for concurrent use; requests
// serialize on an internal mutex.
type Session struct {
	endpoint   string
	email      string
	password   string
	timeout    time.Duration
	maxRetries uint
	httpClient *http.Client
	logger     zerolog.Logger

	mu          sync.Mutex
	transport   *Transport
	token       string
	tokenExpiry time.Time
	loginFailed bool
}

// NewSession validates the configuration and returns an unconnected session.
// No network activity happens until the first request or an explicit
// EnsureTransport. A missing endpoint is fatal; missing credentials only
// log a warning, since the server is the authority on what an
// unauthenticated caller may do. A resumed token is used as-is until its
// recorded expiry passes, after which the stored credentials take over.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrNoEndpoint.Msg(fmt.Sprintf("invalid graphql endpoint %q", cfg.Endpoint))
	}
	s := &Session{
		endpoint:   cfg.Endpoint,
		email:      cfg.Email,
		password:   cfg.Password,
		token:      cfg.Token,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		httpClient: cfg.HTTPClient,
		logger:     log.Logger,
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	if s.token != "" {
		s.tokenExpiry = parseTokenExpiry(s.token)
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.maxRetries == 0 {
		s.maxRetries = DefaultMaxRetries
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.timeout}
	}
	if (s.email == "" || s.password == "") && s.token == "" {
		s.logger.Warn().Msg("no credentials configured; requests will be sent unauthenticated")
	}
	return s, nil
}

// Endpoint returns the endpoint URL the session is bound to.
func (s *Session) Endpoint() string {
	return s.endpoint
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// TokenExpiry returns the recorded expiry of the current token.
// Zero when the token carries no introspectable expiry.
func (s *Session) TokenExpiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenExpiry
}

// Authenticated reports whether the session holds a token that has not
// passed its recorded expiry.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenValidLocked()
}

func (s *Session) tokenValidLocked() bool {
	if s.token == "" {
		return false
	}
	return s.tokenExpiry.IsZero() || time.Now().Before(s.tokenExpiry)
}

// EnsureTransport constructs the transport channel when none is cached.
// Construction probes the endpoint and retries channel-level failures up
// to the configured attempt count with a flat delay between consecutive
// attempts; an endpoint that answers with any HTTP status is considered
// reachable. A cached transport is reused with no network activity.
func (s *Session) EnsureTransport(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureTransportLocked(ctx)
}

func (s *Session) ensureTransportLocked(ctx context.Context) error {
	if s.transport != nil {
		return nil
	}
	headers := map[string]string{}
	if s.token != "" {
		headers[TokenHeader] = s.token
	}
	t := NewTransport(s.endpoint, headers, s.httpClient)
	err := retry.Do(
		func() error {
			_, err := t.DoRequest(ctx, Request{Query: probeDocument})
			if err != nil && errors.Is(err, ErrTransportFailure) {
				return err
			}
			return nil
		},
		retry.Attempts(s.maxRetries),
		retry.Delay(s.timeout),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn().Uint("attempt", n+1).Err(err).Msgf("failed to connect to %s", s.endpoint)
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ErrTransportFailure.Err(ctxErr)
		}
		return ErrConnectionExhausted.MsgErr(
			fmt.Sprintf("failed to connect to %s after %d attempts", s.endpoint, s.maxRetries), err)
	}
	s.transport = t
	return nil
}

// Login authenticates with the session's stored credentials.
// See LoginAs for the semantics.
func (s *Session) Login(ctx context.Context) (bool, error) {
	return s.LoginAs(ctx, "", "")
}

// LoginAs runs the login mutation with the given credentials, falling back
// to the session's stored values for empty arguments. When either
// credential resolves to empty the call returns false with a warning and
// no network activity. On success the token is stored and merged into the
// transport's header set; a response without a token leaves any prior
// token in place and returns false.
func (s *Session) LoginAs(ctx context.Context, email, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginLocked(ctx, email, password)
}

func (s *Session) loginLocked(ctx context.Context, email, password string) (bool, error) {
	if email == "" {
		email = s.email
	}
	if password == "" {
		password = s.password
	}
	if email == "" || password == "" {
		s.logger.Warn().Msg("login requires both an email and a password")
		return false, ErrMissingCredentials
	}
	if err := s.ensureTransportLocked(ctx); err != nil {
		return false, err
	}
	s.loginFailed = true
	req := Request{
		Query: loginDocument,
		Variables: map[string]any{
			"input": map[string]any{"email": email, "password": password},
		},
	}
	data, err := s.transport.DoRequest(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login failed")
		return false, err
	}
	token := gjson.GetBytes(data, "login.token").String()
	if token == "" {
		s.logger.Warn().Msg("login response carried no token")
		return false, nil
	}
	s.token = token
	s.tokenExpiry = parseTokenExpiry(token)
	s.transport.SetHeader(TokenHeader, token)
	s.loginFailed = false
	return true, nil
}

// EnsureSession brings the session to a usable state: a live transport,
// plus a login with the stored credentials when no valid token is held.
// The login is attempted at most once per transport epoch; a token past
// its recorded expiry triggers a fresh login. Sessions without credentials
// remain usable for unauthenticated requests.
func (s *Session) EnsureSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSessionLocked(ctx)
}

func (s *Session) ensureSessionLocked(ctx context.Context) error {
	if err := s.ensureTransportLocked(ctx); err != nil {
		return err
	}
	if s.tokenValidLocked() {
		return nil
	}
	if s.email == "" || s.password == "" || s.loginFailed {
		return nil
	}
	_, err := s.loginLocked(ctx, "", "")
	return err
}

// ExecuteOption adjusts a single Execute call.
type ExecuteOption func(*executeOptions)

type executeOptions struct {
	unauthenticated bool
}

// Unauthenticated marks a request as one that does not expect a session
// token, suppressing the not-authenticated warning for open operations.
func Unauthenticated() ExecuteOption {
	return func(o *executeOptions) {
		o.unauthenticated = true
	}
}

// Execute submits a query or mutation and returns the response's data
// subtree as a generic map, unmodified and uncached. Syntax problems fail
// before any network activity. The transport and login handshake are
// established on first need. A request rejected for authorization or
// dropped by the channel resets the session and is resubmitted exactly
// once over a freshly constructed, freshly authenticated transport; the
// second failure, and every other error kind, propagates unchanged.
func (s *Session) Execute(ctx context.Context, query string, variables map[string]any, opts ...ExecuteOption) (map[string]any, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}
	var o executeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prepareLocked(ctx); err != nil {
		return nil, err
	}
	if !o.unauthenticated && s.token == "" {
		s.logger.Warn().Msg("client is not authenticated; the server may reject this request")
	}

	req := Request{Query: query, Variables: variables}
	data, err := s.transport.DoRequest(ctx, req)
	if err != nil && (errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrTransportFailure)) {
		s.logger.Warn().Err(err).Msg("re-authenticating and retrying the request")
		s.resetLocked()
		if perr := s.prepareLocked(ctx); perr != nil {
			return nil, perr
		}
		data, err = s.transport.DoRequest(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	return decodeData(data)
}

// prepareLocked is ensureSessionLocked with the soft-failure policy used
// by Execute: only channel failures abort, a rejected login leaves the
// request to proceed unauthenticated.
func (s *Session) prepareLocked(ctx context.Context) error {
	if err := s.ensureSessionLocked(ctx); err != nil {
		if errors.Is(err, ErrTransportFailure) || errors.Is(err, ErrConnectionExhausted) {
			return err
		}
	}
	return nil
}

// resetLocked drops the token and transport, ending the current epoch.
func (s *Session) resetLocked() {
	s.token = ""
	s.tokenExpiry = time.Time{}
	s.transport = nil
	s.loginFailed = false
}

// parseTokenExpiry inspects a JWT-shaped token for its exp claim without
// verifying the signature. Opaque tokens yield a zero time and are treated
// as non-expiring.
func parseTokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// decodeData unmarshals a data subtree into a generic map. A missing or
// null subtree decodes to nil.
func decodeData(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ErrRemote.MsgErr("malformed response payload", err)
	}
	return m, nil
}
