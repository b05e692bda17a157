package pair

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the client settings. Every field can be supplied through the
// environment; a .env file in the working directory is honored when present.
// The worst-case time a call may take is roughly MaxRetries x Timeout.
type Config struct {
	GraphQLEndpoint string        `env:"DQM_GRAPHQL_URL" yaml:"graphql_endpoint" validate:"omitempty,url"`
	Email           string        `env:"DQM_EMAIL" yaml:"email" validate:"omitempty,email"`
	Password        string        `env:"DQM_PASSWORD" yaml:"password"`
	Timeout         time.Duration `env:"DQM_TIMEOUT" yaml:"timeout" env-default:"2s"`
	MaxRetries      uint          `env:"DQM_MAX_RETRIES" yaml:"max_retries" env-default:"10"`
}

var validate = validator.New()

// FromEnv builds a Config from the environment. DQM_GRAPHQL_URL names the
// endpoint; the timeout and retry budget default to 2s and 10 attempts.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, ErrConfig.MsgErr("failed to read environment", err)
	}
	return cfg, nil
}

// Validate checks field formats. The endpoint may be empty here; its absence
// is reported at session construction time.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return ErrConfig.Err(err)
	}
	return nil
}

type options struct {
	cfg        Config
	token      string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// Option adjusts the configuration a Client is built with.
type Option func(*options)

// WithEndpoint overrides the GraphQL endpoint URL.
func WithEndpoint(url string) Option {
	return func(o *options) {
		o.cfg.GraphQLEndpoint = url
	}
}

// WithCredentials sets the email and password used for the login handshake.
func WithCredentials(email, password string) Option {
	return func(o *options) {
		o.cfg.Email = email
		o.cfg.Password = password
	}
}

// WithToken resumes a previously issued bearer token, avoiding a fresh
// login for as long as the token remains valid.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithTimeout sets the per-attempt network timeout, which doubles as the
// delay between connection attempts.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.cfg.Timeout = timeout
	}
}

// WithMaxRetries sets how many times transport construction is attempted
// before giving up.
func WithMaxRetries(n uint) Option {
	return func(o *options) {
		o.cfg.MaxRetries = n
	}
}

// WithHTTPClient substitutes the HTTP client used for both GraphQL requests
// and object-storage uploads.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger routes the client's log output through the given logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
