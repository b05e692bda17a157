package gqlclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/greatexpectationslabs/cooper-pair/internal/common/apperrors"
	"github.com/greatexpectationslabs/cooper-pair/internal/common/logtrace"
)

// Protocol headers attached to outbound requests.
const (
	// TokenHeader carries the bearer token obtained from the login mutation.
	TokenHeader = "X-Fullerene-Token"
	// RequestIdHeader tags each outbound request for correlation.
	RequestIdHeader = "X-Request-Id"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// graphQLEnvelope is the JSON body posted for every request.
type graphQLEnvelope struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Transport is a channel bound to a GraphQL endpoint and a header set.
// It is owned by a Session and rebuilt whenever the session resets;
// it carries no retry or authentication logic of its own.
type Transport struct {
	endpoint   string
	headers    map[string]string
	httpClient *http.Client
}

// NewTransport creates a transport bound to the given endpoint.
// The header map is copied; later changes go through SetHeader.
func NewTransport(endpoint string, headers map[string]string, httpClient *http.Client) *Transport {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Transport{
		endpoint:   endpoint,
		headers:    h,
		httpClient: httpClient,
	}
}

// SetHeader merges a header into the set attached to every request.
func (t *Transport) SetHeader(key, value string) {
	t.headers[key] = value
}

// DoRequest posts the request to the endpoint and returns the raw bytes of
// the response's data subtree. Channel-level failures map to
// ErrTransportFailure, HTTP 401/403 to ErrUnauthorized, and every other
// server-reported failure (non-2xx statuses, GraphQL errors arrays) to
// ErrRemote.
func (t *Transport) DoRequest(ctx context.Context, r Request) ([]byte, error) {
	payload, err := json.Marshal(graphQLEnvelope{Query: r.Query, Variables: r.Variables})
	if err != nil {
		return nil, ErrClient.MsgErr("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, ErrClient.MsgErr("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set(RequestIdHeader, requestId(ctx))

	if logtrace.IsTraceEnabled() {
		log.Debug().Str("endpoint", t.endpoint).RawJSON("request", payload).Msg("graphql request")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, ErrTransportFailure.Err(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrTransportFailure.MsgErr("failed to read response body", err)
	}

	if logtrace.IsTraceEnabled() {
		log.Debug().Int("status", resp.StatusCode).Str("response", string(body)).Msg("graphql response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, wireError(ErrUnauthorized, resp.StatusCode, body)
	case resp.StatusCode >= 400:
		return nil, wireError(ErrRemote, resp.StatusCode, body)
	}

	if !gjson.ValidBytes(body) {
		return nil, ErrRemote.Msg("server returned a malformed response")
	}
	if errs := gjson.GetBytes(body, "errors"); errs.IsArray() && len(errs.Array()) > 0 {
		return nil, ErrRemote.Msg(remoteMessage(body))
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, nil
	}
	return []byte(data.Raw), nil
}

// wireError attaches the server's message and status to the given kind.
// The result always derives from kind so errors.Is keeps matching it.
func wireError(kind apperrors.Error, status int, body []byte) apperrors.Error {
	if msg := remoteMessage(body); msg != "" {
		return kind.Msg(msg).SetStatusCode(status)
	}
	return kind.Err().SetStatusCode(status)
}

// remoteMessage extracts a human-readable message from a response body,
// joining GraphQL error messages when present and falling back to the raw
// body trimmed to a sane length.
func remoteMessage(body []byte) string {
	if msgs := gjson.GetBytes(body, "errors.#.message"); msgs.IsArray() {
		parts := make([]string, 0, 2)
		for _, m := range msgs.Array() {
			if s := m.String(); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if m := gjson.GetBytes(body, "error"); m.Exists() {
		return m.String()
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}

// requestId reuses a caller-supplied request ID from the context or mints
// a fresh time-ordered one.
func requestId(ctx context.Context) string {
	if id := logtrace.RequestIdFromContext(ctx); id != "" {
		return id
	}
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
