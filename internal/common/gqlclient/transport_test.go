package gqlclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatexpectationslabs/cooper-pair/internal/common/apperrors"
	"github.com/greatexpectationslabs/cooper-pair/internal/common/logtrace"
)

func TestDoRequestWireFormat(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"query":"query q($id: ID!) { dataset(id: $id) { id } }","variables":{"id":"abc"}}`, string(body))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "tok-9", r.Header.Get(TokenHeader))
		if assert.NotEmpty(t, r.Header.Get(RequestIdHeader)) {
			_, err := uuid.Parse(r.Header.Get(RequestIdHeader))
			assert.NoError(t, err, "request id is a uuid")
		}
		writeGraphQL(w, `{"value":42}`)
	}))
	defer ts.Close()

	tr := NewTransport(ts.URL, map[string]string{TokenHeader: "tok-9"}, nil)
	data, err := tr.DoRequest(context.Background(), Request{
		Query:     `query q($id: ID!) { dataset(id: $id) { id } }`,
		Variables: map[string]any{"id": "abc"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":42}`, string(data))
}

func TestDoRequestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrRemote},
		{"server error", http.StatusInternalServerError, ErrRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"nope"}`, tt.status)
			}))
			defer ts.Close()

			tr := NewTransport(ts.URL, nil, nil)
			_, err := tr.DoRequest(context.Background(), Request{Query: `query { ok }`})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "nope")

			var apperr apperrors.Error
			if assert.ErrorAs(t, err, &apperr) {
				assert.Equal(t, tt.status, apperr.StatusCode())
			}
		})
	}
}

func TestDoRequestEmptyBodyKeepsKind(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))
			defer ts.Close()

			tr := NewTransport(ts.URL, nil, nil)
			_, err := tr.DoRequest(context.Background(), Request{Query: `query { ok }`})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnauthorized, "a bodyless rejection still matches the kind")

			var apperr apperrors.Error
			require.ErrorAs(t, err, &apperr)
			assert.Equal(t, status, apperr.StatusCode())
		})
	}
}

func TestDoRequestGraphQLErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"first"},{"message":"second"}]}`)
	}))
	defer ts.Close()

	tr := NewTransport(ts.URL, nil, nil)
	_, err := tr.DoRequest(context.Background(), Request{Query: `query { ok }`})
	assert.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "first; second")
}

func TestDoRequestNullData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":null}`)
	}))
	defer ts.Close()

	tr := NewTransport(ts.URL, nil, nil)
	data, err := tr.DoRequest(context.Background(), Request{Query: `query { ok }`})
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDoRequestMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>gateway</html>`)
	}))
	defer ts.Close()

	tr := NewTransport(ts.URL, nil, nil)
	_, err := tr.DoRequest(context.Background(), Request{Query: `query { ok }`})
	assert.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "malformed")
}

func TestDoRequestConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := ts.URL
	ts.Close()

	tr := NewTransport(endpoint, nil, &http.Client{Timeout: 100 * time.Millisecond})
	_, err := tr.DoRequest(context.Background(), Request{Query: `query { ok }`})
	assert.ErrorIs(t, err, ErrTransportFailure)
}

func TestDoRequestReusesContextRequestId(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fixed-id", r.Header.Get(RequestIdHeader))
		writeGraphQL(w, `{"ok":true}`)
	}))
	defer ts.Close()

	tr := NewTransport(ts.URL, nil, nil)
	ctx := logtrace.WithRequestId(context.Background(), "fixed-id")
	_, err := tr.DoRequest(ctx, Request{Query: `query { ok }`})
	require.NoError(t, err)
}

func TestSetHeaderMergesIntoRequests(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-5", r.Header.Get(TokenHeader))
		writeGraphQL(w, `{"ok":true}`)
	}))
	defer ts.Close()

	tr := NewTransport(ts.URL, nil, nil)
	tr.SetHeader(TokenHeader, "tok-5")
	_, err := tr.DoRequest(context.Background(), Request{Query: `query { ok }`})
	require.NoError(t, err)
}
