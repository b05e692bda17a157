package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatexpectationslabs/cooper-pair/internal/common/gqlclient"
)

// fakeDQM answers the connection probe and login mutation itself and routes
// other documents to registered handlers by substring match.
type fakeDQM struct {
	mu        sync.Mutex
	srv       *httptest.Server
	logins    int
	lastLogin map[string]any
	lastToken string
	requests  []capturedRequest
	handlers  []fakeHandler
	token     string
}

type capturedRequest struct {
	Query     string
	Variables map[string]any
}

type fakeHandler struct {
	match string
	data  string
}

func newFakeDQM(t *testing.T) *fakeDQM {
	t.Helper()
	f := &fakeDQM{token: "tok-1"}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeDQM) on(match, data string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, fakeHandler{match: match, data: data})
}

func (f *fakeDQM) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var env struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = r.Header.Get(gqlclient.TokenHeader)
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.Contains(env.Query, "__typename"):
		fmt.Fprint(w, `{"data":{"__typename":"Query"}}`)
	case strings.Contains(env.Query, "loginMutation"):
		f.logins++
		if input, ok := env.Variables["input"].(map[string]any); ok {
			f.lastLogin = input
		}
		fmt.Fprintf(w, `{"data":{"login":{"token":%q}}}`, f.token)
	default:
		f.requests = append(f.requests, capturedRequest{Query: env.Query, Variables: env.Variables})
		for _, h := range f.handlers {
			if strings.Contains(env.Query, h.match) {
				fmt.Fprintf(w, `{"data":%s}`, h.data)
				return
			}
		}
		fmt.Fprint(w, `{"errors":[{"message":"unhandled request"}]}`)
	}
}

func TestRunLoginStoresToken(t *testing.T) {
	clearClientEnv(t)
	fs := newFakeDQM(t)
	fs.token = "tok-login"
	path := setTestConfig(t, &Config{
		GraphQLEndpoint: fs.srv.URL,
		Email:           "machine@example.com",
		Password:        "wrench",
	})

	cmd := newLoginCmd()
	cmd.SetContext(context.Background())
	cmd.SetOut(io.Discard)
	require.NoError(t, runLogin(cmd, nil))

	fs.mu.Lock()
	assert.Equal(t, 1, fs.logins)
	assert.Equal(t, "machine@example.com", fs.lastLogin["email"])
	assert.Equal(t, "wrench", fs.lastLogin["password"])
	fs.mu.Unlock()

	// The next invocation picks the token up from the file.
	config = nil
	require.NoError(t, LoadConfig(path))
	stored := GetConfig()
	assert.Equal(t, "tok-login", stored.Token)
	assert.Equal(t, "machine@example.com", stored.Email)
	assert.Equal(t, fs.srv.URL, stored.GraphQLEndpoint)
	assert.Equal(t, configVersion, stored.Version)
}

func TestRunLoginPromptsForPassword(t *testing.T) {
	clearClientEnv(t)
	fs := newFakeDQM(t)
	setTestConfig(t, &Config{GraphQLEndpoint: fs.srv.URL, Email: "machine@example.com"})

	prev := readPassword
	t.Cleanup(func() { readPassword = prev })
	readPassword = func(int) ([]byte, error) { return []byte("prompted"), nil }

	cmd := newLoginCmd()
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, runLogin(cmd, nil))

	assert.Contains(t, out.String(), "Password:")
	fs.mu.Lock()
	assert.Equal(t, "prompted", fs.lastLogin["password"])
	fs.mu.Unlock()
	assert.Equal(t, "prompted", GetConfig().Password, "prompted password is stored for future logins")
}

func TestRunLoginFlagsBeatStoredConfig(t *testing.T) {
	clearClientEnv(t)
	fs := newFakeDQM(t)
	setTestConfig(t, &Config{
		GraphQLEndpoint: fs.srv.URL,
		Email:           "stored@example.com",
		Password:        "stored",
	})

	cmd := newLoginCmd()
	cmd.SetContext(context.Background())
	cmd.SetOut(io.Discard)
	require.NoError(t, cmd.Flags().Set("email", "flag@example.com"))
	require.NoError(t, cmd.Flags().Set("password", "flagpass"))
	require.NoError(t, runLogin(cmd, nil))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Equal(t, "flag@example.com", fs.lastLogin["email"])
	assert.Equal(t, "flagpass", fs.lastLogin["password"])
}

func TestRunLoginRequiresEmail(t *testing.T) {
	clearClientEnv(t)
	setTestConfig(t, &Config{})

	cmd := newLoginCmd()
	cmd.SetContext(context.Background())
	err := runLogin(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email provided")
}

func TestDatasetsListResumesStoredToken(t *testing.T) {
	clearClientEnv(t)
	fs := newFakeDQM(t)
	fs.on("allDatasets", `{"allDatasets":{"edges":[{"node":{"id":"7","filename":"ratings.csv"}}]}}`)
	setTestConfig(t, &Config{GraphQLEndpoint: fs.srv.URL, Token: "tok-stored"})

	datasetsListCmd.SetContext(context.Background())
	require.NoError(t, datasetsListCmd.RunE(datasetsListCmd, nil))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Zero(t, fs.logins, "stored token is resumed without a login")
	assert.Equal(t, "tok-stored", fs.lastToken)
}
