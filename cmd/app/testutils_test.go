package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ekesta/portfolio/internal/authservice"
	"github.com/ekesta/portfolio/internal/blogservice"
	"github.com/ekesta/portfolio/internal/common"
	"github.com/ekesta/portfolio/internal/contactservice"
)

const testAdminPassword = "correct horse battery staple"

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// do sends body as JSON and attaches token as a bearer token when set.
func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)

	return res
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	t.Helper()
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var env envelope
	err = json.Unmarshal(responseBody, &env)
	require.NoError(t, err)

	return res.StatusCode, res.Header, env
}

type publishedMessage struct {
	key  common.BindingKey
	body []byte
}

type fakeProducer struct {
	mu   sync.Mutex
	msgs []publishedMessage
	err  error
}

func (p *fakeProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.msgs = append(p.msgs, publishedMessage{key: key, body: msg})
	return nil
}

func (p *fakeProducer) published() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]publishedMessage(nil), p.msgs...)
}

func testConfig() *Config {
	return &Config{
		Port:           "4000",
		Environment:    "testing",
		Version:        "1.0.0",
		TrustedOrigins: []string{"https://example.com"},
		Limiter:        LimiterConfig{RPS: 100, Burst: 100},
	}
}

// newBareApplication builds an application without storage for tests that
// only exercise middleware and auth.
func newBareApplication(t *testing.T) *application {
	t.Helper()

	auth, err := authservice.NewAuthService(testAdminPassword, "test-secret")
	require.NoError(t, err)

	return &application{
		config:      testConfig(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		authService: auth,
		limiters:    newLimiters(),
	}
}

func newTestApplication(t *testing.T) (*application, *sql.DB, *fakeProducer) {
	t.Helper()

	db := common.TestDB(t)
	producer := &fakeProducer{}

	app := newBareApplication(t)
	app.blogService = blogservice.NewBlogService(db, common.NewCache(time.Minute, 2*time.Minute))
	app.contactService = contactservice.NewContactService(db, producer, app.logger)

	return app, db, producer
}

func adminToken(t *testing.T, app *application) string {
	t.Helper()

	token, err := app.authService.Login(testAdminPassword)
	require.NoError(t, err)

	return token.Plain
}
