package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sodamint/itemsim/api/rest"
	"github.com/sodamint/itemsim/cache"
	"github.com/sodamint/itemsim/config"
	mw "github.com/sodamint/itemsim/middleware"
	"github.com/sodamint/itemsim/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// TestServer wraps a real HTTP server with every subsystem wired together.
type TestServer struct {
	DB     *gorm.DB
	Cache  cache.Cache
	Server *httptest.Server
	URL    string
	Sec    config.SecurityConfig
}

// NewTestServer creates a fully wired server for integration testing.
// It mirrors the dependency wiring in main.go.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()
	sec := testutil.TestSecurityConfig()
	sec.RateLimitRPS = 1000
	sec.RateLimitBurst = 2000

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(sec.RateLimitRPS), sec.RateLimitBurst))
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	rest.RegisterRoutes(r, db, c, sec)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &TestServer{
		DB:     db,
		Cache:  c,
		Server: srv,
		URL:    srv.URL,
		Sec:    sec,
	}
}

// Client is an HTTP client with its own cookie jar, acting as one signed-in
// browser session against the test server.
type Client struct {
	t    *testing.T
	base string
	http *http.Client
}

// NewClient creates a fresh session client.
func (ts *TestServer) NewClient(t *testing.T) *Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{
		t:    t,
		base: ts.URL,
		http: &http.Client{Jar: jar},
	}
}

// Do sends a JSON request and decodes the JSON response body.
func (c *Client) Do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// SignUpAndIn registers an account and signs in, storing the session cookies
// in the client's jar.
func (c *Client) SignUpAndIn(loginID, password string) {
	c.t.Helper()
	code, body := c.Do(http.MethodPost, "/api/sign-up", map[string]string{
		"login_id":         loginID,
		"password":         password,
		"confirm_password": password,
	})
	require.Equal(c.t, http.StatusCreated, code, "sign-up: %v", body)

	code, body = c.Do(http.MethodPost, "/api/sign-in", map[string]string{
		"login_id": loginID,
		"password": password,
	})
	require.Equal(c.t, http.StatusOK, code, "sign-in: %v", body)
}

// CreateCharacter creates a character and returns its id.
func (c *Client) CreateCharacter(name string) int64 {
	c.t.Helper()
	code, body := c.Do(http.MethodPost, "/api/characters", map[string]string{"name": name})
	require.Equal(c.t, http.StatusCreated, code, "create character: %v", body)
	data := body["data"].(map[string]interface{})
	return int64(data["id"].(float64))
}

// AddMoney hits the faucet n times.
func (c *Client) AddMoney(charID int64, n int) {
	c.t.Helper()
	for i := 0; i < n; i++ {
		code, body := c.Do(http.MethodPatch, fmt.Sprintf("/api/character/%d/addMoney", charID), nil)
		require.Equal(c.t, http.StatusOK, code, "addMoney: %v", body)
	}
}
