package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/config"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/profanity"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/routes"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/services"
	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/store/inmemory"
)

const adminToken = "mod-secret"

func newApp(t *testing.T, opts ...inmemory.Option) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		AdminToken:     adminToken,
		JWTSecret:      "test-secret",
		JWTExpiry:      time.Hour,
		SubmitInterval: time.Minute,
	}
	matcher, err := profanity.New([]string{"darn"})
	require.NoError(t, err)

	s := inmemory.New(opts...)
	board := services.NewBoardService(s, matcher, ratelimit.NewTracker(cfg.SubmitInterval))
	auth := services.NewAdminAuthService(cfg)

	app := fiber.New()
	routes.Setup(app, cfg, auth,
		handlers.NewHealthHandler(board),
		handlers.NewConfigHandler(cfg),
		handlers.NewBoardHandler(board),
		handlers.NewModerationHandler(services.NewModerationService(s)),
		handlers.NewAuthHandler(auth),
	)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func client() map[string]string {
	return map[string]string{"X-Client-ID": uuid.NewString()}
}

func post(t *testing.T, app *fiber.App, headers map[string]string, message string) string {
	t.Helper()
	resp, body := do(t, app, "POST", "/api/confessions", map[string]string{"message": message}, headers)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	return body["id"].(string)
}

func TestCreateConfession(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, "POST", "/api/confessions", map[string]interface{}{"message": "  thank you, stranger  ", "mood": "Gratitude"}, client())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "thank you, stranger", body["message"])
	assert.Equal(t, "Gratitude", body["mood"])
}

func TestCreateConfession_Errors(t *testing.T) {
	app := newApp(t)

	tests := []struct {
		name    string
		body    map[string]interface{}
		headers map[string]string
		want    int
	}{
		{"missing client id", map[string]interface{}{"message": "hi"}, nil, fiber.StatusBadRequest},
		{"empty", map[string]interface{}{"message": "   "}, client(), fiber.StatusBadRequest},
		{"too long", map[string]interface{}{"message": string(bytes.Repeat([]byte("a"), 501))}, client(), fiber.StatusBadRequest},
		{"bad mood", map[string]interface{}{"message": "hi", "mood": "Angry"}, client(), fiber.StatusBadRequest},
		{"profanity", map[string]interface{}{"message": "d4rn it"}, client(), fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, "POST", "/api/confessions", tt.body, tt.headers)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, true, body["error"])
		})
	}
}

func TestCreateConfession_ProfanityMessageIsGeneric(t *testing.T) {
	app := newApp(t)
	_, body := do(t, app, "POST", "/api/confessions", map[string]string{"message": "darn"}, client())
	assert.Equal(t, profanity.Warning(), body["message"])
}

func TestCreateConfession_RateLimited(t *testing.T) {
	app := newApp(t)
	headers := client()
	post(t, app, headers, "first")

	resp, body := do(t, app, "POST", "/api/confessions", map[string]string{"message": "second"}, headers)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Contains(t, body["message"], "seconds")

	// A different client is unaffected.
	post(t, app, client(), "someone else")
}

func TestCreateConfession_WindowClosed(t *testing.T) {
	app := newApp(t, inmemory.WithPostingDeadline(time.Now().Add(-time.Hour)))
	resp, _ := do(t, app, "POST", "/api/confessions", map[string]string{"message": "too late"}, client())
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestReact_Dedup(t *testing.T) {
	app := newApp(t)
	id := post(t, app, client(), "hello")
	reactor := client()

	resp, body := do(t, app, "POST", "/api/confessions/"+id+"/react", nil, reactor)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["added"])
	assert.Equal(t, float64(1), body["hearts"])

	resp, body = do(t, app, "POST", "/api/confessions/"+id+"/react", nil, reactor)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["added"])
	assert.Equal(t, true, body["already_reacted"])
	assert.Equal(t, float64(1), body["hearts"])
	assert.Equal(t, services.ErrAlreadyReacted.Error(), body["message"])
}

func TestReact_Errors(t *testing.T) {
	app := newApp(t)

	resp, _ := do(t, app, "POST", "/api/confessions/not-a-uuid/react", nil, client())
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/api/confessions/"+uuid.NewString()+"/react", nil, client())
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestFeed(t *testing.T) {
	app := newApp(t)
	author := client()
	id := post(t, app, author, "hello")
	do(t, app, "POST", "/api/confessions/"+id+"/react", nil, author)

	resp, body := do(t, app, "GET", "/api/confessions?client_id="+author["X-Client-ID"], nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := body["confessions"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, id, item["id"])
	assert.Equal(t, float64(1), item["hearts"])
	assert.Equal(t, true, item["reacted"])
	assert.Equal(t, true, item["is_latest"])

	resp, _ = do(t, app, "GET", "/api/confessions?mood=Angry", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/confessions?client_id=abc", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestReport(t *testing.T) {
	app := newApp(t)
	id := post(t, app, client(), "hello")

	resp, body := do(t, app, "POST", "/api/confessions/"+id+"/report", map[string]string{"reason": "spam", "details": "ad link"}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])

	resp, _ = do(t, app, "POST", "/api/confessions/"+id+"/report", map[string]string{"reason": "boring"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	padded := "  " + strings.Repeat("x", 500) + "  "
	resp, _ = do(t, app, "POST", "/api/confessions/"+id+"/report", map[string]string{"reason": "spam", "details": padded}, nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode, "details are measured after trimming")

	resp, _ = do(t, app, "POST", "/api/confessions/"+id+"/report", map[string]string{"reason": "spam", "details": strings.Repeat("x", 501)}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "POST", "/api/confessions/"+uuid.NewString()+"/report", map[string]string{"reason": "spam"}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestModerationFlow(t *testing.T) {
	app := newApp(t)
	admin := map[string]string{"X-Admin-Token": adminToken}
	id := post(t, app, client(), "hello")

	var reportIDs []string
	for _, reason := range []string{"spam", "harassment"} {
		_, body := do(t, app, "POST", "/api/confessions/"+id+"/report", map[string]string{"reason": reason}, nil)
		reportIDs = append(reportIDs, body["id"].(string))
	}

	resp, _ := do(t, app, "GET", "/api/admin/reports", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, app, "GET", "/api/admin/reports?status=pending", nil, admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	groups := body["groups"].([]interface{})
	require.Len(t, groups, 1)
	group := groups[0].(map[string]interface{})
	assert.Equal(t, id, group["content_id"])
	assert.Equal(t, float64(2), group["count"])

	resp, _ = do(t, app, "GET", "/api/admin/reports?status=closed", nil, admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "PUT", "/api/admin/reports/review", map[string][]string{"ids": reportIDs}, admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, body = do(t, app, "GET", "/api/admin/reports?status=pending", nil, admin)
	assert.Empty(t, body["groups"])

	resp, _ = do(t, app, "PUT", "/api/admin/reports/resolve", map[string][]string{"ids": {reportIDs[0], uuid.NewString()}}, admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, "PUT", "/api/admin/reports/resolve", map[string][]string{"ids": {}}, admin)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/api/admin/confessions/"+id, nil, admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, "DELETE", "/api/admin/confessions/"+id, nil, admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	_, body = do(t, app, "GET", "/api/admin/reports", nil, admin)
	assert.Empty(t, body["groups"])
}

func TestAdminSession(t *testing.T) {
	app := newApp(t)

	resp, _ := do(t, app, "POST", "/api/admin/session", map[string]string{"token": "wrong"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, app, "POST", "/api/admin/session", map[string]string{"token": adminToken}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token := body["access_token"].(string)
	require.NotEmpty(t, token)

	resp, _ = do(t, app, "GET", "/api/admin/reports", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealthAndConfig(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, "GET", "/api/health", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["db"])

	resp, body = do(t, app, "GET", "/api/config", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["moods"], 6)
	assert.Len(t, body["reasons"], 6)
	assert.Equal(t, float64(500), body["max_message_length"])
	assert.Equal(t, float64(60), body["submit_interval_seconds"])
}
