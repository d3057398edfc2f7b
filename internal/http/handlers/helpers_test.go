package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/crypto/bcrypt"

	"lashodia/internal/auth"
	"lashodia/internal/domain"
	"lashodia/internal/http/handlers"
	"lashodia/internal/repos"
	"lashodia/internal/services"
	"lashodia/internal/storage"
)

const testHeader = "auth-token"

type testEnv struct {
	app      *fiber.App
	auth     *services.AuthService
	tokens   *auth.Tokens
	mediaDir string
}

type envOption func(*handlers.Deps)

// newTestEnv wires the real routes over an in-memory sqlite db and a local
// upload store in a temp dir.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := auth.NewTokens("handler-test-secret", nil, 0)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	mediaDir := t.TempDir()
	local, err := storage.NewLocal(mediaDir, "http://localhost:4000/media")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	authSvc := services.NewAuthService(repos.NewUserRepo(db), tokens)
	authSvc.Cost = bcrypt.MinCost
	deps := handlers.NewDeps(handlers.Services{
		Auth:    authSvc,
		Cart:    services.NewCartService(repos.NewCartRepo(db)),
		Catalog: services.NewCatalogService(repos.NewProductRepo(db)),
		Uploads: services.NewUploadService(local, handlers.UploadField),
	}, testHeader, mediaDir)
	for _, o := range opts {
		o(deps)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	handlers.Register(app, deps)
	return &testEnv{app: app, auth: authSvc, tokens: tokens, mediaDir: mediaDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(testHeader, token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body (status %d): %v", resp.StatusCode, err)
	}
	return out
}

type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Errors  string `json:"errors"`
}

type cartResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	CartData []domain.CartItem `json:"cartData"`
}

func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	resp := e.do(t, "POST", "/signup", map[string]string{
		"username": "Tester", "email": email, "password": "Passw0rd!",
	}, "")
	out := decode[tokenResponse](t, resp)
	if !out.Success || out.Token == "" {
		t.Fatalf("signup failed: %+v", out)
	}
	return out.Token
}

func uploadRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// countingCarts records every call that reaches the cart store.
type countingCarts struct {
	mu    sync.Mutex
	calls int
}

func (s *countingCarts) hit() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *countingCarts) AddItem(context.Context, string, domain.CartItem) ([]domain.CartItem, error) {
	s.hit()
	return []domain.CartItem{}, nil
}

func (s *countingCarts) RemoveItem(context.Context, string, int64) ([]domain.CartItem, error) {
	s.hit()
	return []domain.CartItem{}, nil
}

func (s *countingCarts) Items(context.Context, string) ([]domain.CartItem, error) {
	s.hit()
	return []domain.CartItem{}, nil
}

type failingStore struct{ err error }

func (s failingStore) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", s.err
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
