package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "password123"

// memStore is an in-memory ObjectStorage for handler tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func testConfig(enforceOwnership bool) *config.Config {
	return &config.Config{
		Port:             "3000",
		Env:              "test",
		JWTSecret:        "server-test-secret",
		MaxUploadSize:    5 * 1024 * 1024,
		EnforceOwnership: enforceOwnership,
	}
}

// newTestServer builds a Server on an in-memory database with a stub
// object store and no Redis, plus a Fiber app with the full route table.
func newTestServer(t *testing.T, enforceOwnership bool) (*Server, *fiber.App, *gorm.DB, *memStore) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	store := newMemStore()
	s, err := NewServerWithDeps(testConfig(enforceOwnership), db, nil, store)
	if err != nil {
		t.Fatalf("NewServerWithDeps: %v", err)
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db, store
}

// createTestUser inserts a user directly and returns it with a signed token.
func createTestUser(t *testing.T, s *Server, db *gorm.DB, username string, role models.Role) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	token, err := middleware.SignToken(s.config.JWTSecret, &user)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return &user, token
}

// doJSON performs a request with an optional bearer token and JSON body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, body)
	}
}

func wantErrorBody(t *testing.T, resp *http.Response, status int, code, message string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, resp.StatusCode)
	}
	var body models.ErrorResponse
	decodeJSON(t, resp, &body)
	if body.Code != code {
		t.Fatalf("expected code %s, got %s", code, body.Code)
	}
	if message != "" && body.Error != message {
		t.Fatalf("expected error %q, got %q", message, body.Error)
	}
}

// seedPost creates a post through the service layer so slugs and defaults
// behave as in production.
func seedPost(t *testing.T, app *fiber.App, token, title string, published bool) map[string]any {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/posts", token, fiber.Map{
		"title":     title,
		"content":   fmt.Sprintf("content of %s", title),
		"published": published,
	})
	wantStatus(t, resp, http.StatusCreated)

	var body struct {
		Post map[string]any `json:"post"`
	}
	decodeJSON(t, resp, &body)
	if body.Post == nil {
		t.Fatalf("expected post in response")
	}
	return body.Post
}
