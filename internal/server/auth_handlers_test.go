package server

import (
	"net/http"
	"testing"

	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func TestRegisterLoginFlow(t *testing.T) {
	t.Parallel()

	s, app, _, _ := newTestServer(t, false)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "ada@example.com",
		"username": "ada",
		"password": "password123",
	})
	wantStatus(t, resp, http.StatusCreated)

	var registered struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeJSON(t, resp, &registered)
	if !registered.Success || registered.Message != "User registered" {
		t.Fatalf("unexpected register response: %+v", registered)
	}

	// Same email again.
	resp = doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "ada@example.com",
		"username": "ada2",
		"password": "password123",
	})
	wantErrorBody(t, resp, http.StatusBadRequest, "CONFLICT", "User already exists")

	resp = doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "ada@example.com",
		"password": "password123",
	})
	wantStatus(t, resp, http.StatusOK)

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	decodeJSON(t, resp, &login)
	if login.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	p := middleware.ParsePrincipal(login.AccessToken, s.config.JWTSecret)
	if p == nil {
		t.Fatal("issued token did not verify")
	}
	if p.Email != "ada@example.com" {
		t.Fatalf("expected token email ada@example.com, got %s", p.Email)
	}

	// The token grants access to an authenticated route.
	resp = doJSON(t, app, http.MethodGet, "/users/me", login.AccessToken, nil)
	wantStatus(t, resp, http.StatusOK)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	t.Parallel()

	_, app, _, _ := newTestServer(t, false)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "ada@example.com",
		"username": "ada",
		"password": "short",
	})
	wantErrorBody(t, resp, http.StatusBadRequest, "VALIDATION_ERROR", "")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	s, app, db, _ := newTestServer(t, false)
	createTestUser(t, s, db, "ada", "user")

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "wrong-password1"},
		{"unknown email", "nobody@example.com", "password123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
				"email":    tc.email,
				"password": tc.password,
			})
			wantErrorBody(t, resp, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		})
	}
}
