package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestAuthorize(t *testing.T) {
	userPrincipal := &Principal{ID: 1, Email: "u@example.com", Role: models.RoleUser}
	adminPrincipal := &Principal{ID: 2, Email: "a@example.com", Role: models.RoleAdmin}

	tests := []struct {
		name      string
		principal *Principal
		access    Access
		allowed   bool
	}{
		{"public allows anonymous", nil, AccessPublic, true},
		{"public allows authenticated", userPrincipal, AccessPublic, true},
		{"user denies anonymous", nil, AccessUser, false},
		{"user allows authenticated", userPrincipal, AccessUser, true},
		{"user allows admin", adminPrincipal, AccessUser, true},
		{"admin denies anonymous", nil, AccessAdmin, false},
		{"admin denies regular user", userPrincipal, AccessAdmin, false},
		{"admin allows admin", adminPrincipal, AccessAdmin, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.principal, tt.access)
			if tt.allowed {
				assert.Nil(t, err)
			} else {
				if assert.NotNil(t, err) {
					// Role mismatch and missing auth are indistinguishable.
					assert.Equal(t, "UNAUTHORIZED", err.Code)
					assert.Equal(t, "Not authorized", err.Message)
				}
			}
		})
	}
}

func TestSignTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: 42, Email: "ada@example.com", Role: models.RoleAdmin}

	token, err := SignToken(testSecret, user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	p := ParsePrincipal(token, testSecret)
	if assert.NotNil(t, p) {
		assert.Equal(t, uint(42), p.ID)
		assert.Equal(t, "ada@example.com", p.Email)
		assert.Equal(t, models.RoleAdmin, p.Role)
	}

	assert.Nil(t, ParsePrincipal(token, "some-other-secret"))

	_, err = SignToken("", user)
	assert.Error(t, err)
}

func TestParsePrincipalRejectsBadClaims(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, err := token.SignedString([]byte(testSecret))
		assert.NoError(t, err)
		return s
	}

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": "7",
			"iss": TokenIssuer,
			"aud": TokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"expired", func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() }},
		{"wrong issuer", func(c jwt.MapClaims) { c["iss"] = "someone-else" }},
		{"wrong audience", func(c jwt.MapClaims) { c["aud"] = "someone-else" }},
		{"missing subject", func(c jwt.MapClaims) { delete(c, "sub") }},
		{"non-numeric subject", func(c jwt.MapClaims) { c["sub"] = "not-a-number" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			claims := base()
			tt.mutate(claims)
			assert.Nil(t, ParsePrincipal(sign(claims), testSecret))
		})
	}

	// The untouched claims do verify.
	assert.NotNil(t, ParsePrincipal(sign(base()), testSecret))
}

func TestPrincipalFromRequest(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", func(c *fiber.Ctx) error {
		p := PrincipalFromRequest(c, testSecret)
		if p == nil {
			return c.JSON(fiber.Map{"anonymous": true})
		}
		return c.JSON(fiber.Map{"id": p.ID})
	})

	valid, err := SignToken(testSecret, &models.User{ID: 9, Email: "x@example.com", Role: models.RoleUser})
	assert.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		expectedID uint
	}{
		{"valid bearer token", "Bearer " + valid, 9},
		{"missing header", "", 0},
		{"wrong scheme", "Basic dXNlcjpwYXNz", 0},
		{"malformed token", "Bearer not.a.token", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]any
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			if tt.expectedID == 0 {
				assert.Equal(t, true, body["anonymous"])
			} else {
				assert.Equal(t, float64(tt.expectedID), body["id"])
			}
		})
	}
}
