// Package middleware provides authentication, logging, metrics, and rate
// limiting middleware for the application.
package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenIssuer is the iss claim stamped on every issued token.
	TokenIssuer = "inkwell-api"
	// TokenAudience is the aud claim stamped on every issued token.
	TokenAudience = "inkwell-client"

	tokenTTL = 7 * 24 * time.Hour
)

// Access is the declared access requirement of a route.
type Access int

const (
	// AccessPublic routes accept anonymous requests.
	AccessPublic Access = iota
	// AccessUser routes require any authenticated principal.
	AccessUser
	// AccessAdmin routes require an authenticated principal with the admin role.
	AccessAdmin
)

// Principal is the authenticated identity attached to a request. A nil
// *Principal means anonymous.
type Principal struct {
	ID    uint
	Email string
	Role  models.Role
}

// Authorize is the policy decision for a single request: given the
// principal (nil for anonymous) and the route's declared access, it either
// allows the action or returns the denial. It is a pure function and
// performs no I/O. Role mismatch and missing authentication are
// deliberately collapsed into the same unauthorized denial.
func Authorize(p *Principal, required Access) *models.AppError {
	switch required {
	case AccessPublic:
		return nil
	case AccessUser:
		if p == nil {
			return models.NewUnauthorizedError("Not authorized")
		}
		return nil
	case AccessAdmin:
		if p == nil || p.Role != models.RoleAdmin {
			return models.NewUnauthorizedError("Not authorized")
		}
		return nil
	default:
		return models.NewUnauthorizedError("Not authorized")
	}
}

// SignToken issues a bearer token for the user carrying {id, email, role}.
func SignToken(secret string, user *models.User) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"role":  string(user.Role),
		"iss":   TokenIssuer,
		"aud":   TokenAudience,
		"exp":   now.Add(tokenTTL).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParsePrincipal verifies a raw token string and extracts the principal.
// Any verification failure yields nil, i.e. an anonymous request.
func ParsePrincipal(tokenString, secret string) *Principal {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != TokenIssuer {
		return nil
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != TokenAudience {
		return nil
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Principal{
		ID:    uint(id),
		Email: email,
		Role:  models.Role(role),
	}
}

// PrincipalFromRequest extracts the principal from the Authorization
// header. Missing or malformed headers and invalid tokens all resolve to
// anonymous.
func PrincipalFromRequest(c *fiber.Ctx, secret string) *Principal {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	return ParsePrincipal(parts[1], secret)
}
