package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"alcove/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestServer_AuthRequired(t *testing.T) {
	secret := "unit-test-signing-secret-0123456789abcdef"
	s := &Server{
		config: &config.Config{JWTSecret: secret},
	}
	app := fiber.New()

	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": c.Locals("userID")})
	})

	signToken := func(claims jwt.MapClaims, key string) string {
		str, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		return str
	}
	tokenFor := func(userID uint, issuer, audience string, exp time.Duration) string {
		return signToken(jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(userID), 10),
			"iss": issuer,
			"aud": audience,
			"exp": time.Now().Add(exp).Unix(),
			"jti": "test-jti-valid-length",
		}, secret)
	}

	tests := []struct {
		name           string
		authHeader     string
		tokenParam     string
		expectedStatus int
	}{
		{
			name:           "Valid Token",
			authHeader:     "Bearer " + tokenFor(42, "alcove-api", "alcove-client", time.Hour),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Valid Token via Query Param",
			tokenParam:     tokenFor(42, "alcove-api", "alcove-client", time.Hour),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + tokenFor(42, "alcove-api", "alcove-client", -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Issuer",
			authHeader:     "Bearer " + tokenFor(42, "wrong-issuer", "alcove-client", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Audience",
			authHeader:     "Bearer " + tokenFor(42, "alcove-api", "wrong-audience", time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong Signing Key",
			authHeader: "Bearer " + signToken(jwt.MapClaims{
				"sub": "42",
				"iss": "alcove-api",
				"aud": "alcove-client",
				"exp": time.Now().Add(time.Hour).Unix(),
				"jti": "test-jti-valid-length",
			}, "some-other-secret-0123456789abcdef"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Header and Param",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Malformed Bearer Format",
			authHeader:     "BearerTokenOnly",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Non-String Subject",
			authHeader: "Bearer " + signToken(jwt.MapClaims{
				"sub": 42,
				"iss": "alcove-api",
				"aud": "alcove-client",
				"exp": time.Now().Add(time.Hour).Unix(),
			}, secret),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/protected"
			if tt.tokenParam != "" {
				path += "?token=" + tt.tokenParam
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]interface{}
				_ = json.NewDecoder(resp.Body).Decode(&body)
				assert.Equal(t, float64(42), body["userID"])
			}
			_ = resp.Body.Close()
		})
	}
}
