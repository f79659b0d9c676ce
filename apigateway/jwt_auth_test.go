package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt"

	"github.com/medico-app/medico/fields"
)

func newTestAuth(key string) *JWTAuth {
	auth := &JWTAuth{Config: fields.Config{JWTKey: key, TokenLifeDays: 7}}
	auth.Init()
	return auth
}

func TestJWTRoundTrip(t *testing.T) {
	auth := newTestAuth("test-secret")

	token, err := auth.GenerateJWT("partner-1", "owner@clinic.test", RolePartner)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ID != "partner-1" {
		t.Errorf("claims.ID = %q", claims.ID)
	}
	if claims.Email != "owner@clinic.test" {
		t.Errorf("claims.Email = %q", claims.Email)
	}
	if claims.Role != RolePartner {
		t.Errorf("claims.Role = %q", claims.Role)
	}
	left := time.Until(time.Unix(claims.ExpiresAt, 0))
	if left < 6*24*time.Hour || left > 8*24*time.Hour {
		t.Errorf("token lifetime = %v, want ~7 days", left)
	}
}

func TestVerifyJWTRejects(t *testing.T) {
	auth := newTestAuth("test-secret")

	t.Run("garbage token", func(t *testing.T) {
		if _, err := auth.VerifyJWT("not-a-token"); err == nil {
			t.Error("expected error for garbage token")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		other := newTestAuth("different-secret")
		token, err := other.GenerateJWT("id", "a@b.test", RoleMember)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, err := auth.VerifyJWT(token); err == nil {
			t.Error("expected error for token signed with another key")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := TokenClaims{
			ID:   "id",
			Role: RolePartner,
			StandardClaims: jwt.StandardClaims{
				ExpiresAt: time.Now().Add(-time.Hour).Unix(),
				IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.Key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := auth.VerifyJWT(token); err == nil {
			t.Error("expected error for expired token")
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	auth := newTestAuth("test-secret")
	app := fiber.New()
	app.Get("/partner-only", auth.AuthMiddleware(), RequireRole(RolePartner), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": AuthID(c), "role": AuthRole(c)})
	})

	partnerToken, err := auth.GenerateJWT("p-1", "p@clinic.test", RolePartner)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	memberToken, err := auth.GenerateJWT("m-1", "m@member.test", RoleMember)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"bad token", "Bearer junk", http.StatusUnauthorized},
		{"wrong role", "Bearer " + memberToken, http.StatusForbidden},
		{"bearer prefix", "Bearer " + partnerToken, http.StatusOK},
		{"raw token", partnerToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/partner-only", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			res, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if res.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", res.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestGenerateSecretKey(t *testing.T) {
	a, err := GenerateSecretKey(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateSecretKey(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("key lengths = %d, %d", len(a), len(b))
	}
	if string(a) == string(b) {
		t.Error("two generated keys are identical")
	}
}
