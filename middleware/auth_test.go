package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"city-issues-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func signToken(t *testing.T, user models.User, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthRouter(db *gorm.DB, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("", AuthMiddleware(db))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "role": role})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := openTestDB(t)
	user := models.User{Email: "w@example.com", PasswordHash: "x", Role: models.RoleWorker}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	router := newAuthRouter(db)

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "Bearer "+signToken(t, user, time.Hour))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
	})

	t.Run("missing header", func(t *testing.T) {
		if w := doRequest(router, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		if w := doRequest(router, "Token abc"); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		w := doRequest(router, "Bearer "+signToken(t, user, -time.Hour))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if body := w.Body.String(); !strings.Contains(strings.ToLower(body), "expired") {
			t.Errorf("body = %s, want expired message", body)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if w := doRequest(router, "Bearer not.a.jwt"); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost := models.User{Email: "ghost@example.com", PasswordHash: "x", Role: models.RoleCitizen}
		if err := db.Create(&ghost).Error; err != nil {
			t.Fatalf("seed ghost: %v", err)
		}
		token := signToken(t, ghost, time.Hour)
		if err := db.Delete(&ghost).Error; err != nil {
			t.Fatalf("delete ghost: %v", err)
		}
		if w := doRequest(router, "Bearer "+token); w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := openTestDB(t)
	worker := models.User{Email: "w@example.com", PasswordHash: "x", Role: models.RoleWorker}
	admin := models.User{Email: "a@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	for _, u := range []*models.User{&worker, &admin} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	router := newAuthRouter(db, models.RoleAdmin)

	if w := doRequest(router, "Bearer "+signToken(t, admin, time.Hour)); w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
	if w := doRequest(router, "Bearer "+signToken(t, worker, time.Hour)); w.Code != http.StatusForbidden {
		t.Errorf("worker status = %d, want 403", w.Code)
	}
}
