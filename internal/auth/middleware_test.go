package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/byAMC31/ProyectoKn/internal/users"
)

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}))
	return db
}

func newProtectedRouter(db *gorm.DB, tokens *TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(db, tokens), func(c *gin.Context) {
		id := c.MustGet("user_id").(uint)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func createAuthTestUser(t *testing.T, db *gorm.DB, changedAt *time.Time) *users.User {
	t.Helper()
	hash, err := users.HashPassword("SecurePass123!")
	require.NoError(t, err)
	u := &users.User{
		FirstName:         "Ana",
		LastName:          "Martínez",
		Email:             "ana@example.com",
		PasswordHash:      hash,
		Role:              users.RoleUser,
		Status:            users.StatusActive,
		PasswordChangedAt: changedAt,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["message"]
}

func TestRequireAuth_NoToken(t *testing.T) {
	db := newAuthTestDB(t)
	tokens := NewTokenService(testSecret, time.Hour)
	r := newProtectedRouter(db, tokens)

	w := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token no proporcionado", responseMessage(t, w))
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	db := newAuthTestDB(t)
	tokens := NewTokenService(testSecret, time.Hour)
	r := newProtectedRouter(db, tokens)

	w := doGet(r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token inválido o expirado", responseMessage(t, w))
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	db := newAuthTestDB(t)
	tokens := NewTokenService(testSecret, time.Hour)
	u := createAuthTestUser(t, db, nil)
	r := newProtectedRouter(db, tokens)

	tok, err := tokens.Issue(u.ID, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	w := doGet(r, tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token inválido o expirado", responseMessage(t, w))
}

func TestRequireAuth_UserGone(t *testing.T) {
	db := newAuthTestDB(t)
	tokens := NewTokenService(testSecret, time.Hour)
	u := createAuthTestUser(t, db, nil)
	r := newProtectedRouter(db, tokens)

	tok, err := tokens.Issue(u.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Delete(u).Error)

	w := doGet(r, tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_RevokedAfterPasswordChange(t *testing.T) {
	db := newAuthTestDB(t)
	tokens := NewTokenService(testSecret, time.Hour)
	now := time.Now()
	u := createAuthTestUser(t, db, &now)
	r := newProtectedRouter(db, tokens)

	tok, err := tokens.Issue(u.ID, now.Add(-2*time.Minute))
	require.NoError(t, err)

	w := doGet(r, tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "El token ha sido revocado. Vuelve a iniciar sesión.", responseMessage(t, w))
}

func TestRequireAuth_ValidTokenProceeds(t *testing.T) {
	db := newAuthTestDB(t)
	tokens := NewTokenService(testSecret, time.Hour)
	u := createAuthTestUser(t, db, nil)
	r := newProtectedRouter(db, tokens)

	tok, err := tokens.Issue(u.ID, time.Now())
	require.NoError(t, err)

	w := doGet(r, tok)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]uint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, u.ID, body["id"])
}

func TestRequireAuth_TokenIssuedAfterChangeProceeds(t *testing.T) {
	db := newAuthTestDB(t)
	tokens := NewTokenService(testSecret, time.Hour)
	changed := time.Now().Add(-time.Minute)
	u := createAuthTestUser(t, db, &changed)
	r := newProtectedRouter(db, tokens)

	tok, err := tokens.Issue(u.ID, time.Now())
	require.NoError(t, err)

	w := doGet(r, tok)
	assert.Equal(t, http.StatusOK, w.Code)
}
