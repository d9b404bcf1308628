package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"neurodrafts/notes-api/model"
	"neurodrafts/notes-api/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestAPI(t *testing.T) *API {
	t.Helper()

	viper.Set("jwt.secret", "test-secret")
	viper.Set("mail.enabled", false)

	a, _ := newTestAPI(t)
	a.Argon = security.NewArgon()

	auth := a.Router.Group("/api/auth")
	auth.POST("/register", a.UserRegister)
	auth.POST("/verify-email", a.UserVerifyEmail)
	auth.POST("/login", a.UserLogin)
	auth.POST("/logout", a.UserLogout)

	return a
}

func TestRegisterVerifyLogin(t *testing.T) {
	a := newAuthTestAPI(t)

	w := do(t, a, http.MethodPost, "/api/auth/register", "192.0.2.1", map[string]any{
		"email":     "mehmet@example.com",
		"password":  "correct horse battery",
		"full_name": "Mehmet",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Login is blocked until the code is confirmed
	w = do(t, a, http.MethodPost, "/api/auth/login", "192.0.2.1", map[string]any{
		"email":    "mehmet@example.com",
		"password": "correct horse battery",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var code model.EmailCode
	require.NoError(t, a.DB.Where("purpose = ?", model.CodePurposeRegister).First(&code).Error)

	w = do(t, a, http.MethodPost, "/api/auth/verify-email", "192.0.2.1", map[string]any{
		"email": "mehmet@example.com",
		"code":  code.Code,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodPost, "/api/auth/login", "192.0.2.1", map[string]any{
		"email":    "mehmet@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	names := []string{}
	for _, c := range cookies {
		names = append(names, c.Name)
	}

	assert.Contains(t, names, "access_token")
	assert.Contains(t, names, "refresh_token")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	a := newAuthTestAPI(t)

	body := map[string]any{
		"email":    "ece@example.com",
		"password": "uzun bir parola",
	}

	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/auth/register", "192.0.2.2", body).Code)
	assert.Equal(t, http.StatusConflict, do(t, a, http.MethodPost, "/api/auth/register", "192.0.2.2", body).Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := newAuthTestAPI(t)

	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/auth/register", "192.0.2.3", map[string]any{
		"email":    "can@example.com",
		"password": "dogru parola",
	}).Code)

	require.NoError(t, a.DB.Model(model.User{}).Where("email = ?", "can@example.com").Update("active", true).Error)

	w := do(t, a, http.MethodPost, "/api/auth/login", "192.0.2.3", map[string]any{
		"email":    "can@example.com",
		"password": "yanlis parola",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	a := newAuthTestAPI(t)

	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/auth/register", "192.0.2.4", map[string]any{
		"email":    "zeynep@example.com",
		"password": "gizli parola",
	}).Code)

	w := do(t, a, http.MethodPost, "/api/auth/verify-email", "192.0.2.4", map[string]any{
		"email": "zeynep@example.com",
		"code":  "000000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var user model.User
	require.NoError(t, a.DB.Where("email = ?", "zeynep@example.com").First(&user).Error)
	assert.False(t, user.Active)
}

func TestUserScopeBeatsDemoScope(t *testing.T) {
	a := newAuthTestAPI(t)

	// A logged in user and a demo visitor on the same address must not
	// see each other's folders
	user := model.User{ID: "useruseruseruser", Email: "ali@example.com", PasswordHash: "x", Active: true, Role: model.RoleUser}
	require.NoError(t, a.DB.Create(&user).Error)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodPost, "/api/demo/login", "192.0.2.5", nil).Code)
	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/folders", "192.0.2.5", map[string]any{"name": "Demo klasörü"}).Code)

	// Authenticated list via a stub identity
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("requestID", "test")
		c.Set("userID", user.ID)
		c.Set("userRole", user.Role)
	})
	router.GET("/api/folders", a.FolderFetch)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/folders", nil)
	req.RemoteAddr = "192.0.2.5:51234"
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
