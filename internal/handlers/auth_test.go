package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hsawada/project-management-api/internal/constants"
	"github.com/hsawada/project-management-api/internal/database"
	"github.com/hsawada/project-management-api/internal/dto"
	"github.com/hsawada/project-management-api/internal/middleware"
	"github.com/hsawada/project-management-api/internal/models"
	"github.com/hsawada/project-management-api/internal/repository"
	"github.com/hsawada/project-management-api/internal/services"
	"github.com/hsawada/project-management-api/internal/token"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	tokens      *token.Service
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	tokens, err := token.NewService("test-secret", token.DefaultTTL)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewAuthHandler(authService, tokens)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	users := r.Group("/api/users")
	{
		users.POST("", handler.Register)
		users.POST("/register", handler.Register)
		users.POST("/login", handler.Login)
		users.GET("/me", middleware.RequireAuth(tokens), handler.GetCurrentUser)
		users.PUT("/me", middleware.RequireAuth(tokens), handler.UpdateProfile)
		users.PUT("/password", middleware.RequireAuth(tokens), handler.ChangePassword)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
		tokens:      tokens,
	}
}

func postJSON(t *testing.T, r *gin.Engine, path, authToken string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, r, http.MethodPost, path, authToken, payload)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, authToken string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set(constants.HeaderAuthToken, authToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/users/register", "", map[string]string{
		"email":       "a@x.com",
		"password":    "pw123456",
		"displayName": "Alice",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TokenDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)

	// The issued token verifies and resolves to the stored user
	userID, err := env.tokens.Verify(response.Token)
	require.NoError(t, err)

	var user models.User
	require.NoError(t, env.db.First(&user, userID).Error)
	require.Equal(t, "a@x.com", user.Email)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{"email": "a@x.com", "password": "pw123456"}
	w := postJSON(t, env.router, "/api/users", "", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, env.router, "/api/users", "", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"msg":"User already exists"}`, w.Body.String())
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/users", "", map[string]string{
		"email":    "a@x.com",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	require.Zero(t, count)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Email:    "a@x.com",
		Password: "pw123456",
	})
	require.NoError(t, err)

	w := postJSON(t, env.router, "/api/users/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	userID, err := env.tokens.Verify(response.Token)
	require.NoError(t, err)
	require.NotZero(t, userID)
}

// Wrong password and unknown email must be indistinguishable: same status,
// same body.
func TestAuthHandler_Login_NoExistenceOracle(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Email:    "a@x.com",
		Password: "pw123456",
	})
	require.NoError(t, err)

	wrongPassword := postJSON(t, env.router, "/api/users/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong-password",
	})
	unknownEmail := postJSON(t, env.router, "/api/users/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "pw123456",
	})

	require.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	require.Equal(t, wrongPassword.Code, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Email:       "a@x.com",
		Password:    "pw123456",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	signed, err := env.tokens.Issue(user.ID)
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodGet, "/api/users/me", signed, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)
	require.Equal(t, "a@x.com", response.Email)

	// No password material in any form
	require.NotContains(t, w.Body.String(), "password")
	require.NotContains(t, w.Body.String(), "Password")
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Email:    "a@x.com",
		Password: "pw123456",
	})
	require.NoError(t, err)

	signed, err := env.tokens.Issue(user.ID)
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodPut, "/api/users/me", signed, map[string]string{
		"displayName": "Alice B",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Alice B", response.DisplayName)
	require.Equal(t, "a@x.com", response.Email)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Email:    "a@x.com",
		Password: "pw123456",
	})
	require.NoError(t, err)

	signed, err := env.tokens.Issue(user.ID)
	require.NoError(t, err)

	// Wrong current password is rejected
	w := doJSON(t, env.router, http.MethodPut, "/api/users/password", signed, map[string]string{
		"currentPassword": "wrong",
		"newPassword":     "newpass123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, env.router, http.MethodPut, "/api/users/password", signed, map[string]string{
		"currentPassword": "pw123456",
		"newPassword":     "newpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// New password logs in, old one does not
	w = postJSON(t, env.router, "/api/users/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "newpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, env.router, "/api/users/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "pw123456",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
