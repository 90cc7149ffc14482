package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/api/handlers"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/auth"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JwtSecret: "test-secret",
		JwtTTL:    time.Hour,
	}
}

func loginReq(t *testing.T, r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	cfg := authTestConfig()
	handler := handlers.NewAuthHandler(cfg, mockUserSvc)

	r := gin.New()
	r.POST("/v1/auth/login", handler.Login)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Email:        "staff@agency.test",
		PasswordHash: hash,
		IsAdmin:      true,
	}
	mockUserSvc.On("FindUserByEmail", mock.Anything, "staff@agency.test").Return(user, nil)

	w := loginReq(t, r, "staff@agency.test", "correct horse")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token, ok := resp["token"].(string)
	require.True(t, ok)

	// The issued token round-trips with the right claims
	claims, err := auth.ValidateJWT(token, cfg.JwtSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.True(t, claims.IsAdmin)
	mockUserSvc.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/v1/auth/login", handler.Login)

	hash, _ := auth.HashPassword("correct horse")
	user := &models.User{ID: primitive.NewObjectID(), Email: "staff@agency.test", PasswordHash: hash}
	mockUserSvc.On("FindUserByEmail", mock.Anything, "staff@agency.test").Return(user, nil)

	w := loginReq(t, r, "staff@agency.test", "battery staple")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/v1/auth/login", handler.Login)

	mockUserSvc.On("FindUserByEmail", mock.Anything, "nobody@agency.test").Return(nil, mongo.ErrNoDocuments)

	w := loginReq(t, r, "nobody@agency.test", "whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Same error body as a wrong password; no account probing
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid email or password", resp["error"])
}

func TestLogin_MalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockUserSvc := new(MockUserService)
	handler := handlers.NewAuthHandler(authTestConfig(), mockUserSvc)

	r := gin.New()
	r.POST("/v1/auth/login", handler.Login)

	w := loginReq(t, r, "not-an-email", "pw")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUserSvc.AssertNotCalled(t, "FindUserByEmail", mock.Anything, mock.Anything)
}
