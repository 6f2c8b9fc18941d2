package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/types"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

func authRouter(v TokenValidator) *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware(v))
	router.GET("/me", func(c *gin.Context) {
		id, ok := UserID(c)
		ctxID, _ := logging.UserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "ok": ok, "ctx": ctxID.String(), "email": c.GetString(EmailKey)})
	})
	return router
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	userID := uuid.New()
	v := new(mockValidator)
	v.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID, Email: "a@b.c"}, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	authRouter(v).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":"`+userID.String()+`","ok":true,"ctx":"`+userID.String()+`","email":"a@b.c"}`, rr.Body.String())
	v.AssertExpectations(t)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	v := new(mockValidator)
	v.On("ValidateToken", "bad").Return(nil, errors.New("invalid token"))

	tests := []struct {
		name   string
		header string
		body   string
	}{
		{"missing header", "", `{"error":"missing authorization header"}`},
		{"wrong scheme", "Basic abc", `{"error":"invalid authorization header format"}`},
		{"empty token", "Bearer ", `{"error":"invalid authorization header format"}`},
		{"invalid token", "Bearer bad", `{"error":"invalid token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			authRouter(v).ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, tt.body, rr.Body.String())
		})
	}
}

func TestUserIDMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)

	c.Set(UserIDKey, "not-a-uuid")
	_, ok = UserID(c)
	assert.False(t, ok)
}
