package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"auth_service/internal/config"
	"auth_service/internal/middleware"
	"auth_service/internal/model"
	"auth_service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthService lets each test script the service outcome.
type stubAuthService struct {
	signupFn         func(ctx context.Context, in service.SignupInput) (*model.User, string, error)
	loginFn          func(ctx context.Context, email, password string) (*model.User, string, error)
	forgotFn         func(ctx context.Context, email, resetURLBase string) error
	resetFn          func(ctx context.Context, plainToken, password, passwordConfirm string) (*model.User, string, error)
	updatePasswordFn func(ctx context.Context, userID int, currentPassword, password, passwordConfirm string) (*model.User, string, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in service.SignupInput) (*model.User, string, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	return s.forgotFn(ctx, email, resetURLBase)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, plainToken, password, passwordConfirm string) (*model.User, string, error) {
	return s.resetFn(ctx, plainToken, password, passwordConfirm)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, userID int, currentPassword, password, passwordConfirm string) (*model.User, string, error) {
	return s.updatePasswordFn(ctx, userID, currentPassword, password, passwordConfirm)
}

func testAuthCfg() *config.AuthConfig {
	return &config.AuthConfig{JWTSecret: "secret", JWTExpHours: 1, CookieExpDays: 7}
}

func newAuthRouter(svc service.AuthService, authUser *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protect := func(c *gin.Context) {
		if authUser != nil {
			c.Set(middleware.AuthUserKey, authUser)
			c.Set(middleware.AuthRoleKey, authUser.Role)
		}
		c.Next()
	}
	h := NewAuthHandler(svc, testAuthCfg())
	h.RegisterAuthRoutes(r.Group("/api/v1"), protect)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignupHandler(t *testing.T) {
	svc := &stubAuthService{
		signupFn: func(_ context.Context, in service.SignupInput) (*model.User, string, error) {
			return &model.User{ID: 1, Name: in.Name, Email: in.Email, PasswordHash: "$2a$bcrypt", Role: model.RoleUser}, "signed.jwt.token", nil
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/signup",
		`{"name":"John","email":"john@example.com","password":"pass12345","passwordConfirm":"pass12345"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "signed.jwt.token")
	assert.Contains(t, w.Body.String(), "john@example.com")
	// The password never appears in a response, hashed or otherwise
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "bcrypt")
}

func TestSignupHandler_SetsJWTCookie(t *testing.T) {
	svc := &stubAuthService{
		signupFn: func(_ context.Context, in service.SignupInput) (*model.User, string, error) {
			return &model.User{ID: 1, Email: in.Email, Role: model.RoleUser}, "signed.jwt.token", nil
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/signup",
		`{"name":"John","email":"john@example.com","password":"pass12345","passwordConfirm":"pass12345"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Equal(t, "signed.jwt.token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 7*24*60*60, cookies[0].MaxAge)
}

func TestSignupHandler_ValidationError(t *testing.T) {
	svc := &stubAuthService{
		signupFn: func(_ context.Context, in service.SignupInput) (*model.User, string, error) {
			return nil, "", service.ErrPasswordMismatch
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/signup",
		`{"name":"John","email":"john@example.com","password":"pass12345","passwordConfirm":"different1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler_MissingFields(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (*model.User, string, error) {
			t.Fatal("service must not be called when fields are missing")
			return nil, "", nil
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/login", `{"email":"john@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (*model.User, string, error) {
			return nil, "", service.ErrInvalidCredentials
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/login",
		`{"email":"john@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrInvalidCredentials.Error())
}

func TestForgotPasswordHandler(t *testing.T) {
	var gotBase string
	svc := &stubAuthService{
		forgotFn: func(_ context.Context, email, resetURLBase string) error {
			gotBase = resetURLBase
			return nil
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/forgotPassword", `{"email":"john@example.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Token sent to email")
	assert.True(t, strings.HasSuffix(gotBase, "/api/v1/users/resetPassword"))
}

func TestForgotPasswordHandler_UnknownEmail(t *testing.T) {
	svc := &stubAuthService{
		forgotFn: func(_ context.Context, _, _ string) error { return service.ErrUserNotFound },
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/forgotPassword", `{"email":"ghost@example.com"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestForgotPasswordHandler_SendFailure(t *testing.T) {
	svc := &stubAuthService{
		forgotFn: func(_ context.Context, _, _ string) error { return service.ErrEmailSendFailed },
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/users/forgotPassword", `{"email":"john@example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResetPasswordHandler_InvalidToken(t *testing.T) {
	svc := &stubAuthService{
		resetFn: func(_ context.Context, plainToken, _, _ string) (*model.User, string, error) {
			assert.Equal(t, "sometoken", plainToken)
			return nil, "", service.ErrResetTokenInvalid
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPatch, "/api/v1/users/resetPassword/sometoken",
		`{"password":"newpass123","passwordConfirm":"newpass123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordHandler(t *testing.T) {
	svc := &stubAuthService{
		resetFn: func(_ context.Context, _, _, _ string) (*model.User, string, error) {
			return &model.User{ID: 1, Email: "john@example.com", Role: model.RoleUser}, "fresh.jwt.token", nil
		},
	}
	r := newAuthRouter(svc, nil)

	w := doJSON(r, http.MethodPatch, "/api/v1/users/resetPassword/sometoken",
		`{"password":"newpass123","passwordConfirm":"newpass123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fresh.jwt.token")
}

func TestUpdatePasswordHandler_WrongCurrentPassword(t *testing.T) {
	svc := &stubAuthService{
		updatePasswordFn: func(_ context.Context, userID int, _, _, _ string) (*model.User, string, error) {
			assert.Equal(t, 1, userID)
			return nil, "", service.ErrWrongPassword
		},
	}
	r := newAuthRouter(svc, &model.User{ID: 1, Email: "john@example.com", Role: model.RoleUser})

	w := doJSON(r, http.MethodPatch, "/api/v1/users/updatePassword",
		`{"passwordCurrent":"wrong","password":"newpass123","passwordConfirm":"newpass123"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePasswordHandler(t *testing.T) {
	svc := &stubAuthService{
		updatePasswordFn: func(_ context.Context, userID int, current, password, confirm string) (*model.User, string, error) {
			return &model.User{ID: userID, Email: "john@example.com", Role: model.RoleUser}, "rotated.jwt.token", nil
		},
	}
	r := newAuthRouter(svc, &model.User{ID: 1, Email: "john@example.com", Role: model.RoleUser})

	w := doJSON(r, http.MethodPatch, "/api/v1/users/updatePassword",
		`{"passwordCurrent":"oldpass123","password":"newpass123","passwordConfirm":"newpass123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rotated.jwt.token")
}
