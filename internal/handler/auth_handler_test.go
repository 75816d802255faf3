package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"etshoes/internal/model"
	"etshoes/internal/service"
	"etshoes/internal/session"
)

func TestAuthHandler_Register(t *testing.T) {
	valid := `{"email":"shop@example.com","password":"secret1","shop_name":"Addis Kicks","phone":"0911223344","whatsapp":"0911223344","city":"Addis Ababa","agreed_to_terms":true}`

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockAuthService)
		wantStatus int
	}{
		{
			name:       "short password",
			body:       `{"email":"shop@example.com","password":"123","shop_name":"A","phone":"1","city":"B"}`,
			setupMock:  func(m *MockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: valid,
			setupMock: func(m *MockAuthService) {
				m.On("RegisterSeller", mock.Anything, mock.AnythingOfType("service.RegisterSellerInput")).
					Return(nil, nil, service.ErrUserAlreadyExists)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "registered",
			body: valid,
			setupMock: func(m *MockAuthService) {
				m.On("RegisterSeller", mock.Anything, mock.MatchedBy(func(in service.RegisterSellerInput) bool {
					return in.AgreedToTerms && in.ShopName == "Addis Kicks"
				})).Return(
					&model.Profile{ID: uuid.New(), Email: "shop@example.com", Role: model.RoleSeller},
					&model.Seller{ShopName: "Addis Kicks", Status: model.SellerStatusPending},
					nil,
				)
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			tt.setupMock(authService)
			h := NewAuthHandler(authService)

			c, rec := newContext(newEcho(), http.MethodPost, "/api/auth/register", tt.body, nil)
			err := h.Register(c)

			if tt.wantStatus == http.StatusCreated {
				require.NoError(t, err)
				assert.Equal(t, http.StatusCreated, rec.Code)
				assert.Contains(t, rec.Body.String(), `"status":"pending"`)
			} else {
				assert.Equal(t, tt.wantStatus, statusOf(err))
			}
			authService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(*MockAuthService)
		wantStatus   int
		wantRedirect string
	}{
		{
			name: "invalid credentials",
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "a@example.com", "secret1").Return(nil, service.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "admin lands on admin",
			setupMock: func(m *MockAuthService) {
				m.On("Login", mock.Anything, "a@example.com", "secret1").Return(&service.LoginResult{
					AccessToken:  "access",
					RefreshToken: "refresh",
					Profile:      &model.Profile{Role: model.RoleAdmin},
					Redirect:     "/admin",
				}, nil)
			},
			wantStatus:   http.StatusOK,
			wantRedirect: "/admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			tt.setupMock(authService)
			h := NewAuthHandler(authService)

			c, rec := newContext(newEcho(), http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"secret1"}`, nil)
			err := h.Login(c)

			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Contains(t, rec.Body.String(), `"redirect":"`+tt.wantRedirect+`"`)
				assert.Contains(t, rec.Body.String(), `"role":"admin"`)
			} else {
				assert.Equal(t, tt.wantStatus, statusOf(err))
			}
			authService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_ForgotPasswordIsGeneric(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("RequestPasswordReset", mock.Anything, "nobody@example.com").Return(nil)
	h := NewAuthHandler(authService)

	c, rec := newContext(newEcho(), http.MethodPost, "/api/auth/password/forgot", `{"email":"nobody@example.com"}`, nil)
	require.NoError(t, h.ForgotPassword(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), service.PasswordResetMessage)
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	authService := new(MockAuthService)
	authService.On("ResetPassword", mock.Anything, "used", "secret1", "secret1").Return(service.ErrInvalidResetToken)
	h := NewAuthHandler(authService)

	c, _ := newContext(newEcho(), http.MethodPost, "/api/auth/password/reset",
		`{"token":"used","password":"secret1","confirm_password":"secret1"}`, nil)

	assert.Equal(t, http.StatusBadRequest, statusOf(h.ResetPassword(c)))
}

func TestAuthHandler_LogoutRevokesCurrentAccessToken(t *testing.T) {
	sess := &session.Session{UserID: uuid.New(), Role: model.RoleSeller, TokenID: "access-id"}
	authService := new(MockAuthService)
	authService.On("Logout", mock.Anything, "refresh", "access-id").Return(nil)
	h := NewAuthHandler(authService)

	c, rec := newContext(newEcho(), http.MethodPost, "/api/auth/logout", `{"refresh_token":"refresh"}`, sess)
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	authService.AssertExpectations(t)
}

func TestAuthHandler_Session(t *testing.T) {
	sess := &session.Session{UserID: uuid.New(), Role: model.RoleSeller}

	t.Run("no session", func(t *testing.T) {
		h := NewAuthHandler(new(MockAuthService))
		c, _ := newContext(newEcho(), http.MethodGet, "/api/session", "", nil)
		assert.Equal(t, http.StatusUnauthorized, statusOf(h.Session(c)))
	})

	t.Run("profile deleted", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("Profile", mock.Anything, sess.UserID).Return(nil, gorm.ErrRecordNotFound)
		h := NewAuthHandler(authService)
		c, _ := newContext(newEcho(), http.MethodGet, "/api/session", "", sess)
		assert.Equal(t, http.StatusUnauthorized, statusOf(h.Session(c)))
	})

	t.Run("backend failure", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("Profile", mock.Anything, sess.UserID).Return(nil, errors.New("connection refused"))
		h := NewAuthHandler(authService)
		c, _ := newContext(newEcho(), http.MethodGet, "/api/session", "", sess)
		assert.Equal(t, http.StatusInternalServerError, statusOf(h.Session(c)))
	})

	t.Run("seller", func(t *testing.T) {
		authService := new(MockAuthService)
		authService.On("Profile", mock.Anything, sess.UserID).Return(&model.Profile{ID: sess.UserID, Email: "shop@example.com", Role: model.RoleSeller}, nil)
		h := NewAuthHandler(authService)
		c, rec := newContext(newEcho(), http.MethodGet, "/api/session", "", sess)

		require.NoError(t, h.Session(c))
		assert.Contains(t, rec.Body.String(), `"email":"shop@example.com"`)
		assert.Contains(t, rec.Body.String(), `"redirect":"/seller"`)
		assert.Contains(t, rec.Body.String(), `"role":"seller"`)
	})
}
