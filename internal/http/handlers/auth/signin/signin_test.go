package signin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/example/sixnumber/internal/domain"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SignIn(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSigninHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockToken      string
		mockErr        error
		callService    bool
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid signin",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockToken:      "access-token",
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "wrong password",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        domain.ErrInvalidCredentials,
			callService:    true,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "invalid credentials",
		},
		{
			name:           "unknown email",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        domain.ErrUserNotFound,
			callService:    true,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "invalid credentials",
		},
		{
			name:           "dormant account",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        domain.ErrStatusNotActive,
			callService:    true,
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
			wantError:      "account is not active",
		},
		{
			name:           "session conflict",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        domain.ErrSessionConflict,
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      "already signed in elsewhere, try again",
		},
		{
			name:           "storage error",
			requestBody:    Request{Email: "user1@example.com", Password: "password123"},
			mockErr:        errors.New("db down"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to sign in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("SignIn", mock.Anything, "user1@example.com", "password123").
					Return(tt.mockToken, tt.mockErr)
			}
			handler := New(newNoopLogger(), svc)

			body, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error"`
				Data   map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			}
			if tt.mockToken != "" {
				assert.Equal(t, "access-token", resp.Data["access_token"])
			}
		})
	}
}
