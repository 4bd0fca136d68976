package signup

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
	userservice "github.com/example/sixnumber/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SignUp(ctx context.Context, email, password, nickname string) (*userservice.SignUpResult, error) {
	args := m.Called(ctx, email, password, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userservice.SignUpResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockResult     *userservice.SignUpResult
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name: "new account",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
				Nickname: "user1",
			},
			mockResult:     &userservice.SignUpResult{UserUID: "uid-1"},
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name: "dormant account reactivated",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
				Nickname: "user1",
			},
			mockResult:     &userservice.SignUpResult{UserUID: "uid-1", Reactivated: true},
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
			name: "validation error - missing password",
			requestBody: Request{
				Email:    "user1@example.com",
				Nickname: "user1",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name: "duplicate email",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
				Nickname: "user1",
			},
			mockErr:        domain.ErrDuplicateEmail,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      "email already in use",
		},
		{
			name: "duplicate nickname",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
				Nickname: "user1",
			},
			mockErr:        domain.ErrDuplicateNickname,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "Error",
			wantError:      "nickname already in use",
		},
		{
			name: "reactivation with wrong password",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
				Nickname: "user1",
			},
			mockErr:        domain.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "invalid credentials",
		},
		{
			name: "storage error",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
				Nickname: "user1",
			},
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "failed to sign up",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.mockResult != nil || tt.mockErr != nil {
				svc.On("SignUp", mock.Anything, "user1@example.com", "password123", "user1").
					Return(tt.mockResult, tt.mockErr)
			}
			handler := New(newNoopLogger(), svc)

			body, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewReader(body))
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
			if tt.mockResult != nil {
				assert.Equal(t, "uid-1", resp.Data["user_uid"])
			}
		})
	}
}
