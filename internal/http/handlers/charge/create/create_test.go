package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/example/sixnumber/internal/domain"
	"github.com/example/sixnumber/internal/http/middlewarectx"
	"github.com/example/sixnumber/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Submit(ctx context.Context, userUID, msg string, cash int) (*models.ChargeRequest, error) {
	args := m.Called(ctx, userUID, msg, cash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChargeRequest), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, body any, userUID string) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/charges", bytes.NewReader(raw))
	if userUID != "" {
		ctx := context.WithValue(req.Context(), middlewarectx.UserUID, userUID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		userUID        string
		mockCharge     *models.ChargeRequest
		mockErr        error
		callService    bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid charge",
			requestBody:    Request{Msg: "topup", Cash: 500},
			userUID:        "uid-1",
			mockCharge:     &models.ChargeRequest{ID: "req-1", UserUID: "uid-1", Msg: "topup", Cash: 500},
			callService:    true,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing auth context",
			requestBody:    Request{Msg: "topup", Cash: 500},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "non-positive cash",
			requestBody:    Request{Msg: "topup", Cash: 0},
			userUID:        "uid-1",
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "daily limit reached",
			requestBody:    Request{Msg: "topup", Cash: 500},
			userUID:        "uid-1",
			mockErr:        domain.ErrRateLimited,
			callService:    true,
			wantStatusCode: http.StatusTooManyRequests,
			wantError:      "daily charge limit reached",
		},
		{
			name:           "duplicate payload",
			requestBody:    Request{Msg: "topup", Cash: 500},
			userUID:        "uid-1",
			mockErr:        domain.ErrDuplicateCharge,
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantError:      "duplicate charge request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callService {
				svc.On("Submit", mock.Anything, tt.userUID, "topup", 500).
					Return(tt.mockCharge, tt.mockErr)
			}
			handler := New(newNoopLogger(), svc)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newRequest(t, tt.requestBody, tt.userUID))

			assert.Equal(t, tt.wantStatusCode, rr.Code)

			var resp struct {
				Status string          `json:"status"`
				Error  string          `json:"error"`
				Data   json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			}
			if tt.mockCharge != nil {
				var got models.ChargeRequest
				require.NoError(t, json.Unmarshal(resp.Data, &got))
				assert.Equal(t, "req-1", got.ID)
			}
		})
	}
}
