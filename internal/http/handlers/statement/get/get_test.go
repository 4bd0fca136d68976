package get

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func (m *ServiceMock) GetStatement(ctx context.Context, userUID string, year, monthNum int) ([]models.StatementEntry, error) {
	args := m.Called(ctx, userUID, year, monthNum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatementEntry), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(target, userUID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userUID != "" {
		ctx := context.WithValue(req.Context(), middlewarectx.UserUID, userUID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestGetHandler_ServeHTTP(t *testing.T) {
	entries := []models.StatementEntry{
		{UserUID: "uid-1", Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Msg: "first", Cash: 100},
		{UserUID: "uid-1", Date: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), Msg: "second", Cash: 200},
	}

	t.Run("valid statement", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("GetStatement", mock.Anything, "uid-1", 2025, 3).Return(entries, nil)
		handler := New(newNoopLogger(), svc)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("/statement?year=2025&month=3", "uid-1"))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Status string                  `json:"status"`
			Data   []models.StatementEntry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "first", resp.Data[0].Msg)
		assert.Equal(t, "second", resp.Data[1].Msg)
	})

	t.Run("empty month", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("GetStatement", mock.Anything, "uid-1", 2025, 4).Return(nil, domain.ErrNoData)
		handler := New(newNoopLogger(), svc)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("/statement?year=2025&month=4", "uid-1"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid month", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("/statement?year=2025&month=13", "uid-1"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing year", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("/statement?month=3", "uid-1"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing auth context", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("/statement?year=2025&month=3", ""))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
