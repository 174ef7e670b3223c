package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"littlelemon/internal/models"
	"littlelemon/internal/service"
	"littlelemon/internal/slots"
	"littlelemon/internal/storage"
	"littlelemon/internal/store"
)

type memKV struct {
	data map[string][]byte
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Ping(_ context.Context) error { return nil }
func (m *memKV) Close() error                 { return nil }

var fixedNow = time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, submitPerMinute int) *httptest.Server {
	t.Helper()
	logger := zerolog.New(io.Discard)
	st := store.New(&memKV{data: make(map[string][]byte)}, 6, time.UTC, &logger)
	require.NoError(t, st.Load(context.Background()))

	grid := slots.Generate("11:00", "22:00", 30)
	svc := service.NewBookingService(st, grid, service.Rules{}, nil, &logger, func() time.Time { return fixedNow })

	srv := httptest.NewServer(New(svc, submitPerMinute, 50, &logger).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func submitBody() []byte {
	body, _ := json.Marshal(service.Candidate{
		Name:      "Ana",
		Phone:     "123-456-7890",
		Email:     "ana@x.com",
		Date:      "2025-06-16",
		Time:      "19:00",
		PartySize: 3,
	})
	return body
}

func TestSubmitEndpoint(t *testing.T) {
	srv := newTestServer(t, 30)

	t.Run("Created", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader(submitBody()))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result SubmitResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.True(t, result.Success)
		require.NotNil(t, result.Booking)
		assert.NotEmpty(t, result.Booking.ID)
		assert.Equal(t, "1234567890", result.Booking.Phone)
	})

	t.Run("ValidationErrorShape", func(t *testing.T) {
		body, _ := json.Marshal(service.Candidate{
			Name:      "Ana",
			Phone:     "123-456-7890",
			Email:     "not-an-email",
			Date:      "2025-06-16",
			Time:      "19:00",
			PartySize: 3,
		})

		resp, err := http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var result SubmitResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, models.ErrInvalidEmail, result.Errors["email"].Code)
	})

	t.Run("BadJSON", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader([]byte("{nope")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSubmitRateLimited(t *testing.T) {
	srv := newTestServer(t, 1)

	resp, err := http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader(submitBody()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader(submitBody()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCancelEndpoint(t *testing.T) {
	srv := newTestServer(t, 30)

	resp, err := http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader(submitBody()))
	require.NoError(t, err)
	var created SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotNil(t, created.Booking)

	del := func(id string) int {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/bookings?id="+id, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, del(created.Booking.ID))
	// Idempotent: a second delete of the same id still succeeds.
	assert.Equal(t, http.StatusNoContent, del(created.Booking.ID))
}

func TestAvailabilityEndpoint(t *testing.T) {
	srv := newTestServer(t, 30)

	resp, err := http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader(submitBody()))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/availability?date=2025-06-16")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Date  string                     `json:"date"`
		Slots []service.SlotAvailability `json:"slots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "2025-06-16", result.Date)

	byTime := make(map[string]int, len(result.Slots))
	for _, s := range result.Slots {
		byTime[s.Time] = s.Available
	}
	assert.Equal(t, 5, byTime["19:00"])
	assert.Equal(t, 6, byTime["18:30"])

	t.Run("BadDate", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/availability?date=16.06.2025")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpcomingEndpoint(t *testing.T) {
	srv := newTestServer(t, 30)

	resp, err := http.Post(srv.URL+"/api/bookings", "application/json", bytes.NewReader(submitBody()))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/bookings/upcoming")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Bookings []models.Booking `json:"bookings"`
		Count    int              `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Bookings, 1)
	assert.Equal(t, "2025-06-16", result.Bookings[0].Date)
}

func TestSlotsEndpoint(t *testing.T) {
	srv := newTestServer(t, 30)

	resp, err := http.Get(srv.URL + "/api/slots")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Slots []string `json:"slots"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.Slots)
	assert.Equal(t, "11:00", result.Slots[0])
	assert.Equal(t, "22:00", result.Slots[len(result.Slots)-1])
}
