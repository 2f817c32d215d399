package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careops/as-service/internal/config"
	"github.com/careops/as-service/internal/domain"
)

func TestCourierCode(t *testing.T) {
	cases := []struct {
		name    string
		courier string
		want    string
		ok      bool
	}{
		{"exact match", "CJ대한통운", "04", true},
		{"partial match", "CJ", "04", true},
		{"hanjin", "한진택배", "05", true},
		{"post office partial", "우체국", "01", true},
		{"unknown", "듣보잡택배", "", false},
		{"blank", "  ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := CourierCode(tc.courier)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, code)
		})
	}
}

func TestMapLevel(t *testing.T) {
	cases := []struct {
		level int
		want  domain.DeliveryStatus
	}{
		{0, domain.DeliveryStatusPending},
		{1, domain.DeliveryStatusPickedUp},
		{2, domain.DeliveryStatusInTransit},
		{3, domain.DeliveryStatusArrived},
		{4, domain.DeliveryStatusOutForDelivery},
		{5, domain.DeliveryStatusDelivered},
		{6, domain.DeliveryStatusDelivered},
		{7, domain.DeliveryStatusPending},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, MapLevel(tc.level), "level %d", tc.level)
	}
}

func trackerStub(t *testing.T, level int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/trackingInfo", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("t_key"))
		require.NotEmpty(t, r.URL.Query().Get("t_code"))
		require.NotEmpty(t, r.URL.Query().Get("t_invoice"))
		_ = json.NewEncoder(w).Encode(TrackingInfo{
			Level:     level,
			Complete:  level >= 5,
			InvoiceNo: r.URL.Query().Get("t_invoice"),
		})
	}))
}

func TestTrackFetchesFromCarrierAPI(t *testing.T) {
	server := trackerStub(t, 4)
	defer server.Close()

	svc := NewDeliveryService(config.DeliveryConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, newFakeTicketRepo(), nil, nil, nil)

	info, err := svc.Track(context.Background(), "한진택배", "123456789")
	require.NoError(t, err)
	require.Equal(t, 4, info.Level)
	require.False(t, info.Complete)
	require.Equal(t, "123456789", info.InvoiceNo)
}

func TestTrackRejectsBadInput(t *testing.T) {
	svc := NewDeliveryService(config.DeliveryConfig{APIKey: "test-key"}, newFakeTicketRepo(), nil, nil, nil)

	_, err := svc.Track(context.Background(), "한진택배", "")
	require.Error(t, err)

	_, err = svc.Track(context.Background(), "없는택배사", "123456789")
	require.Error(t, err)
}

func TestTrackRequiresAPIKey(t *testing.T) {
	svc := NewDeliveryService(config.DeliveryConfig{}, newFakeTicketRepo(), nil, nil, nil)

	_, err := svc.Track(context.Background(), "한진택배", "123456789")
	require.Error(t, err)
}

func TestRefreshTicketDeliveryUpdatesStatus(t *testing.T) {
	server := trackerStub(t, 5)
	defer server.Close()

	ticketRepo := newFakeTicketRepo()
	ticket := &domain.ServiceTicket{
		TicketNumber:   "AS-20261226-001",
		CustomerID:     "customer-1",
		CustomerName:   "고객",
		CustomerPhone:  "010-1111-2222",
		Courier:        "CJ대한통운",
		TrackingNumber: "987654321",
		DeliveryStatus: domain.DeliveryStatusInTransit,
		Status:         domain.TicketStatusInProgress,
		Priority:       domain.TicketPriorityNormal,
	}
	require.NoError(t, ticketRepo.Create(context.Background(), ticket))

	svc := NewDeliveryService(config.DeliveryConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, ticketRepo, nil, nil, nil)

	updated, err := svc.RefreshTicketDelivery(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DeliveryStatusDelivered, updated.DeliveryStatus)

	stored, err := ticketRepo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DeliveryStatusDelivered, stored.DeliveryStatus)
}

func TestRefreshTicketDeliveryWithoutTracking(t *testing.T) {
	ticketRepo := newFakeTicketRepo()
	ticket := &domain.ServiceTicket{
		TicketNumber:  "AS-20261226-001",
		CustomerID:    "customer-1",
		CustomerName:  "고객",
		CustomerPhone: "010-3333-4444",
		Status:        domain.TicketStatusReceived,
		Priority:      domain.TicketPriorityNormal,
	}
	require.NoError(t, ticketRepo.Create(context.Background(), ticket))

	svc := NewDeliveryService(config.DeliveryConfig{APIKey: "test-key"}, ticketRepo, nil, nil, nil)

	_, err := svc.RefreshTicketDelivery(context.Background(), ticket.ID)
	require.Error(t, err)
}
