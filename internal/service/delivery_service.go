package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/careops/as-service/internal/config"
	"github.com/careops/as-service/internal/domain"
	"github.com/careops/as-service/internal/events"
	"github.com/careops/as-service/internal/repository"
	apperrors "github.com/careops/as-service/pkg/util"
)

// courierCodeMap maps Korean carrier names to tracker API codes.
var courierCodeMap = map[string]string{
	"CJ대한통운":     "04",
	"한진택배":       "05",
	"롯데택배":       "08",
	"로젠택배":       "06",
	"우체국택배":      "01",
	"GS Postbox": "24",
	"대신택배":       "22",
	"경동택배":       "23",
}

// TrackingInfo is the slice of the tracker API response we consume.
type TrackingInfo struct {
	Level     int    `json:"level"`
	Complete  bool   `json:"complete"`
	InvoiceNo string `json:"invoiceNo"`
	Msg       string `json:"msg,omitempty"`
	Code      string `json:"code,omitempty"`
}

// DeliveryService polls the carrier tracking API and maps its numeric
// progress levels onto internal delivery states. Responses are cached
// in Redis so dashboard refreshes do not hammer the carrier API.
type DeliveryService struct {
	cfg        config.DeliveryConfig
	tickets    repository.TicketRepository
	cache      *redis.Client
	httpClient *http.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewDeliveryService constructs the service.
func NewDeliveryService(cfg config.DeliveryConfig, tickets repository.TicketRepository, cache *redis.Client, dispatcher events.Dispatcher, logger *zap.Logger) *DeliveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryService{
		cfg:        cfg,
		tickets:    tickets,
		cache:      cache,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CourierCode resolves a carrier name to its API code, accepting
// partial matches such as "CJ" for "CJ대한통운".
func CourierCode(courierName string) (string, bool) {
	name := strings.TrimSpace(courierName)
	if name == "" {
		return "", false
	}
	if code, ok := courierCodeMap[name]; ok {
		return code, true
	}
	for key, code := range courierCodeMap {
		if strings.Contains(key, name) || strings.Contains(name, key) {
			return code, true
		}
	}
	return "", false
}

// MapLevel converts the tracker API progress level to a delivery status.
func MapLevel(level int) domain.DeliveryStatus {
	switch level {
	case 1:
		return domain.DeliveryStatusPickedUp
	case 2:
		return domain.DeliveryStatusInTransit
	case 3:
		return domain.DeliveryStatusArrived
	case 4:
		return domain.DeliveryStatusOutForDelivery
	case 5, 6:
		return domain.DeliveryStatusDelivered
	default:
		return domain.DeliveryStatusPending
	}
}

// Track fetches tracking info for a shipment, serving cached responses
// when available.
func (s *DeliveryService) Track(ctx context.Context, courier, trackingNumber string) (*TrackingInfo, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, apperrors.NewValidationError("tracking number required", nil)
	}
	code, ok := CourierCode(courier)
	if !ok {
		return nil, apperrors.NewValidationError("unknown courier", map[string]any{"courier": courier})
	}
	if s.cfg.APIKey == "" {
		return nil, apperrors.NewDomainError("DELIVERY_UNCONFIGURED", "delivery tracking API key not configured", http.StatusServiceUnavailable, nil)
	}

	cacheKey := fmt.Sprintf("delivery:%s:%s", code, trackingNumber)
	if info := s.fromCache(ctx, cacheKey); info != nil {
		return info, nil
	}

	info, err := s.fetch(ctx, code, trackingNumber)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, cacheKey, info)
	return info, nil
}

// RefreshTicketDelivery polls the carrier for a ticket's shipment and
// stores the mapped status when it changed.
func (s *DeliveryService) RefreshTicketDelivery(ctx context.Context, ticketID string) (*domain.ServiceTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.TrackingNumber == "" || ticket.Courier == "" {
		return nil, apperrors.NewValidationError("ticket has no tracking information", nil)
	}

	info, err := s.Track(ctx, ticket.Courier, ticket.TrackingNumber)
	if err != nil {
		return nil, err
	}

	newStatus := MapLevel(info.Level)
	if newStatus == ticket.DeliveryStatus {
		return ticket, nil
	}

	oldStatus := ticket.DeliveryStatus
	ticket.DeliveryStatus = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventDeliveryStatusChanged,
			TicketID:  ticket.ID,
			Timestamp: time.Now(),
			Payload: events.DeliveryStatusChangedPayload{
				TicketNumber:   ticket.TicketNumber,
				TrackingNumber: ticket.TrackingNumber,
				OldStatus:      oldStatus,
				NewStatus:      newStatus,
			},
		})
	}
	return ticket, nil
}

func (s *DeliveryService) fetch(ctx context.Context, courierCode, trackingNumber string) (*TrackingInfo, error) {
	endpoint := fmt.Sprintf("%s/trackingInfo?t_key=%s&t_code=%s&t_invoice=%s",
		strings.TrimRight(s.cfg.BaseURL, "/"),
		url.QueryEscape(s.cfg.APIKey),
		url.QueryEscape(courierCode),
		url.QueryEscape(trackingNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewDomainError("DELIVERY_UPSTREAM", "carrier API unreachable", http.StatusBadGateway, map[string]any{"reason": err.Error()})
	}
	defer resp.Body.Close()

	var info TrackingInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperrors.NewDomainError("DELIVERY_UPSTREAM", "invalid carrier API response", http.StatusBadGateway, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewDomainError("DELIVERY_UPSTREAM", "carrier API rejected request", http.StatusBadGateway, map[string]any{
			"status": resp.StatusCode,
			"msg":    info.Msg,
		})
	}
	return &info, nil
}

func (s *DeliveryService) fromCache(ctx context.Context, key string) *TrackingInfo {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var info TrackingInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil
	}
	return &info
}

func (s *DeliveryService) toCache(ctx context.Context, key string, info *TrackingInfo) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL()).Err(); err != nil {
		s.logger.Debug("delivery cache write failed", zap.Error(err))
	}
}
