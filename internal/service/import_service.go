package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careops/as-service/internal/config"
	"github.com/careops/as-service/internal/domain"
	"github.com/careops/as-service/internal/events"
	"github.com/careops/as-service/internal/observability"
	"github.com/careops/as-service/internal/repository"
	"github.com/careops/as-service/pkg/dateparse"
	apperrors "github.com/careops/as-service/pkg/util"
)

// ImportReport aggregates the outcome of one bulk import call.
type ImportReport struct {
	TotalRows    int      `json:"total_rows"`
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
	Errors       []string `json:"errors,omitempty"`
}

// ImportService drives one bulk upload batch: per row it resolves the
// customer, allocates a ticket number and persists the ticket. Row
// failures are recorded in the report and never abort the batch; only a
// structurally empty batch fails the call outright.
type ImportService struct {
	tickets      repository.TicketRepository
	resolver     *CustomerResolver
	allocator    *TicketNumberAllocator
	dates        *dateparse.Parser
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	metrics      *observability.Metrics
	loc          *time.Location
	headerOffset int
	now          func() time.Time
}

// ImportDependencies bundles collaborators for the import service.
type ImportDependencies struct {
	TicketRepo repository.TicketRepository
	Resolver   *CustomerResolver
	Allocator  *TicketNumberAllocator
	Dates      *dateparse.Parser
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewImportService constructs the service.
func NewImportService(cfg config.ImportConfig, deps ImportDependencies) *ImportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		tickets:      deps.TicketRepo,
		resolver:     deps.Resolver,
		allocator:    deps.Allocator,
		dates:        deps.Dates,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		metrics:      deps.Metrics,
		loc:          cfg.Location(),
		headerOffset: cfg.HeaderRowOffset,
		now:          time.Now,
	}
}

// ImportBatch processes the rows strictly in order and returns the
// aggregate report. The ticket number counter is seeded once for the
// whole batch, so suffixes increase in row order without a count query
// per row.
func (s *ImportService) ImportBatch(ctx context.Context, rows []map[string]string) (*ImportReport, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("no rows to import", nil)
	}

	batchTime := s.now().In(s.loc)
	session, err := s.allocator.Session(ctx, batchTime)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{TotalRows: len(rows)}
	// Rows in one batch sharing a phone resolve to one customer without
	// a second lookup.
	resolved := make(map[string]*domain.Customer)

	for i, raw := range rows {
		rowNum := i + 1 + s.headerOffset
		row := normalizeRowKeys(raw)

		name := rowField(row, aliasCustomerName)
		phone := rowField(row, aliasCustomerPhone)
		if name == "" && phone == "" {
			report.FailureCount++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: customer name or phone required", rowNum))
			continue
		}

		if err := s.importRow(ctx, session, resolved, row, name, phone, batchTime); err != nil {
			report.FailureCount++
			report.Errors = append(report.Errors, fmt.Sprintf(
				"row %d: import failed (customer=%q, product=%q): %v",
				rowNum, name, rowField(row, aliasProductName), err))
			s.logger.Warn("import row failed", zap.Int("row", rowNum), zap.Error(err))
			continue
		}
		report.SuccessCount++
	}

	s.metrics.RecordImport(report.TotalRows, report.FailureCount)
	s.publishCompleted(ctx, report)
	s.logger.Info("import batch finished",
		zap.Int("total", report.TotalRows),
		zap.Int("success", report.SuccessCount),
		zap.Int("failed", report.FailureCount))
	return report, nil
}

func (s *ImportService) importRow(ctx context.Context, session *TicketNumberSession, resolved map[string]*domain.Customer, row map[string]string, name, phone string, batchTime time.Time) error {
	cacheKey := phone
	if cacheKey == "" {
		cacheKey = UnregisteredPhone
	}
	customer, ok := resolved[cacheKey]
	if !ok {
		var err error
		customer, err = s.resolver.Resolve(ctx, name, phone, rowField(row, aliasCustomerAddress))
		if err != nil {
			return err
		}
		resolved[cacheKey] = customer
	}

	ticketNumber, err := session.Next(ctx)
	if err != nil {
		return err
	}

	serviceDate := s.parseDate(row, aliasServiceDate)
	if serviceDate == nil {
		serviceDate = &batchTime
	}

	customerName := name
	if customerName == "" {
		customerName = "-"
	}
	customerPhone := phone
	if customerPhone == "" {
		customerPhone = UnregisteredPhone
	}

	ticket := &domain.ServiceTicket{
		TicketNumber:       ticketNumber,
		CustomerID:         customer.ID,
		CompanyName:        rowField(row, aliasCompanyName),
		CustomerName:       customerName,
		CustomerPhone:      customerPhone,
		CustomerAddress:    rowField(row, aliasCustomerAddress),
		ProductName:        rowField(row, aliasProductName),
		Description:        rowField(row, aliasDescription),
		RepairContent:      rowField(row, aliasRepairContent),
		TrackingNumber:     rowField(row, aliasTrackingNumber),
		DeliveryStatus:     domain.DeliveryStatusPending,
		Status:             domain.TicketStatusReceived,
		Priority:           domain.TicketPriorityNormal,
		ServiceDate:        serviceDate,
		PickupRequestDate:  s.parseDate(row, aliasPickupRequestDate),
		ProcessDate:        s.parseDate(row, aliasProcessDate),
		ShipDate:           s.parseDate(row, aliasShipDate),
		PickupCompleteDate: s.parseDate(row, aliasPickupCompleteDate),
		PurchaseDate:       s.parseDate(row, aliasPurchaseDate),
		ReceivedAt:         batchTime,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return err
	}

	s.publishCreated(ctx, ticket)
	return nil
}

// parseDate normalizes a date-bearing field; an unparseable value is a
// normal no-date outcome, never a row failure.
func (s *ImportService) parseDate(row map[string]string, aliases []string) *time.Time {
	raw := rowField(row, aliases)
	if raw == "" {
		return nil
	}
	parsed, ok := s.dates.Parse(raw)
	if !ok {
		s.logger.Debug("unparseable date value", zap.String("value", raw))
		return nil
	}
	return &parsed
}

func (s *ImportService) publishCreated(ctx context.Context, ticket *domain.ServiceTicket) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		Timestamp: time.Now(),
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			CompanyName:  ticket.CompanyName,
			CustomerName: ticket.CustomerName,
			Priority:     ticket.Priority,
			FromImport:   true,
		},
	})
}

func (s *ImportService) publishCompleted(ctx context.Context, report *ImportReport) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventImportCompleted,
		Timestamp: time.Now(),
		Payload: events.ImportCompletedPayload{
			TotalRows:    report.TotalRows,
			SuccessCount: report.SuccessCount,
			FailureCount: report.FailureCount,
		},
	})
}

// Upload sheets arrive with Korean or English headers, sometimes with a
// byte-order-mark or stray whitespace on the key.
var (
	aliasCustomerName       = []string{"고객명", "customerName", "name"}
	aliasCustomerPhone      = []string{"연락처", "customerPhone", "phone"}
	aliasCustomerAddress    = []string{"주소지", "customerAddress", "address"}
	aliasCompanyName        = []string{"업체명", "companyName", "company"}
	aliasServiceDate        = []string{"날짜", "serviceDate", "date"}
	aliasPickupRequestDate  = []string{"수거요청", "pickupRequestDate", "pickupRequest"}
	aliasProcessDate        = []string{"처리", "processDate", "process"}
	aliasShipDate           = []string{"발송", "shipDate", "ship"}
	aliasPickupCompleteDate = []string{"수거완료", "pickupCompleteDate", "pickupComplete"}
	aliasPurchaseDate       = []string{"구매일자", "purchaseDate"}
	aliasProductName        = []string{"제품", "productName", "product"}
	aliasDescription        = []string{"내용", "description", "content", "issue"}
	aliasRepairContent      = []string{"수리내역", "수리 내역", "repairContent", "repair"}
	aliasTrackingNumber     = []string{"운송장번호", "trackingNumber"}
)

// normalizeRowKeys strips BOM and surrounding whitespace from field
// names once at the batch boundary.
func normalizeRowKeys(raw map[string]string) map[string]string {
	normalized := make(map[string]string, len(raw))
	for key, value := range raw {
		cleaned := strings.TrimSpace(strings.TrimPrefix(key, "\ufeff"))
		normalized[cleaned] = value
	}
	return normalized
}

func rowField(row map[string]string, aliases []string) string {
	for _, key := range aliases {
		if value, ok := row[key]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
