package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/as-service/internal/domain"
)

// TicketFilter captures list query parameters.
type TicketFilter struct {
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	CustomerID  *string
	CompanyName *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates after-service ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.ServiceTicket) error
	Update(ctx context.Context, ticket *domain.ServiceTicket) error
	GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error)
	GetByNumber(ctx context.Context, ticketNumber string) (*domain.ServiceTicket, error)
	CountByNumberPrefix(ctx context.Context, prefix string) (int, error)
	ExistsByNumber(ctx context.Context, ticketNumber string) (bool, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.ServiceTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, customer_id, company_name, customer_name, customer_phone,
       customer_address, product_name, serial_number, description, repair_content,
       tracking_number, courier, delivery_status, status, priority,
       service_date, pickup_request_date, process_date, ship_date, pickup_complete_date,
       purchase_date, received_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.ServiceTicket) error {
	const query = `
        INSERT INTO afterservice_tickets (
            ticket_number, customer_id, company_name, customer_name, customer_phone,
            customer_address, product_name, serial_number, description, repair_content,
            tracking_number, courier, delivery_status, status, priority,
            service_date, pickup_request_date, process_date, ship_date, pickup_complete_date,
            purchase_date, received_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.CustomerID,
		ticket.CompanyName,
		ticket.CustomerName,
		ticket.CustomerPhone,
		ticket.CustomerAddress,
		ticket.ProductName,
		ticket.SerialNumber,
		ticket.Description,
		ticket.RepairContent,
		ticket.TrackingNumber,
		ticket.Courier,
		ticket.DeliveryStatus,
		ticket.Status,
		ticket.Priority,
		ticket.ServiceDate,
		ticket.PickupRequestDate,
		ticket.ProcessDate,
		ticket.ShipDate,
		ticket.PickupCompleteDate,
		ticket.PurchaseDate,
		ticket.ReceivedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.ServiceTicket) error {
	const query = `
        UPDATE afterservice_tickets SET
            company_name=$1, customer_name=$2, customer_phone=$3, customer_address=$4,
            product_name=$5, serial_number=$6, description=$7, repair_content=$8,
            tracking_number=$9, courier=$10, delivery_status=$11, status=$12, priority=$13,
            service_date=$14, pickup_request_date=$15, process_date=$16, ship_date=$17,
            pickup_complete_date=$18, purchase_date=$19, updated_at=NOW()
        WHERE id=$20`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.CompanyName,
		ticket.CustomerName,
		ticket.CustomerPhone,
		ticket.CustomerAddress,
		ticket.ProductName,
		ticket.SerialNumber,
		ticket.Description,
		ticket.RepairContent,
		ticket.TrackingNumber,
		ticket.Courier,
		ticket.DeliveryStatus,
		ticket.Status,
		ticket.Priority,
		ticket.ServiceDate,
		ticket.PickupRequestDate,
		ticket.ProcessDate,
		ticket.ShipDate,
		ticket.PickupCompleteDate,
		ticket.PurchaseDate,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM afterservice_tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, ticketNumber string) (*domain.ServiceTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM afterservice_tickets WHERE ticket_number=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, ticketNumber)
}

func (r *ticketRepository) CountByNumberPrefix(ctx context.Context, prefix string) (int, error) {
	const query = `SELECT COUNT(*) FROM afterservice_tickets WHERE ticket_number LIKE $1 || '%'`
	var count int
	if err := r.pool.QueryRow(ctx, query, prefix).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) ExistsByNumber(ctx context.Context, ticketNumber string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM afterservice_tickets WHERE ticket_number=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ServiceTicket, error) {
	var ticket domain.ServiceTicket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(ticketScanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.ServiceTicket, error) {
	base := fmt.Sprintf(`SELECT %s FROM afterservice_tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.CompanyName != nil {
		args = append(args, *filter.CompanyName)
		clauses = append(clauses, fmt.Sprintf("company_name=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(customer_name) LIKE %s OR LOWER(product_name) LIKE %s OR LOWER(ticket_number) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.ServiceTicket, error) {
	var result []domain.ServiceTicket
	for rows.Next() {
		var ticket domain.ServiceTicket
		if err := rows.Scan(ticketScanTargets(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func ticketScanTargets(t *domain.ServiceTicket) []any {
	return []any{
		&t.ID,
		&t.TicketNumber,
		&t.CustomerID,
		&t.CompanyName,
		&t.CustomerName,
		&t.CustomerPhone,
		&t.CustomerAddress,
		&t.ProductName,
		&t.SerialNumber,
		&t.Description,
		&t.RepairContent,
		&t.TrackingNumber,
		&t.Courier,
		&t.DeliveryStatus,
		&t.Status,
		&t.Priority,
		&t.ServiceDate,
		&t.PickupRequestDate,
		&t.ProcessDate,
		&t.ShipDate,
		&t.PickupCompleteDate,
		&t.PurchaseDate,
		&t.ReceivedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}
