package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/careops/as-service/internal/domain"
	"github.com/careops/as-service/internal/repository"
)

type fakeTicketRepo struct {
	mu         sync.Mutex
	seq        int
	byID       map[string]*domain.ServiceTicket
	byNumber   map[string]*domain.ServiceTicket
	createHook func(*domain.ServiceTicket) error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		byID:     make(map[string]*domain.ServiceTicket),
		byNumber: make(map[string]*domain.ServiceTicket),
	}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.ServiceTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createHook != nil {
		if err := r.createHook(ticket); err != nil {
			return err
		}
	}
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.byID[ticket.ID] = &stored
	r.byNumber[ticket.TicketNumber] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.ServiceTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	stored := *ticket
	r.byID[ticket.ID] = &stored
	r.byNumber[ticket.TicketNumber] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.ServiceTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, ticketNumber string) (*domain.ServiceTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byNumber[ticketNumber]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) CountByNumberPrefix(_ context.Context, prefix string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for number := range r.byNumber {
		if strings.HasPrefix(number, prefix) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) ExistsByNumber(_ context.Context, ticketNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byNumber[ticketNumber]
	return ok, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.ServiceTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ServiceTicket
	for _, ticket := range r.byID {
		if filter.CompanyName != nil && ticket.CompanyName != *filter.CompanyName {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeCustomerRepo struct {
	mu      sync.Mutex
	seq     int
	byPhone map[string]*domain.Customer
	creates int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byPhone: make(map[string]*domain.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.creates++
	customer.ID = fmt.Sprintf("customer-%d", r.seq)
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	stored := *customer
	r.byPhone[customer.Phone] = &stored
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.byPhone {
		if customer.ID == id {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.byPhone[phone]
	if !ok {
		return nil, nil
	}
	copied := *customer
	return &copied, nil
}

// fakeNumberStore drives allocator tests without a ticket table.
type fakeNumberStore struct {
	count       int
	existing    map[string]bool
	alwaysTaken bool
	existsCalls int
}

func (s *fakeNumberStore) CountByNumberPrefix(context.Context, string) (int, error) {
	return s.count, nil
}

func (s *fakeNumberStore) ExistsByNumber(_ context.Context, ticketNumber string) (bool, error) {
	s.existsCalls++
	if s.alwaysTaken {
		return true, nil
	}
	return s.existing[ticketNumber], nil
}
