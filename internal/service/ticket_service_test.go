package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/careops/as-service/internal/domain"
)

func newTicketFixture(t *testing.T) (*TicketService, *fakeTicketRepo, *fakeCustomerRepo) {
	t.Helper()
	ticketRepo := newFakeTicketRepo()
	customerRepo := newFakeCustomerRepo()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		Resolver:     NewCustomerResolver(customerRepo),
		Allocator:    NewTicketNumberAllocator(ticketRepo, time.UTC, nil),
	})
	return svc, ticketRepo, customerRepo
}

func TestCreateTicketAssignsNumberAndCustomer(t *testing.T) {
	svc, _, customerRepo := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		CustomerName:  "김철수",
		CustomerPhone: "010-1234-5678",
		ProductName:   "냉장고",
	})
	require.NoError(t, err)
	require.Regexp(t, `^AS-\d{8}-001$`, ticket.TicketNumber)
	require.Equal(t, domain.TicketStatusReceived, ticket.Status)
	require.Equal(t, domain.TicketPriorityNormal, ticket.Priority)
	require.NotNil(t, ticket.ServiceDate)

	customer, err := customerRepo.FindByPhone(context.Background(), "010-1234-5678")
	require.NoError(t, err)
	require.NotNil(t, customer)
	require.Equal(t, customer.ID, ticket.CustomerID)
}

func TestCreateTicketRequiresNameAndPhone(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{CustomerName: "이름만"})
	require.Error(t, err)

	_, err = svc.CreateTicket(context.Background(), TicketCreateInput{CustomerPhone: "010-0000-0000"})
	require.Error(t, err)
}

func TestUpdateStatusFollowsLifecycle(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		CustomerName:  "수리고객",
		CustomerPhone: "010-2222-3333",
	})
	require.NoError(t, err)

	for _, next := range []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusUnderRepair,
		domain.TicketStatusCompleted,
	} {
		updated, err := svc.UpdateStatus(context.Background(), nil, ticket.ID, next, "")
		require.NoError(t, err)
		require.Equal(t, next, updated.Status)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		CustomerName:  "교환고객",
		CustomerPhone: "010-4444-5555",
	})
	require.NoError(t, err)

	cases := []struct {
		name string
		to   domain.TicketStatus
	}{
		{"skip to completed", domain.TicketStatusCompleted},
		{"skip to under repair", domain.TicketStatusUnderRepair},
		{"back to received", domain.TicketStatusReceived},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(context.Background(), nil, ticket.ID, tc.to, "")
			require.Error(t, err)
		})
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		CustomerName:  "완료고객",
		CustomerPhone: "010-6666-7777",
	})
	require.NoError(t, err)

	for _, next := range []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusExchanged,
		domain.TicketStatusCompleted,
	} {
		_, err = svc.UpdateStatus(context.Background(), nil, ticket.ID, next, "")
		require.NoError(t, err)
	}

	_, err = svc.UpdateStatus(context.Background(), nil, ticket.ID, domain.TicketStatusInProgress, "")
	require.Error(t, err)
}

func TestGetTicketEnforcesPartnerScope(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		CompanyName:   "파트너A",
		CustomerName:  "고객",
		CustomerPhone: "010-8888-9999",
	})
	require.NoError(t, err)

	scopeA := "파트너A"
	got, err := svc.GetTicket(context.Background(), &scopeA, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, ticket.ID, got.ID)

	scopeB := "파트너B"
	_, err = svc.GetTicket(context.Background(), &scopeB, ticket.ID)
	require.Error(t, err)

	// Head-office callers see everything.
	_, err = svc.GetTicket(context.Background(), nil, ticket.ID)
	require.NoError(t, err)
}

func TestListTicketsAppliesPartnerScope(t *testing.T) {
	svc, _, _ := newTicketFixture(t)

	for _, company := range []string{"파트너A", "파트너A", "파트너B"} {
		_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
			CompanyName:   company,
			CustomerName:  "고객",
			CustomerPhone: "010-1000-" + company,
		})
		require.NoError(t, err)
	}

	scope := "파트너A"
	scoped, err := svc.ListTickets(context.Background(), TicketListFilter{PartnerScope: &scope})
	require.NoError(t, err)
	require.Len(t, scoped, 2)

	all, err := svc.ListTickets(context.Background(), TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
}
