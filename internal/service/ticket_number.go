package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	ticketNumberTag       = "AS"
	maxAllocationAttempts = 100
)

// TicketNumberStore is the slice of ticket persistence the allocator needs.
type TicketNumberStore interface {
	CountByNumberPrefix(ctx context.Context, prefix string) (int, error)
	ExistsByNumber(ctx context.Context, ticketNumber string) (bool, error)
}

// TicketNumberAllocator produces AS-YYYYMMDD-NNN identifiers. The
// check-then-act sequence against the store is not transactional:
// concurrent writers can still observe the same count before either
// persists, which the bounded existence-check retry mitigates but does
// not eliminate. The timestamp fallback keeps allocation live when the
// retry budget is exhausted.
type TicketNumberAllocator struct {
	store  TicketNumberStore
	loc    *time.Location
	logger *zap.Logger
}

// NewTicketNumberAllocator builds an allocator using the given service
// timezone for day prefixes.
func NewTicketNumberAllocator(store TicketNumberStore, loc *time.Location, logger *zap.Logger) *TicketNumberAllocator {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketNumberAllocator{store: store, loc: loc, logger: logger}
}

// DayPrefix returns "AS-YYYYMMDD" for the given instant in the service timezone.
func (a *TicketNumberAllocator) DayPrefix(at time.Time) string {
	local := at.In(a.loc)
	return fmt.Sprintf("%s-%04d%02d%02d", ticketNumberTag, local.Year(), int(local.Month()), local.Day())
}

// Session seeds a counter from the current ticket count for the day of
// at. A batch reuses one session so the count query runs once and the
// numeric suffixes increase strictly in row order.
func (a *TicketNumberAllocator) Session(ctx context.Context, at time.Time) (*TicketNumberSession, error) {
	prefix := a.DayPrefix(at)
	count, err := a.store.CountByNumberPrefix(ctx, prefix+"-")
	if err != nil {
		return nil, err
	}
	return &TicketNumberSession{allocator: a, prefix: prefix, counter: count}, nil
}

// Next allocates a single identifier, seeding a fresh session.
func (a *TicketNumberAllocator) Next(ctx context.Context, at time.Time) (string, error) {
	session, err := a.Session(ctx, at)
	if err != nil {
		return "", err
	}
	return session.Next(ctx)
}

// TicketNumberSession holds the in-memory counter for one allocation run.
type TicketNumberSession struct {
	allocator *TicketNumberAllocator
	prefix    string
	counter   int
}

// Next returns the next identifier that the existence check does not
// know yet. After maxAllocationAttempts collisions it falls back to a
// timestamp suffix, trading the zero-padded format for liveness; the
// fallback path never fails.
func (s *TicketNumberSession) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		s.counter++
		candidate := fmt.Sprintf("%s-%03d", s.prefix, s.counter)
		exists, err := s.allocator.store.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	fallback := fmt.Sprintf("%s-%s", s.prefix, millis[len(millis)-6:])
	s.allocator.logger.Warn("ticket number retry budget exhausted, using timestamp fallback",
		zap.String("prefix", s.prefix),
		zap.String("ticket_number", fallback))
	return fallback, nil
}
