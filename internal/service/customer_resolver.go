package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/careops/as-service/internal/domain"
	"github.com/careops/as-service/internal/repository"
)

// UnregisteredPhone is the sentinel stored when an import row carries
// no phone number.
const UnregisteredPhone = "미등록"

// CustomerResolver maps a (name, phone) pair onto exactly one customer
// record, creating a minimal placeholder when none exists. Phone is the
// dedup key; existing records are never overwritten with import data,
// which is treated as lower-trust.
type CustomerResolver struct {
	customers repository.CustomerRepository
}

// NewCustomerResolver builds the resolver.
func NewCustomerResolver(customers repository.CustomerRepository) *CustomerResolver {
	return &CustomerResolver{customers: customers}
}

// Resolve finds the customer for the given phone or creates one.
// A blank phone resolves against the unregistered sentinel so repeated
// phoneless rows share one placeholder record.
func (r *CustomerResolver) Resolve(ctx context.Context, name, phone, address string) (*domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = UnregisteredPhone
	}

	existing, err := r.customers.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Placeholder email satisfies the unique contact constraint for
	// customers created without one.
	customer := &domain.Customer{
		Name:    strings.TrimSpace(name),
		Phone:   phone,
		Email:   placeholderEmail(),
		Address: strings.TrimSpace(address),
		Status:  domain.CustomerStatusActive,
	}
	if err := r.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func placeholderEmail() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return suffix + "@temp.com"
}
