package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careops/as-service/internal/domain"
)

func TestResolveReturnsExistingCustomerByPhone(t *testing.T) {
	repo := newFakeCustomerRepo()
	resolver := NewCustomerResolver(repo)

	first, err := resolver.Resolve(context.Background(), "김철수", "010-1234-5678", "서울시 강남구")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	// Same phone with a different spelling of the name still resolves to
	// the original record, untouched.
	second, err := resolver.Resolve(context.Background(), "김 철수", "010-1234-5678", "부산시")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "김철수", second.Name)
	require.Equal(t, "서울시 강남구", second.Address)
	require.Equal(t, 1, repo.creates)
}

func TestResolveCreatesPlaceholderCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	resolver := NewCustomerResolver(repo)

	customer, err := resolver.Resolve(context.Background(), "이영희", "010-9999-0000", "")
	require.NoError(t, err)
	require.Equal(t, "이영희", customer.Name)
	require.Equal(t, "010-9999-0000", customer.Phone)
	require.Equal(t, domain.CustomerStatusActive, customer.Status)

	require.True(t, strings.HasSuffix(customer.Email, "@temp.com"))
	local := strings.TrimSuffix(customer.Email, "@temp.com")
	require.Len(t, local, 8)
}

func TestResolveBlankPhoneUsesSentinel(t *testing.T) {
	repo := newFakeCustomerRepo()
	resolver := NewCustomerResolver(repo)

	first, err := resolver.Resolve(context.Background(), "박민수", "", "")
	require.NoError(t, err)
	require.Equal(t, UnregisteredPhone, first.Phone)

	// Every phoneless resolve lands on the shared sentinel record.
	second, err := resolver.Resolve(context.Background(), "최지은", "   ", "")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.creates)
}

func TestResolveDistinctPhonesCreateDistinctCustomers(t *testing.T) {
	repo := newFakeCustomerRepo()
	resolver := NewCustomerResolver(repo)

	a, err := resolver.Resolve(context.Background(), "고객A", "010-1111-1111", "")
	require.NoError(t, err)
	b, err := resolver.Resolve(context.Background(), "고객B", "010-2222-2222", "")
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)
	require.NotEqual(t, a.Email, b.Email)
	require.Equal(t, 2, repo.creates)
}
