package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendago/backend/internal/domain"
)

func seedUser(t *testing.T, users *mockUserStore) *domain.User {
	t.Helper()
	user := &domain.User{Email: "ana@example.com", FirstName: "Ana", LastName: "García", Active: true}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestProfileGetWithoutRowReturnsEmpty(t *testing.T) {
	users := newMockUserStore()
	profiles := newMockProfileStore()
	svc := NewProfileService(users, profiles)
	user := seedUser(t, users)

	got, profile, err := svc.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Empty(t, profile.Address)
}

func TestProfileUpdateMergesFields(t *testing.T) {
	users := newMockUserStore()
	profiles := newMockProfileStore()
	svc := NewProfileService(users, profiles)
	user := seedUser(t, users)

	phone := "+34 600 000 000"
	city := "Sevilla"
	got, profile, err := svc.Update(context.Background(), user.ID, domain.UpdateProfileRequest{
		Phone: &phone,
		City:  &city,
	})
	require.NoError(t, err)

	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "Ana", got.FirstName, "untouched fields keep their value")
	assert.Equal(t, city, profile.City)

	stored, err := profiles.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, city, stored.City)
}

func TestAddressesSynthesizedFromSnapshot(t *testing.T) {
	users := newMockUserStore()
	profiles := newMockProfileStore()
	svc := NewProfileService(users, profiles)
	user := seedUser(t, users)

	require.NoError(t, profiles.Upsert(context.Background(), &domain.Profile{
		UserID:     user.ID,
		Address:    "Calle 1",
		City:       "Madrid",
		PostalCode: "28001",
		Country:    "ES",
	}))

	addresses, err := svc.Addresses(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsPrimary)
	assert.Contains(t, addresses[0].FullAddress, "Calle 1")
	assert.Equal(t, "28001", addresses[0].ZipCode)
}

func TestAddAddressAssignsIDsAndPrimaryExclusivity(t *testing.T) {
	users := newMockUserStore()
	profiles := newMockProfileStore()
	svc := NewProfileService(users, profiles)
	user := seedUser(t, users)

	first, err := svc.AddAddress(context.Background(), user.ID, domain.AddressEntry{
		FullAddress: "Calle 1", IsPrimary: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	second, err := svc.AddAddress(context.Background(), user.ID, domain.AddressEntry{
		FullAddress: "Calle 2", IsPrimary: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	addresses, err := svc.Addresses(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.False(t, addresses[0].IsPrimary, "adding a new primary demotes the old one")
	assert.True(t, addresses[1].IsPrimary)
}

func TestAddPaymentMethod(t *testing.T) {
	users := newMockUserStore()
	profiles := newMockProfileStore()
	svc := NewProfileService(users, profiles)
	user := seedUser(t, users)

	entry, err := svc.AddPaymentMethod(context.Background(), user.ID, domain.PaymentMethodEntry{
		Type: "card", Last4: "4242", IsPrimary: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ID)

	methods, err := svc.PaymentMethods(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "4242", methods[0].Last4)
}
