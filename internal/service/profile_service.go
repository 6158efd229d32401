package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tiendago/backend/internal/domain"
	"github.com/tiendago/backend/internal/port"
)

type ProfileService struct {
	users    port.UserStore
	profiles port.ProfileStore
}

func NewProfileService(users port.UserStore, profiles port.ProfileStore) *ProfileService {
	return &ProfileService{
		users:    users,
		profiles: profiles,
	}
}

// Get returns the user and their profile sheet. A missing profile row
// resolves to an empty profile, not an error.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.User, *domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.profileOrEmpty(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID int64, req domain.UpdateProfileRequest) (*domain.User, *domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("update user: %w", err)
	}

	profile, err := s.profileOrEmpty(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.PostalCode != nil {
		profile.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.PreferredPaymentMethodID != nil {
		profile.PreferredPaymentMethodID = req.PreferredPaymentMethodID
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("update profile: %w", err)
	}
	return user, profile, nil
}

// Addresses returns the address book. When the book is empty but the
// flat snapshot holds data, a single primary entry is synthesized from
// it so older accounts still present an address.
func (s *ProfileService) Addresses(ctx context.Context, userID int64) ([]domain.AddressEntry, error) {
	profile, err := s.profileOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(profile.Addresses) > 0 {
		return profile.Addresses, nil
	}
	if profile.Address == "" && profile.City == "" && profile.Country == "" {
		return []domain.AddressEntry{}, nil
	}
	return []domain.AddressEntry{{
		ID:          1,
		Type:        "home",
		FullAddress: fmt.Sprintf("%s, %s, %s", profile.Address, profile.City, profile.Country),
		ZipCode:     profile.PostalCode,
		Reference:   "Dirección principal",
		IsPrimary:   true,
		CreatedAt:   time.Now(),
	}}, nil
}

func (s *ProfileService) AddAddress(ctx context.Context, userID int64, entry domain.AddressEntry) (domain.AddressEntry, error) {
	profile, err := s.profileOrEmpty(ctx, userID)
	if err != nil {
		return domain.AddressEntry{}, err
	}

	entry.ID = nextEntryID(len(profile.Addresses), func(i int) int { return profile.Addresses[i].ID })
	entry.CreatedAt = time.Now()
	if entry.IsPrimary {
		for i := range profile.Addresses {
			profile.Addresses[i].IsPrimary = false
		}
	}
	profile.Addresses = append(profile.Addresses, entry)

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return domain.AddressEntry{}, fmt.Errorf("save address: %w", err)
	}
	return entry, nil
}

func (s *ProfileService) PaymentMethods(ctx context.Context, userID int64) ([]domain.PaymentMethodEntry, error) {
	profile, err := s.profileOrEmpty(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.PaymentMethods == nil {
		return []domain.PaymentMethodEntry{}, nil
	}
	return profile.PaymentMethods, nil
}

func (s *ProfileService) AddPaymentMethod(ctx context.Context, userID int64, entry domain.PaymentMethodEntry) (domain.PaymentMethodEntry, error) {
	profile, err := s.profileOrEmpty(ctx, userID)
	if err != nil {
		return domain.PaymentMethodEntry{}, err
	}

	entry.ID = nextEntryID(len(profile.PaymentMethods), func(i int) int { return profile.PaymentMethods[i].ID })
	if entry.IsPrimary {
		for i := range profile.PaymentMethods {
			profile.PaymentMethods[i].IsPrimary = false
		}
	}
	profile.PaymentMethods = append(profile.PaymentMethods, entry)

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return domain.PaymentMethodEntry{}, fmt.Errorf("save payment method: %w", err)
	}
	return entry, nil
}

func (s *ProfileService) profileOrEmpty(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func nextEntryID(count int, idAt func(int) int) int {
	next := 1
	for i := 0; i < count; i++ {
		if id := idAt(i); id >= next {
			next = id + 1
		}
	}
	return next
}
