package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/serra-caronas/internal/domain"
	"github.com/pkordes/serra-caronas/internal/repo"
)

// ProfileService manages the contact details other users see.
type ProfileService struct {
	repo repo.ProfileRepo
}

// NewProfileService constructs a ProfileService backed by the provided ProfileRepo.
func NewProfileService(r repo.ProfileRepo) *ProfileService {
	return &ProfileService{repo: r}
}

// Get returns userID's profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if err := requireUser(userID); err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Get: %w", err)
	}
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Get: %w", err)
	}
	return p, nil
}

// Save creates or replaces the caller's profile.
func (s *ProfileService) Save(ctx context.Context, userID string, p domain.Profile) (domain.Profile, error) {
	if err := requireUser(userID); err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Save: %w", err)
	}
	p.UserID = userID
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.UserType == "" {
		p.UserType = domain.UserTypeBoth
	}
	if err := p.Validate(); err != nil {
		return domain.Profile{}, err
	}

	result, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service.ProfileService.Save: %w", err)
	}
	return result, nil
}
