// Package service implements the lead registry: it owns lead identity and
// creates leads idempotently keyed on their external platform id.
package service

import (
	"context"
	"strings"

	"collector_backend/internal/leads/repository"
	"collector_backend/platform/apperr"
	"collector_backend/platform/logger"
	"collector_backend/platform/phone"
)

// Service provides business logic for the lead registry.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new lead registry service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ResolveOrCreate returns the lead with the given external id, creating it on
// first sight. An existing lead is returned unchanged: the first-seen display
// name wins and is never overwritten. Safe under concurrent calls for the
// same vk_id; the unique constraint picks a single winner and losers return
// the winner's row.
func (s *Service) ResolveOrCreate(ctx context.Context, vkID, fullName string) (repository.Lead, error) {
	return ResolveOrCreate(ctx, s.repo, vkID, fullName)
}

// ResolveOrCreate is the registry's idempotent lookup-or-create, usable
// against any repository instance so callers can run it inside their own
// transaction scope.
func ResolveOrCreate(ctx context.Context, repo repository.Repository, vkID, fullName string) (repository.Lead, error) {
	vkID = strings.TrimSpace(vkID)
	if vkID == "" {
		return repository.Lead{}, apperr.Validation("vk_id is required")
	}

	lead, err := repo.GetByVKID(ctx, vkID)
	if err == nil {
		return lead, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return repository.Lead{}, err
	}

	lead, created, err := repo.TryInsert(ctx, vkID, fullName)
	if err != nil {
		return repository.Lead{}, err
	}
	if created {
		return lead, nil
	}

	// Lost the insert race; the winner's row must exist now.
	return repo.GetByVKID(ctx, vkID)
}

// RecordPhone stores a phone number on an existing lead. The number is
// normalized to E.164 when it parses; otherwise the raw value is kept.
func (s *Service) RecordPhone(ctx context.Context, vkID, rawPhone string) (repository.Lead, error) {
	vkID = strings.TrimSpace(vkID)
	if vkID == "" {
		return repository.Lead{}, apperr.Validation("vk_id is required")
	}
	rawPhone = strings.TrimSpace(rawPhone)
	if rawPhone == "" {
		return repository.Lead{}, apperr.Validation("phone is required")
	}

	lead, err := s.repo.UpdatePhone(ctx, vkID, phone.NormalizeE164(rawPhone))
	if err != nil {
		return repository.Lead{}, err
	}

	s.log.Info("lead phone recorded", "lead_id", lead.ID)
	return lead, nil
}

// GetByVKID returns the lead with the given external id.
func (s *Service) GetByVKID(ctx context.Context, vkID string) (repository.Lead, error) {
	return s.repo.GetByVKID(ctx, vkID)
}
