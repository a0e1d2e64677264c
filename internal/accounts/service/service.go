// Package service implements account resolution for signed launches.
package service

import (
	"context"
	"strings"

	"collector_backend/internal/accounts/repository"
	"collector_backend/platform/apperr"
	"collector_backend/platform/logger"
)

// Service provides business logic for collector owner accounts.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new accounts service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ResolveOrCreate returns the account with the given external platform id,
// creating it on first launch. Concurrent first launches converge on one
// row through the unique constraint.
func (s *Service) ResolveOrCreate(ctx context.Context, vkID string) (repository.Account, error) {
	vkID = strings.TrimSpace(vkID)
	if vkID == "" {
		return repository.Account{}, apperr.Validation("account id is required")
	}

	account, err := s.repo.GetByVKID(ctx, vkID)
	if err == nil {
		return account, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return repository.Account{}, err
	}

	account, created, err := s.repo.TryInsert(ctx, vkID)
	if err != nil {
		return repository.Account{}, err
	}
	if !created {
		return s.repo.GetByVKID(ctx, vkID)
	}

	s.log.Info("account created", "account_id", account.ID)
	return account, nil
}
