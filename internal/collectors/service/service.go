// Package service implements the collector directory business logic.
package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"collector_backend/internal/collectors/repository"
	"collector_backend/internal/vk"
	"collector_backend/platform/apperr"
	"collector_backend/platform/logger"
)

// Profile lookups during lead listing run concurrently up to this many.
const profileLookupConcurrency = 8

// ProfileLookup resolves avatar URLs for leads shown in the directory.
type ProfileLookup interface {
	Lookup(ctx context.Context, vkID string) (vk.Profile, error)
}

// CreateInput carries raw collector attributes; enum fields are validated here.
type CreateInput struct {
	Name                string
	Description         *string
	Transcription       *string
	ClientPathType      string
	ClientPath          *string
	Plugin              string
	RequestPhoneNumbers bool
	FirstBonus          *string
	SecondBonus         *string
	ThirdBonus          *string
}

// UpdateInput carries raw collector updates. Nil fields keep the stored value.
type UpdateInput struct {
	Name                *string
	Description         *string
	Transcription       *string
	ClientPathType      *string
	ClientPath          *string
	Plugin              *string
	RequestPhoneNumbers *bool
	FirstBonus          *string
	SecondBonus         *string
	ThirdBonus          *string
}

// Service provides business logic for the collector directory.
type Service struct {
	repo     repository.Repository
	profiles ProfileLookup
	log      *logger.Logger
}

// New creates a new collector directory service.
func New(repo repository.Repository, profiles ProfileLookup, log *logger.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, log: log}
}

// Create registers a new collector owned by the account.
func (s *Service) Create(ctx context.Context, accountID int64, input CreateInput) (repository.Collector, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return repository.Collector{}, apperr.Validation("name is required")
	}

	pathType, err := repository.ParseClientPathType(input.ClientPathType)
	if err != nil {
		return repository.Collector{}, err
	}
	plugin, err := repository.ParsePlugin(input.Plugin)
	if err != nil {
		return repository.Collector{}, err
	}

	collector, err := s.repo.Create(ctx, repository.CreateParams{
		AccountID:           accountID,
		Name:                name,
		Description:         input.Description,
		Transcription:       input.Transcription,
		ClientPathType:      pathType,
		ClientPath:          input.ClientPath,
		Plugin:              plugin,
		RequestPhoneNumbers: input.RequestPhoneNumbers,
		FirstBonus:          input.FirstBonus,
		SecondBonus:         input.SecondBonus,
		ThirdBonus:          input.ThirdBonus,
	})
	if err != nil {
		return repository.Collector{}, err
	}

	s.log.Info("collector created",
		"collector_id", collector.ID, "account_id", accountID)
	return collector, nil
}

// Get returns the collector scoped to its owning account.
func (s *Service) Get(ctx context.Context, accountID, id int64) (repository.Collector, error) {
	return s.repo.GetByID(ctx, accountID, id)
}

// GetAnyByID returns the collector regardless of owner. The attribution
// ledger uses this to resolve collectors on unauthenticated event paths.
func (s *Service) GetAnyByID(ctx context.Context, id int64) (repository.Collector, error) {
	return s.repo.GetAnyByID(ctx, id)
}

// List returns all collectors owned by the account.
func (s *Service) List(ctx context.Context, accountID int64) ([]repository.Collector, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// Update modifies a collector owned by the account. Absent fields keep
// their stored value.
func (s *Service) Update(ctx context.Context, accountID, id int64, input UpdateInput) (repository.Collector, error) {
	params := repository.UpdateParams{
		ID:                  id,
		AccountID:           accountID,
		Description:         input.Description,
		Transcription:       input.Transcription,
		ClientPath:          input.ClientPath,
		RequestPhoneNumbers: input.RequestPhoneNumbers,
		FirstBonus:          input.FirstBonus,
		SecondBonus:         input.SecondBonus,
		ThirdBonus:          input.ThirdBonus,
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return repository.Collector{}, apperr.Validation("name cannot be empty")
		}
		params.Name = &name
	}
	if input.ClientPathType != nil {
		pathType, err := repository.ParseClientPathType(*input.ClientPathType)
		if err != nil {
			return repository.Collector{}, err
		}
		params.ClientPathType = &pathType
	}
	if input.Plugin != nil {
		plugin, err := repository.ParsePlugin(*input.Plugin)
		if err != nil {
			return repository.Collector{}, err
		}
		params.Plugin = plugin
	}

	collector, err := s.repo.Update(ctx, params)
	if err != nil {
		return repository.Collector{}, err
	}

	s.log.Info("collector updated",
		"collector_id", collector.ID, "account_id", accountID)
	return collector, nil
}

// Delete removes a collector owned by the account together with its
// attribution records.
func (s *Service) Delete(ctx context.Context, accountID, id int64) error {
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.log.Info("collector deleted", "collector_id", id, "account_id", accountID)
	return nil
}

// ListLeads returns the collector's attributed leads with their funnel
// state, newest visit first. Avatars are fetched best effort; a failed
// lookup leaves the photo empty and never fails the listing.
func (s *Service) ListLeads(ctx context.Context, accountID, collectorID int64, search string) ([]repository.CollectorLead, error) {
	if _, err := s.repo.GetByID(ctx, accountID, collectorID); err != nil {
		return nil, err
	}

	leads, err := s.repo.ListLeads(ctx, accountID, collectorID, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	s.enrichPhotos(ctx, leads)
	return leads, nil
}

func (s *Service) enrichPhotos(ctx context.Context, leads []repository.CollectorLead) {
	if s.profiles == nil || len(leads) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(profileLookupConcurrency)
	for i := range leads {
		g.Go(func() error {
			profile, err := s.profiles.Lookup(ctx, leads[i].VKID)
			if err != nil {
				s.log.Warn("profile lookup failed, leaving photo empty",
					"vk_id", leads[i].VKID, "error", err)
				return nil
			}
			if profile.PhotoURL != "" {
				leads[i].PhotoURL = &profile.PhotoURL
			}
			return nil
		})
	}
	_ = g.Wait()
}
