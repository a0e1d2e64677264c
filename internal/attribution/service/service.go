// Package service implements the attribution ledger: it owns the funnel edge
// between a collector and a lead and tracks the visited -> submitted
// transition exactly once per pair.
package service

import (
	"context"
	"strings"

	"collector_backend/internal/attribution/repository"
	collectorsrepo "collector_backend/internal/collectors/repository"
	"collector_backend/internal/events"
	leadsrepo "collector_backend/internal/leads/repository"
	leadssvc "collector_backend/internal/leads/service"
	"collector_backend/internal/vk"
	"collector_backend/platform/apperr"
	"collector_backend/platform/db"
	"collector_backend/platform/logger"
)

// CollectorDirectory is the slice of the collector directory the ledger needs.
type CollectorDirectory interface {
	GetAnyByID(ctx context.Context, id int64) (collectorsrepo.Collector, error)
}

// ProfileLookup resolves display names for leads that arrive without one.
type ProfileLookup interface {
	Lookup(ctx context.Context, vkID string) (vk.Profile, error)
}

// RecordFactory builds an attribution repository over a transaction scope.
type RecordFactory func(q db.Querier) repository.Repository

// LeadRepoFactory builds a lead repository over a transaction scope.
type LeadRepoFactory func(q db.Querier) leadsrepo.Repository

// VisitResult is the outcome of recording a visit.
type VisitResult struct {
	Record         repository.Record
	Lead           leadsrepo.Lead
	AlreadyVisited bool
}

// Service provides business logic for the attribution ledger.
type Service struct {
	pool         db.Querier
	records      repository.Repository
	newRecords   RecordFactory
	newLeadRepo  LeadRepoFactory
	leadRegistry *leadssvc.Service
	collectors   CollectorDirectory
	profiles     ProfileLookup
	bus          events.Bus
	log          *logger.Logger
}

// New creates a new attribution ledger service. The factories let the visit
// flow run the lead resolve and the record insert inside one transaction.
func New(
	pool db.Querier,
	newRecords RecordFactory,
	newLeadRepo LeadRepoFactory,
	leadRegistry *leadssvc.Service,
	collectors CollectorDirectory,
	profiles ProfileLookup,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		pool:         pool,
		records:      newRecords(pool),
		newRecords:   newRecords,
		newLeadRepo:  newLeadRepo,
		leadRegistry: leadRegistry,
		collectors:   collectors,
		profiles:     profiles,
		bus:          bus,
		log:          log,
	}
}

// RecordVisit registers a funnel visit for (collector, lead), creating the
// lead on first sight. At most one record ever exists per pair: repeated
// visits return the existing record unchanged, including under concurrent
// duplicate events.
func (s *Service) RecordVisit(ctx context.Context, collectorID int64, vkID, fullName string) (VisitResult, error) {
	vkID = strings.TrimSpace(vkID)
	if vkID == "" {
		return VisitResult{}, apperr.Validation("vk_id is required")
	}

	if _, err := s.collectors.GetAnyByID(ctx, collectorID); err != nil {
		return VisitResult{}, err
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = s.lookupFullName(ctx, vkID)
	}

	var result VisitResult
	err := db.WithTx(ctx, s.pool, func(q db.Querier) error {
		lead, err := leadssvc.ResolveOrCreate(ctx, s.newLeadRepo(q), vkID, fullName)
		if err != nil {
			return err
		}
		result.Lead = lead

		records := s.newRecords(q)
		record, err := records.Get(ctx, collectorID, lead.ID)
		if err == nil {
			// Dedup contract: a repeat visit never mutates the record.
			result.Record = record
			result.AlreadyVisited = true
			return nil
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			return err
		}

		record, created, err := records.TryInsert(ctx, collectorID, lead.ID)
		if err != nil {
			return err
		}
		if !created {
			// Lost a concurrent first-visit race; same as already existed.
			record, err = records.Get(ctx, collectorID, lead.ID)
			if err != nil {
				return err
			}
			result.AlreadyVisited = true
		}
		result.Record = record
		return nil
	})
	if err != nil {
		return VisitResult{}, err
	}

	if !result.AlreadyVisited {
		s.log.Info("visit recorded",
			"collector_id", collectorID, "lead_id", result.Lead.ID)
	}
	return result, nil
}

// RecordSubmission transitions the (collector, lead) record to submitted.
// The transition happens exactly once: a pair with no prior visit yields
// NotFound, a repeat submission yields Conflict with submitted_at untouched.
// The optional phone update and the admin notification are side effects that
// never block or undo the transition.
func (s *Service) RecordSubmission(ctx context.Context, collectorID int64, vkID, phone string) (repository.Record, error) {
	vkID = strings.TrimSpace(vkID)
	if vkID == "" {
		return repository.Record{}, apperr.Validation("vk_id is required")
	}

	lead, err := s.leadRegistry.GetByVKID(ctx, vkID)
	if err != nil {
		return repository.Record{}, err
	}

	record, transitioned, err := s.records.TransitionSubmitted(ctx, collectorID, lead.ID)
	if err != nil {
		return repository.Record{}, err
	}
	if !transitioned {
		existing, err := s.records.Get(ctx, collectorID, lead.ID)
		if err != nil {
			return repository.Record{}, err
		}
		if existing.Submitted {
			return repository.Record{}, apperr.Conflict("submission already recorded")
		}
		return repository.Record{}, apperr.Internal("attribution record in unexpected state")
	}

	s.log.Info("submission recorded",
		"collector_id", collectorID, "lead_id", lead.ID)

	phone = strings.TrimSpace(phone)
	if phone != "" {
		if updated, err := s.leadRegistry.RecordPhone(ctx, vkID, phone); err != nil {
			s.log.Error("phone update after submission failed",
				"lead_id", lead.ID, "error", err)
		} else {
			lead = updated
		}
	}

	s.publishSubmitted(ctx, collectorID, lead, record)
	return record, nil
}

func (s *Service) lookupFullName(ctx context.Context, vkID string) string {
	if s.profiles == nil {
		return vkID
	}
	profile, err := s.profiles.Lookup(ctx, vkID)
	if err != nil || profile.FullName == "" {
		if err != nil {
			s.log.Warn("profile lookup failed, proceeding without enrichment",
				"vk_id", vkID, "error", err)
		}
		return vkID
	}
	return profile.FullName
}

func (s *Service) publishSubmitted(ctx context.Context, collectorID int64, lead leadsrepo.Lead, record repository.Record) {
	if s.bus == nil || record.SubmittedAt == nil {
		return
	}

	collectorName := ""
	if collector, err := s.collectors.GetAnyByID(ctx, collectorID); err == nil {
		collectorName = collector.Name
	}

	event := events.LeadSubmitted{
		BaseEvent:     events.NewBaseEvent(),
		CollectorID:   collectorID,
		CollectorName: collectorName,
		LeadID:        lead.ID,
		LeadVKID:      lead.VKID,
		LeadFullName:  lead.FullName,
		SubmittedAt:   *record.SubmittedAt,
	}
	if lead.Phone != nil {
		event.LeadPhone = *lead.Phone
	}
	s.bus.Publish(ctx, event)
}
