package service

import (
	"context"
	"testing"
	"time"

	"collector_backend/internal/collectors/repository"
	"collector_backend/internal/vk"
	"collector_backend/platform/apperr"
	"collector_backend/platform/logger"
)

type fakeCollectorRepo struct {
	collectors map[int64]repository.Collector
	leads      map[int64][]repository.CollectorLead
	nextID     int64
	lastSearch string
}

func newFakeCollectorRepo() *fakeCollectorRepo {
	return &fakeCollectorRepo{
		collectors: map[int64]repository.Collector{},
		leads:      map[int64][]repository.CollectorLead{},
		nextID:     1,
	}
}

func (f *fakeCollectorRepo) Create(_ context.Context, params repository.CreateParams) (repository.Collector, error) {
	col := repository.Collector{
		ID:                  f.nextID,
		AccountID:           params.AccountID,
		Name:                params.Name,
		Description:         params.Description,
		Transcription:       params.Transcription,
		ClientPathType:      params.ClientPathType,
		ClientPath:          params.ClientPath,
		Plugin:              params.Plugin,
		RequestPhoneNumbers: params.RequestPhoneNumbers,
		FirstBonus:          params.FirstBonus,
		SecondBonus:         params.SecondBonus,
		ThirdBonus:          params.ThirdBonus,
		CreatedAt:           time.Now(),
	}
	f.nextID++
	f.collectors[col.ID] = col
	return col, nil
}

func (f *fakeCollectorRepo) GetByID(_ context.Context, accountID, id int64) (repository.Collector, error) {
	col, ok := f.collectors[id]
	if !ok || col.AccountID != accountID {
		return repository.Collector{}, apperr.NotFound("collector not found")
	}
	return col, nil
}

func (f *fakeCollectorRepo) GetAnyByID(_ context.Context, id int64) (repository.Collector, error) {
	col, ok := f.collectors[id]
	if !ok {
		return repository.Collector{}, apperr.NotFound("collector not found")
	}
	return col, nil
}

func (f *fakeCollectorRepo) ListByAccount(_ context.Context, accountID int64) ([]repository.Collector, error) {
	result := make([]repository.Collector, 0)
	for _, col := range f.collectors {
		if col.AccountID == accountID {
			result = append(result, col)
		}
	}
	return result, nil
}

func (f *fakeCollectorRepo) Update(ctx context.Context, params repository.UpdateParams) (repository.Collector, error) {
	col, err := f.GetByID(ctx, params.AccountID, params.ID)
	if err != nil {
		return repository.Collector{}, err
	}
	if params.Name != nil {
		col.Name = *params.Name
	}
	if params.ClientPathType != nil {
		col.ClientPathType = *params.ClientPathType
	}
	if params.Plugin != nil {
		col.Plugin = params.Plugin
	}
	f.collectors[col.ID] = col
	return col, nil
}

func (f *fakeCollectorRepo) Delete(ctx context.Context, accountID, id int64) error {
	if _, err := f.GetByID(ctx, accountID, id); err != nil {
		return err
	}
	delete(f.collectors, id)
	return nil
}

func (f *fakeCollectorRepo) ListLeads(_ context.Context, _, collectorID int64, search string) ([]repository.CollectorLead, error) {
	f.lastSearch = search
	return f.leads[collectorID], nil
}

type fakeProfiles struct {
	profiles map[string]vk.Profile
}

func (f *fakeProfiles) Lookup(_ context.Context, vkID string) (vk.Profile, error) {
	profile, ok := f.profiles[vkID]
	if !ok {
		return vk.Profile{}, apperr.Unavailable("profile lookup failed")
	}
	return profile, nil
}

func validCreateInput() CreateInput {
	return CreateInput{Name: "Promo funnel", ClientPathType: "messenger"}
}

func TestCreateValidatesEnums(t *testing.T) {
	svc := New(newFakeCollectorRepo(), nil, logger.New("test"))

	input := validCreateInput()
	input.ClientPathType = "Messenger"
	if _, err := svc.Create(context.Background(), 10, input); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for path type, got %v", err)
	}

	input = validCreateInput()
	input.Plugin = "telegram"
	if _, err := svc.Create(context.Background(), 10, input); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for plugin, got %v", err)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc := New(newFakeCollectorRepo(), nil, logger.New("test"))

	input := validCreateInput()
	input.Name = "   "
	if _, err := svc.Create(context.Background(), 10, input); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateStoresCollector(t *testing.T) {
	repo := newFakeCollectorRepo()
	svc := New(repo, nil, logger.New("test"))

	input := validCreateInput()
	input.Plugin = "senler"
	col, err := svc.Create(context.Background(), 10, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.ClientPathType != repository.PathMessenger {
		t.Fatalf("unexpected path type: %q", col.ClientPathType)
	}
	if col.Plugin == nil || *col.Plugin != repository.PluginSenler {
		t.Fatalf("unexpected plugin: %v", col.Plugin)
	}
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	repo := newFakeCollectorRepo()
	svc := New(repo, nil, logger.New("test"))

	col, err := svc.Create(context.Background(), 10, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := " "
	_, err = svc.Update(context.Background(), 10, col.ID, UpdateInput{Name: &empty})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateValidatesEnumFields(t *testing.T) {
	repo := newFakeCollectorRepo()
	svc := New(repo, nil, logger.New("test"))

	col, err := svc.Create(context.Background(), 10, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := "CHAT_BOT"
	_, err = svc.Update(context.Background(), 10, col.ID, UpdateInput{ClientPathType: &bad})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateScopesToOwningAccount(t *testing.T) {
	repo := newFakeCollectorRepo()
	svc := New(repo, nil, logger.New("test"))

	col, err := svc.Create(context.Background(), 10, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := "Renamed"
	_, err = svc.Update(context.Background(), 99, col.ID, UpdateInput{Name: &name})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for foreign account, got %v", err)
	}
}

func TestListLeadsChecksOwnershipFirst(t *testing.T) {
	repo := newFakeCollectorRepo()
	svc := New(repo, nil, logger.New("test"))

	col, err := svc.Create(context.Background(), 10, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.ListLeads(context.Background(), 99, col.ID, "")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for foreign account, got %v", err)
	}
}

func TestListLeadsTrimsSearch(t *testing.T) {
	repo := newFakeCollectorRepo()
	svc := New(repo, nil, logger.New("test"))

	col, err := svc.Create(context.Background(), 10, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.ListLeads(context.Background(), 10, col.ID, "  ivan "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastSearch != "ivan" {
		t.Fatalf("expected trimmed search, got %q", repo.lastSearch)
	}
}

func TestListLeadsEnrichesPhotos(t *testing.T) {
	repo := newFakeCollectorRepo()
	profiles := &fakeProfiles{profiles: map[string]vk.Profile{
		"100": {PhotoURL: "https://example.com/photo_200.jpg"},
	}}
	svc := New(repo, profiles, logger.New("test"))

	col, err := svc.Create(context.Background(), 10, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.leads[col.ID] = []repository.CollectorLead{
		{LeadID: 1, VKID: "100", FullName: "Ivan"},
		{LeadID: 2, VKID: "200", FullName: "Unknown"},
	}

	leads, err := svc.ListLeads(context.Background(), 10, col.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
	if leads[0].PhotoURL == nil || *leads[0].PhotoURL != "https://example.com/photo_200.jpg" {
		t.Fatalf("expected enriched photo, got %v", leads[0].PhotoURL)
	}
	if leads[1].PhotoURL != nil {
		t.Fatalf("expected failed lookup to leave photo empty, got %v", *leads[1].PhotoURL)
	}
}
