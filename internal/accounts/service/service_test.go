package service

import (
	"context"
	"testing"
	"time"

	"collector_backend/internal/accounts/repository"
	"collector_backend/platform/apperr"
	"collector_backend/platform/logger"
)

type fakeAccountRepo struct {
	accounts   map[string]repository.Account
	nextID     int64
	insertBusy bool // simulates losing the insert race once
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]repository.Account{}, nextID: 1}
}

func (f *fakeAccountRepo) GetByVKID(_ context.Context, vkID string) (repository.Account, error) {
	account, ok := f.accounts[vkID]
	if !ok {
		return repository.Account{}, apperr.NotFound("account not found")
	}
	return account, nil
}

func (f *fakeAccountRepo) TryInsert(_ context.Context, vkID string) (repository.Account, bool, error) {
	if f.insertBusy {
		f.insertBusy = false
		f.accounts[vkID] = repository.Account{ID: f.nextID, VKID: vkID, CreatedAt: time.Now()}
		f.nextID++
		return repository.Account{}, false, nil
	}
	if _, ok := f.accounts[vkID]; ok {
		return repository.Account{}, false, nil
	}
	account := repository.Account{ID: f.nextID, VKID: vkID, CreatedAt: time.Now()}
	f.nextID++
	f.accounts[vkID] = account
	return account, true, nil
}

func TestResolveOrCreateCreatesOnFirstLaunch(t *testing.T) {
	svc := New(newFakeAccountRepo(), logger.New("test"))

	account, err := svc.ResolveOrCreate(context.Background(), "678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.VKID != "678" || account.ID == 0 {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestResolveOrCreateReturnsExistingAccount(t *testing.T) {
	svc := New(newFakeAccountRepo(), logger.New("test"))

	first, err := svc.ResolveOrCreate(context.Background(), "678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ResolveOrCreate(context.Background(), "678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same account, got %d and %d", first.ID, second.ID)
	}
}

func TestResolveOrCreateConvergesOnRaceWinner(t *testing.T) {
	repo := newFakeAccountRepo()
	repo.insertBusy = true
	svc := New(repo, logger.New("test"))

	account, err := svc.ResolveOrCreate(context.Background(), "678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.VKID != "678" || account.ID == 0 {
		t.Fatalf("expected winner's row, got %+v", account)
	}
}

func TestResolveOrCreateRejectsEmptyID(t *testing.T) {
	svc := New(newFakeAccountRepo(), logger.New("test"))

	_, err := svc.ResolveOrCreate(context.Background(), "  ")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
