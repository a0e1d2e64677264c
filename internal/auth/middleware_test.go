package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	accountsrepo "collector_backend/internal/accounts/repository"
	accountssvc "collector_backend/internal/accounts/service"
	"collector_backend/platform/apperr"
	"collector_backend/platform/config"
	"collector_backend/platform/logger"
)

type fakeAccountRepo struct {
	accounts map[string]accountsrepo.Account
	nextID   int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]accountsrepo.Account{}, nextID: 1}
}

func (f *fakeAccountRepo) GetByVKID(_ context.Context, vkID string) (accountsrepo.Account, error) {
	account, ok := f.accounts[vkID]
	if !ok {
		return accountsrepo.Account{}, apperr.NotFound("account not found")
	}
	return account, nil
}

func (f *fakeAccountRepo) TryInsert(_ context.Context, vkID string) (accountsrepo.Account, bool, error) {
	if _, ok := f.accounts[vkID]; ok {
		return accountsrepo.Account{}, false, nil
	}
	account := accountsrepo.Account{ID: f.nextID, VKID: vkID, CreatedAt: time.Now()}
	f.nextID++
	f.accounts[vkID] = account
	return account, true, nil
}

func newTestEngine(t *testing.T) (*gin.Engine, *fakeAccountRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newFakeAccountRepo()
	log := logger.New("test")
	cfg := &config.Config{SignatureSecret: testSecret}
	accounts := accountssvc.New(repo, log)

	engine := gin.New()
	engine.Use(Middleware(cfg, accounts, log))
	engine.GET("/auth", NewHandler().Verify)
	return engine, repo
}

func signedQuery(t *testing.T, params url.Values) string {
	t.Helper()
	params.Set("sign", signLaunchParams(t, params, testSecret))
	return params.Encode()
}

func TestMiddlewareRejectsUnsignedRequest(t *testing.T) {
	engine, _ := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareAcceptsSignedQuery(t *testing.T) {
	engine, _ := newTestEngine(t)

	params := url.Values{}
	params.Set("vk_group_id", "678")
	params.Set("vk_user_id", "100")

	req := httptest.NewRequest(http.MethodGet, "/auth?"+signedQuery(t, params), nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.VKID != "678" {
		t.Fatalf("expected community account, got %q", resp.VKID)
	}
	if resp.AccountID == 0 {
		t.Fatal("expected a resolved account id")
	}
}

func TestMiddlewareAcceptsLaunchParamsHeader(t *testing.T) {
	engine, _ := newTestEngine(t)

	params := url.Values{}
	params.Set("vk_user_id", "100")

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req.Header.Set(LaunchParamsHeader, signedQuery(t, params))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.VKID != "100" {
		t.Fatalf("expected user account fallback, got %q", resp.VKID)
	}
}

func TestMiddlewareResolvesSameAccountAcrossLaunches(t *testing.T) {
	engine, repo := newTestEngine(t)

	params := url.Values{}
	params.Set("vk_group_id", "678")
	query := signedQuery(t, params)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/auth?"+query, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("launch %d: expected 200, got %d", i, rec.Code)
		}
	}

	if len(repo.accounts) != 1 {
		t.Fatalf("expected one account, got %d", len(repo.accounts))
	}
}

func TestMiddlewareAcceptsBearerLaunchURL(t *testing.T) {
	engine, _ := newTestEngine(t)

	params := url.Values{}
	params.Set("vk_user_id", "100")

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req.Header.Set("Authorization", "Bearer https://example.com/app?"+signedQuery(t, params))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMiddlewareRejectsTamperedSignature(t *testing.T) {
	engine, _ := newTestEngine(t)

	params := url.Values{}
	params.Set("vk_user_id", "100")
	query := signedQuery(t, params) + "&vk_user_id=999"

	req := httptest.NewRequest(http.MethodGet, "/auth?"+query, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
