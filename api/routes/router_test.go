package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/metaxoft5/Nathan-Backend/internal/packcart"
	pkgauth "github.com/metaxoft5/Nathan-Backend/pkg/auth"
	"github.com/metaxoft5/Nathan-Backend/pkg/config"
	"github.com/metaxoft5/Nathan-Backend/pkg/db/models"
	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
)

type stubCartService struct{}

func (stubCartService) Add(ctx context.Context, userID uuid.UUID, input cartsvc.AddInput) (*models.CartLine, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*models.CartLine, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) Remove(ctx context.Context, userID, lineID uuid.UUID) error {
	return fmt.Errorf("not implemented")
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.Cart, error) {
	return &cartsvc.Cart{CartTotal: decimal.Zero}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "nathan-backend-test",
		ExpirationMinutes: 15,
	}
	cfg.Inventory.LowStockThreshold = 10
	return cfg
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(cfg, nil, nil, nil, Services{Cart: stubCartService{}})
}

func mintToken(t *testing.T, cfg *config.Config, role enums.MemberRole) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicRoutesNeedNoAuth(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router := newTestRouter(testConfig())

	paths := []string{"/api/v1/pack-cart", "/api/v1/orders", "/api/admin/v1/inventory"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestAuthedUserReachesCart(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pack-cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.MemberRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminRoutesRejectUserRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.MemberRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.MemberRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}
