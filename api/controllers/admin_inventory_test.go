package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	inventorysvc "github.com/metaxoft5/Nathan-Backend/internal/inventory"
	"github.com/metaxoft5/Nathan-Backend/pkg/config"
)

type stubInventoryService struct {
	entries      []inventorysvc.LedgerEntry
	alerts       []inventorysvc.Alert
	err          error
	gotInputs    []inventorysvc.SetLevelsInput
	gotThreshold int
}

func (s *stubInventoryService) List(ctx context.Context) ([]inventorysvc.LedgerEntry, error) {
	return s.entries, s.err
}

func (s *stubInventoryService) Get(ctx context.Context, flavorID string) (*inventorysvc.LedgerEntry, error) {
	if len(s.entries) == 0 {
		return nil, s.err
	}
	return &s.entries[0], s.err
}

func (s *stubInventoryService) SetLevels(ctx context.Context, input inventorysvc.SetLevelsInput) (*inventorysvc.LedgerEntry, error) {
	s.gotInputs = []inventorysvc.SetLevelsInput{input}
	if len(s.entries) == 0 {
		return nil, s.err
	}
	return &s.entries[0], s.err
}

func (s *stubInventoryService) BulkSetLevels(ctx context.Context, inputs []inventorysvc.SetLevelsInput) ([]inventorysvc.LedgerEntry, error) {
	s.gotInputs = inputs
	return s.entries, s.err
}

func (s *stubInventoryService) LowStockAlerts(ctx context.Context, threshold int) ([]inventorysvc.Alert, error) {
	s.gotThreshold = threshold
	return s.alerts, s.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Inventory.LowStockThreshold = 10
	return cfg
}

func TestAdminInventoryBulkSetLevels(t *testing.T) {
	svc := &stubInventoryService{
		entries: []inventorysvc.LedgerEntry{
			{FlavorID: "red_twist", OnHand: 120, SafetyStock: 5, Available: 120, AvailableAfterSafety: 115},
		},
	}
	handler := AdminInventoryBulkSetLevels(svc, nil)

	body := `{"levels":[{"flavor_id":"red_twist","on_hand":120,"safety_stock":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/inventory/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.gotInputs) != 1 || svc.gotInputs[0].FlavorID != "red_twist" {
		t.Fatalf("unexpected inputs %+v", svc.gotInputs)
	}
}

func TestAdminInventoryBulkRejectsEmptyBatch(t *testing.T) {
	handler := AdminInventoryBulkSetLevels(&stubInventoryService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/inventory/bulk", strings.NewReader(`{"levels":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminInventoryLowStockDefaultsThreshold(t *testing.T) {
	svc := &stubInventoryService{
		alerts: []inventorysvc.Alert{
			{
				LedgerEntry: inventorysvc.LedgerEntry{FlavorID: "cherry", AvailableAfterSafety: 0},
				Severity:    inventorysvc.SeverityOutOfStock,
			},
		},
	}
	handler := AdminInventoryLowStock(svc, testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/inventory/alerts", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotThreshold != 10 {
		t.Fatalf("expected config threshold 10, got %d", svc.gotThreshold)
	}

	var envelope struct {
		Data []inventorysvc.Alert `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Severity != inventorysvc.SeverityOutOfStock {
		t.Fatalf("unexpected alerts %+v", envelope.Data)
	}
}

func TestAdminInventoryLowStockCustomThreshold(t *testing.T) {
	svc := &stubInventoryService{}
	handler := AdminInventoryLowStock(svc, testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/inventory/alerts?threshold=25", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotThreshold != 25 {
		t.Fatalf("expected threshold 25, got %d", svc.gotThreshold)
	}
}
