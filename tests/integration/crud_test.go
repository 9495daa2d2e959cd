package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stpi-ops/portal/internal/client"
	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/httpserver/deps"
	"github.com/stpi-ops/portal/internal/httpserver/routes"
	"github.com/stpi-ops/portal/internal/logger"
	"github.com/stpi-ops/portal/internal/store/memory"
)

func startPortal(t *testing.T) *client.Client {
	t.Helper()
	d := deps.Deps{
		Logger:      logger.Nop(),
		StartTime:   time.Now(),
		TimeNow:     time.Now,
		Customers:   memory.New[*domain.Customer](),
		Units:       memory.New[*domain.Unit](),
		CoLocations: memory.New[*domain.CoLocation](),
	}
	r := chi.NewRouter()
	routes.RegisterAll(r, d)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client.New(srv.URL)
}

// TestCustomerLifecycle walks one RF customer through the full CRUD cycle and
// verifies the lan list never sees it.
func TestCustomerLifecycle(t *testing.T) {
	c := startPortal(t)
	ctx := context.Background()
	rf := c.DatacomRF()
	lan := c.DatacomLAN()

	body := map[string]any{
		"companyName":        "Acme Exports",
		"managerName":        "Asha Rao",
		"managerPhone":       "9000000001",
		"managerEmail":       "asha@acme.example",
		"managerDesignation": "IT Manager",
		"leaderName":         "Vikram Shah",
		"leaderPhone":        "9000000002",
		"leaderEmail":        "vikram@acme.example",
		"leaderDesignation":  "Team Lead",
		"startDate":          "2024-01-01",
		"endDate":            "2024-12-31",
		"bandwidth":          "100Mbps",
		"ipDetails": map[string]any{
			"gateway":    "10.0.0.1",
			"subnetMask": "255.255.255.0",
		},
	}

	created, err := rf.Create(ctx, body)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.RecordID() == "" {
		t.Fatal("create did not assign an id")
	}
	if created.Section != domain.SectionRF {
		t.Fatalf("section = %q, want rf", created.Section)
	}
	if created.IPDetails.Gateway != "10.0.0.1" {
		t.Fatalf("gateway = %q, want 10.0.0.1", created.IPDetails.Gateway)
	}

	rfList, err := rf.List(ctx)
	if err != nil {
		t.Fatalf("list rf: %v", err)
	}
	if len(rfList) != 1 || rfList[0].RecordID() != created.RecordID() {
		t.Fatalf("rf list = %d records, want the created one", len(rfList))
	}

	lanList, err := lan.List(ctx)
	if err != nil {
		t.Fatalf("list lan: %v", err)
	}
	if len(lanList) != 0 {
		t.Fatalf("lan list = %d records, want 0", len(lanList))
	}

	updated, err := rf.Update(ctx, created.RecordID(), map[string]any{"bandwidth": "200Mbps"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bandwidth != "200Mbps" {
		t.Fatalf("bandwidth = %q, want 200Mbps", updated.Bandwidth)
	}
	if updated.CompanyName != "Acme Exports" {
		t.Fatalf("update lost companyName: %q", updated.CompanyName)
	}

	if err := rf.Delete(ctx, created.RecordID()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rfList, err = rf.List(ctx)
	if err != nil {
		t.Fatalf("list rf after delete: %v", err)
	}
	if len(rfList) != 0 {
		t.Fatalf("rf list = %d records after delete, want 0", len(rfList))
	}
}

// TestUnitLifecycle covers the exim unit routes including the nested
// softex and financial-expense fields.
func TestUnitLifecycle(t *testing.T) {
	c := startPortal(t)
	ctx := context.Background()
	stpi := c.EximSTPI()

	created, err := stpi.Create(ctx, map[string]any{
		"name":      "Acme Soft",
		"startDate": "2023-04-01",
		"endDate":   "2028-03-31",
		"softexDetails": []map[string]any{
			{"year": "2024", "month": "March", "amount": "120000", "mpr": "filed"},
		},
		"financialExpenses": []map[string]any{
			{"year": "2024", "amount": "5000", "description": "March"},
			{"year": "2023", "amount": "4000", "description": "January"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Type != domain.UnitSTPI {
		t.Fatalf("type = %q, want stpi", created.Type)
	}
	if len(created.SoftexDetails) != 1 || len(created.FinancialExpenses) != 2 {
		t.Fatalf("nested lists lost: softex=%d expenses=%d",
			len(created.SoftexDetails), len(created.FinancialExpenses))
	}

	filtered := domain.FilterExpenses(created.FinancialExpenses, "2024", "")
	if len(filtered) != 1 || filtered[0].Amount != "5000" {
		t.Fatalf("expense filter over fetched unit = %+v", filtered)
	}

	nonStpiList, err := c.EximNonSTPI().List(ctx)
	if err != nil {
		t.Fatalf("list non-stpi: %v", err)
	}
	if len(nonStpiList) != 0 {
		t.Fatalf("non-stpi list = %d records, want 0", len(nonStpiList))
	}
}

// TestCoLocationLifecycle covers the /api/projects surface with its
// non-standard create path and single-record GET.
func TestCoLocationLifecycle(t *testing.T) {
	c := startPortal(t)
	ctx := context.Background()
	projects := c.CoLocations()

	created, err := projects.Create(ctx, map[string]any{
		"customerName":       "Acme Hosting",
		"managerName":        "Asha Rao",
		"managerEmail":       "asha@acme.example",
		"managerPhone":       "9000000001",
		"managerDesignation": "IT Manager",
		"adminName":          "Vikram Shah",
		"adminEmail":         "vikram@acme.example",
		"adminPhone":         "9000000002",
		"adminDesignation":   "Sysadmin",
		"rackSpaceUnits":     4,
		"dataTransferGB":     500,
		"activationDate":     "2024-06-01",
		"agreementEntered":   true,
		"totalAnnualCharges": 120000,
		"quarterlyCharges":   30000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.RackSpaceUnits == nil || *created.RackSpaceUnits != 4 {
		t.Fatalf("rackSpaceUnits = %v, want 4", created.RackSpaceUnits)
	}

	fetched, err := projects.Get(ctx, created.RecordID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.CustomerName != "Acme Hosting" {
		t.Fatalf("customerName = %q", fetched.CustomerName)
	}

	if err := projects.Delete(ctx, created.RecordID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := projects.Get(ctx, created.RecordID()); err == nil {
		t.Fatal("get after delete should fail")
	}
}
