package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stpi-ops/portal/internal/domain"
	"github.com/stpi-ops/portal/internal/store"
)

func customerFixture(section domain.Section, company string) *domain.Customer {
	return &domain.Customer{
		Section:            section,
		CompanyName:        company,
		ManagerName:        "M",
		ManagerPhone:       "1",
		ManagerEmail:       "m@x.com",
		ManagerDesignation: "Mgr",
		LeaderName:         "L",
		LeaderPhone:        "2",
		LeaderEmail:        "l@x.com",
		LeaderDesignation:  "Lead",
		StartDate:          "2024-01-01",
		EndDate:            "2024-12-31",
		Bandwidth:          "100Mbps",
	}
}

func TestInsertGeneratesIDAndTimestamps(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock[*domain.Customer](func() time.Time { return now })

	created, err := c.Insert(context.Background(), customerFixture(domain.SectionRF, "Acme"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if created.RecordID() == "" {
		t.Error("Insert() did not assign an id")
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Errorf("timestamps = %v / %v, want %v", created.CreatedAt, created.UpdatedAt, now)
	}
	if created.ServicePeriods == nil || created.RouterDetails == nil {
		t.Error("Insert() did not apply defaults to list fields")
	}
}

func TestInsertRejectsInvalidRecord(t *testing.T) {
	c := New[*domain.Customer]()

	bad := customerFixture(domain.SectionRF, "")
	if _, err := c.Insert(context.Background(), bad); err == nil {
		t.Fatal("Insert() accepted a record missing companyName")
	} else {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Insert() returned %T, want *ValidationError", err)
		}
	}

	recs, err := c.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("rejected insert left %d records behind", len(recs))
	}
}

func TestInsertDoesNotShareStorageWithCaller(t *testing.T) {
	c := New[*domain.Customer]()
	in := customerFixture(domain.SectionRF, "Acme")

	created, err := c.Insert(context.Background(), in)
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	in.CompanyName = "mutated after insert"
	created.CompanyName = "mutated after return"

	got, err := c.Get(context.Background(), created.RecordID())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.CompanyName != "Acme" {
		t.Errorf("stored record observed caller mutation: %q", got.CompanyName)
	}
}

func TestListFiltersAndPreservesInsertionOrder(t *testing.T) {
	c := New[*domain.Customer]()
	ctx := context.Background()

	for _, fixture := range []*domain.Customer{
		customerFixture(domain.SectionRF, "First RF"),
		customerFixture(domain.SectionLAN, "Only LAN"),
		customerFixture(domain.SectionRF, "Second RF"),
	} {
		if _, err := c.Insert(ctx, fixture); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
	}

	rf, err := c.List(ctx, store.Filter{"section": "rf"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(rf) != 2 {
		t.Fatalf("rf list has %d records, want 2", len(rf))
	}
	if rf[0].CompanyName != "First RF" || rf[1].CompanyName != "Second RF" {
		t.Errorf("insertion order lost: %q, %q", rf[0].CompanyName, rf[1].CompanyName)
	}

	all, err := c.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered list has %d records, want 3", len(all))
	}
}

func TestGetUnknownID(t *testing.T) {
	c := New[*domain.Customer]()
	if _, err := c.Get(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePatchesWithoutLosingFields(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c := NewWithClock[*domain.Customer](func() time.Time { return clock })
	ctx := context.Background()

	created, err := c.Insert(ctx, customerFixture(domain.SectionRF, "Acme"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	clock = base.Add(time.Hour)
	updated, err := c.Update(ctx, created.RecordID(), map[string]any{"bandwidth": "200Mbps"})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	if updated.Bandwidth != "200Mbps" {
		t.Errorf("bandwidth = %q, want 200Mbps", updated.Bandwidth)
	}
	if updated.CompanyName != "Acme" {
		t.Errorf("unpatched field lost: companyName = %q", updated.CompanyName)
	}
	if updated.RecordID() != created.RecordID() {
		t.Errorf("id changed on update: %q -> %q", created.RecordID(), updated.RecordID())
	}
	if !updated.CreatedAt.Equal(base) {
		t.Errorf("createdAt moved on update: %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(clock) {
		t.Errorf("updatedAt = %v, want %v", updated.UpdatedAt, clock)
	}
}

func TestUpdateRevalidates(t *testing.T) {
	c := New[*domain.Customer]()
	ctx := context.Background()

	created, err := c.Insert(ctx, customerFixture(domain.SectionRF, "Acme"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	if _, err := c.Update(ctx, created.RecordID(), map[string]any{"companyName": ""}); err == nil {
		t.Fatal("Update() accepted a patch that blanks a required field")
	}

	// The failed update must not have been applied.
	got, err := c.Get(ctx, created.RecordID())
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.CompanyName != "Acme" {
		t.Errorf("failed update mutated the record: %q", got.CompanyName)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	c := New[*domain.Customer]()
	_, err := c.Update(context.Background(), primitive.NewObjectID().Hex(), map[string]any{"bandwidth": "1"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteTwice(t *testing.T) {
	c := New[*domain.Customer]()
	ctx := context.Background()

	created, err := c.Insert(ctx, customerFixture(domain.SectionRF, "Acme"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}

	if err := c.Delete(ctx, created.RecordID()); err != nil {
		t.Fatalf("first Delete() error: %v", err)
	}
	if err := c.Delete(ctx, created.RecordID()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestRepeatedInsertsMakeDuplicates(t *testing.T) {
	c := New[*domain.Customer]()
	ctx := context.Background()

	first, err := c.Insert(ctx, customerFixture(domain.SectionRF, "Acme"))
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	second, err := c.Insert(ctx, customerFixture(domain.SectionRF, "Acme"))
	if err != nil {
		t.Fatalf("second Insert() error: %v", err)
	}
	if first.RecordID() == second.RecordID() {
		t.Error("duplicate insert reused an id")
	}

	recs, err := c.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("list has %d records, want 2", len(recs))
	}
}
