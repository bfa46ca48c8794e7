package inventory

import (
	"context"
	"testing"

	"github.com/invtrail/invtrail/internal/db"
	"github.com/invtrail/invtrail/internal/model"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{2.5, "2.5"},
		{3, "3.0"},
		{19.99, "19.99"},
		{100, "100.0"},
		{0.125, "0.125"},
	}
	for _, c := range cases {
		if got := formatPrice(c.in); got != c.want {
			t.Errorf("formatPrice(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUpdateDetails(t *testing.T) {
	before := model.Item{Quantity: 5, Price: 2.5, Location: ""}
	after := model.Item{Quantity: 10, Price: 3.0, Location: "Bay2"}

	got := updateDetails(before, after)
	want := "Updated from quantity=5, price=2.5, location= to quantity=10, price=3.0, location=Bay2"
	if got != want {
		t.Errorf("updateDetails:\n got %q\nwant %q", got, want)
	}
}

func TestListAuditLogNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id, _ := CreateItem(ctx, database, ItemInput{SKU: "A1", Quantity: 1}, nil)
	PatchItem(ctx, database, id, ItemPatch{Quantity: ptr(2)}, nil)
	DeleteItem(ctx, database, id, nil)

	entries, err := ListAuditLog(ctx, database)
	if err != nil {
		t.Fatalf("ListAuditLog: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	wantActions := []string{model.ActionDelete, model.ActionUpdate, model.ActionCreate}
	for i, e := range entries {
		if e.Action != wantActions[i] {
			t.Errorf("entry %d: expected action %s, got %s", i, wantActions[i], e.Action)
		}
	}
}

func TestAuditEntryAttribution(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := int64(42)
	id, _ := CreateItem(ctx, database, ItemInput{SKU: "A1"}, &user)
	DeleteItem(ctx, database, id, nil)

	entries, _ := ListAuditLog(ctx, database)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Newest first: the anonymous delete, then the attributed create.
	if entries[0].UserID != nil {
		t.Errorf("expected nil user_id for anonymous mutation, got %v", *entries[0].UserID)
	}
	if entries[1].UserID == nil || *entries[1].UserID != 42 {
		t.Errorf("expected user_id 42, got %v", entries[1].UserID)
	}
}
