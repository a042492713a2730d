package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"weightbattle/internal/adapter/memory"
	"weightbattle/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	papa, err := db.Create(ctx, "Papa", 98.5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if papa.ID == 0 {
		t.Fatal("expected assigned id")
	}

	if _, err := db.Create(ctx, "Papa", 90); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate name err = %v; want ErrUserExists", err)
	}

	if _, err := db.GetByID(ctx, 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("missing user err = %v; want ErrUserNotFound", err)
	}

	if _, err := db.Create(ctx, "Anna", 70); err != nil {
		t.Fatalf("create: %v", err)
	}
	users, err := db.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 || users[0].Name != "Anna" {
		t.Errorf("List = %v; want 2 users ordered by name", users)
	}

	count, err := db.Count(ctx)
	if err != nil || count != 2 {
		t.Errorf("Count = %d, %v; want 2", count, err)
	}
}

func TestWeighInRepo(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	now := time.Now()

	stored, replaced, err := db.Upsert(ctx, 1, "2026-08-03", 99, now)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if replaced != nil {
		t.Error("first write should not replace anything")
	}

	stored, replaced, err = db.Upsert(ctx, 1, "2026-08-03", 98.5, now)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if replaced == nil || replaced.Weight != 99 {
		t.Errorf("replaced = %v; want prior weigh-in of 99", replaced)
	}
	if stored.Weight != 98.5 || stored.ID != replaced.ID {
		t.Errorf("stored = %v; want same row with new weight", stored)
	}

	if _, _, err := db.Upsert(ctx, 1, "2026-08-10", 98, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, _, err := db.Upsert(ctx, 2, "2026-08-10", 80, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	wi, err := db.Get(ctx, 1, "2026-08-03")
	if err != nil || wi == nil || wi.Weight != 98.5 {
		t.Errorf("Get = %v, %v; want weigh-in of 98.5", wi, err)
	}
	wi, err = db.Get(ctx, 1, "2026-07-27")
	if err != nil || wi != nil {
		t.Errorf("Get missing week = %v, %v; want nil, nil", wi, err)
	}

	history, err := db.ListByUser(ctx, 1)
	if err != nil || len(history) != 2 {
		t.Fatalf("ListByUser = %v, %v; want 2 entries", history, err)
	}
	if history[0].WeekStart != "2026-08-03" {
		t.Error("history should be ordered oldest first")
	}

	week, err := db.ListByWeek(ctx, "2026-08-10")
	if err != nil || len(week) != 2 {
		t.Errorf("ListByWeek = %v, %v; want 2 entries", week, err)
	}

	weeks, err := db.Weeks(ctx)
	if err != nil || len(weeks) != 2 || weeks[0] != "2026-08-03" {
		t.Errorf("Weeks = %v, %v; want two sorted distinct weeks", weeks, err)
	}
}

func TestConfigRepo(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	if _, err := db.Load(ctx); !errors.Is(err, domain.ErrConfigMissing) {
		t.Errorf("Load before setup err = %v; want ErrConfigMissing", err)
	}

	cfg := domain.CompetitionConfig{
		PotContribution: decimal.NewFromInt(5),
		TotalAmount:     decimal.NewFromInt(100),
		EndDate:         "2026-12-28",
	}
	if err := db.Save(ctx, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.PotContribution.Equal(cfg.PotContribution) || loaded.EndDate != cfg.EndDate {
		t.Errorf("Load = %+v; want %+v", loaded, cfg)
	}

	complete, err := db.SetupComplete(ctx)
	if err != nil || complete {
		t.Errorf("SetupComplete = %v, %v; want false", complete, err)
	}
	if err := db.MarkSetupComplete(ctx); err != nil {
		t.Fatalf("mark: %v", err)
	}
	complete, err = db.SetupComplete(ctx)
	if err != nil || !complete {
		t.Errorf("SetupComplete = %v, %v; want true", complete, err)
	}
}

func TestPotRepo(t *testing.T) {
	db := memory.New()
	repo := db.NewPotRepo()
	ctx := context.Background()
	now := time.Now()
	amount := decimal.NewFromInt(5)

	if err := repo.Upsert(ctx, "2026-08-03", 1, amount, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// One contribution per week: a second upsert replaces, never stacks.
	if err := repo.Upsert(ctx, "2026-08-03", 2, amount, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(ctx, "2026-08-10", 1, amount, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List len = %d; want 2", len(list))
	}
	if list[0].WeekStart != "2026-08-10" {
		t.Error("List should be ordered newest week first")
	}
	if list[1].UserID != 2 {
		t.Errorf("week contribution user = %d; want the replacing user 2", list[1].UserID)
	}

	if err := repo.Delete(ctx, "2026-08-10"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "2026-08-10"); err != nil {
		t.Fatalf("repeat delete must be a no-op: %v", err)
	}
	list, _ = repo.List(ctx)
	if len(list) != 1 {
		t.Errorf("List len after delete = %d; want 1", len(list))
	}
}

func TestAuditRepo(t *testing.T) {
	db := memory.New()
	repo := db.NewAuditRepo()
	ctx := context.Background()

	entries := []domain.AuditEntry{
		{ID: "a", Entity: "user", EntityID: 1, ChangedBy: "api"},
		{ID: "b", Entity: "user", EntityID: 2, ChangedBy: "api"},
		{ID: "c", Entity: "weigh_in", EntityID: 1, ChangedBy: "Papa"},
	}
	for _, e := range entries {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.List(ctx, "", 0, 10)
	if err != nil || len(got) != 3 {
		t.Fatalf("List = %v, %v; want 3 entries", got, err)
	}
	if got[0].ID != "c" {
		t.Error("List should be newest first")
	}

	got, _ = repo.List(ctx, "user", 0, 10)
	if len(got) != 2 {
		t.Errorf("entity filter: len = %d; want 2", len(got))
	}

	got, _ = repo.List(ctx, "user", 1, 10)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("entity+id filter = %v; want only entry a", got)
	}

	got, _ = repo.List(ctx, "", 0, 2)
	if len(got) != 2 {
		t.Errorf("limit: len = %d; want 2", len(got))
	}
}
