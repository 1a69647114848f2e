package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func testResult(id, siteID string, severity models.SeverityLevel, createdAt time.Time) *models.SavedResult {
	return &models.SavedResult{
		ID:     id,
		Label:  "scenario " + id,
		Params: models.AsteroidParameters{DiameterM: 1000, VelocityKmS: 25, AngleDeg: 45, DensityKgM3: 300},
		Site:   models.TargetSite{ID: siteID, Name: siteID, PopulationM: 8.4, Coordinates: models.Coordinates{Latitude: 40.7, Longitude: -74}},
		Assessment: models.ImpactAssessment{
			SiteID:                siteID,
			EnergyMt:              11732.17,
			SeverityLevel:         severity,
			Casualties:            7_560_000,
			BuildingsDestroyedPct: 95,
			TsunamiRisk:           models.TsunamiRiskNone,
		},
		CreatedAt: createdAt,
	}
}

func TestSQLiteDB_AddAndGetResult(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	want := testResult("r1", "new-york", models.SeverityCatastrophic, now)

	if err := db.Add(ctx, want); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := db.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Label != want.Label {
		t.Errorf("expected label %q, got %q", want.Label, got.Label)
	}
	if got.Params != want.Params {
		t.Errorf("expected params %+v, got %+v", want.Params, got.Params)
	}
	if got.Site != want.Site {
		t.Errorf("expected site %+v, got %+v", want.Site, got.Site)
	}
	if got.Assessment != want.Assessment {
		t.Errorf("expected assessment %+v, got %+v", want.Assessment, got.Assessment)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
	}
}

func TestSQLiteDB_GetByIDMissing(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDB_ListResults_WithFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	results := []*models.SavedResult{
		testResult("a", "new-york", models.SeverityLow, base),
		testResult("b", "tokyo", models.SeverityHigh, base.Add(time.Hour)),
		testResult("c", "new-york", models.SeverityCatastrophic, base.Add(2*time.Hour)),
		testResult("d", "cairo", models.SeverityModerate, base.Add(3*time.Hour)),
	}
	for _, r := range results {
		if err := db.Add(ctx, r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	all, err := db.ListResults(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 results, got %d", len(all))
	}
	if all[0].ID != "d" || all[3].ID != "a" {
		t.Errorf("expected newest first, got %s..%s", all[0].ID, all[3].ID)
	}

	site := "new-york"
	got, err := db.ListResults(ctx, Filter{SiteID: &site})
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 new-york results, got %d", len(got))
	}

	high := models.SeverityHigh
	got, err = db.ListResults(ctx, Filter{MinSeverity: &high})
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 results with severity >= High, got %d", len(got))
	}

	since := base.Add(90 * time.Minute)
	got, err = db.ListResults(ctx, Filter{Since: &since})
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 results since %v, got %d", since, len(got))
	}

	got, err = db.ListResults(ctx, Filter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" {
		t.Errorf("expected page [c b], got %d results", len(got))
	}
}

func TestSQLiteDB_Delete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Add(ctx, testResult("gone", "london", models.SeverityLow, time.Now())); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := db.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := db.GetByID(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := db.Delete(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSQLiteDB_DuplicateAdd(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	r := testResult("dup_test", "sydney", models.SeverityHigh, time.Now())

	if err := db.Add(ctx, r); err != nil {
		t.Fatalf("First Add failed: %v", err)
	}
	if err := db.Add(ctx, r); err == nil {
		t.Error("expected error for duplicate ID, got nil")
	}
}

func TestNewSQLiteDB_SetupFailures(t *testing.T) {
	dir := t.TempDir()

	notADatabase := filepath.Join(dir, "garbage.db")
	if err := os.WriteFile(notADatabase, []byte("this is not an sqlite file, just some text padding it out past the header"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing directory", filepath.Join(dir, "missing", "results.db")},
		{"not a database", notADatabase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := NewSQLiteDB(tt.path)
			if err == nil {
				db.Close()
				t.Fatal("expected setup error")
			}
			if db != nil {
				t.Error("expected no store on setup error")
			}
		})
	}
}
