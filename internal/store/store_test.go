package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/voyago/voyago-cms/internal/model"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "voyago-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func createUser(t *testing.T, q *Queries, email string) model.User {
	t.Helper()
	now := time.Now()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test User",
		Role:         model.RoleEditor,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	user := createUser(t, q, "test@example.com")

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.Role != model.RoleEditor {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleEditor)
	}
}

func TestCreateUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	createUser(t, q, "dup@example.com")

	now := time.Now()
	_, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        "DUP@example.com",
		PasswordHash: "hash",
		FullName:     "Other",
		Role:         model.RoleViewer,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		t.Fatal("expected unique violation for case-insensitive duplicate email")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	created := createUser(t, q, "find@example.com")

	// Lookup is case-insensitive.
	found, err := q.GetUserByEmail(context.Background(), "FIND@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
}

func TestEmailExistsExcluding(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createUser(t, q, "self@example.com")
	other := createUser(t, q, "other@example.com")

	// A user's own email does not count as a conflict.
	exists, err := q.EmailExistsExcluding(ctx, EmailExistsExcludingParams{Email: "self@example.com", ID: user.ID})
	if err != nil {
		t.Fatalf("EmailExistsExcluding: %v", err)
	}
	if exists {
		t.Error("own email reported as conflict")
	}

	exists, err = q.EmailExistsExcluding(ctx, EmailExistsExcludingParams{Email: "other@example.com", ID: user.ID})
	if err != nil {
		t.Fatalf("EmailExistsExcluding: %v", err)
	}
	if !exists {
		t.Errorf("email of user %d not reported as conflict", other.ID)
	}
}

func TestGetPublishedPageBySlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createUser(t, q, "author@example.com")

	now := time.Now()
	_, err := q.CreatePage(ctx, CreatePageParams{
		Slug:      "draft-page",
		Title:     "Draft",
		Content:   "c",
		Status:    model.PageStatusDraft,
		CreatedBy: user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	published, err := q.CreatePage(ctx, CreatePageParams{
		Slug:        "live-page",
		Title:       "Live",
		Content:     "c",
		Status:      model.PageStatusPublished,
		CreatedBy:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	got, err := q.GetPublishedPageBySlug(ctx, "live-page")
	if err != nil {
		t.Fatalf("GetPublishedPageBySlug: %v", err)
	}
	if got.ID != published.ID {
		t.Errorf("ID = %d, want %d", got.ID, published.ID)
	}

	// Draft pages are invisible to the published lookup.
	_, err = q.GetPublishedPageBySlug(ctx, "draft-page")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for draft page, got %v", err)
	}
}

func TestShortletJSONFields(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	created, err := q.CreateShortlet(ctx, CreateShortletParams{
		Title:         "Beach House",
		Slug:          "beach-house",
		Description:   "d",
		Location:      "Lagos",
		PricePerNight: 50000,
		Bedrooms:      2,
		Amenities:     []string{"wifi", "pool"},
		Status:        model.ListingStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateShortlet: %v", err)
	}

	got, err := q.GetShortletByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetShortletByID: %v", err)
	}
	if len(got.Amenities) != 2 || got.Amenities[0] != "wifi" {
		t.Errorf("Amenities = %v, want [wifi pool]", got.Amenities)
	}
	// Omitted list columns fall back to the empty array default.
	if got.Images == nil || len(got.Images) != 0 {
		t.Errorf("Images = %v, want empty slice", got.Images)
	}
	if got.Rating != 0 || got.ReviewsCount != 0 {
		t.Errorf("expected zero rating defaults, got rating=%f reviews=%d", got.Rating, got.ReviewsCount)
	}
}

func TestTourItineraryRoundTrip(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	created, err := q.CreateTour(ctx, CreateTourParams{
		Title:       "Safari",
		Slug:        "safari",
		Description: "d",
		Duration:    "5 days",
		PriceFrom:   200000,
		Tag:         "adventure",
		Itinerary: []model.ItineraryDay{
			{Day: 1, Title: "Arrival", Description: "Airport pickup"},
			{Day: 2, Title: "Game drive", Description: "Full day"},
		},
		Status:    model.ListingStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTour: %v", err)
	}

	got, err := q.GetTourByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTourByID: %v", err)
	}
	if len(got.Itinerary) != 2 {
		t.Fatalf("Itinerary length = %d, want 2", len(got.Itinerary))
	}
	if got.Itinerary[1].Day != 2 || got.Itinerary[1].Title != "Game drive" {
		t.Errorf("Itinerary[1] = %+v", got.Itinerary[1])
	}
}

func TestTourSlugExistsExcluding(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	tour, err := q.CreateTour(ctx, CreateTourParams{
		Title: "T", Slug: "mine", Description: "d", Duration: "1 day",
		PriceFrom: 1, Tag: "t", Status: model.ListingStatusActive,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTour: %v", err)
	}

	exists, err := q.TourSlugExistsExcluding(ctx, TourSlugExistsExcludingParams{Slug: "mine", ID: tour.ID})
	if err != nil {
		t.Fatalf("TourSlugExistsExcluding: %v", err)
	}
	if exists {
		t.Error("own slug reported as conflict")
	}
}

func TestMediaListNewestFirst(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)
	user := createUser(t, q, "uploader@example.com")

	base := time.Now()
	for i, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		_, err := q.CreateMedia(ctx, CreateMediaParams{
			UUID:         name + "-uuid",
			Filename:     name,
			OriginalName: name,
			MimeType:     "image/jpeg",
			Size:         100,
			URL:          "/uploads/" + name,
			UploadedBy:   user.ID,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("CreateMedia: %v", err)
		}
	}

	media, err := q.ListMedia(ctx, ListMediaParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListMedia: %v", err)
	}
	if len(media) != 3 {
		t.Fatalf("len = %d, want 3", len(media))
	}
	if media[0].Filename != "c.jpg" {
		t.Errorf("first media = %s, want c.jpg", media[0].Filename)
	}
}
