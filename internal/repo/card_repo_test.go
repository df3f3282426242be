package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/mesto-app/go-backend/internal/domain"
)

func cardDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newRepoDB(t, &domain.User{}, &domain.Card{}, &domain.CardLike{})
}

func seedCard(t *testing.T, db *gorm.DB, ownerID string) *domain.Card {
	t.Helper()
	c, err := CreateCard(context.Background(), db, ownerID, "Lago di Braies", "https://example.com/braies.jpg")
	if err != nil {
		t.Fatalf("seed card: %v", err)
	}
	return c
}

func TestCreateCard_SetsFieldsAndEmptyLikes(t *testing.T) {
	db := cardDB(t)
	owner := seedUser(t, db, "owner@example.com")

	c := seedCard(t, db, owner.ID)
	if c.ID == "" || c.OwnerID != owner.ID || c.Name != "Lago di Braies" {
		t.Fatalf("unexpected Card fields: %+v", c)
	}
	if c.Likes == nil || len(c.Likes) != 0 {
		t.Fatalf("likes must start as an empty set, got %v", c.Likes)
	}
}

func TestGetCard_NotFound(t *testing.T) {
	db := cardDB(t)
	_, err := GetCard(context.Background(), db, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListCards_NewestFirstWithLikes(t *testing.T) {
	db := cardDB(t)
	owner := seedUser(t, db, "owner@example.com")
	liker := seedUser(t, db, "liker@example.com")

	old := seedCard(t, db, owner.ID)
	if err := db.Model(&domain.Card{}).Where("id = ?", old.ID).
		Update("created_at", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	fresh := seedCard(t, db, owner.ID)
	if err := AddLike(context.Background(), db, old.ID, liker.ID); err != nil {
		t.Fatalf("AddLike: %v", err)
	}

	cards, err := ListCards(context.Background(), db)
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].ID != fresh.ID || cards[1].ID != old.ID {
		t.Fatalf("wrong order: %q then %q", cards[0].ID, cards[1].ID)
	}
	if len(cards[1].Likes) != 1 || cards[1].Likes[0] != liker.ID {
		t.Fatalf("old card should carry the like, got %v", cards[1].Likes)
	}
	// Unliked cards must still serialize as an empty array, never null.
	if cards[0].Likes == nil {
		t.Fatalf("likes must never be nil")
	}
}

func TestListCards_EmptyTable(t *testing.T) {
	db := cardDB(t)
	cards, err := ListCards(context.Background(), db)
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if cards == nil || len(cards) != 0 {
		t.Fatalf("expected empty slice, got %v", cards)
	}
}

func TestAddLike_Idempotent(t *testing.T) {
	db := cardDB(t)
	owner := seedUser(t, db, "owner@example.com")
	liker := seedUser(t, db, "liker@example.com")
	c := seedCard(t, db, owner.ID)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := AddLike(ctx, db, c.ID, liker.ID); err != nil {
			t.Fatalf("AddLike #%d: %v", i+1, err)
		}
	}

	got, err := GetCard(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if len(got.Likes) != 1 || got.Likes[0] != liker.ID {
		t.Fatalf("repeated likes must collapse to one entry, got %v", got.Likes)
	}
}

func TestRemoveLike_AbsentIsNoop(t *testing.T) {
	db := cardDB(t)
	owner := seedUser(t, db, "owner@example.com")
	c := seedCard(t, db, owner.ID)

	if err := RemoveLike(context.Background(), db, c.ID, "never-liked"); err != nil {
		t.Fatalf("removing an absent like must not fail: %v", err)
	}
}

func TestRemoveLike_DeletesOnlyTheCallersLike(t *testing.T) {
	db := cardDB(t)
	owner := seedUser(t, db, "owner@example.com")
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	c := seedCard(t, db, owner.ID)

	ctx := context.Background()
	if err := AddLike(ctx, db, c.ID, a.ID); err != nil {
		t.Fatalf("AddLike a: %v", err)
	}
	if err := AddLike(ctx, db, c.ID, b.ID); err != nil {
		t.Fatalf("AddLike b: %v", err)
	}
	if err := RemoveLike(ctx, db, c.ID, a.ID); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}

	got, err := GetCard(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if len(got.Likes) != 1 || got.Likes[0] != b.ID {
		t.Fatalf("expected only b's like to remain, got %v", got.Likes)
	}
}

func TestDeleteCard_RemovesRow(t *testing.T) {
	db := cardDB(t)
	owner := seedUser(t, db, "owner@example.com")
	c := seedCard(t, db, owner.ID)

	ctx := context.Background()
	if err := DeleteCard(ctx, db, c.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
	if _, err := GetCard(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("card should be gone, got %v", err)
	}
}

func TestDeleteCard_Missing(t *testing.T) {
	db := cardDB(t)
	if err := DeleteCard(context.Background(), db, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
