// Package services – CardService
//
// This file implements the card use-cases: create, list, owner-only delete,
// and the idempotent like/dislike pair. Ownership is a strict identifier
// equality check between the card's owner and the authenticated requester,
// evaluated only after existence, so a missing card is always "not found"
// and never "forbidden".
//
// Service-level errors (ErrCardNotFound, ErrNotCardOwner) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mesto-app/go-backend/internal/domain"
	"github.com/mesto-app/go-backend/internal/repo"
)

// CardService implements the card lifecycle and like semantics.
type CardService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewCardService constructs a CardService.
func NewCardService(db *gorm.DB) *CardService {
	return &CardService{DB: db}
}

// Create inserts a new card owned by ownerID with an empty likes set. Name
// and link arrive transport-validated; the service applies normalization
// only.
func (s *CardService) Create(ctx context.Context, ownerID, name, link string) (*domain.Card, error) {
	return repo.CreateCard(ctx, s.DB, ownerID, normalize(name), link)
}

// List returns all cards with their likes sets, most recent first.
func (s *CardService) List(ctx context.Context) ([]domain.Card, error) {
	return repo.ListCards(ctx, s.DB)
}

// Stats returns the collection counters the list endpoint folds into its
// ETag: card count, like count, and the latest write across both tables.
func (s *CardService) Stats(ctx context.Context) (cards, likes int64, latest *time.Time, err error) {
	return repo.CardsStats(ctx, s.DB)
}

// Delete removes cardID on behalf of requesterID and returns the deleted
// card (with its final likes set) as the response body.
//
// Semantics:
//   - ErrCardNotFound when the card does not exist.
//   - ErrNotCardOwner when requesterID is not the recorded owner; the card
//     is left intact.
//
// The existence check, ownership check, and delete run inside one
// transaction so a concurrent delete cannot slip between them.
func (s *CardService) Delete(ctx context.Context, requesterID, cardID string) (*domain.Card, error) {
	var deleted *domain.Card
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetCard(ctx, tx, cardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}
		if c.OwnerID != requesterID {
			return ErrNotCardOwner
		}
		if err := repo.DeleteCard(ctx, tx, cardID); err != nil {
			return err
		}
		deleted = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Like adds userID to the card's likes set and returns the updated card.
// Liking a card twice is a no-op: the set's size does not change.
// Returns ErrCardNotFound when the card does not exist.
func (s *CardService) Like(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	var updated *domain.Card
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureExists(ctx, tx, cardID); err != nil {
			return err
		}
		if err := repo.AddLike(ctx, tx, cardID, userID); err != nil {
			return err
		}
		c, err := repo.GetCard(ctx, tx, cardID)
		if err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Dislike removes userID from the card's likes set and returns the updated
// card. Removing an absent like is a no-op. Returns ErrCardNotFound when the
// card does not exist.
func (s *CardService) Dislike(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	var updated *domain.Card
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureExists(ctx, tx, cardID); err != nil {
			return err
		}
		if err := repo.RemoveLike(ctx, tx, cardID, userID); err != nil {
			return err
		}
		c, err := repo.GetCard(ctx, tx, cardID)
		if err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ensureExists verifies cardID exists, mapping a missing row to
// ErrCardNotFound.
func (s *CardService) ensureExists(ctx context.Context, tx *gorm.DB, cardID string) error {
	var c domain.Card
	if err := tx.WithContext(ctx).Select("id").Where("id = ?", cardID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return err
	}
	return nil
}
