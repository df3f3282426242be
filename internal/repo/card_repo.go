// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Card model
// and its likes set.
//
// Likes live in the card_likes join table keyed by (card_id, user_id).
// AddLike relies on an ON CONFLICT DO NOTHING upsert against that composite
// key, which makes repeated likes by the same user a storage-level no-op.
// RemoveLike deletes at most one row and succeeds whether or not the row
// existed, so both operations are idempotent.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mesto-app/go-backend/internal/domain"
)

// CreateCard inserts a new Card row owned by ownerID. The card ID is a
// randomly generated UUID (string), CreatedAt is set to UTC, and the likes
// set starts empty.
func CreateCard(ctx context.Context, db *gorm.DB, ownerID, name, link string) (*domain.Card, error) {
	c := &domain.Card{
		ID:        uuid.NewString(),
		Name:      name,
		Link:      link,
		OwnerID:   ownerID,
		Likes:     []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListCards returns all cards ordered by creation time descending, each with
// its likes set populated. It returns an empty slice when there are no cards.
func ListCards(ctx context.Context, db *gorm.DB) ([]domain.Card, error) {
	var out []domain.Card
	if err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []domain.Card{}, nil
	}

	ids := make([]string, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	var likes []domain.CardLike
	if err := db.WithContext(ctx).
		Where("card_id IN ?", ids).
		Find(&likes).Error; err != nil {
		return nil, err
	}
	byCard := make(map[string][]string, len(out))
	for _, l := range likes {
		byCard[l.CardID] = append(byCard[l.CardID], l.UserID)
	}
	for i := range out {
		if ls, ok := byCard[out[i].ID]; ok {
			out[i].Likes = ls
		} else {
			out[i].Likes = []string{}
		}
	}
	return out, nil
}

// GetCard fetches a single card by ID with its likes set populated. If the
// record does not exist, it returns ErrNotFound.
func GetCard(ctx context.Context, db *gorm.DB, id string) (*domain.Card, error) {
	var c domain.Card
	if err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error; err != nil {
		return nil, err
	}
	if err := loadLikes(ctx, db, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCard removes the card identified by id. Likes are cascade-deleted by
// the card_likes foreign key. If no rows are affected, ErrNotFound is
// returned. Ownership is the service layer's concern, not the repo's.
func DeleteCard(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Card{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddLike records that userID liked cardID. The upsert does nothing when the
// pair already exists, so calling it twice leaves the likes set unchanged.
// The card itself must exist; missing cards surface as a foreign-key error
// and are checked by the service beforehand.
func AddLike(ctx context.Context, db *gorm.DB, cardID, userID string) error {
	l := &domain.CardLike{
		CardID:    cardID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(l).Error
}

// RemoveLike deletes userID's like on cardID. Removing a like that was never
// set is not an error.
func RemoveLike(ctx context.Context, db *gorm.DB, cardID, userID string) error {
	return db.WithContext(ctx).
		Where("card_id = ? AND user_id = ?", cardID, userID).
		Delete(&domain.CardLike{}).Error
}

// loadLikes populates c.Likes from the join table. An absent entry means an
// empty set, never nil, so the JSON shape is always an array.
func loadLikes(ctx context.Context, db *gorm.DB, c *domain.Card) error {
	var likes []domain.CardLike
	if err := db.WithContext(ctx).
		Where("card_id = ?", c.ID).
		Order("created_at asc").
		Find(&likes).Error; err != nil {
		return err
	}
	c.Likes = make([]string, 0, len(likes))
	for _, l := range likes {
		c.Likes = append(c.Likes, l.UserID)
	}
	return nil
}
