// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mesto-app/go-backend/internal/domain"
)

// CardsStats returns aggregate metadata for the cards collection as served
// by the list endpoint: the number of cards, the number of like rows, and
// the latest write timestamp across both tables. Likes are part of the
// listed representation, so a like or dislike must change the result even
// though the cards table itself is untouched.
//
// When there are no cards, the returned counts are 0 and latest is nil.
//
// Return values:
//   - cards:  total card rows
//   - likes:  total card_like rows
//   - latest: pointer to the greatest of max(cards.updated_at) and
//     max(card_likes.created_at), or nil if there are no cards
//   - err:    database error, if any
func CardsStats(ctx context.Context, db *gorm.DB) (cards, likes int64, latest *time.Time, err error) {
	if err = db.WithContext(ctx).Model(&domain.Card{}).Count(&cards).Error; err != nil {
		return 0, 0, nil, err
	}
	if cards == 0 {
		return 0, 0, nil, nil
	}
	if err = db.WithContext(ctx).Model(&domain.CardLike{}).Count(&likes).Error; err != nil {
		return 0, 0, nil, err
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var card struct {
		UpdatedAt time.Time
	}
	err = db.WithContext(ctx).Model(&domain.Card{}).
		Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&card).Error
	if err != nil {
		return 0, 0, nil, err
	}
	latest = &card.UpdatedAt

	if likes > 0 {
		var like struct {
			CreatedAt time.Time
		}
		err = db.WithContext(ctx).Model(&domain.CardLike{}).
			Select("created_at").Order("created_at DESC").Limit(1).Scan(&like).Error
		if err != nil {
			return 0, 0, nil, err
		}
		if like.CreatedAt.After(*latest) {
			latest = &like.CreatedAt
		}
	}
	return cards, likes, latest, nil
}
