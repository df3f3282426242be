// Package domain defines the persistence models for users, cards, and card
// likes. These types are mapped with GORM and form the core data layer of
// the photo-card application.
package domain

import (
	"time"
)

// Profile defaults applied at registration when the client omits the
// corresponding fields.
const (
	DefaultName   = "Jacques-Yves Cousteau"
	DefaultAbout  = "Explorer"
	DefaultAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

// User represents a registered account. The password hash is write-only: it
// is excluded from JSON and from default SELECTs; only the login lookup
// requests it explicitly.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier; uniqueness is enforced by the storage
//     layer and surfaces as a conflict on duplicate registration.
//   - PasswordHash: bcrypt hash of the password; never serialized.
//   - Name / About: short profile strings with defaults.
//   - Avatar: profile picture URL with a default.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID           string    `json:"id"      gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email"   gorm:"type:varchar(254);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `json:"-"       gorm:"column:password_hash;type:varchar(72);not null"`
	Name         string    `json:"name"    gorm:"type:varchar(30);not null;default:''"`
	About        string    `json:"about"   gorm:"type:varchar(30);not null;default:''"`
	Avatar       string    `json:"avatar"  gorm:"type:varchar(2048);not null;default:''"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Card represents a shared photo card. A card always has exactly one owner,
// recorded at creation time and never changed afterwards; only the owner may
// delete the card.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Name: human-readable caption (2–30 runes, validated at the transport layer).
//   - Link: URL of the photo.
//   - OwnerID: foreign key to the owning user (indexed).
//   - Likes: set of user IDs that liked the card; populated by the repository
//     from the card_likes join table, not mapped directly by GORM.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - Owner: FK association, ensures referential integrity.
type Card struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(30);not null"`
	Link      string    `json:"link"       gorm:"type:varchar(2048);not null"`
	OwnerID   string    `json:"owner"      gorm:"type:char(36);not null;index:idx_owner_cards"`
	Likes     []string  `json:"likes"      gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	// Owner is the creating user. Cards are cascade-deleted if their owner
	// is ever removed (out of scope for the API, but kept consistent).
	Owner User `json:"-" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Card.
func (Card) TableName() string { return "cards" }

// CardLike records that a user liked a card. The composite primary key makes
// membership a set: inserting the same (card, user) pair twice is a no-op at
// the storage layer, which is what makes the like endpoint idempotent.
type CardLike struct {
	CardID    string    `json:"card_id" gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	// Card is the liked card. Likes are cascade-deleted with their card.
	Card Card `json:"-" gorm:"foreignKey:CardID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CardLike.
func (CardLike) TableName() string { return "card_likes" }
