package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	Name         string    `gorm:"not null"                   json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"       json:"email"`
	PasswordHash string    `gorm:"not null"                   json:"-"`
	Role         string    `gorm:"not null;default:user"      json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	IsVerified   bool      `gorm:"default:false"              json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Title     string    `gorm:"not null"              json:"title"`
	Slug      string    `gorm:"uniqueIndex;not null"  json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Body      string    `gorm:"not null"              json:"body"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index"       json:"author_id"`
	Published bool      `gorm:"default:false"         json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
