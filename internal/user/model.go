package user

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Profile   *Profile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

type Profile struct {
	UserID      uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	DisplayName string    `gorm:"size:50;not null" json:"display_name"`
	AvatarURL   *string   `gorm:"size:200" json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserStats is the per-user summary derived from that user's game sessions.
// It is never edited directly; every session write recomputes it.
type UserStats struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalGames      int       `gorm:"not null" json:"total_games"`
	HighScore       int       `gorm:"not null" json:"high_score"`
	TotalScore      int       `gorm:"not null" json:"total_score"`
	LevelsCompleted int       `gorm:"not null" json:"levels_completed"`
	ZombiesDefeated int       `gorm:"not null" json:"zombies_defeated"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	// Name is accepted as an alias of DisplayName.
	Name string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Profile{}, &UserStats{})
}
