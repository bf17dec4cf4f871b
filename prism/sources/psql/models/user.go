package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local shadow of an externally authenticated identity. The ID is
// the subject embedded in issued tokens; no credentials live here.
type User struct {
	ID       string  `json:"id" gorm:"type:varchar(255);primaryKey"`
	Username string  `json:"username" gorm:"type:varchar(255);not null;uniqueIndex"`
	Email    string  `json:"email" gorm:"type:varchar(255);not null"`
	FullName *string `json:"full_name,omitempty" gorm:"type:varchar(255)"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
