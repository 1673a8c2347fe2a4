package model

import "time"

type User struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Name      string     `json:"name"`
	Password  string     `json:"-" gorm:"not null"`
	Role      string     `json:"role" gorm:"default:STUDENT"`
	Verified  bool       `json:"verified" gorm:"default:false"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
