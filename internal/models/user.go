package models

import (
	"time"
)

type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	AssignedTasks []Task `gorm:"foreignKey:AssignedTo" json:"-"`
}
