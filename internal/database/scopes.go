package database

import (
	"time"

	"gorm.io/gorm"
)

// Paginate applies page/size pagination. Non-positive values disable it.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// DueBetween keeps rows whose due_date lies in [from, to]. Either bound may be nil.
func DueBetween(from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("tasks.due_date >= ?", *from)
		}
		if to != nil {
			db = db.Where("tasks.due_date <= ?", *to)
		}
		return db
	}
}

// NewestFirst orders by creation time, breaking ties on id.
func NewestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}
