package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Paginate is a GORM scope applying LIMIT/OFFSET for a 1-based page.
//
//	db.Model(&Model{}).Scopes(db.Paginate(page, size)).Find(&rows)
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
// Drivers without row locks (sqlite) ignore the clause.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
}
