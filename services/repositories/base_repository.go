package repositories

import (
	"gorm.io/gorm"
)

// BaseRepository holds the connection every repository queries through.
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// exists reports whether a row of value's table matches the condition.
func (r *BaseRepository) exists(value interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.Model(value).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
