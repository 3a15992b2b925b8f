package core

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrDuplicateCheckIn  = errors.New("User already checked in today")
	ErrAlreadyCheckedOut = errors.New("attendance record is already checked out")
	ErrVersionConflict   = errors.New("budget has been modified since it was read")
)

// List returns the rows of T matching every condition, ordered by id.
func List[T any](db *gorm.DB, where ...Cond) ([]T, error) {
	var rows []T
	q := db.Order("id")
	for _, w := range where {
		q = q.Where(w.Query, w.Args...)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type Cond struct {
	Query string
	Args  []any
}

func Where(query string, args ...any) Cond {
	return Cond{Query: query, Args: args}
}

// Find returns nil when no row has id.
func Find[T any](db *gorm.DB, id int) (*T, error) {
	var row T
	result := db.First(&row, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &row, nil
}

func Create[T any](db *gorm.DB, row *T) error {
	return db.Create(row).Error
}

// Save writes every column of row.
func Save[T any](db *gorm.DB, row *T) error {
	return db.Save(row).Error
}
