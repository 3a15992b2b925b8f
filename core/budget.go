package core

import (
	"gorm.io/gorm"

	"sitelink.com/sitelink/model"
)

// UpdateBudget applies patch to budget id when its stored version equals
// version, and bumps the version. A version of zero skips the check. An error
// from patch aborts the update. It returns nil, nil when there is no such
// budget.
func UpdateBudget(db *gorm.DB, id, version int, patch func(b *model.Budget) error) (*model.Budget, error) {
	var out *model.Budget
	err := db.Transaction(func(tx *gorm.DB) error {
		b, err := Find[model.Budget](tx, id)
		if err != nil || b == nil {
			return err
		}
		if version != 0 && b.Version != version {
			return ErrVersionConflict
		}

		current := b.Version
		if err := patch(b); err != nil {
			return err
		}
		b.ID = id
		b.Version = current + 1

		result := tx.Model(&model.Budget{}).
			Where("id = ? AND version = ?", id, current).
			Select("*").
			Updates(b)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}
		out = b
		return nil
	})
	return out, err
}
