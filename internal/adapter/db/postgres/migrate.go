package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the store uses. It is idempotent and
// must be called once at startup before the repository serves requests.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&UserSchema{},
		&AdminSchema{},
		&InterestSchema{},
		&GoalSchema{},
		&TwitsnapSchema{},
		&FollowSchema{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
