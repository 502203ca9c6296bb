package db

import (
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voss/pivotboard/internal/config"
	"github.com/voss/pivotboard/internal/models"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Project{},
		&models.AssetStatus{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedProjects upserts Project rows from configuration.
func SeedProjects(db *gorm.DB, projects []config.ProjectConfig) error {
	for _, pc := range projects {
		project := models.Project{
			Name:        pc.Name,
			Description: pc.Description,
			Active:      true,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "active"}),
		}).Create(&project)
		if result.Error != nil {
			return fmt.Errorf("db: seed project %q: %w", pc.Name, result.Error)
		}
	}
	return nil
}

// SeedAssets inserts asset rows, skipping rows whose (project, group_1,
// relation) identity already exists. Returns the number inserted.
func SeedAssets(db *gorm.DB, assets []models.AssetStatus) (int, error) {
	inserted := 0
	for i := range assets {
		err := db.Create(&assets[i]).Error
		if err != nil {
			if isDuplicateKey(err) {
				continue
			}
			return inserted, fmt.Errorf("db: seed asset %s/%s: %w",
				assets[i].Group1, assets[i].Relation, err)
		}
		inserted++
	}
	return inserted, nil
}

// isDuplicateKey detects unique-constraint violations for both drivers:
// MySQL error 1062 and SQLite's UNIQUE constraint message.
func isDuplicateKey(err error) bool {
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
