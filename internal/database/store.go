package database

import (
	"fmt"

	"github.com/jinzhu/gorm"

	"shortorder/internal/models"
)

// CatalogStore persists catalog documents in the catalog_* tables.
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore wraps an open connection.
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Migrate creates or updates the catalog tables.
func (s *CatalogStore) Migrate() error {
	err := s.db.AutoMigrate(
		&models.IngredientRecord{},
		&models.RecipeRecord{},
		&models.FoodRecord{},
	).Error
	if err != nil {
		return fmt.Errorf("migrate catalog tables: %w", err)
	}
	return nil
}

// Count returns the number of stored ingredients.
func (s *CatalogStore) Count() (int, error) {
	var n int
	if err := s.db.Model(&models.IngredientRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count catalog ingredients: %w", err)
	}
	return n, nil
}

// Save replaces the stored catalog with doc in one transaction.
func (s *CatalogStore) Save(doc *models.CatalogDocument) (err error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin catalog save: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []interface{}{&models.IngredientRecord{}, &models.RecipeRecord{}, &models.FoodRecord{}} {
		if err = tx.Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
	}

	for _, rec := range doc.Ingredients {
		rec.Model = gorm.Model{}
		if err = tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("save ingredient %q: %w", rec.IngredientID, err)
		}
	}
	for _, rec := range doc.Recipes {
		rec.Model = gorm.Model{}
		if err = rec.SetIngredients(rec.Ingredients); err != nil {
			return fmt.Errorf("encode recipe %q: %w", rec.RecipeID, err)
		}
		if err = tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("save recipe %q: %w", rec.RecipeID, err)
		}
	}
	for _, rec := range doc.Foods {
		rec.Model = gorm.Model{}
		if err = tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("save food %q: %w", rec.FoodID, err)
		}
	}

	if err = tx.Commit().Error; err != nil {
		return fmt.Errorf("commit catalog save: %w", err)
	}
	return nil
}

// Load reads the stored catalog back in insertion order.
func (s *CatalogStore) Load() (*models.CatalogDocument, error) {
	doc := &models.CatalogDocument{}
	if err := s.db.Order("id").Find(&doc.Ingredients).Error; err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	if err := s.db.Order("id").Find(&doc.Recipes).Error; err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	for i := range doc.Recipes {
		if _, err := doc.Recipes[i].GetIngredients(); err != nil {
			return nil, fmt.Errorf("decode recipe %q: %w", doc.Recipes[i].RecipeID, err)
		}
	}
	if err := s.db.Order("id").Find(&doc.Foods).Error; err != nil {
		return nil, fmt.Errorf("load foods: %w", err)
	}
	return doc, nil
}

// Seed saves doc when the store is empty. It reports whether anything was written.
func (s *CatalogStore) Seed(doc *models.CatalogDocument) (bool, error) {
	n, err := s.Count()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := s.Save(doc); err != nil {
		return false, err
	}
	return true, nil
}
