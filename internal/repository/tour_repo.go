package repository

import (
	"gorm.io/gorm"

	"tripgo/internal/models"
)

// TourRepository handles tour database operations.
type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

// FindAll returns tours with pagination and search.
func (r *TourRepository) FindAll(limit, page int, query string) ([]models.Tour, int64, error) {
	var tours []models.Tour
	var total int64

	db := r.db.Model(&models.Tour{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("name LIKE ? OR destination LIKE ?", search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(limit, page)
	if err := db.Limit(limit).Offset(offset).Order("depart_at ASC").Find(&tours).Error; err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

// FindByID returns a tour by primary key.
func (r *TourRepository) FindByID(id uint) (*models.Tour, error) {
	var tour models.Tour
	if err := r.db.First(&tour, id).Error; err != nil {
		return nil, err
	}
	return &tour, nil
}

// Create creates a new tour.
func (r *TourRepository) Create(tour *models.Tour) error {
	return r.db.Create(tour).Error
}

// Update updates tour fields.
func (r *TourRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Tour{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a tour.
func (r *TourRepository) Delete(id uint) error {
	return r.db.Delete(&models.Tour{}, id).Error
}
