package repository

import (
	"gorm.io/gorm"

	"tripgo/internal/models"
)

// HotelRepository handles hotel database operations.
type HotelRepository struct {
	db *gorm.DB
}

func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// FindAll returns hotels with pagination and search.
func (r *HotelRepository) FindAll(limit, page int, query string) ([]models.Hotel, int64, error) {
	var hotels []models.Hotel
	var total int64

	db := r.db.Model(&models.Hotel{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("name LIKE ? OR city LIKE ?", search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(limit, page)
	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&hotels).Error; err != nil {
		return nil, 0, err
	}
	return hotels, total, nil
}

// FindByID returns a hotel by primary key.
func (r *HotelRepository) FindByID(id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := r.db.First(&hotel, id).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

// Create creates a new hotel.
func (r *HotelRepository) Create(hotel *models.Hotel) error {
	return r.db.Create(hotel).Error
}

// Update updates hotel fields.
func (r *HotelRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Hotel{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a hotel.
func (r *HotelRepository) Delete(id uint) error {
	return r.db.Delete(&models.Hotel{}, id).Error
}
