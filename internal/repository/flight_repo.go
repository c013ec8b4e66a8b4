package repository

import (
	"gorm.io/gorm"

	"tripgo/internal/models"
)

// FlightRepository handles flight database operations.
type FlightRepository struct {
	db *gorm.DB
}

func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// FindAll returns flights with pagination and search.
func (r *FlightRepository) FindAll(limit, page int, query string) ([]models.Flight, int64, error) {
	var flights []models.Flight
	var total int64

	db := r.db.Model(&models.Flight{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("flight_number LIKE ? OR airline LIKE ? OR origin LIKE ? OR destination LIKE ?",
			search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(limit, page)
	if err := db.Limit(limit).Offset(offset).Order("depart_at ASC").Find(&flights).Error; err != nil {
		return nil, 0, err
	}
	return flights, total, nil
}

// FindByID returns a flight by primary key.
func (r *FlightRepository) FindByID(id uint) (*models.Flight, error) {
	var flight models.Flight
	if err := r.db.First(&flight, id).Error; err != nil {
		return nil, err
	}
	return &flight, nil
}

// Create creates a new flight.
func (r *FlightRepository) Create(flight *models.Flight) error {
	return r.db.Create(flight).Error
}

// Update updates flight fields.
func (r *FlightRepository) Update(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Flight{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a flight.
func (r *FlightRepository) Delete(id uint) error {
	return r.db.Delete(&models.Flight{}, id).Error
}
