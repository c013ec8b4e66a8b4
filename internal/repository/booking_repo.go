package repository

import (
	"time"

	"gorm.io/gorm"

	"tripgo/internal/models"
)

// BookingRepository handles booking database operations.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// FindAll returns bookings with pagination and search.
func (r *BookingRepository) FindAll(limit, page int, query string) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	db := r.db.Model(&models.Booking{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("code LIKE ? OR service_type LIKE ? OR status LIKE ?", search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := normalizePage(limit, page)
	if err := db.Limit(limit).Offset(offset).Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// FindByID returns a booking by primary key.
func (r *BookingRepository) FindByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByCode returns a booking by its user-facing code.
func (r *BookingRepository) FindByCode(code string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.Where("code = ?", code).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByUserID returns bookings for a specific user.
func (r *BookingRepository) FindByUserID(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&bookings).Error
	return bookings, err
}

// Create creates a new booking.
func (r *BookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

// UpdateStatus sets the booking status.
func (r *BookingRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status).Error
}

// FindPendingOlderThan returns pending bookings created before the cutoff.
func (r *BookingRepository) FindPendingOlderThan(cutoff time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("status = ? AND created_at < ?", models.BookingPending, cutoff).
		Find(&bookings).Error
	return bookings, err
}
