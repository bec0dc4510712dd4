package repository

import (
	"errors"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRecordRepository interface {
	Create(record *model.OrderRecord) error
	FindByUserID(userID uint) ([]model.OrderRecord, error)
	FindByOrderID(orderID string) (*model.OrderRecord, error)
	FindAll() ([]model.OrderRecord, error)
}

type orderRecordRepository struct {
	db *gorm.DB
}

func NewOrderRecordRepository(db *gorm.DB) OrderRecordRepository {
	return &orderRecordRepository{db: db}
}

func (r *orderRecordRepository) Create(record *model.OrderRecord) error {
	logger.Debug("Creating order record in database", map[string]interface{}{
		"user_id":  record.UserID,
		"order_id": record.OrderID,
	})

	// The watcher may observe the same terminal status twice (e.g. after a
	// restart); order_id is unique, so conflicts update in place.
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "gross_amount", "payment_type", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		logger.Error("Failed to create order record in database", err, map[string]interface{}{
			"user_id":  record.UserID,
			"order_id": record.OrderID,
		})
		return err
	}

	logger.Debug("Order record created in database", map[string]interface{}{
		"id":       record.ID,
		"order_id": record.OrderID,
	})
	return nil
}

func (r *orderRecordRepository) FindByUserID(userID uint) ([]model.OrderRecord, error) {
	var records []model.OrderRecord
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		logger.Error("Failed to find order records by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return records, nil
}

// FindByOrderID returns nil without error when no record exists; callers
// treat an unknown order as absence, not failure.
func (r *orderRecordRepository) FindByOrderID(orderID string) (*model.OrderRecord, error) {
	var record model.OrderRecord
	err := r.db.Where("order_id = ?", orderID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *orderRecordRepository) FindAll() ([]model.OrderRecord, error) {
	var records []model.OrderRecord
	err := r.db.Order("created_at DESC").Find(&records).Error
	if err != nil {
		logger.Error("Failed to list order records in database", err)
		return nil, err
	}
	return records, nil
}
