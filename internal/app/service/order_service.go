package service

import (
	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/logger"
)

// OrderService serves the gateway's local order history. The records are
// written by the payment watcher when an order settles; the upstream remains
// the authority for order state.
type OrderService interface {
	History(sess model.SessionContext) ([]model.OrderRecord, error)
	Lookup(sess model.SessionContext, orderID string) (*model.OrderRecord, error)
}

type orderService struct {
	repo repository.OrderRecordRepository
}

func NewOrderService(repo repository.OrderRecordRepository) OrderService {
	return &orderService{repo: repo}
}

func (s *orderService) History(sess model.SessionContext) ([]model.OrderRecord, error) {
	records, err := s.repo.FindByUserID(sess.UserID)
	if err != nil {
		logger.Error("Failed to load order history", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return nil, err
	}
	return records, nil
}

// Lookup returns the user's record for one order, or nil when the order is
// unknown or belongs to someone else.
func (s *orderService) Lookup(sess model.SessionContext, orderID string) (*model.OrderRecord, error) {
	record, err := s.repo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.UserID != sess.UserID {
		return nil, nil
	}
	return record, nil
}
