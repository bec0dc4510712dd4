package service

import (
	"context"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/logger"
)

// SelectionService tracks which flattened products a user has ticked for
// checkout. The selection is ephemeral view state: it lives alongside the
// cart, never goes upstream, and is re-derived against the current cart on
// every operation.
type SelectionService interface {
	Toggle(ctx context.Context, sess model.SessionContext, productID uint) ([]uint, error)
	ToggleAll(ctx context.Context, sess model.SessionContext) ([]uint, error)
	Clear(ctx context.Context, sess model.SessionContext) error
	Selected(ctx context.Context, sess model.SessionContext) ([]uint, error)
}

type selectionService struct {
	api  CartAPI
	repo repository.SelectionRepository
}

func NewSelectionService(api CartAPI, repo repository.SelectionRepository) SelectionService {
	return &selectionService{
		api:  api,
		repo: repo,
	}
}

func (s *selectionService) Toggle(ctx context.Context, sess model.SessionContext, productID uint) ([]uint, error) {
	selected, err := s.repo.Toggle(ctx, sess.UserID, productID)
	if err != nil {
		logger.Error("Failed to toggle selection", err, map[string]interface{}{
			"user_id":    sess.UserID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Selection toggled", map[string]interface{}{
		"user_id":    sess.UserID,
		"product_id": productID,
		"selected":   selected,
	})
	return s.repo.Members(ctx, sess.UserID)
}

// ToggleAll recomputes "everything" from the cart as it is right now: if the
// selection already covers the whole flattened list it clears, otherwise it
// becomes exactly the current product ids. There is no stored select-all
// flag to go stale.
func (s *selectionService) ToggleAll(ctx context.Context, sess model.SessionContext) ([]uint, error) {
	carts, err := s.api.ListCarts(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	items := FlattenCarts(carts)

	current, err := s.repo.Members(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	if allSelected(current, items) {
		if err := s.repo.Clear(ctx, sess.UserID); err != nil {
			return nil, err
		}
		return []uint{}, nil
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	if err := s.repo.Replace(ctx, sess.UserID, ids); err != nil {
		logger.Error("Failed to select all products", err, map[string]interface{}{
			"user_id": sess.UserID,
		})
		return nil, err
	}

	logger.Debug("Selected all cart products", map[string]interface{}{
		"user_id": sess.UserID,
		"count":   len(ids),
	})
	return ids, nil
}

func (s *selectionService) Clear(ctx context.Context, sess model.SessionContext) error {
	return s.repo.Clear(ctx, sess.UserID)
}

func (s *selectionService) Selected(ctx context.Context, sess model.SessionContext) ([]uint, error) {
	return s.repo.Members(ctx, sess.UserID)
}
