package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Checkout selections are view state, not data of record: they are rebuilt
// on every cart refresh and expire on their own.
const selectionTTL = time.Hour

type SelectionRepository interface {
	// Toggle flips a product in the user's selection and reports whether it
	// is selected afterwards.
	Toggle(ctx context.Context, userID, productID uint) (bool, error)

	// Replace swaps the whole selection for the given product ids.
	Replace(ctx context.Context, userID uint, productIDs []uint) error

	Clear(ctx context.Context, userID uint) error
	Members(ctx context.Context, userID uint) ([]uint, error)
}

type selectionRepository struct {
	client *redis.Client
}

func NewSelectionRepository(client *redis.Client) SelectionRepository {
	return &selectionRepository{client: client}
}

func selectionKey(userID uint) string {
	return fmt.Sprintf("selection:%d", userID)
}

func (r *selectionRepository) Toggle(ctx context.Context, userID, productID uint) (bool, error) {
	key := selectionKey(userID)
	member := strconv.FormatUint(uint64(productID), 10)

	isMember, err := r.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		logger.Error("Failed to check selection membership", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	if isMember {
		if err := r.client.SRem(ctx, key, member).Err(); err != nil {
			return false, err
		}
		return false, nil
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, member)
	pipe.Expire(ctx, key, selectionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Failed to add product to selection", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}
	return true, nil
}

func (r *selectionRepository) Replace(ctx context.Context, userID uint, productIDs []uint) error {
	key := selectionKey(userID)

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(productIDs) > 0 {
		members := make([]interface{}, 0, len(productIDs))
		for _, id := range productIDs {
			members = append(members, strconv.FormatUint(uint64(id), 10))
		}
		pipe.SAdd(ctx, key, members...)
		pipe.Expire(ctx, key, selectionTTL)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		logger.Error("Failed to replace selection", err, map[string]interface{}{
			"user_id": userID,
			"count":   len(productIDs),
		})
	}
	return err
}

func (r *selectionRepository) Clear(ctx context.Context, userID uint) error {
	return r.client.Del(ctx, selectionKey(userID)).Err()
}

func (r *selectionRepository) Members(ctx context.Context, userID uint) ([]uint, error) {
	values, err := r.client.SMembers(ctx, selectionKey(userID)).Result()
	if err != nil {
		logger.Error("Failed to read selection members", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
