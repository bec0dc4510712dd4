package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/internal/db"
)

func TestOrderService(t *testing.T) {
	records := &fakeOrderRecords{}
	require.NoError(t, records.Create(&model.OrderRecord{UserID: 1, OrderID: "ORDER-1", Status: "settlement"}))
	require.NoError(t, records.Create(&model.OrderRecord{UserID: 2, OrderID: "ORDER-2", Status: "deny"}))

	svc := NewOrderService(records)

	t.Run("history is scoped to the user", func(t *testing.T) {
		history, err := svc.History(testSession())
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "ORDER-1", history[0].OrderID)
	})

	t.Run("lookup hides other users' orders", func(t *testing.T) {
		record, err := svc.Lookup(testSession(), "ORDER-1")
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "settlement", record.Status)

		record, err = svc.Lookup(testSession(), "ORDER-2")
		require.NoError(t, err)
		assert.Nil(t, record)

		record, err = svc.Lookup(testSession(), "ORDER-404")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func TestOrderService_Lookup_DatabaseBacked(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	repo := repository.NewOrderRecordRepository(testDB)
	require.NoError(t, repo.Create(&model.OrderRecord{UserID: 1, OrderID: "ORDER-1", Status: "settlement"}))

	svc := NewOrderService(repo)

	record, err := svc.Lookup(testSession(), "ORDER-1")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "settlement", record.Status)

	// An unknown order is absence, never an error, so the handler can map
	// it to a not-found response.
	record, err = svc.Lookup(testSession(), "ORDER-MISSING")
	require.NoError(t, err)
	assert.Nil(t, record)
}
