package reporting

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zerofashion/storefront-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresher_Latest_ComputesOnDemand(t *testing.T) {
	orders := &mockOrderLister{}
	products := &mockProductLister{}
	orders.On("ListOrders", mock.Anything).Return([]domain.Order{orderAt(now, 100)}, nil).Once()
	products.On("ListProducts", mock.Anything).Return([]domain.Product{}, nil).Once()

	refresher := NewRefresher(NewAggregator(orders, products), time.Minute, discardLogger())

	stats, err := refresher.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalOrders)

	// A second call serves the cached snapshot without refetching.
	cached, err := refresher.Latest(context.Background())
	require.NoError(t, err)
	assert.Same(t, stats, cached)
	orders.AssertNumberOfCalls(t, "ListOrders", 1)
}

func TestRefresher_Latest_SurfacesFetchFailure(t *testing.T) {
	orders := &mockOrderLister{}
	products := &mockProductLister{}
	orders.On("ListOrders", mock.Anything).Return(nil, errors.New("db down"))
	products.On("ListProducts", mock.Anything).Return([]domain.Product{}, nil).Maybe()

	refresher := NewRefresher(NewAggregator(orders, products), time.Minute, discardLogger())

	_, err := refresher.Latest(context.Background())
	assert.Error(t, err)
}

func TestRefresher_Run_RefreshesUntilCancelled(t *testing.T) {
	orders := &mockOrderLister{}
	products := &mockProductLister{}
	orders.On("ListOrders", mock.Anything).Return([]domain.Order{orderAt(now, 100)}, nil)
	products.On("ListProducts", mock.Anything).Return([]domain.Product{}, nil)

	refresher := NewRefresher(NewAggregator(orders, products), 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		refresher.Run(ctx)
		close(done)
	}()

	// Wait for the initial refresh plus at least one tick.
	assert.Eventually(t, func() bool {
		stats, err := refresher.Latest(context.Background())
		return err == nil && stats.TotalOrders == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after cancellation")
	}
}

func TestRefresher_Run_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	orders := &mockOrderLister{}
	products := &mockProductLister{}
	orders.On("ListOrders", mock.Anything).Return([]domain.Order{orderAt(now, 100)}, nil).Once()
	orders.On("ListOrders", mock.Anything).Return(nil, errors.New("db down"))
	products.On("ListProducts", mock.Anything).Return([]domain.Product{}, nil)

	refresher := NewRefresher(NewAggregator(orders, products), time.Minute, discardLogger())

	// Seed a good snapshot, then force a failing refresh.
	stats, err := refresher.Latest(context.Background())
	require.NoError(t, err)

	refresher.refresh(context.Background())

	latest, err := refresher.Latest(context.Background())
	require.NoError(t, err)
	assert.Same(t, stats, latest)
}
