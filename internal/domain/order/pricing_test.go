package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeTotalsNormalOrder(t *testing.T) {
	items := []Item{
		{ProductID: 1, Name: "Oversize Tee", Price: 900, Quantity: 2},
		{ProductID: 2, Name: "Cap", Price: 700, Quantity: 1},
	}

	totals := ComputeTotals(items, 700)

	require.False(t, totals.IsBulk)
	require.NotNil(t, totals.Subtotal)
	require.NotNil(t, totals.TotalPrice)
	require.Equal(t, int64(2500), *totals.Subtotal)
	require.Equal(t, int64(3200), *totals.TotalPrice)
}

func TestComputeTotalsZeroDelivery(t *testing.T) {
	items := []Item{
		{ProductID: 1, Price: 1500, Quantity: 1},
	}

	totals := ComputeTotals(items, 0)

	require.False(t, totals.IsBulk)
	require.Equal(t, int64(1500), *totals.Subtotal)
	require.Equal(t, int64(1500), *totals.TotalPrice)
}

func TestComputeTotalsBulkOrder(t *testing.T) {
	items := []Item{
		{ProductID: 1, Price: 900, Quantity: 2},
		{ProductID: 2, Price: 700, Quantity: 8},
	}

	totals := ComputeTotals(items, 700)

	require.True(t, totals.IsBulk)
	require.Nil(t, totals.Subtotal)
	require.Nil(t, totals.TotalPrice)
}

func TestComputeTotalsBulkThresholdBoundary(t *testing.T) {
	atThreshold := []Item{{ProductID: 1, Price: 500, Quantity: BulkQuantityThreshold}}
	totals := ComputeTotals(atThreshold, 600)
	require.False(t, totals.IsBulk)
	require.Equal(t, int64(500*BulkQuantityThreshold), *totals.Subtotal)

	overThreshold := []Item{{ProductID: 1, Price: 500, Quantity: BulkQuantityThreshold + 1}}
	totals = ComputeTotals(overThreshold, 600)
	require.True(t, totals.IsBulk)
	require.Nil(t, totals.Subtotal)
}

func TestComputeTotalsBulkTriggeredBySingleLine(t *testing.T) {
	// One large line marks the whole order bulk, even if other lines are small
	items := []Item{
		{ProductID: 1, Price: 100, Quantity: 1},
		{ProductID: 2, Price: 100, Quantity: 50},
		{ProductID: 3, Price: 100, Quantity: 2},
	}

	totals := ComputeTotals(items, 700)

	require.True(t, totals.IsBulk)
	require.Nil(t, totals.Subtotal)
	require.Nil(t, totals.TotalPrice)
}
