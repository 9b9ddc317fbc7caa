package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boutique-backend/internal/config"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Store: config.StoreConfig{
			CartTTL: 24 * time.Hour,
		},
	}

	return NewService(client, cfg), mr
}

func testLine(quantity int) Line {
	return Line{
		ProductID:   1,
		Name:        "Oversize Tee",
		Price:       900,
		Image:       "https://cdn.example.com/tee.jpg",
		Color:       "Black",
		Size:        "M",
		Quantity:    quantity,
		MaxQuantity: 5,
	}
}

func TestGetEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)

	response, err := svc.Get(context.Background(), "session-1")
	require.NoError(t, err)
	require.Empty(t, response.Items)
	require.Equal(t, 0, response.Totals.ItemCount)
	require.Equal(t, int64(0), response.Totals.Subtotal)
}

func TestGetRequiresSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "")
	require.ErrorIs(t, err, ErrSessionRequired)
}

func TestAddNewLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	response, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	require.Equal(t, 2, response.Items[0].Quantity)
	require.Equal(t, int64(1800), response.Totals.Subtotal)
	require.False(t, response.Items[0].AddedAt.IsZero())
}

func TestAddMergesMatchingVariant(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)

	response, err := svc.Add(ctx, "session-1", testLine(1))
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	require.Equal(t, 3, response.Items[0].Quantity)
}

func TestAddDifferentSizeIsSeparateLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(1))
	require.NoError(t, err)

	other := testLine(1)
	other.Size = "L"
	response, err := svc.Add(ctx, "session-1", other)
	require.NoError(t, err)
	require.Len(t, response.Items, 2)
}

func TestAddRejectsMergeBeyondStockCeiling(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(4))
	require.NoError(t, err)

	_, err = svc.Add(ctx, "session-1", testLine(2))
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The failed add left the cart untouched
	response, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, 4, response.Items[0].Quantity)
}

func TestAddRejectsQuantityAboveCeiling(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(context.Background(), "session-1", testLine(6))
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestSetQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)

	key := LineKey{ProductID: 1, Color: "Black", Size: "M"}
	response, err := svc.SetQuantity(ctx, "session-1", key, 4)
	require.NoError(t, err)
	require.Equal(t, 4, response.Items[0].Quantity)
}

func TestSetQuantityOutOfRangeIsIgnored(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)

	key := LineKey{ProductID: 1, Color: "Black", Size: "M"}

	response, err := svc.SetQuantity(ctx, "session-1", key, 0)
	require.NoError(t, err)
	require.Equal(t, 2, response.Items[0].Quantity)

	response, err = svc.SetQuantity(ctx, "session-1", key, 6)
	require.NoError(t, err)
	require.Equal(t, 2, response.Items[0].Quantity)
}

func TestRemoveLine(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)

	key := LineKey{ProductID: 1, Color: "Black", Size: "M"}
	response, err := svc.Remove(ctx, "session-1", key)
	require.NoError(t, err)
	require.Empty(t, response.Items)
}

func TestClearDeletesKey(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)
	require.True(t, mr.Exists("cart:session:session-1"))

	require.NoError(t, svc.Clear(ctx, "session-1"))
	require.False(t, mr.Exists("cart:session:session-1"))
}

func TestCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)

	other := testLine(3)
	other.Color = "White"
	_, err = svc.Add(ctx, "session-1", other)
	require.NoError(t, err)

	count, err := svc.Count(ctx, "session-1")
	require.NoError(t, err)
	require.Equal(t, 5, count)
}

func TestCartsAreIsolatedBySession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)

	response, err := svc.Get(ctx, "session-2")
	require.NoError(t, err)
	require.Empty(t, response.Items)
}

func TestSaveSetsTTL(t *testing.T) {
	svc, mr := newTestService(t)

	_, err := svc.Add(context.Background(), "session-1", testLine(1))
	require.NoError(t, err)

	ttl := mr.TTL("cart:session:session-1")
	require.Equal(t, 24*time.Hour, ttl)
}

func TestMutationsPublishBadgeNotification(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	sub := mr.NewSubscriber()
	defer sub.Close()
	sub.Subscribe(UpdateChannel)

	_, err := svc.Add(ctx, "session-1", testLine(2))
	require.NoError(t, err)

	msg := <-sub.Messages()
	require.Equal(t, UpdateChannel, msg.Channel)

	var notification UpdateNotification
	require.NoError(t, json.Unmarshal([]byte(msg.Message), &notification))
	require.Equal(t, "session-1", notification.SessionID)
	require.Equal(t, 2, notification.ItemCount)
}
