package order

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boutique-backend/internal/config"
	"gorm.io/gorm"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&Order{}, &Item{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Names:             []string{"DDS.Piyou", "AB-Zone", "Tchingo Mima 2"},
			DeliveryCompanies: []string{"yalidine", "zr-Express"},
			DefaultCompany:    "yalidine",
		},
	}
}

func newTestService(t *testing.T) *Service {
	return NewService(initTestDB(t), testConfig(), nil)
}

func sampleOrder() *Order {
	return &Order{
		CustomerName:  "Amina B",
		Phone:         "0550123456",
		Wilaya:        "Alger",
		Address:       "12 Rue Didouche Mourad",
		DeliveryType:  DeliveryHome,
		Store:         "DDS.Piyou",
		DeliveryPrice: 700,
		Items: []Item{
			{ProductID: 1, Name: "Oversize Tee", Price: 900, Color: "Black", Size: "M", Quantity: 2, MaxQuantity: 10},
			{ProductID: 2, Name: "Cap", Price: 700, Color: "White", Size: "Unique", Quantity: 1, MaxQuantity: 5},
		},
	}
}

func TestCreateComputesTotalsAndForcesPending(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	o := sampleOrder()
	o.Status = StatusReached // client-supplied status must be ignored

	created, err := svc.Create(ctx, o)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, StatusPending, created.Status)
	require.False(t, created.IsBulk)
	require.Equal(t, int64(2500), *created.Subtotal)
	require.Equal(t, int64(3200), *created.TotalPrice)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, stored.Status)
	require.Len(t, stored.Items, 2)
}

func TestCreateBulkOrderHasNilTotals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	o := sampleOrder()
	o.Items[0].Quantity = 8

	created, err := svc.Create(ctx, o)
	require.NoError(t, err)
	require.True(t, created.IsBulk)
	require.Nil(t, created.Subtotal)
	require.Nil(t, created.TotalPrice)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, stored.IsBulk)
	require.Nil(t, stored.Subtotal)
	require.Nil(t, stored.TotalPrice)
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	// Force a distinct created_at ordering
	require.NoError(t, svc.db.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)

	second, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	orders, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID)
	require.Equal(t, first.ID, orders[1].ID)
	require.NotEmpty(t, orders[0].Items)
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusHappyPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	for _, status := range []Status{StatusConfirmed, StatusInDelivery, StatusReached} {
		updated, err := svc.SetStatus(ctx, created.ID, status)
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, created.ID, Status("shipped"))
	require.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, stored.Status)
}

func TestSetStatusRejectsSkippedTransition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, created.ID, StatusReached)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.SetStatus(ctx, created.ID, StatusInDelivery)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatusCancelFromAnyNonTerminal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	paths := map[Status][]Status{
		StatusPending:    {},
		StatusConfirmed:  {StatusConfirmed},
		StatusInDelivery: {StatusConfirmed, StatusInDelivery},
	}

	for from, steps := range paths {
		created, err := svc.Create(ctx, sampleOrder())
		require.NoError(t, err)

		for _, step := range steps {
			_, err = svc.SetStatus(ctx, created.ID, step)
			require.NoError(t, err)
		}

		updated, err := svc.SetStatus(ctx, created.ID, StatusCanceled)
		require.NoError(t, err, "cancel from %s", from)
		require.Equal(t, StatusCanceled, updated.Status)
	}
}

func TestSetStatusTerminalStatesAreFrozen(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, created.ID, StatusCanceled)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, created.ID, StatusConfirmed)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.SetStatus(ctx, created.ID, StatusPending)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatusSameValueIsNoOp(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, sampleOrder())
	require.NoError(t, err)

	before, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	updated, err := svc.SetStatus(ctx, created.ID, StatusPending)
	require.NoError(t, err)
	require.Equal(t, StatusPending, updated.Status)

	// No write happened, so UpdatedAt is untouched
	after, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestStatusValidAndTerminal(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInDelivery, StatusReached, StatusCanceled} {
		require.True(t, s.Valid())
	}
	require.False(t, Status("unknown").Valid())

	require.True(t, StatusReached.Terminal())
	require.True(t, StatusCanceled.Terminal())
	require.False(t, StatusPending.Terminal())
	require.False(t, StatusInDelivery.Terminal())
}
