package delivery

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boutique-backend/internal/config"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Area{}, &StoreSetting{}))

	cfg := &config.Config{
		Store: config.StoreConfig{
			Names:             []string{"DDS.Piyou", "AB-Zone", "Tchingo Mima 2"},
			DeliveryCompanies: []string{"yalidine", "zr-Express"},
			DefaultCompany:    "yalidine",
		},
	}

	return NewService(db, cfg)
}

func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestCreateAreaDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)
	require.Equal(t, int64(600), area.PriceHome)
	require.Equal(t, int64(700), area.PriceDesk)
	require.True(t, area.IsActive)
	require.Equal(t, "yalidine", area.Company)
}

func TestCreateAreaExplicitPrices(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, &CreateAreaRequest{
		Wilaya:    "Oran",
		Store:     "DDS.Piyou",
		PriceHome: int64Ptr(800),
		PriceDesk: int64Ptr(450),
	})
	require.NoError(t, err)
	require.Equal(t, int64(800), area.PriceHome)
	require.Equal(t, int64(450), area.PriceDesk)
}

func TestCreateAreaRejectsDuplicate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)

	_, err = svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.ErrorIs(t, err, ErrDuplicateArea)
}

func TestCreateAreaRejectsUnknownStore(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateArea(context.Background(), &CreateAreaRequest{Wilaya: "Alger", Store: "Unknown"})
	require.ErrorIs(t, err, ErrInvalidStore)
}

func TestSameWilayaAcrossStoresAndCompanies(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)

	// Same wilaya under another store is fine
	_, err = svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "AB-Zone"})
	require.NoError(t, err)

	// Same wilaya and store under the other company is fine too
	_, err = svc.SwitchCompany(ctx, "DDS.Piyou", "zr-Express")
	require.NoError(t, err)
	_, err = svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)
}

func TestResolveReturnsPricePair(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, &CreateAreaRequest{
		Wilaya:    "Alger",
		Store:     "DDS.Piyou",
		PriceHome: int64Ptr(650),
		PriceDesk: int64Ptr(400),
	})
	require.NoError(t, err)

	price, err := svc.Resolve(ctx, "DDS.Piyou", "Alger")
	require.NoError(t, err)
	require.Equal(t, int64(650), price.Home)
	require.Equal(t, int64(400), price.Desk)
	require.Equal(t, int64(650), price.ForType("home"))
	require.Equal(t, int64(400), price.ForType("desk"))
}

func TestResolveUnknownWilaya(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Resolve(context.Background(), "DDS.Piyou", "Tamanrasset")
	require.ErrorIs(t, err, ErrNoDelivery)
}

func TestResolveIsCaseSensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, "DDS.Piyou", "alger")
	require.ErrorIs(t, err, ErrNoDelivery)
}

func TestResolveSkipsInactiveAreas(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)

	_, err = svc.UpdateArea(ctx, area.ID, &UpdateAreaRequest{IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, "DDS.Piyou", "Alger")
	require.ErrorIs(t, err, ErrNoDelivery)
}

func TestResolveFollowsActiveCompany(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, &CreateAreaRequest{
		Wilaya:    "Alger",
		Store:     "DDS.Piyou",
		PriceHome: int64Ptr(600),
	})
	require.NoError(t, err)

	_, err = svc.SwitchCompany(ctx, "DDS.Piyou", "zr-Express")
	require.NoError(t, err)

	// The yalidine area no longer applies
	_, err = svc.Resolve(ctx, "DDS.Piyou", "Alger")
	require.ErrorIs(t, err, ErrNoDelivery)

	_, err = svc.CreateArea(ctx, &CreateAreaRequest{
		Wilaya:    "Alger",
		Store:     "DDS.Piyou",
		PriceHome: int64Ptr(900),
	})
	require.NoError(t, err)

	price, err := svc.Resolve(ctx, "DDS.Piyou", "Alger")
	require.NoError(t, err)
	require.Equal(t, int64(900), price.Home)
}

func TestListAreasSortedByWilaya(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, wilaya := range []string{"Oran", "Alger", "Blida"} {
		_, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: wilaya, Store: "DDS.Piyou"})
		require.NoError(t, err)
	}

	response, err := svc.ListAreas(ctx, "DDS.Piyou")
	require.NoError(t, err)
	require.Equal(t, "yalidine", response.ActiveCompany)
	require.Len(t, response.Areas, 3)
	require.Equal(t, "Alger", response.Areas[0].Wilaya)
	require.Equal(t, "Blida", response.Areas[1].Wilaya)
	require.Equal(t, "Oran", response.Areas[2].Wilaya)
}

func TestListAreasIncludesInactive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)
	_, err = svc.UpdateArea(ctx, area.ID, &UpdateAreaRequest{IsActive: boolPtr(false)})
	require.NoError(t, err)

	response, err := svc.ListAreas(ctx, "DDS.Piyou")
	require.NoError(t, err)
	require.Len(t, response.Areas, 1)
	require.False(t, response.Areas[0].IsActive)
}

func TestUpdateAreaNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateArea(context.Background(), 999, &UpdateAreaRequest{PriceHome: int64Ptr(100)})
	require.ErrorIs(t, err, ErrAreaNotFound)
}

func TestDeleteArea(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, &CreateAreaRequest{Wilaya: "Alger", Store: "DDS.Piyou"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteArea(ctx, area.ID))
	require.ErrorIs(t, svc.DeleteArea(ctx, area.ID), ErrAreaNotFound)
}

func TestSwitchCompanyValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SwitchCompany(ctx, "Unknown", "yalidine")
	require.ErrorIs(t, err, ErrInvalidStore)

	_, err = svc.SwitchCompany(ctx, "DDS.Piyou", "dhl")
	require.ErrorIs(t, err, ErrInvalidCompany)

	setting, err := svc.SwitchCompany(ctx, "DDS.Piyou", "zr-Express")
	require.NoError(t, err)
	require.Equal(t, "zr-Express", setting.Company)

	// Switching back updates the same row
	setting, err = svc.SwitchCompany(ctx, "DDS.Piyou", "yalidine")
	require.NoError(t, err)
	require.Equal(t, "yalidine", setting.Company)
}
