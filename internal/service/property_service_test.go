package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

func newPropertyServiceForTest(env *testEnv) PropertyService {
	return NewPropertyService(env.properties, env.blobStore, noplog())
}

func TestPropertyCreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newPropertyServiceForTest(env)
	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)

	_, err := svc.Create(ctx, landlord, CreatePropertyRequest{Price: 1500})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	_, err = svc.Create(ctx, landlord, CreatePropertyRequest{Title: "loft", Price: -1})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	created, err := svc.Create(ctx, landlord, CreatePropertyRequest{Title: "loft", Price: 1500})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyAvailable, created.Status)
	assert.Equal(t, landlord.ID, created.OwnerID)
}

func TestPropertyListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newPropertyServiceForTest(env)
	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)

	cheap, err := svc.Create(ctx, landlord, CreatePropertyRequest{Title: "studio", Price: 800, City: "Springfield", Bedrooms: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, landlord, CreatePropertyRequest{Title: "house", Price: 2500, City: "Springfield", Bedrooms: 3})
	require.NoError(t, err)
	_, err = svc.Create(ctx, landlord, CreatePropertyRequest{Title: "condo", Price: 1800, City: "Shelbyville", Bedrooms: 2})
	require.NoError(t, err)

	items, page, err := svc.List(ctx, ListPropertiesRequest{City: "Springfield"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, page.Total)

	items, _, err = svc.List(ctx, ListPropertiesRequest{MaxPrice: 1000})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, cheap.ID, items[0].ID)

	items, _, err = svc.List(ctx, ListPropertiesRequest{MinPrice: 1000, Bedrooms: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// rented 之后从 available 过滤里消失
	_, err = svc.SetStatus(ctx, landlord, cheap.ID, domain.PropertyRented)
	require.NoError(t, err)
	items, _, err = svc.List(ctx, ListPropertiesRequest{Status: "available"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPropertyUpdateWhitelist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newPropertyServiceForTest(env)
	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	stranger := env.seedUser(t, "landlord-2", domain.RoleLandlord)

	property, err := svc.Create(ctx, landlord, CreatePropertyRequest{Title: "loft", Price: 1500})
	require.NoError(t, err)

	// 非所有者拒绝
	_, err = svc.Update(ctx, stranger, property.ID, store.Item{"title": "stolen"})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.From(err).Status)

	// 归属和状态不走通用更新
	_, err = svc.Update(ctx, landlord, property.ID, store.Item{"ownerId": "someone-else", "status": "rented"})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	updated, err := svc.Update(ctx, landlord, property.ID, store.Item{
		"title":   "bright loft",
		"price":   1600.0,
		"ownerId": "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "bright loft", updated.Title)
	assert.Equal(t, 1600.0, updated.Price)
	assert.Equal(t, landlord.ID, updated.OwnerID)

	_, err = svc.Update(ctx, landlord, property.ID, store.Item{"price": -5.0})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)
}

func TestPropertyDeleteCleansUpImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newPropertyServiceForTest(env)
	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)

	property, err := svc.Create(ctx, landlord, CreatePropertyRequest{Title: "loft", Price: 1500})
	require.NoError(t, err)

	withImage, err := svc.AddImage(ctx, landlord, property.ID, "front.jpg", []byte("jpg"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, withImage.Images, 1)
	require.Equal(t, 1, env.blobStore.Len())

	require.NoError(t, svc.Delete(ctx, landlord, property.ID))
	assert.Equal(t, 0, env.blobStore.Len())

	_, err = svc.Get(ctx, property.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.From(err).Status)
}
