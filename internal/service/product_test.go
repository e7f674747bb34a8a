package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
)

type productFixture struct {
	svc        *ProductService
	products   *mockProductRepo
	categories *mockCategoryRepo
	materials  *mockMaterialRepo
	media      *mockMediaRepo
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:   newMockProductRepo(),
		categories: newMockCategoryRepo(),
		materials:  newMockMaterialRepo(),
		media:      newMockMediaRepo(),
	}
	f.svc = NewProductService(f.products, f.categories, f.materials, f.media)
	return f
}

func TestProductService_Create_SlugCollision(t *testing.T) {
	f := newProductFixture()

	slug := "oak-chair"
	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Oak Chair", Price: decimal.NewFromInt(50), Slug: &slug,
	})
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Oak Chair v2", Price: decimal.NewFromInt(60), Slug: &slug,
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestProductService_Create_UnknownMaterial(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Chair", Price: decimal.NewFromInt(10), MaterialIDs: &[]int64{99},
	})
	requireStatus(t, err, http.StatusNotFound)
}

func TestProductService_Update_ClearCategory(t *testing.T) {
	f := newProductFixture()
	category := &model.Category{Name: "Chairs", Slug: "chairs"}
	require.NoError(t, f.categories.Create(context.Background(), category))

	product, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Chair", Price: decimal.NewFromInt(10),
		CategoryID: dto.Optional[int64]{Set: true, Value: &category.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, product.CategoryID)

	updated, err := f.svc.Update(context.Background(), product.ID, dto.UpdateProductRequest{
		CategoryID: dto.Optional[int64]{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
}

func TestProductService_Update_ReplaceMaterials(t *testing.T) {
	f := newProductFixture()
	oak := &model.Material{Name: "oak"}
	steel := &model.Material{Name: "steel"}
	require.NoError(t, f.materials.Create(context.Background(), oak))
	require.NoError(t, f.materials.Create(context.Background(), steel))

	product, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Chair", Price: decimal.NewFromInt(10), MaterialIDs: &[]int64{oak.ID},
	})
	require.NoError(t, err)
	require.Len(t, product.Materials, 1)

	// The provided list replaces, it does not merge.
	updated, err := f.svc.Update(context.Background(), product.ID, dto.UpdateProductRequest{
		MaterialIDs: &[]int64{steel.ID},
	})
	require.NoError(t, err)
	require.Len(t, updated.Materials, 1)
	assert.Equal(t, steel.ID, updated.Materials[0].ID)
}

func TestProductService_FindAll_MinAboveMax(t *testing.T) {
	f := newProductFixture()

	minPrice, maxPrice := int64(100), int64(10)
	_, err := f.svc.FindAll(context.Background(), dto.QueryProductFilters{
		MinPrice: &minPrice, MaxPrice: &maxPrice, Limit: 10,
	})
	appErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Min price must be lower than max price", appErr.Message)
}

func TestProductService_FindAll_BadCategoryList(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.FindAll(context.Background(), dto.QueryProductFilters{
		Categories: "1,abc", Limit: 10,
	})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestProductService_FindAll_FeaturedFilter(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Plain", Price: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	featured := true
	_, err = f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name: "Featured", Price: decimal.NewFromInt(20), IsFeatured: &featured,
	})
	require.NoError(t, err)

	page, err := f.svc.FindAll(context.Background(), dto.QueryProductFilters{
		IsFeatured: &featured, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Featured", page.Products[0].Name)
	assert.Equal(t, 1, page.Total)
}

func TestProductService_FindAll_Pagination(t *testing.T) {
	f := newProductFixture()
	for _, name := range []string{"a", "b", "c"} {
		_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
			Name: name, Price: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
	}

	page, err := f.svc.FindAll(context.Background(), dto.QueryProductFilters{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.Total)

	_, err = f.svc.FindAll(context.Background(), dto.QueryProductFilters{Page: 3, Limit: 2})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestProductService_FindBySlug_NotFound(t *testing.T) {
	f := newProductFixture()
	_, err := f.svc.FindBySlug(context.Background(), "nope")
	requireStatus(t, err, http.StatusNotFound)
}
