package productControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AustinQian/EcommerceAPI/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Category{}))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (electronics, clothing models.Category) {
	t.Helper()

	electronics = models.Category{Name: "Electronics"}
	clothing = models.Category{Name: "Clothing"}
	require.NoError(t, db.Create(&electronics).Error)
	require.NoError(t, db.Create(&clothing).Error)

	products := []models.Product{
		{Name: "Laptop", Description: "15 inch workhorse", Price: 1200, Stock: 5, CategoryID: electronics.ID},
		{Name: "Headphones", Description: "wireless over-ear", Price: 150, Stock: 30, CategoryID: electronics.ID},
		{Name: "T-Shirt", Description: "plain cotton", Price: 15, Stock: 100, CategoryID: clothing.ID},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return electronics, clothing
}

func getProducts(t *testing.T, db *gorm.DB, query string) []models.Product {
	t.Helper()

	r := gin.New()
	r.GET("/api/products", GetProducts(db))

	req := httptest.NewRequest(http.MethodGet, "/api/products"+query, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	return products
}

func TestGetProductsSearch(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	products := getProducts(t, db, "?search=Laptop")
	require.Len(t, products, 1)
	assert.Equal(t, "Laptop", products[0].Name)

	// Description text is searched too.
	products = getProducts(t, db, "?search=wireless")
	require.Len(t, products, 1)
	assert.Equal(t, "Headphones", products[0].Name)
}

func TestGetProductsCategoryFilter(t *testing.T) {
	db := newTestDB(t)
	electronics, _ := seedCatalog(t, db)

	products := getProducts(t, db, fmt.Sprintf("?category_id=%d", electronics.ID))
	require.Len(t, products, 2)
}

func TestGetProductsPriceRange(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	products := getProducts(t, db, "?min_price=100&max_price=200")
	require.Len(t, products, 1)
	assert.Equal(t, "Headphones", products[0].Name)
}

func TestGetProductsSorting(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	products := getProducts(t, db, "?sort_by=price&order=asc")
	require.Len(t, products, 3)
	assert.Equal(t, "T-Shirt", products[0].Name)
	assert.Equal(t, "Laptop", products[2].Name)

	// Unknown sort columns fall back to the default instead of reaching SQL.
	products = getProducts(t, db, "?sort_by=;drop+table+products&order=asc")
	require.Len(t, products, 3)
}

func TestGetProductsInvalidPrice(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	r := gin.New()
	r.GET("/api/products", GetProducts(db))

	req := httptest.NewRequest(http.MethodGet, "/api/products?min_price=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductByID(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)

	r := gin.New()
	r.GET("/api/products/:id", GetProductByID(db))

	req := httptest.NewRequest(http.MethodGet, "/api/products/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, "Laptop", product.Name)

	req = httptest.NewRequest(http.MethodGet, "/api/products/9999", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
