package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, conn *gorm.DB, count int) fixtures {
	t.Helper()
	fx := seedFixtures(t, conn)

	// fixtures already created one service
	for i := 1; i < count; i++ {
		service := Service{
			Name:       fmt.Sprintf("Home Cleaning %d", i),
			Price:      float64(100 + i),
			CategoryID: fx.Category.ID,
			ProviderID: fx.Provider.ID,
		}
		require.NoError(t, conn.Create(&service).Error)
	}
	return fx
}

func TestListServicesPagination(t *testing.T) {
	conn := setupDB(t)
	seedCatalog(t, conn, 20)

	page, err := ListServices(conn, ServiceFilter{Page: 2, Limit: 8})
	require.NoError(t, err)

	assert.Len(t, page.Services, 8)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, int64(20), page.Total)

	last, err := ListServices(conn, ServiceFilter{Page: 3, Limit: 8})
	require.NoError(t, err)
	assert.Len(t, last.Services, 4)
}

func TestListServicesKeywordIsCaseInsensitive(t *testing.T) {
	conn := setupDB(t)
	fx := seedCatalog(t, conn, 5)

	other := Service{Name: "Sofa Shampooing", Price: 250, CategoryID: fx.Category.ID, ProviderID: fx.Provider.ID}
	require.NoError(t, conn.Create(&other).Error)

	page, err := ListServices(conn, ServiceFilter{Keyword: "CLEANING"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)

	page, err = ListServices(conn, ServiceFilter{Keyword: "shampoo"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Sofa Shampooing", page.Services[0].Name)
}

func TestListServicesFiltersCombineWithAND(t *testing.T) {
	conn := setupDB(t)
	fx := seedCatalog(t, conn, 3)

	otherCategory := Category{Name: "Salon & Spa"}
	require.NoError(t, conn.Create(&otherCategory).Error)
	spa := Service{Name: "Cleaning Facial", Price: 900, CategoryID: otherCategory.ID, ProviderID: fx.Provider.ID}
	require.NoError(t, conn.Create(&spa).Error)

	page, err := ListServices(conn, ServiceFilter{Keyword: "cleaning", CategoryID: otherCategory.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Cleaning Facial", page.Services[0].Name)
}

func TestFeaturedServicesOrderingAndTruncation(t *testing.T) {
	conn := setupDB(t)
	fx := seedFixtures(t, conn)

	// six candidates; two share the top rating, more reviews wins the tie
	specs := []struct {
		name    string
		rating  float64
		reviews int64
	}{
		{"A", 4.8, 10},
		{"B", 4.8, 25},
		{"C", 4.5, 100},
		{"D", 3.0, 5},
		{"E", 5.0, 2},
		{"F", 2.0, 50},
	}
	require.NoError(t, conn.Unscoped().Where("1 = 1").Delete(&Service{}).Error)
	for _, s := range specs {
		service := Service{
			Name:          s.name,
			Price:         100,
			CategoryID:    fx.Category.ID,
			ProviderID:    fx.Provider.ID,
			AverageRating: s.rating,
			NumReviews:    s.reviews,
		}
		require.NoError(t, conn.Create(&service).Error)
	}

	featured, err := FeaturedServices(conn)
	require.NoError(t, err)
	require.Len(t, featured, FeaturedCount)

	var names []string
	for _, s := range featured {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"E", "B", "A", "C"}, names)
}
