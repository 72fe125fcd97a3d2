package models

import (
	"strings"

	"gorm.io/gorm"
)

// FeaturedCount is how many services the featured listing returns.
const FeaturedCount = 4

type Service struct {
	gorm.Model
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	PriceType     string   `json:"price_type" gorm:"default:starting_at"` // "fixed", "per_hour", "starting_at"
	Image         string   `json:"image"`
	CategoryID    uint     `json:"category_id"`
	Category      Category `json:"category" gorm:"foreignKey:CategoryID"`
	ProviderID    uint     `json:"provider_id"`
	Provider      Provider `json:"provider" gorm:"foreignKey:ProviderID"`
	AverageRating float64  `json:"average_rating" gorm:"default:0"`
	NumReviews    int64    `json:"num_reviews" gorm:"default:0"`
}

// ServiceFilter narrows the catalog listing. All set fields are combined
// with AND semantics.
type ServiceFilter struct {
	Keyword    string
	CategoryID uint
	ProviderID uint
	Page       int
	Limit      int
}

// ServicePage is one page of the catalog listing.
type ServicePage struct {
	Services []Service `json:"services"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Total    int64     `json:"total"`
}

// ListServices applies the filter with page/limit pagination. Keyword is a
// case-insensitive substring match on the service name.
func ListServices(db *gorm.DB, filter ServiceFilter) (*ServicePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 8
	}

	query := db.Model(&Service{})
	if filter.Keyword != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Keyword)+"%")
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ProviderID != 0 {
		query = query.Where("provider_id = ?", filter.ProviderID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, err
	}

	var services []Service
	err := query.
		Preload("Category").
		Preload("Provider.User").
		Limit(filter.Limit).
		Offset(filter.Limit * (filter.Page - 1)).
		Find(&services).Error
	if err != nil {
		return nil, err
	}

	return &ServicePage{
		Services: services,
		Page:     filter.Page,
		Pages:    int((count + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Total:    count,
	}, nil
}

// FeaturedServices returns the top-rated services, ties broken by review
// count, truncated to FeaturedCount.
func FeaturedServices(db *gorm.DB) ([]Service, error) {
	var services []Service
	err := db.
		Order("average_rating DESC, num_reviews DESC").
		Limit(FeaturedCount).
		Preload("Category").
		Find(&services).Error
	return services, err
}
