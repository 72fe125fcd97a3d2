package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gorm.io/gorm"
)

// ScheduleEntry is one weekly availability window, e.g. {"Monday","09:00","17:00"}.
type ScheduleEntry struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Schedule is stored as a JSON column.
type Schedule []ScheduleEntry

func (s Schedule) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *Schedule) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Schedule: unsupported type %T", value)
	}
	return json.Unmarshal(data, s)
}

// Provider is the business side of a provider-role user. A user registering
// with the provider role gets one of these with default profile fields; the
// account cannot take bookings until an admin flips IsApproved.
type Provider struct {
	gorm.Model
	UserID       uint     `json:"user_id" gorm:"uniqueIndex"`
	User         User     `json:"user" gorm:"foreignKey:UserID"`
	CompanyName  string   `json:"company_name"`
	Description  string   `json:"description"`
	Availability string   `json:"availability" gorm:"default:Mon-Fri, 9am-5pm"`
	Schedule     Schedule `json:"schedule" gorm:"type:text"`
	IsApproved   bool     `json:"is_approved" gorm:"default:false"`
	Longitude    float64  `json:"longitude"`
	Latitude     float64  `json:"latitude"`
}

// DistanceTo returns the great-circle distance in kilometers from the
// provider's stored location to the given point.
func (p *Provider) DistanceTo(lng, lat float64) float64 {
	return geo.Distance(orb.Point{p.Longitude, p.Latitude}, orb.Point{lng, lat}) / 1000.0
}

// ProvidersNear returns approved providers within radiusKM of the point,
// closest first. The bounding query is done in SQL with a coarse degree box,
// the exact distance filter with orb.
func ProvidersNear(db *gorm.DB, lng, lat, radiusKM float64) ([]Provider, []float64, error) {
	// one degree of latitude is ~111km; widen the box a little for longitude
	delta := radiusKM/111.0 + 0.5

	var candidates []Provider
	err := db.Preload("User").
		Where("is_approved = ?", true).
		Where("latitude BETWEEN ? AND ?", lat-delta, lat+delta).
		Where("longitude BETWEEN ? AND ?", lng-delta, lng+delta).
		Find(&candidates).Error
	if err != nil {
		return nil, nil, err
	}

	var providers []Provider
	var distances []float64
	for i := range candidates {
		d := candidates[i].DistanceTo(lng, lat)
		if d <= radiusKM {
			providers = append(providers, candidates[i])
			distances = append(distances, d)
		}
	}

	// insertion sort by distance; candidate sets are small
	for i := 1; i < len(providers); i++ {
		for j := i; j > 0 && distances[j] < distances[j-1]; j-- {
			distances[j], distances[j-1] = distances[j-1], distances[j]
			providers[j], providers[j-1] = providers[j-1], providers[j]
		}
	}
	return providers, distances, nil
}
