package address

import "context"

// Province is a top-level administrative division
type Province struct {
	ProvinceID int    `json:"province_id"`
	Name       string `json:"name"`
}

// District is a second-level division within a province
type District struct {
	DistrictID int    `json:"district_id"`
	ProvinceID int    `json:"province_id"`
	Name       string `json:"name"`
}

// Ward is the finest-grained division, addressed by provider code
type Ward struct {
	WardCode   string `json:"ward_code"`
	DistrictID int    `json:"district_id"`
	Name       string `json:"name"`
}

// GeoService resolves the administrative division tree used to pick a
// deliverable destination
type GeoService interface {
	Provinces(ctx context.Context) ([]Province, error)
	Districts(ctx context.Context, provinceID int) ([]District, error)
	Wards(ctx context.Context, districtID int) ([]Ward, error)
}
