package delivery

import "encoding/json"

// ghnEnvelope is the wire envelope every GHN response uses
type ghnEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// IsSuccess reports whether the API call succeeded
func (e *ghnEnvelope) IsSuccess() bool {
	return e.Code == 200
}

// ghnFeeRequest is the calculate-fee request body
type ghnFeeRequest struct {
	ServiceTypeID int    `json:"service_type_id"`
	ToDistrictID  int    `json:"to_district_id"`
	ToWardCode    string `json:"to_ward_code"`
	WeightGrams   int64  `json:"weight"`
}

// ghnFeeData is the calculate-fee response payload
type ghnFeeData struct {
	Total        int64 `json:"total"`
	ServiceFee   int64 `json:"service_fee"`
	InsuranceFee int64 `json:"insurance_fee"`
}

// ghnProvince is a province entry from the master-data API
type ghnProvince struct {
	ProvinceID   int    `json:"ProvinceID"`
	ProvinceName string `json:"ProvinceName"`
}

// ghnDistrict is a district entry from the master-data API
type ghnDistrict struct {
	DistrictID   int    `json:"DistrictID"`
	ProvinceID   int    `json:"ProvinceID"`
	DistrictName string `json:"DistrictName"`
}

// ghnWard is a ward entry from the master-data API
type ghnWard struct {
	WardCode   string `json:"WardCode"`
	DistrictID int    `json:"DistrictID"`
	WardName   string `json:"WardName"`
}

// ghnDistrictRequest scopes the district listing to one province
type ghnDistrictRequest struct {
	ProvinceID int `json:"province_id"`
}

// ghnWardRequest scopes the ward listing to one district
type ghnWardRequest struct {
	DistrictID int `json:"district_id"`
}
