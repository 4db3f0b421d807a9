package valueobject

import (
	"encoding/json"
	"fmt"
)

// Destination is a value object holding the resolved geographic codes a
// shipping-fee quote requires. Free-text address lines are never quoted
// against; the geo service resolves them to these identifiers first.
type Destination struct {
	provinceID int
	districtID int
	wardCode   string
}

// NewDestination creates a Destination from resolved geo identifiers
func NewDestination(provinceID, districtID int, wardCode string) (Destination, error) {
	if provinceID <= 0 {
		return Destination{}, fmt.Errorf("province ID must be positive, got %d", provinceID)
	}
	if districtID <= 0 {
		return Destination{}, fmt.Errorf("district ID must be positive, got %d", districtID)
	}
	if wardCode == "" {
		return Destination{}, fmt.Errorf("ward code cannot be empty")
	}
	return Destination{
		provinceID: provinceID,
		districtID: districtID,
		wardCode:   wardCode,
	}, nil
}

// EmptyDestination returns an unresolved destination
func EmptyDestination() Destination {
	return Destination{}
}

// ProvinceID returns the resolved province identifier
func (d Destination) ProvinceID() int {
	return d.provinceID
}

// DistrictID returns the resolved district identifier
func (d Destination) DistrictID() int {
	return d.districtID
}

// WardCode returns the resolved ward code
func (d Destination) WardCode() string {
	return d.wardCode
}

// IsResolved returns true if district and ward identifiers are present,
// which is the minimum a delivery-fee quote needs
func (d Destination) IsResolved() bool {
	return d.districtID > 0 && d.wardCode != ""
}

// Equals returns true if both destinations carry the same identifiers
func (d Destination) Equals(other Destination) bool {
	return d.provinceID == other.provinceID &&
		d.districtID == other.districtID &&
		d.wardCode == other.wardCode
}

// SameShippingRegion returns true if both destinations resolve to the same
// (district, ward) pair, i.e. a quote for one is valid for the other
func (d Destination) SameShippingRegion(other Destination) bool {
	return d.districtID == other.districtID && d.wardCode == other.wardCode
}

// String returns a compact representation for logging
func (d Destination) String() string {
	return fmt.Sprintf("province=%d district=%d ward=%s", d.provinceID, d.districtID, d.wardCode)
}

type destinationJSON struct {
	ProvinceID int    `json:"province_id"`
	DistrictID int    `json:"district_id"`
	WardCode   string `json:"ward_code"`
}

// MarshalJSON implements json.Marshaler
func (d Destination) MarshalJSON() ([]byte, error) {
	return json.Marshal(destinationJSON{
		ProvinceID: d.provinceID,
		DistrictID: d.districtID,
		WardCode:   d.wardCode,
	})
}

// UnmarshalJSON implements json.Unmarshaler
// An all-zero payload unmarshals to an empty (unresolved) destination
func (d *Destination) UnmarshalJSON(data []byte) error {
	var v destinationJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.ProvinceID == 0 && v.DistrictID == 0 && v.WardCode == "" {
		*d = EmptyDestination()
		return nil
	}
	dest, err := NewDestination(v.ProvinceID, v.DistrictID, v.WardCode)
	if err != nil {
		return err
	}
	*d = dest
	return nil
}
