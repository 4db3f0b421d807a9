package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDestination(t *testing.T) {
	tests := []struct {
		name       string
		provinceID int
		districtID int
		wardCode   string
		wantErr    bool
	}{
		{"valid", 201, 1442, "21211", false},
		{"zero province", 0, 1442, "21211", true},
		{"zero district", 201, 0, "21211", true},
		{"empty ward", 201, 1442, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDestination(tt.provinceID, tt.districtID, tt.wardCode)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.IsResolved())
			assert.Equal(t, tt.districtID, d.DistrictID())
			assert.Equal(t, tt.wardCode, d.WardCode())
		})
	}
}

func TestDestination_IsResolved(t *testing.T) {
	assert.False(t, EmptyDestination().IsResolved())

	d, err := NewDestination(201, 1442, "21211")
	require.NoError(t, err)
	assert.True(t, d.IsResolved())
}

func TestDestination_SameShippingRegion(t *testing.T) {
	a, err := NewDestination(201, 1442, "21211")
	require.NoError(t, err)
	b, err := NewDestination(202, 1442, "21211")
	require.NoError(t, err)
	c, err := NewDestination(201, 1443, "21211")
	require.NoError(t, err)

	assert.True(t, a.SameShippingRegion(b))
	assert.False(t, a.SameShippingRegion(c))
}

func TestDestination_JSONRoundTrip(t *testing.T) {
	d, err := NewDestination(201, 1442, "21211")
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var parsed Destination
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, d.Equals(parsed))
}

func TestDestination_UnmarshalEmpty(t *testing.T) {
	var d Destination
	require.NoError(t, json.Unmarshal([]byte(`{"province_id":0,"district_id":0,"ward_code":""}`), &d))
	assert.False(t, d.IsResolved())
}
