package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/address"
	"github.com/shopmall/backend/internal/domain/checkout"
	"github.com/shopmall/backend/internal/domain/shared/valueobject"
)

// Constants for the GHN API
const (
	// maxGHNResponseSize limits the response body size to prevent memory exhaustion
	maxGHNResponseSize = 10 * 1024 * 1024 // 10MB max response
	// standardServiceType is GHN's standard delivery tier
	standardServiceType = 2
)

// GHNClient talks to the GHN API. It serves both shipping fee quotes and the
// province/district/ward master data the address picker needs.
type GHNClient struct {
	config     *GHNConfig
	httpClient *http.Client
}

// NewGHNClient creates a GHN client with the given configuration
func NewGHNClient(config *GHNConfig) (*GHNClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &GHNClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Quote fetches one fee per seller shipment. GHN quotes one parcel at a time,
// so a multi-seller cart costs one API call per seller.
func (c *GHNClient) Quote(ctx context.Context, req checkout.QuoteRequest) (*checkout.QuoteResult, error) {
	result := &checkout.QuoteResult{
		Fees:  make(map[uuid.UUID]valueobject.Money, len(req.Shipments)),
		Total: valueobject.ZeroVND(),
	}

	for _, shipment := range req.Shipments {
		fee, err := c.calculateFee(ctx, ghnFeeRequest{
			ServiceTypeID: standardServiceType,
			ToDistrictID:  req.DistrictID,
			ToWardCode:    req.WardCode,
			WeightGrams:   shipment.WeightGrams,
		})
		if err != nil {
			return nil, err
		}
		money := valueobject.NewMoneyVNDFromInt(fee)
		result.Fees[shipment.SellerID] = money
		result.Total = result.Total.MustAdd(money)
	}

	return result, nil
}

// Provinces lists all provinces
func (c *GHNClient) Provinces(ctx context.Context) ([]address.Province, error) {
	body, err := c.doRequest(ctx, "/master-data/province", nil)
	if err != nil {
		return nil, err
	}

	var entries []ghnProvince
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("ghn: failed to parse provinces: %w", err)
	}

	provinces := make([]address.Province, len(entries))
	for i, entry := range entries {
		provinces[i] = address.Province{
			ProvinceID: entry.ProvinceID,
			Name:       entry.ProvinceName,
		}
	}
	return provinces, nil
}

// Districts lists the districts of one province
func (c *GHNClient) Districts(ctx context.Context, provinceID int) ([]address.District, error) {
	body, err := c.doRequest(ctx, "/master-data/district", ghnDistrictRequest{ProvinceID: provinceID})
	if err != nil {
		return nil, err
	}

	var entries []ghnDistrict
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("ghn: failed to parse districts: %w", err)
	}

	districts := make([]address.District, len(entries))
	for i, entry := range entries {
		districts[i] = address.District{
			DistrictID: entry.DistrictID,
			ProvinceID: entry.ProvinceID,
			Name:       entry.DistrictName,
		}
	}
	return districts, nil
}

// Wards lists the wards of one district
func (c *GHNClient) Wards(ctx context.Context, districtID int) ([]address.Ward, error) {
	body, err := c.doRequest(ctx, "/master-data/ward", ghnWardRequest{DistrictID: districtID})
	if err != nil {
		return nil, err
	}

	var entries []ghnWard
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("ghn: failed to parse wards: %w", err)
	}

	wards := make([]address.Ward, len(entries))
	for i, entry := range entries {
		wards[i] = address.Ward{
			WardCode:   entry.WardCode,
			DistrictID: entry.DistrictID,
			Name:       entry.WardName,
		}
	}
	return wards, nil
}

func (c *GHNClient) calculateFee(ctx context.Context, feeReq ghnFeeRequest) (int64, error) {
	body, err := c.doRequest(ctx, "/v2/shipping-order/fee", feeReq)
	if err != nil {
		return 0, err
	}

	var data ghnFeeData
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, fmt.Errorf("ghn: failed to parse fee response: %w", err)
	}
	return data.Total, nil
}

func (c *GHNClient) doRequest(ctx context.Context, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ghn: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ghn: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", c.config.Token)
	req.Header.Set("ShopId", strconv.Itoa(c.config.ShopID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ghn: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGHNResponseSize))
	if err != nil {
		return nil, fmt.Errorf("ghn: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("ghn: HTTP %d", resp.StatusCode)
	}

	var envelope ghnEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("ghn: failed to parse response: %w", err)
	}
	if !envelope.IsSuccess() {
		return nil, fmt.Errorf("ghn: API error %d: %s", envelope.Code, envelope.Message)
	}
	return envelope.Data, nil
}

var (
	_ checkout.DeliveryFeeService = (*GHNClient)(nil)
	_ address.GeoService          = (*GHNClient)(nil)
)
