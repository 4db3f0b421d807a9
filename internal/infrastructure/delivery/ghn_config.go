package delivery

import "errors"

// GHNConfig holds configuration for the GHN (Giao Hang Nhanh) delivery API
type GHNConfig struct {
	// BaseURL is the API endpoint (production or sandbox)
	BaseURL string
	// Token is the API token issued by GHN
	Token string
	// ShopID identifies the sending shop registered with GHN
	ShopID int
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

const (
	// GHNProductionAPIURL is the production API endpoint
	GHNProductionAPIURL = "https://online-gateway.ghn.vn/shiip/public-api"
	// GHNSandboxAPIURL is the sandbox API endpoint
	GHNSandboxAPIURL = "https://dev-online-gateway.ghn.vn/shiip/public-api"
)

// Errors for GHN configuration
var (
	ErrGHNConfigMissingToken  = errors.New("ghn: token is required")
	ErrGHNConfigMissingShopID = errors.New("ghn: shop ID is required")
)

// NewGHNConfig creates a GHN configuration with production defaults
func NewGHNConfig(token string, shopID int) *GHNConfig {
	return &GHNConfig{
		BaseURL:        GHNProductionAPIURL,
		Token:          token,
		ShopID:         shopID,
		TimeoutSeconds: 10,
	}
}

// Validate validates the GHN configuration and fills defaults
func (c *GHNConfig) Validate() error {
	if c.Token == "" {
		return ErrGHNConfigMissingToken
	}
	if c.ShopID <= 0 {
		return ErrGHNConfigMissingShopID
	}
	if c.BaseURL == "" {
		c.BaseURL = GHNProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	return nil
}
