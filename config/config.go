// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"proposalgen/services"
)

// Config holds runtime configuration for the proposal service.
type Config struct {
	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"./excel_templates"`
	CompanyName  string `envconfig:"COMPANY_NAME" default:"Clean Street EV"`

	DefaultEVSEMargin    float64 `envconfig:"DEFAULT_EVSE_MARGIN" default:"30"`
	DefaultCSMRCostBasis float64 `envconfig:"DEFAULT_CSMR_COST_BASIS" default:"70"`
	DefaultCSMRMargin    float64 `envconfig:"DEFAULT_CSMR_MARGIN" default:"35"`
	DefaultSalesTax      float64 `envconfig:"DEFAULT_SALES_TAX" default:"8"`
	DefaultNetworkYears  int     `envconfig:"DEFAULT_NETWORK_YEARS" default:"5"`
	DefaultProjectType   string  `envconfig:"DEFAULT_PROJECT_TYPE" default:"level2-epc"`
}

// Load reads configuration from PROPOSAL_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("proposal", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects defaults that would make every new proposal unpriceable.
func (c *Config) Validate() error {
	if _, err := services.ApplyMargin(1, c.DefaultEVSEMargin); err != nil {
		return fmt.Errorf("PROPOSAL_DEFAULT_EVSE_MARGIN: %w", err)
	}
	if _, err := services.ApplyMargin(1, c.DefaultCSMRMargin); err != nil {
		return fmt.Errorf("PROPOSAL_DEFAULT_CSMR_MARGIN: %w", err)
	}
	if c.DefaultCSMRCostBasis < 0 || c.DefaultCSMRCostBasis > 100 {
		return fmt.Errorf("PROPOSAL_DEFAULT_CSMR_COST_BASIS must be within 0-100, got %g", c.DefaultCSMRCostBasis)
	}
	switch c.DefaultNetworkYears {
	case 0, 1, 3, 5:
	default:
		return fmt.Errorf("PROPOSAL_DEFAULT_NETWORK_YEARS must be 0, 1, 3 or 5, got %d", c.DefaultNetworkYears)
	}
	if !services.ProjectType(c.DefaultProjectType).Valid() {
		return fmt.Errorf("PROPOSAL_DEFAULT_PROJECT_TYPE %q is not a known project type", c.DefaultProjectType)
	}
	return nil
}

// PricingDefaults returns the pricing settings new proposals start from.
func (c *Config) PricingDefaults() services.PricingSettings {
	return services.PricingSettings{
		EVSEMarginPercent:    c.DefaultEVSEMargin,
		CSMRCostBasisPercent: c.DefaultCSMRCostBasis,
		CSMRMarginPercent:    c.DefaultCSMRMargin,
		SalesTaxRate:         c.DefaultSalesTax,
	}
}

// NewProposal returns an empty proposal carrying the configured defaults.
func (c *Config) NewProposal() services.Proposal {
	return services.NewProposal(services.ProjectType(c.DefaultProjectType), c.PricingDefaults(), c.DefaultNetworkYears)
}
