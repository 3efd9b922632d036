package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/alt-contracting/invoicing/internal/models"
)

// Config holds process configuration. Precedence per value: environment
// variable, then the company profile file, then the shipped default.
type Config struct {
	Port       string
	Env        string
	LedgerPath string
	Company    models.CompanyProfile
}

// Load reads configuration from the environment (with .env as a
// convenience) and the optional company profile file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LEDGER_PATH", "invoices_history.csv")
	v.SetDefault("COMPANY_CONFIG", "company.yaml")
	v.AutomaticEnv()

	cfg := &Config{
		Port:       v.GetString("PORT"),
		Env:        v.GetString("APP_ENV"),
		LedgerPath: v.GetString("LEDGER_PATH"),
		Company:    defaultProfile(),
	}
	if err := loadProfileFile(v.GetString("COMPANY_CONFIG"), &cfg.Company); err != nil {
		return nil, err
	}
	overrideProfileFromEnv(&cfg.Company)
	return cfg, nil
}

// defaultProfile is the letterhead the product shipped with.
func defaultProfile() models.CompanyProfile {
	return models.CompanyProfile{
		Name:       "ALT CONTRACTING",
		Website:    "www.alt-contracting.ca",
		Phone:      "647 865 8176 - Toronto ON",
		TaxID:      "GST/HST: 79688 3338 Evaldo Alberto Althoff",
		Email:      "e.alt.contracting@gmail.com",
		SignerName: "Evaldo A. Althoff",
		LogoPath:   "Alt Contracting Logo.png",
	}
}

// loadProfileFile overlays non-empty values from the YAML profile onto p.
// A missing file is fine; a file that exists but does not parse is a
// startup error.
func loadProfileFile(path string, p *models.CompanyProfile) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	pv := viper.New()
	pv.SetConfigFile(path)
	if err := pv.ReadInConfig(); err != nil {
		return fmt.Errorf("read company profile %s: %w", path, err)
	}
	set := func(key string, dst *string) {
		if s := pv.GetString(key); s != "" {
			*dst = s
		}
	}
	set("name", &p.Name)
	set("website", &p.Website)
	set("phone", &p.Phone)
	set("tax_id", &p.TaxID)
	set("email", &p.Email)
	set("signer_name", &p.SignerName)
	set("logo", &p.LogoPath)
	return nil
}

func overrideProfileFromEnv(p *models.CompanyProfile) {
	set := func(key string, dst *string) {
		if s := os.Getenv(key); s != "" {
			*dst = s
		}
	}
	set("COMPANY_NAME", &p.Name)
	set("COMPANY_WEBSITE", &p.Website)
	set("COMPANY_PHONE", &p.Phone)
	set("COMPANY_TAX_ID", &p.TaxID)
	set("COMPANY_EMAIL", &p.Email)
	set("COMPANY_SIGNER", &p.SignerName)
	set("COMPANY_LOGO", &p.LogoPath)
}
