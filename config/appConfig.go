package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gopointsync_api/config/values"
)

type Config interface {
}

type BoxberryConfig struct {
	Token       string `yaml:"token"`
	CityNames   string `yaml:"city_names"`
	RegionNames string `yaml:"region_names"`
}

func (bc *BoxberryConfig) Cities() []string {
	return splitList(bc.CityNames)
}

func (bc *BoxberryConfig) Regions() []string {
	return splitList(bc.RegionNames)
}

type YandexMarketConfig struct {
	Token      string `yaml:"oauth_token"`
	ClientID   string `yaml:"oauth_client_id"`
	CampaignID string `yaml:"campaign_id"`
	Emails     string `yaml:"emails"`
}

func (yc *YandexMarketConfig) EmailList() []string {
	return splitList(yc.Emails)
}

type AppConfig struct {
	Boxberry     BoxberryConfig     `yaml:"boxberry"`
	YandexMarket YandexMarketConfig `yaml:"yandexmarket"`
	Sync         values.SyncValues  `yaml:"sync"`
	Postgres     PostgresConfig     `yaml:"postgres"`
	LogFileName  string             `yaml:"log_file_name"`
	MetricsAddr  string             `yaml:"metrics_addr"`
}

func LoadConfig(filename string) (*AppConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	config := &AppConfig{}
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return config, nil
}

func (c *AppConfig) applyDefaults() {
	if c.LogFileName == "" {
		c.LogFileName = "all_log.log"
	}
	if c.Sync.Attempts <= 0 {
		c.Sync.Attempts = 5
	}
	if c.Sync.DeliveryWindowDays <= 0 {
		c.Sync.DeliveryWindowDays = 2
	}
	if c.Sync.ParcelWeight <= 0 {
		c.Sync.ParcelWeight = 1
	}
}

// Validate -- единственный фатальный путь: без обязательных ключей
// не делаем ни одного сетевого вызова.
func (c *AppConfig) Validate() error {
	var missing []string
	if c.Boxberry.Token == "" {
		missing = append(missing, "boxberry.token")
	}
	if c.YandexMarket.Token == "" {
		missing = append(missing, "yandexmarket.oauth_token")
	}
	if c.YandexMarket.ClientID == "" {
		missing = append(missing, "yandexmarket.oauth_client_id")
	}
	if c.YandexMarket.CampaignID == "" {
		missing = append(missing, "yandexmarket.campaign_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
