package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/x67digital/marketplace/internal/domain"
)

type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	MaxDBConns             int32
	KafkaTopicAdEvents     string
	KafkaTopicPayments     string
	KafkaTopicNotification string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	NotifyQueueSize    int

	JWTSecret         string
	OperatorRecipient string

	VivaAccountsURL  string
	VivaAPIURL       string
	VivaCheckoutURL  string
	VivaClientID     string
	VivaClientSecret string
	VivaSourceCode   string
	WebhookKey       string

	PricePostAdMinor  int64
	PriceBoostMinor   int64
	PricePromoteMinor int64

	TopUpCooldown         time.Duration
	TopUpCooldownReferral time.Duration
	BoostDuration         time.Duration
	PromoteDuration       time.Duration
	PromotedCacheTTL      time.Duration

	Categories []domain.Category
	Cities     []domain.City
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL            string   `yaml:"postgres_url"`
		RedisURL               string   `yaml:"redis_url"`
		KafkaBrokers           []string `yaml:"kafka_brokers"`
		KafkaTopicAdEvents     string   `yaml:"kafka_topic_ad_events"`
		KafkaTopicPayments     string   `yaml:"kafka_topic_payments"`
		KafkaTopicNotification string   `yaml:"kafka_topic_notifications"`
	} `yaml:"dependencies"`
	Gateway struct {
		AccountsURL  string `yaml:"accounts_url"`
		APIURL       string `yaml:"api_url"`
		CheckoutURL  string `yaml:"checkout_url"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		SourceCode   string `yaml:"source_code"`
		WebhookKey   string `yaml:"webhook_key"`
	} `yaml:"gateway"`
	Reference struct {
		Categories []domain.Category `yaml:"categories"`
		Cities     []domain.City     `yaml:"cities"`
	} `yaml:"reference"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:              "marketplace-api",
		HTTPPort:               8080,
		MaxDBConns:             20,
		KafkaTopicAdEvents:     "marketplace.ad-events",
		KafkaTopicPayments:     "marketplace.payment-events",
		KafkaTopicNotification: "marketplace.notifications",
		OutboxPollInterval:     2 * time.Second,
		OutboxBatchSize:        100,
		NotifyQueueSize:        256,
		OperatorRecipient:      "operators",
		VivaAccountsURL:        "https://demo-accounts.vivapayments.com",
		VivaAPIURL:             "https://demo-api.vivapayments.com",
		VivaCheckoutURL:        "https://demo.vivapayments.com",
		PricePostAdMinor:       1140,
		PriceBoostMinor:        700,
		PricePromoteMinor:      2999,
		TopUpCooldown:          60 * time.Minute,
		TopUpCooldownReferral:  40 * time.Minute,
		BoostDuration:          24 * time.Hour,
		PromoteDuration:        7 * 24 * time.Hour,
		PromotedCacheTTL:       time.Minute,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaTopicAdEvents != "" {
			cfg.KafkaTopicAdEvents = f.Dependencies.KafkaTopicAdEvents
		}
		if f.Dependencies.KafkaTopicPayments != "" {
			cfg.KafkaTopicPayments = f.Dependencies.KafkaTopicPayments
		}
		if f.Dependencies.KafkaTopicNotification != "" {
			cfg.KafkaTopicNotification = f.Dependencies.KafkaTopicNotification
		}
		if f.Gateway.AccountsURL != "" {
			cfg.VivaAccountsURL = f.Gateway.AccountsURL
		}
		if f.Gateway.APIURL != "" {
			cfg.VivaAPIURL = f.Gateway.APIURL
		}
		if f.Gateway.CheckoutURL != "" {
			cfg.VivaCheckoutURL = f.Gateway.CheckoutURL
		}
		cfg.VivaClientID = f.Gateway.ClientID
		cfg.VivaClientSecret = f.Gateway.ClientSecret
		cfg.VivaSourceCode = f.Gateway.SourceCode
		cfg.WebhookKey = f.Gateway.WebhookKey
		if len(f.Reference.Categories) > 0 {
			cfg.Categories = f.Reference.Categories
		}
		if len(f.Reference.Cities) > 0 {
			cfg.Cities = f.Reference.Cities
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopicAdEvents = envOrDefault("KAFKA_TOPIC_AD_EVENTS", cfg.KafkaTopicAdEvents)
	cfg.KafkaTopicPayments = envOrDefault("KAFKA_TOPIC_PAYMENTS", cfg.KafkaTopicPayments)
	cfg.KafkaTopicNotification = envOrDefault("KAFKA_TOPIC_NOTIFICATIONS", cfg.KafkaTopicNotification)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.NotifyQueueSize = envInt("NOTIFY_QUEUE_SIZE", cfg.NotifyQueueSize)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.OperatorRecipient = envOrDefault("OPERATOR_RECIPIENT", cfg.OperatorRecipient)
	cfg.VivaAccountsURL = envOrDefault("VIVA_ACCOUNTS_URL", cfg.VivaAccountsURL)
	cfg.VivaAPIURL = envOrDefault("VIVA_API_URL", cfg.VivaAPIURL)
	cfg.VivaCheckoutURL = envOrDefault("VIVA_CHECKOUT_URL", cfg.VivaCheckoutURL)
	cfg.VivaClientID = envOrDefault("VIVA_CLIENT_ID", cfg.VivaClientID)
	cfg.VivaClientSecret = envOrDefault("VIVA_CLIENT_SECRET", cfg.VivaClientSecret)
	cfg.VivaSourceCode = envOrDefault("VIVA_SOURCE_CODE", cfg.VivaSourceCode)
	cfg.WebhookKey = envOrDefault("VIVA_WEBHOOK_KEY", cfg.WebhookKey)
	cfg.PricePostAdMinor = int64(envInt("PRICE_POST_AD_MINOR", int(cfg.PricePostAdMinor)))
	cfg.PriceBoostMinor = int64(envInt("PRICE_BOOST_MINOR", int(cfg.PriceBoostMinor)))
	cfg.PricePromoteMinor = int64(envInt("PRICE_PROMOTE_MINOR", int(cfg.PricePromoteMinor)))
	cfg.TopUpCooldown = time.Duration(envInt("TOPUP_COOLDOWN_MINUTES", int(cfg.TopUpCooldown.Minutes()))) * time.Minute
	cfg.TopUpCooldownReferral = time.Duration(envInt("TOPUP_COOLDOWN_REFERRAL_MINUTES", int(cfg.TopUpCooldownReferral.Minutes()))) * time.Minute
	cfg.BoostDuration = time.Duration(envInt("BOOST_DURATION_HOURS", int(cfg.BoostDuration.Hours()))) * time.Hour
	cfg.PromoteDuration = time.Duration(envInt("PROMOTE_DURATION_HOURS", int(cfg.PromoteDuration.Hours()))) * time.Hour
	cfg.PromotedCacheTTL = time.Duration(envInt("PROMOTED_CACHE_SECONDS", int(cfg.PromotedCacheTTL.Seconds()))) * time.Second

	if len(cfg.Categories) == 0 {
		cfg.Categories = defaultCategories()
	}
	if len(cfg.Cities) == 0 {
		cfg.Cities = defaultCities()
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	return cfg, nil
}

func defaultCategories() []domain.Category {
	return []domain.Category{
		{ID: "electronics", Name: "Electronics"},
		{ID: "vehicles", Name: "Vehicles"},
		{ID: "real-estate", Name: "Real Estate"},
		{ID: "home-garden", Name: "Home & Garden"},
		{ID: "fashion", Name: "Fashion"},
		{ID: "jobs", Name: "Jobs"},
		{ID: "services", Name: "Services", ModerationRequired: true},
		{ID: "adult", Name: "Adult", ModerationRequired: true},
	}
}

func defaultCities() []domain.City {
	return []domain.City{
		{ID: "athens", Name: "Athens"},
		{ID: "thessaloniki", Name: "Thessaloniki"},
		{ID: "patras", Name: "Patras"},
		{ID: "heraklion", Name: "Heraklion"},
		{ID: "larissa", Name: "Larissa"},
	}
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
