package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	Orders struct {
		IDPrefix    string `yaml:"id_prefix"`
		MinQuantity int    `yaml:"min_quantity"`
		MaxQuantity int    `yaml:"max_quantity"`
	} `yaml:"orders"`
	Roles struct {
		StaffIDs []string `yaml:"staff_ids"`
		OwnerIDs []string `yaml:"owner_ids"`
	} `yaml:"roles"`
	// Payments holds fallback destinations used when no payment_methods row
	// exists for a method.
	Payments struct {
		Paypal string `yaml:"paypal"`
		BTC    string `yaml:"btc"`
		ETH    string `yaml:"eth"`
		LTC    string `yaml:"ltc"`
		USDT   string `yaml:"usdt"`
		SOL    string `yaml:"sol"`
		Card   string `yaml:"card"`
	} `yaml:"payments"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Server.Addr == "" {
		return nil, errors.New("server.addr is required")
	}
	if cfg.DB.DSN == "" {
		return nil, errors.New("db.dsn is required")
	}
	if cfg.Orders.MinQuantity < 1 || cfg.Orders.MaxQuantity < cfg.Orders.MinQuantity {
		return nil, errors.New("orders quantity bounds are invalid")
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Orders.IDPrefix == "" {
		cfg.Orders.IDPrefix = "NC"
	}
	if cfg.Orders.MinQuantity == 0 {
		cfg.Orders.MinQuantity = 1
	}
	if cfg.Orders.MaxQuantity == 0 {
		cfg.Orders.MaxQuantity = 100
	}
	if cfg.Redis.TTLSeconds == 0 {
		cfg.Redis.TTLSeconds = 60
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "shop_events"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_TTL_SECONDS"); v != "" {
		cfg.Redis.TTLSeconds = atoiOr(cfg.Redis.TTLSeconds, v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitCommaList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("ORDER_ID_PREFIX"); v != "" {
		cfg.Orders.IDPrefix = v
	}
	if v := os.Getenv("ORDER_MIN_QUANTITY"); v != "" {
		cfg.Orders.MinQuantity = atoiOr(cfg.Orders.MinQuantity, v)
	}
	if v := os.Getenv("ORDER_MAX_QUANTITY"); v != "" {
		cfg.Orders.MaxQuantity = atoiOr(cfg.Orders.MaxQuantity, v)
	}
	if v := os.Getenv("STAFF_IDS"); v != "" {
		cfg.Roles.StaffIDs = splitCommaList(v)
	}
	if v := os.Getenv("OWNER_IDS"); v != "" {
		cfg.Roles.OwnerIDs = splitCommaList(v)
	}
	if v := os.Getenv("PAYPAL_ADDRESS"); v != "" {
		cfg.Payments.Paypal = v
	}
	if v := os.Getenv("BTC_ADDRESS"); v != "" {
		cfg.Payments.BTC = v
	}
	if v := os.Getenv("ETH_ADDRESS"); v != "" {
		cfg.Payments.ETH = v
	}
	if v := os.Getenv("LTC_ADDRESS"); v != "" {
		cfg.Payments.LTC = v
	}
	if v := os.Getenv("USDT_ADDRESS"); v != "" {
		cfg.Payments.USDT = v
	}
	if v := os.Getenv("SOL_ADDRESS"); v != "" {
		cfg.Payments.SOL = v
	}
	if v := os.Getenv("CARD_ADDRESS"); v != "" {
		cfg.Payments.Card = v
	}
}

// FallbackAddress returns the configured static destination for a method,
// or "" when none is configured.
func (c *Config) FallbackAddress(method string) string {
	switch strings.ToLower(method) {
	case "paypal":
		return c.Payments.Paypal
	case "btc":
		return c.Payments.BTC
	case "eth":
		return c.Payments.ETH
	case "ltc":
		return c.Payments.LTC
	case "usdt":
		return c.Payments.USDT
	case "sol":
		return c.Payments.SOL
	case "card":
		return c.Payments.Card
	}
	return ""
}

func splitCommaList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func atoiOr(fallback int, v string) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
