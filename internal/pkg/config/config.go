package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, pricing policy, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Kafka   KafkaConfig
	Cache   CacheConfig
	Pricing PricingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	Timeout  time.Duration `envconfig:"DB_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"America/Port-au-Prince"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"-18000"` // -5*60*60
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

type KafkaConfig struct {
	Brokers       []string `envconfig:"KAFKA_BROKERS" default:""`
	OrdersTopic   string   `envconfig:"KAFKA_ORDERS_TOPIC" default:"orders.confirmed"`
	LoyaltyTopic  string   `envconfig:"KAFKA_LOYALTY_TOPIC" default:"loyalty.events"`
	ConsumerGroup string   `envconfig:"KAFKA_CONSUMER_GROUP" default:"loyalty-engine"`
}

// Enabled reports whether event ingestion/publication is configured at all.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Brokers[0] != ""
}

type CacheConfig struct {
	// Dir is the pebble directory for the balance read-through cache.
	// Empty means an in-memory store (tests, single-process dev).
	Dir string `envconfig:"CACHE_DIR" default:""`
}

// PricingConfig carries the pricing policy constants. Monetary values are in
// cents of the store currency (HTG): the documented 5000.00 free-shipping
// threshold is 500000 here.
type PricingConfig struct {
	TaxRate                    float64 `envconfig:"PRICING_TAX_RATE" default:"0.15" yaml:"tax_rate"`
	FreeShippingThresholdCents int64   `envconfig:"PRICING_FREE_SHIPPING_THRESHOLD_CENTS" default:"500000" yaml:"free_shipping_threshold_cents"`
	FlatShippingFeeCents       int64   `envconfig:"PRICING_FLAT_SHIPPING_FEE_CENTS" default:"50000" yaml:"flat_shipping_fee_cents"`
	PointValueCents            int64   `envconfig:"PRICING_POINT_VALUE_CENTS" default:"10" yaml:"point_value_cents"`
	MaxPointsRedemptionFraction float64 `envconfig:"PRICING_MAX_POINTS_REDEMPTION_FRACTION" default:"0.5" yaml:"max_points_redemption_fraction"`
	AccrualUnitCents           int64   `envconfig:"PRICING_ACCRUAL_UNIT_CENTS" default:"10000" yaml:"accrual_unit_cents"` // 1 point per 100.00 spent
	// PolicyFile optionally overrides the values above from a YAML file.
	PolicyFile string `envconfig:"PRICING_POLICY_FILE" default:"" yaml:"-"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Pricing.applyPolicyFile(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyPolicyFile merges overrides from the YAML policy file, if configured.
// A missing file is a configuration fault, not a silent default.
func (p *PricingConfig) applyPolicyFile() error {
	if p.PolicyFile == "" {
		return nil
	}
	data, err := os.ReadFile(p.PolicyFile)
	if err != nil {
		return fmt.Errorf("failed to read pricing policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("failed to parse pricing policy file: %w", err)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			Timeout:  5 * time.Second,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "America/Port-au-Prince",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: -18000,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Pricing: PricingConfig{
			TaxRate:                     0.15,
			FreeShippingThresholdCents:  500000,
			FlatShippingFeeCents:        50000,
			PointValueCents:             10,
			MaxPointsRedemptionFraction: 0.5,
			AccrualUnitCents:            10000,
		},
	}
}
