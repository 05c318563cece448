package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvPrefix = "REGIONRANK"

type QualityWeightsConfig struct {
	CommercialActivity float64 `mapstructure:"commercial_activity"`
	Specialization     float64 `mapstructure:"specialization"`
	Demographic        float64 `mapstructure:"demographic"`
	EconomicPower      float64 `mapstructure:"economic_power"`
}

type MatchingWeightsConfig struct {
	Demographic float64 `mapstructure:"demographic"`
	Consumption float64 `mapstructure:"consumption"`
	Income      float64 `mapstructure:"income"`
	Industry    float64 `mapstructure:"industry"`
}

type WeightsConfig struct {
	Quality  QualityWeightsConfig  `mapstructure:"quality"`
	Matching MatchingWeightsConfig `mapstructure:"matching"`
}

type CatalogConfig struct {
	Source   string        `mapstructure:"source"`
	Path     string        `mapstructure:"path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the connection string understood by pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type OutputConfig struct {
	Format       string             `mapstructure:"format"`
	Path         string             `mapstructure:"path"`
	Folder       string             `mapstructure:"folder"`
	Destination  string             `mapstructure:"destination"`
	Topic        string             `mapstructure:"topic"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
}

type KafkaConfig struct {
	BrokerList       string `mapstructure:"broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`
}

type Config struct {
	LogLevel             string            `mapstructure:"log_level"`
	LogDevelopment       bool              `mapstructure:"log_development"`
	TopN                 int               `mapstructure:"top_n"`
	Workers              int               `mapstructure:"workers"`
	CombineMode          string            `mapstructure:"combine_mode"`
	AverageQualityWeight float64           `mapstructure:"average_quality_weight"`
	Weights              WeightsConfig     `mapstructure:"weights"`
	IndustryAliases      map[string]string `mapstructure:"industry_aliases"`
	Catalog              CatalogConfig     `mapstructure:"catalog"`
	Database             DatabaseConfig    `mapstructure:"database"`
	Output               OutputConfig      `mapstructure:"output"`
	Kafka                KafkaConfig       `mapstructure:"kafka"`
	MetricsFile          string            `mapstructure:"metrics_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("workers", 0)
	v.SetDefault("combine_mode", CombineMultiplicative)
	v.SetDefault("average_quality_weight", 0.5)

	v.SetDefault("weights.quality.commercial_activity", 0.30)
	v.SetDefault("weights.quality.specialization", 0.25)
	v.SetDefault("weights.quality.demographic", 0.20)
	v.SetDefault("weights.quality.economic_power", 0.25)
	v.SetDefault("weights.matching.demographic", 0.40)
	v.SetDefault("weights.matching.consumption", 0.35)
	v.SetDefault("weights.matching.income", 0.15)
	v.SetDefault("weights.matching.industry", 0.10)

	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "regions.json")
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "regionrank")
	v.SetDefault("database.password", "regionrank")
	v.SetDefault("database.dbname", "regionrank")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("output.format", OutputFormatConsole)
	v.SetDefault("output.path", "")
	v.SetDefault("output.folder", "recommendations")
	v.SetDefault("output.destination", OutputDestinationLocal)
	v.SetDefault("output.topic", RecommendationTopic)
	v.SetDefault("output.cloud_storage.provider", CloudProviderS3)
	v.SetDefault("output.cloud_storage.bucket_name", "")
	v.SetDefault("output.cloud_storage.region", "us-east-1")

	v.SetDefault("kafka.broker_list", "localhost:9092")
	v.SetDefault("kafka.session_timeout_ms", 45000)

	v.SetDefault("metrics_file", "")
}

// LoadConfig reads the configuration into v and decodes it. An empty cfgFile
// means only defaults, environment and bound flags are used.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks enumerations and ranges. Weight sums are checked when the
// scoring engine is built.
func (c *Config) Validate() error {
	switch c.CombineMode {
	case CombineMultiplicative, CombineAverage:
	default:
		return fmt.Errorf("unsupported combine_mode: %q", c.CombineMode)
	}
	if c.AverageQualityWeight < 0 || c.AverageQualityWeight > 1 {
		return fmt.Errorf("average_quality_weight must be between 0 and 1, got %.2f", c.AverageQualityWeight)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0, got %d", c.TopN)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required for the file source")
		}
	case CatalogSourcePostgres:
	default:
		return fmt.Errorf("unsupported catalog.source: %q", c.Catalog.Source)
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("catalog.cache_ttl must be >= 0, got %s", c.Catalog.CacheTTL)
	}
	switch c.Output.Format {
	case OutputFormatConsole, OutputFormatKafka, OutputFormatPostgres:
	case OutputFormatJSON, OutputFormatCSV, OutputFormatParquet:
		if c.Output.Path == "" && c.Output.Destination == OutputDestinationLocal {
			return fmt.Errorf("output.path is required for %s output", c.Output.Format)
		}
	default:
		return fmt.Errorf("unsupported output.format: %q", c.Output.Format)
	}
	return nil
}
