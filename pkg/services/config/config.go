package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "WEEKALLOC"

type Config struct {
	Range   RangeConfig   `mapstructure:"range"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Storage StorageConfig `mapstructure:"storage"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Server  ServerConfig  `mapstructure:"server"`
}

// RangeConfig selects the dates to allocate. A named profile from ProfileFile
// takes precedence over Start/End.
type RangeConfig struct {
	Start       string `mapstructure:"start"`
	End         string `mapstructure:"end"`
	Profile     string `mapstructure:"profile"`
	ProfileFile string `mapstructure:"profile_file"`
}

type EngineConfig struct {
	Workers    int    `mapstructure:"workers"`
	Aggregator string `mapstructure:"aggregator"` // memory or duckdb
}

type StorageConfig struct {
	DuckDB DuckDBConfig `mapstructure:"duckdb"`
}

type DuckDBConfig struct {
	Path    string `mapstructure:"path"`
	Threads int    `mapstructure:"threads"`
}

type SinkConfig struct {
	Platform   string           `mapstructure:"platform"`
	Table      string           `mapstructure:"table"`
	Databricks DatabricksConfig `mapstructure:"databricks"`
	Snowflake  SnowflakeConfig  `mapstructure:"snowflake"`
	S3         S3Config         `mapstructure:"s3"`
}

type DatabricksConfig struct {
	Host       string `mapstructure:"host"`
	Token      string `mapstructure:"token"`
	HTTPPath   string `mapstructure:"http_path" validate:"required"`
	Catalog    string `mapstructure:"catalog"`
	Schema     string `mapstructure:"schema"`
	Profile    string `mapstructure:"profile"`
	ConfigFile string `mapstructure:"config_file"`
}

type SnowflakeConfig struct {
	Account   string `mapstructure:"account" validate:"required"`
	User      string `mapstructure:"user" validate:"required"`
	Password  string `mapstructure:"password" validate:"required"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket" validate:"required"`
	Key    string `mapstructure:"key"`
	Region string `mapstructure:"region"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// MaxRangeDays caps the dates one API request may allocate.
	MaxRangeDays    int           `mapstructure:"max_range_days"`
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultDateRange()
	v.SetDefault("range.start", def.Start.Format(domain.DateLayout))
	v.SetDefault("range.end", def.End.Format(domain.DateLayout))
	v.SetDefault("range.profile", "")
	v.SetDefault("range.profile_file", "")
	v.SetDefault("engine.workers", 4)
	v.SetDefault("engine.aggregator", "memory")
	v.SetDefault("storage.duckdb.path", "weekalloc.db")
	v.SetDefault("storage.duckdb.threads", 4)
	v.SetDefault("sink.platform", "duckdb")
	v.SetDefault("sink.table", "week_month_allocations")
	for _, key := range []string{
		"sink.databricks.host", "sink.databricks.token", "sink.databricks.http_path",
		"sink.databricks.catalog", "sink.databricks.schema", "sink.databricks.profile",
		"sink.databricks.config_file",
		"sink.snowflake.account", "sink.snowflake.user", "sink.snowflake.password",
		"sink.snowflake.database", "sink.snowflake.schema", "sink.snowflake.warehouse",
		"sink.snowflake.role",
		"sink.s3.bucket", "sink.s3.region",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("sink.s3.key", "week_month_allocations.csv")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_range_days", int(def.End.Sub(def.Start).Hours()/24)+1)
}

// LoadConfig reads a YAML config file. An empty path yields defaults. Every key
// can be overridden with a WEEKALLOC_ variable, e.g. WEEKALLOC_SINK_PLATFORM.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dateToStringHook,
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// dateToStringHook keeps unquoted YAML dates (decoded as timestamps) usable in
// string fields.
func dateToStringHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	t, ok := data.(time.Time)
	if !ok || to.Kind() != reflect.String {
		return data, nil
	}
	return t.Format(domain.DateLayout), nil
}

// DateRange resolves the configured range, consulting the profile file when a
// profile is named.
func (c RangeConfig) DateRange() (domain.DateRange, error) {
	if c.Profile == "" {
		return domain.ParseDateRange(c.Start, c.End)
	}
	if c.ProfileFile == "" {
		return domain.DateRange{}, fmt.Errorf("range profile %q requires a profile file", c.Profile)
	}
	profiles, err := NewProfileRegistry(c.ProfileFile)
	if err != nil {
		return domain.DateRange{}, err
	}
	return profiles.GetRange(c.Profile)
}
