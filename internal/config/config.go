package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Arxiv     ArxivConfig     `mapstructure:"arxiv"`
	Staging   StagingConfig   `mapstructure:"staging"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type ArxivConfig struct {
	BaseURL    string   `mapstructure:"base_url"`
	Categories []string `mapstructure:"categories"`
	StartDate  string   `mapstructure:"start_date"`
	SortBy     string   `mapstructure:"sort_by"`
	SortOrder  string   `mapstructure:"sort_order"`
	PageSize   int      `mapstructure:"page_size"`
	MaxResults int      `mapstructure:"max_results"`
}

type StagingConfig struct {
	Backend string        `mapstructure:"backend"`
	Upload  UploadConfig  `mapstructure:"upload"`
	S3      S3Config      `mapstructure:"s3"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type UploadConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
}

type IngestConfig struct {
	FromBeginning    bool   `mapstructure:"from_beginning"`
	PairNamePrefix   string `mapstructure:"pair_name_prefix"`
	ReservedPairName string `mapstructure:"reserved_pair_name"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/paper-rag.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "paper_rag")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("arxiv.base_url", "https://export.arxiv.org/api/query")
	v.SetDefault("arxiv.categories", []string{"cs.AI"})
	v.SetDefault("arxiv.start_date", "2024-02-29")
	v.SetDefault("arxiv.sort_by", "submitted_date")
	v.SetDefault("arxiv.sort_order", "descending")
	v.SetDefault("arxiv.page_size", 100)
	v.SetDefault("arxiv.max_results", 1000)
	v.SetDefault("staging.backend", "upload")
	v.SetDefault("staging.upload.endpoint", "http://localhost:8080/manage/admin/connector/file/upload")
	v.SetDefault("staging.s3.endpoint", "localhost:9000")
	v.SetDefault("staging.s3.use_ssl", false)
	v.SetDefault("staging.s3.bucket", "papers")
	v.SetDefault("staging.timeout", 2*time.Minute)
	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 1536)
	v.SetDefault("ingest.from_beginning", false)
	v.SetDefault("ingest.pair_name_prefix", "arxiv_")
	v.SetDefault("ingest.reserved_pair_name", "DefaultCCPair")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("staging.upload.endpoint", "UPLOAD_ENDPOINT")
	v.BindEnv("staging.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("staging.s3.access_key", "S3_ACCESS_KEY")
	v.BindEnv("staging.s3.secret_key", "S3_SECRET_KEY")
	v.BindEnv("staging.s3.use_ssl", "S3_USE_SSL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
