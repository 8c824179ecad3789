package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Database *DatabaseConfig
	Cache    *CacheConfig
	Storage  *StorageConfig
	Upload   *UploadConfig
	Sentry   *SentryConfig
}

type ServerConfig struct {
	AppName         string        // Catalog
	Environment     string        // development, production
	Port            string        // :8082
	BaseURL         string        // prefix for paginator urls, e.g. https://admin.example.com
	ReadTimeout     time.Duration // in seconds
	WriteTimeout    time.Duration // in seconds
	IdleTimeout     time.Duration // in seconds
	ShutdownTimeout time.Duration // in seconds
	MaxHeaderBytes  int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxConns      int
	MinConns      int
	MaxLifetime   time.Duration
	MaxIdleTime   time.Duration
	SlowQuery     time.Duration
	RunMigrations bool
}

type CacheConfig struct {
	Enabled         bool
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	ProductTTL      time.Duration
}

type StorageConfig struct {
	Driver     string // local, s3
	PublicRoot string // local driver only
	PublicURL  string // mount point of the public root, e.g. /storage

	Bucket          string
	Region          string
	Endpoint        string // optional, for R2 or minio
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

type UploadConfig struct {
	MaxBodyBytes       int64 // whole request
	MaxMultipartMemory int64 // kept in memory before spilling to disk
	MaxImageKB         int64 // per file
}

type SentryConfig struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
}
