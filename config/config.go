package config

import (
	"catalog_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:         getEnvAsString("APP_NAME", "Catalog_no_env"),
				Environment:     getEnvAsString("APP_ENV", "development"),
				Port:            getEnvAsString("APP_PORT", ":8082"),
				BaseURL:         getEnvAsString("APP_URL", ""),
				ReadTimeout:     getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:    getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 30*time.Second),
				IdleTimeout:     getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				ShutdownTimeout: getEnvAsTimeDuration("SERVER_SHUTDOWN_TIME_OUT", 10*time.Second),
				MaxHeaderBytes:  getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			},
			Cors: &structs.CorsConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
				AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
				AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "X-HTTP-Method-Override"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Database: &structs.DatabaseConfig{
				Host:          getEnvAsString("DB_HOST", "localhost"),
				Port:          getEnvAsInt("DB_PORT", 5432),
				User:          getEnvAsString("DB_USER", "postgres"),
				Password:      getEnvAsString("DB_PASSWORD", "password"),
				Name:          getEnvAsString("DB_NAME", "catalog_db"),
				SSLMode:       getEnvAsString("DB_SSL_MODE", "disable"),
				MaxConns:      getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:      getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:   getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:   getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
				SlowQuery:     getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
				RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", true),
			},
			Cache: &structs.CacheConfig{
				Enabled:         getEnvAsBool("CACHE_ENABLED", false),
				Address:         getEnvAsString("CACHE_ADDRESS", "localhost:6379"),
				Username:        getEnvAsString("CACHE_USERNAME", ""),
				Password:        getEnvAsString("CACHE_PASSWORD", ""),
				DB:              getEnvAsInt("CACHE_DB", 0),
				PoolSize:        getEnvAsInt("CACHE_POOL_SIZE", 10),
				MinIdleConns:    getEnvAsInt("CACHE_MIN_IDLE_CONNS", 2),
				MaxIdleConns:    getEnvAsInt("CACHE_MAX_IDLE_CONNS", 5),
				PoolTimeout:     getEnvAsTimeDuration("CACHE_POOL_TIMEOUT", 4*time.Second),
				IdleTimeout:     getEnvAsTimeDuration("CACHE_IDLE_TIMEOUT", 5*time.Minute),
				DialTimeout:     getEnvAsTimeDuration("CACHE_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:     getEnvAsTimeDuration("CACHE_READ_TIMEOUT", 3*time.Second),
				WriteTimeout:    getEnvAsTimeDuration("CACHE_WRITE_TIMEOUT", 3*time.Second),
				MaxRetries:      getEnvAsInt("CACHE_MAX_RETRIES", 3),
				MinRetryBackoff: getEnvAsTimeDuration("CACHE_MIN_RETRY_BACKOFF", 8*time.Millisecond),
				MaxRetryBackoff: getEnvAsTimeDuration("CACHE_MAX_RETRY_BACKOFF", 512*time.Millisecond),
				ProductTTL:      getEnvAsTimeDuration("CACHE_PRODUCT_TTL", 10*time.Minute),
			},
			Storage: &structs.StorageConfig{
				Driver:          getEnvAsString("STORAGE_DRIVER", "local"),
				PublicRoot:      getEnvAsString("STORAGE_PUBLIC_ROOT", "storage/app/public"),
				PublicURL:       getEnvAsString("STORAGE_PUBLIC_URL", "/storage"),
				Bucket:          getEnvAsString("STORAGE_S3_BUCKET", ""),
				Region:          getEnvAsString("STORAGE_S3_REGION", "auto"),
				Endpoint:        getEnvAsString("STORAGE_S3_ENDPOINT", ""),
				AccessKeyID:     getEnvAsString("STORAGE_S3_ACCESS_KEY_ID", ""),
				SecretAccessKey: getEnvAsString("STORAGE_S3_SECRET_ACCESS_KEY", ""),
				UsePathStyle:    getEnvAsBool("STORAGE_S3_PATH_STYLE", true),
			},
			Upload: &structs.UploadConfig{
				MaxBodyBytes:       getEnvAsInt64("UPLOAD_MAX_BODY_BYTES", 64<<20),       // 64 MB
				MaxMultipartMemory: getEnvAsInt64("UPLOAD_MAX_MULTIPART_MEMORY", 32<<20), // 32 MB
				MaxImageKB:         getEnvAsInt64("UPLOAD_MAX_IMAGE_KB", 2048),
			},
			Sentry: &structs.SentryConfig{
				DSN:              getEnvAsString("SENTRY_DSN", ""),
				Environment:      getEnvAsString("APP_ENV", "development"),
				Release:          getEnvAsString("APP_RELEASE", "dev"),
				TracesSampleRate: getEnvAsFloat("SENTRY_TRACES_SAMPLE_RATE", 0),
			},
		}
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
