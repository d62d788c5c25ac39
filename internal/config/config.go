package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultJWTSecret is used only when JWT_SECRET is not set. It is public and therefore insecure;
// main logs a warning whenever it is in effect.
const DefaultJWTSecret = "opinai-insecure-default-secret"

const (
	defaultStoreURI      = "mongodb://127.0.0.1:27017/opinai_db"
	defaultMongoDatabase = "opinai_db"
)

// Config is built once at startup and handed to every component that needs it.
// Nothing mutates it afterwards.
type Config struct {
	Env               string
	StoreURI          string
	JWTSecret         string
	JWTExpiration     time.Duration
	Port              string
	BodyLimit         int64 // bytes
	CORSOrigins       string
	InitialAdminEmail string
	LogFile           string
	S3                S3Config
}

// S3Config holds the optional object storage used for profile photos
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether enough settings are present to use object storage
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	storeURI := getEnv("STORE_URI", getEnv("MONGO_URI", defaultStoreURI))

	jwtExpHours, err := strconv.ParseInt(getEnv("JWT_EXPIRATION_HOURS", "168"), 10, 64)
	if err != nil || jwtExpHours <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %q", os.Getenv("JWT_EXPIRATION_HOURS"))
	}

	bodyLimitMB, err := strconv.ParseInt(getEnv("BODY_LIMIT_MB", "10"), 10, 64)
	if err != nil || bodyLimitMB <= 0 {
		return nil, fmt.Errorf("invalid BODY_LIMIT_MB: %q", os.Getenv("BODY_LIMIT_MB"))
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		StoreURI:          storeURI,
		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiration:     time.Duration(jwtExpHours) * time.Hour,
		Port:              getEnv("PORT", "5000"),
		BodyLimit:         bodyLimitMB << 20,
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		InitialAdminEmail: strings.ToLower(strings.TrimSpace(os.Getenv("INITIAL_ADMIN_EMAIL"))),
		LogFile:           getEnv("LOG_FILE", ".logs/opinai.log"),
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
	}

	if cfg.StoreDriver() == "" {
		return nil, fmt.Errorf("unsupported STORE_URI scheme: %q", storeURI)
	}
	return cfg, nil
}

// StoreDriver derives the storage backend from the store URI scheme
func (c *Config) StoreDriver() string {
	u, err := url.Parse(c.StoreURI)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return DriverMongo
	case "postgres", "postgresql":
		return DriverPostgres
	case "memory":
		return DriverMemory
	}
	return ""
}

// MongoDatabase returns the database name embedded in a Mongo URI path
func (c *Config) MongoDatabase() string {
	u, err := url.Parse(c.StoreURI)
	if err != nil {
		return defaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}

// UsesDefaultSecret reports whether tokens are signed with the public fallback secret
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
