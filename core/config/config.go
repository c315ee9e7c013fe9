package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Paths     PathsConfig
	Database  DatabaseConfig
	Providers ProvidersConfig
	Webhook   WebhookConfig
	Instances []InstanceSeed
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasicAuth          []string
	BasePath           string
	TrustedProxies     []string
	BaseUrl            string
	CorsAllowedOrigins []string
	ServerID           string
}

type PathsConfig struct {
	BaseDir  string
	Statics  string
	Storages string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB Name for Postgres
	ValkeyEnabled   bool
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

// ProviderConfig is the per-provider REST surface: where to POST outbound
// messages and which token validates the webhook verification handshake.
type ProviderConfig struct {
	BaseURL     string
	APIVersion  string
	VerifyToken string
	Timeout     int // seconds for outbound REST calls
}

// ProvidersConfig groups the provider blocks. Facebook and Instagram share
// the Meta Graph block unless overridden, matching how Meta issues tokens.
type ProvidersConfig struct {
	Business  ProviderConfig
	Facebook  ProviderConfig
	Instagram ProviderConfig
}

type WebhookConfig struct {
	URLs               []string
	Secret             string
	InsecureSkipVerify bool
}

// InstanceSeed is one instance declared through the environment so the
// gateway can bind adapters at startup without touching the API.
type InstanceSeed struct {
	Name        string
	Provider    string
	SenderID    string
	BearerToken string
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from Environment Variables or defaults.
func LoadConfig() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "storages")

	debug := false
	if v := os.Getenv("APP_DEBUG"); v == "true" || v == "1" || v == "on" {
		debug = true
	} else if v := os.Getenv("DEBUG"); v == "true" || v == "1" {
		debug = true
	}

	var basicAuth []string
	if v := os.Getenv("APP_BASIC_AUTH"); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := os.Getenv("APP_CORS_ALLOWED_ORIGINS"); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	appCfg := AppConfig{
		Version:            "v1.2.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              debug,
		Environment:        getEnv("APP_ENV", "development"),
		BasicAuth:          basicAuth,
		BasePath:           getEnv("APP_BASE_PATH", ""),
		BaseUrl:            getEnv("APP_BASE_URL", "http://localhost:3000"),
		CorsAllowedOrigins: corsOrigins,
		ServerID:           getEnv("SERVER_ID", ""),
	}
	if v := os.Getenv("APP_TRUSTED_PROXIES"); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	pathsCfg := PathsConfig{
		BaseDir:  baseDir,
		Statics:  getEnv("PATH_STATICS", "statics"),
		Storages: baseDir,
	}

	dbCfg := DatabaseConfig{
		Driver:          getEnv("DB_DRIVER", "sqlite"),
		Name:            getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "gateway.db")),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		ValkeyEnabled:   getEnvBool("VALKEY_ENABLED", false),
		ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
		ValkeyDB:        getEnvInt("VALKEY_DB", 0),
		ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "azmeta:"),
	}

	// WhatsApp Cloud block
	businessCfg := ProviderConfig{
		BaseURL:     getEnv("WA_BUSINESS_URL", "https://graph.facebook.com"),
		APIVersion:  getEnv("WA_BUSINESS_VERSION", "v20.0"),
		VerifyToken: getEnv("WA_BUSINESS_TOKEN_WEBHOOK", ""),
		Timeout:     getEnvInt("WA_BUSINESS_TIMEOUT", 15),
	}

	// Meta Graph block shared by Facebook Pages and Instagram Direct,
	// each overridable per channel.
	metaCfg := ProviderConfig{
		BaseURL:     getEnv("META_BUSINESS_URL", "https://graph.facebook.com"),
		APIVersion:  getEnv("META_BUSINESS_VERSION", "v20.0"),
		VerifyToken: getEnv("META_BUSINESS_TOKEN_WEBHOOK", ""),
		Timeout:     getEnvInt("META_BUSINESS_TIMEOUT", 15),
	}
	facebookCfg := overrideProvider(metaCfg, "FACEBOOK")
	instagramCfg := overrideProvider(metaCfg, "INSTAGRAM")

	webhookCfg := WebhookConfig{
		Secret:             getEnv("GATEWAY_WEBHOOK_SECRET", ""),
		InsecureSkipVerify: getEnvBool("GATEWAY_WEBHOOK_INSECURE_SKIP_VERIFY", false),
	}
	if v := os.Getenv("GATEWAY_WEBHOOK"); v != "" {
		webhookCfg.URLs = strings.Split(v, ",")
	}

	seeds, err := parseInstanceSeeds(os.Getenv("GATEWAY_INSTANCES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App:      appCfg,
		Paths:    pathsCfg,
		Database: dbCfg,
		Providers: ProvidersConfig{
			Business:  businessCfg,
			Facebook:  facebookCfg,
			Instagram: instagramCfg,
		},
		Webhook:   webhookCfg,
		Instances: seeds,
	}

	Global = cfg
	return cfg, nil
}

func overrideProvider(base ProviderConfig, prefix string) ProviderConfig {
	out := base
	out.BaseURL = getEnv(prefix+"_BUSINESS_URL", base.BaseURL)
	out.APIVersion = getEnv(prefix+"_BUSINESS_VERSION", base.APIVersion)
	out.VerifyToken = getEnv(prefix+"_BUSINESS_TOKEN_WEBHOOK", base.VerifyToken)
	out.Timeout = getEnvInt(prefix+"_BUSINESS_TIMEOUT", base.Timeout)
	return out
}

// parseInstanceSeeds reads GATEWAY_INSTANCES entries shaped as
// name:provider:senderID:bearerToken separated by commas.
func parseInstanceSeeds(raw string) ([]InstanceSeed, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var seeds []InstanceSeed
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("invalid GATEWAY_INSTANCES entry %q, want name:provider:senderID:token", entry)
		}
		seeds = append(seeds, InstanceSeed{
			Name:        parts[0],
			Provider:    parts[1],
			SenderID:    parts[2],
			BearerToken: parts[3],
		})
	}
	return seeds, nil
}
