package config

import (
	"os"
	"strconv"
	"strings"
)

// GetAllSettings returns a map of the dynamic settings currently loaded in
// memory, used by the health endpoint.
func GetAllSettings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_debug":            Global.App.Debug,
		"app_version":          Global.App.Version,
		"app_environment":      Global.App.Environment,
		"db_driver":            Global.Database.Driver,
		"valkey_enabled":       Global.Database.ValkeyEnabled,
		"webhook_targets":      len(Global.Webhook.URLs),
		"business_api_version": Global.Providers.Business.APIVersion,
		"meta_api_version":     Global.Providers.Facebook.APIVersion,
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}
