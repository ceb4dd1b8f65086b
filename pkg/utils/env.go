package utils

import (
	"os"
	"strconv"
	"strings"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	if v := GetEnvTrimmed(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool parses key with strconv.ParseBool; unset or unparsable values
// yield defaultValue.
func GetEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(GetEnvTrimmed(key))
	if err != nil {
		return defaultValue
	}
	return b
}

// GetEnvPositiveInt64 returns defaultValue unless key holds an integer above zero.
func GetEnvPositiveInt64(key string, defaultValue int64) int64 {
	n, err := strconv.ParseInt(GetEnvTrimmed(key), 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

// GetEnvList splits a comma separated value, dropping blank items.
func GetEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsDevelopment reports whether APP_ENV names a developer machine.
func IsDevelopment() bool {
	switch strings.ToLower(GetEnvTrimmed("APP_ENV")) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
