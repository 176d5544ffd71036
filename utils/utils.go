package utils

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

var slugPattern = regexp.MustCompile(`[^\w-]+`)

// Slugify lowercases a title and collapses every run of characters outside
// word characters and hyphens into a single hyphen, trimming hyphens at both
// ends. The result can be empty for titles with no usable characters.
func Slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
