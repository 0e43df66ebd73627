package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	TLS_DOMAINS    = ""              // e.g. "example.com,example2.com"
	MYSQL_DSN      = ""              // MySQL will be used if this is set
	SQLITE_FILE    = "blog.sqlite" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS   = "0.0.0.0:8080"
	SESSION_KEY    = "change me in production"
	REDIS_ADDR     = "" // Redis feed cache will be used if this is set, in-memory otherwise
	MEDIA_DIR      = "" // Post images are stored on local disk if this is set
	S3_BUCKET      = "" // Post images are stored in S3 if this is set (takes precedence)
	S3_REGION      = "us-east-1"
	DEBUG_MODE     = true
	FEED_PAGE_SIZE = 10
	// How long a rendered global feed page may be served without re-querying the DB.
	// A freshly published post can stay invisible on the home page for up to this long.
	FEED_CACHE_TTL = 20 * time.Second
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("REDIS_ADDR", &REDIS_ADDR)
	readEnvString("MEDIA_DIR", &MEDIA_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvInt("FEED_PAGE_SIZE", &FEED_PAGE_SIZE)
	readEnvDuration("FEED_CACHE_TTL", &FEED_CACHE_TTL)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = i
}

func readEnvDuration(name string, value *time.Duration) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return
	}
	*value = d
}
