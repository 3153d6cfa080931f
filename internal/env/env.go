package env

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// actual environment variables
var JWT_SECRET []byte
var MONGO_URI string
var MONGO_DATABASE string
var REDIS_ADDR string
var REDIS_PASSWORD string
var REDIS_DB int
var GITHUB_API_BASE string
var GITHUB_COMMIT_STATS bool
var SMTP_HOST string
var SMTP_PORT int
var SMTP_USERNAME string
var SMTP_PASSWORD string
var MAIL_FROM string
var KAFKA_BROKERS []string
var KAFKA_TOPIC string
var LOG_LEVEL string
var LOG_JSON bool

// digest behaviour
var NOISE_PHRASES []string
var SEND_WINDOW time.Duration
var RETENTION_DAYS int
var SCHEDULER_TIMEZONE string
var SCHEDULES Schedules

// this is required
var VERSION string

// DefaultNoisePhrases are applied when neither NOISE_PHRASES nor a rules file sets any.
var DefaultNoisePhrases = []string{"merge branch", "merge pull request", "wip", "typo"}

// Schedules holds the cron specs of the periodic jobs.
type Schedules struct {
	Generate string `yaml:"generate"`
	Send     string `yaml:"send"`
	Cleanup  string `yaml:"cleanup"`
}

var DefaultSchedules = Schedules{
	Generate: "45 23 * * *",
	Send:     "0 * * * *",
	Cleanup:  "0 2 * * *",
}

func Init(envRoot string, appVersion string) {
	loadEnv(envRoot)
	loadVersion(appVersion)

	MONGO_URI = os.Getenv("MONGO_URI")
	MONGO_DATABASE = getEnv("MONGO_DATABASE", "dailydigest")
	REDIS_ADDR = getEnv("REDIS_ADDR", "127.0.0.1:6379")
	REDIS_PASSWORD = os.Getenv("REDIS_PASSWORD")
	REDIS_DB = getInt("REDIS_DB", 0)
	JWT_SECRET = []byte(os.Getenv("JWT_SECRET"))
	GITHUB_API_BASE = strings.TrimSpace(os.Getenv("GITHUB_API_BASE"))
	GITHUB_COMMIT_STATS, _ = strconv.ParseBool(os.Getenv("GITHUB_COMMIT_STATS"))

	SMTP_HOST = os.Getenv("SMTP_HOST")
	SMTP_PORT = getInt("SMTP_PORT", 587)
	SMTP_USERNAME = os.Getenv("SMTP_USERNAME")
	SMTP_PASSWORD = os.Getenv("SMTP_PASSWORD")
	MAIL_FROM = getEnv("MAIL_FROM", "reports@localhost")

	KAFKA_BROKERS = SplitList(os.Getenv("KAFKA_BROKERS"))
	KAFKA_TOPIC = getEnv("KAFKA_TOPIC", "digest.events")

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_JSON, _ = strconv.ParseBool(os.Getenv("LOG_JSON"))

	SEND_WINDOW = getDuration("SEND_WINDOW", time.Hour)
	RETENTION_DAYS = getInt("RETENTION_DAYS", 30)
	SCHEDULER_TIMEZONE = getEnv("SCHEDULER_TIMEZONE", "UTC")
	SCHEDULES = DefaultSchedules

	NOISE_PHRASES = nil
	if raw, ok := os.LookupEnv("NOISE_PHRASES"); ok {
		NOISE_PHRASES = SplitList(raw)
	}

	if rulesPath := strings.TrimSpace(os.Getenv("RULES_FILE")); rulesPath != "" {
		rules, err := LoadRules(rulesPath)
		if err != nil {
			log.Fatalf("failed to load rules file %s: %v", rulesPath, err)
		}
		applyRules(rules)
	}

	if NOISE_PHRASES == nil {
		NOISE_PHRASES = append([]string(nil), DefaultNoisePhrases...)
	}
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if _, err := os.Stat(path); err != nil {
		log.Printf("no env file at %s, using process environment", path)
		return
	}
	if err := godotenv.Overload(path); err != nil {
		log.Fatalf("failed to load env file %s: %v", path, err)
	}
}

func loadVersion(appVersion string) {
	if appVersion != "" {
		VERSION = appVersion
		return
	}

	data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
	if err != nil {
		VERSION = "dev"
		return
	}

	if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
		VERSION = trimmed
	} else {
		VERSION = "unknown"
	}
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	val, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return val
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return val
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
