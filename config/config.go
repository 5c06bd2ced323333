package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"payyourfriends/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	AppName string `envconfig:"APP_NAME" default:"Pay Your Friends"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	Port    string `envconfig:"PORT" default:"8080"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	DataBackend string   `envconfig:"DATA_BACKEND" default:"firestore"`
	DatabaseURL string   `envconfig:"DATABASE_URL"`
	SeedMembers []string `envconfig:"SEED_MEMBERS"`

	RedisURL          string        `envconfig:"REDIS_URL"`
	AnalyticsCacheTTL time.Duration `envconfig:"ANALYTICS_CACHE_TTL" default:"10m"`

	FirebaseProjectID      string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseServiceAccount string `envconfig:"FIREBASE_SERVICE_ACCOUNT"`
	FirebaseCredPath       string `envconfig:"FIREBASE_CREDENTIALS"`

	AuthMode  string `envconfig:"AUTH_MODE" default:"firebase"`
	JWTSecret string `envconfig:"JWT_SECRET"`

	// DevTokens exposes POST /auth/token, which signs a token for any member
	// email without a password. Local JWT mode only.
	DevTokens bool `envconfig:"DEV_TOKENS" default:"false"`

	DefaultGroup string   `envconfig:"DEFAULT_GROUP" default:"no groupcest"`
	ReportGroups []string `envconfig:"REPORT_GROUPS"`

	MailDriver     string `envconfig:"MAIL_DRIVER" default:"sendgrid"`
	SendGridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	MailFrom       string `envconfig:"MAIL_FROM"`
	MailFromName   string `envconfig:"MAIL_FROM_NAME" default:"Pay Your Friends"`
	TestEmailTo    string `envconfig:"TEST_EMAIL_TO"`

	CronSecret            string        `envconfig:"CRON_SECRET"`
	ReportSchedule        string        `envconfig:"REPORT_SCHEDULE" default:"0 9 * * *"`
	ReportTimezone        string        `envconfig:"REPORT_TIMEZONE" default:"America/New_York"`
	ReportScheduleEnabled bool          `envconfig:"REPORT_SCHEDULE_ENABLED" default:"true"`
	ReportConcurrency     int           `envconfig:"REPORT_CONCURRENCY" default:"4"`
	ReportSendTimeout     time.Duration `envconfig:"REPORT_SEND_TIMEOUT" default:"10s"`
	ReportBatchTimeout    time.Duration `envconfig:"REPORT_BATCH_TIMEOUT" default:"2m"`

	CORSOrigins        []string `envconfig:"CORS_ORIGINS" default:"*"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

// Load reads a .env file if present, then the environment, and validates
// the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains([]string{"pretty", "json"}, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be pretty or json", c.LogFormat))
	}

	backends := []string{"firestore", "postgres", "memory"}
	if !slices.Contains(backends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, backends))
	}
	if c.DataBackend == "postgres" && c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required when using the postgres backend")
	}

	switch c.AuthMode {
	case "firebase":
	case "jwt":
		if c.JWTSecret == "" {
			problems = append(problems, "JWT_SECRET is required when AUTH_MODE is jwt")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid auth mode '%s': must be firebase or jwt", c.AuthMode))
	}
	if c.DevTokens && c.AuthMode != "jwt" {
		problems = append(problems, "DEV_TOKENS requires AUTH_MODE=jwt")
	}
	if c.DevTokens && c.IsProduction() {
		problems = append(problems, "DEV_TOKENS cannot be enabled in production")
	}

	switch c.MailDriver {
	case "log":
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			problems = append(problems, "SENDGRID_API_KEY is required when MAIL_DRIVER is sendgrid")
		}
		if c.MailFrom == "" {
			problems = append(problems, "MAIL_FROM is required when MAIL_DRIVER is sendgrid")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid mail driver '%s': must be sendgrid or log", c.MailDriver))
	}

	if strings.TrimSpace(c.DefaultGroup) == "" && len(c.ReportGroups) == 0 {
		problems = append(problems, "DEFAULT_GROUP or REPORT_GROUPS must name at least one group")
	}

	if _, err := time.LoadLocation(c.ReportTimezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid report timezone '%s': %v", c.ReportTimezone, err))
	}
	if c.ReportScheduleEnabled {
		if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("invalid report schedule '%s': %v", c.ReportSchedule, err))
		}
	}
	if c.ReportConcurrency < 1 {
		problems = append(problems, "REPORT_CONCURRENCY must be at least 1")
	}
	if c.ReportSendTimeout <= 0 || c.ReportBatchTimeout <= 0 {
		problems = append(problems, "report timeouts must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		problems = append(problems, "RATE_LIMIT_PER_MINUTE cannot be negative")
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

// Location is the timezone the report schedule and "today" are evaluated in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Groups lists the groups the report job covers.
func (c *Config) Groups() []string {
	var groups []string
	for _, g := range c.ReportGroups {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return []string{c.DefaultGroup}
	}
	return groups
}

// Members parses SEED_MEMBERS entries of the form "email=Name" into members
// of the default group. Malformed entries are ignored.
func (c *Config) Members() []models.Member {
	var members []models.Member
	for _, entry := range c.SeedMembers {
		email, name, ok := strings.Cut(entry, "=")
		email, name = strings.TrimSpace(email), strings.TrimSpace(name)
		if !ok || email == "" || name == "" {
			continue
		}
		members = append(members, models.Member{Email: email, Name: name, Group: c.DefaultGroup})
	}
	return members
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
