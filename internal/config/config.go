package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	Tenant       TenantConfig
	JWT          JWTConfig
	App          AppConfig
	SMTP         SMTPConfig
	Telegram     TelegramConfig
	Notification NotificationConfig
	Admin        CredentialConfig
	Master       CredentialConfig
	Cron         CronConfig
	Payroll      PayrollConfig
}

// DatabaseConfig points at the master registry database.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// TenantConfig controls how tenant stores are located and opened.
type TenantConfig struct {
	// DefaultStoreURL serves sessions without a company code.
	DefaultStoreURL string
	// StoreURLTemplate builds a new tenant's DSN; %s is the database name.
	StoreURLTemplate string
	StoreNamePrefix  string
	MaxConnsPerStore int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	CORSOrigins []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type TelegramConfig struct {
	BotToken       string
	APIBaseURL     string
	DefaultChatIDs []string
}

type NotificationConfig struct {
	WorkerCount int
	QueueSize   int
	TaskTimeout time.Duration
}

// CredentialConfig is a configured login; the password is a bcrypt hash.
type CredentialConfig struct {
	Username     string
	PasswordHash string
}

func (c CredentialConfig) Enabled() bool {
	return c.Username != "" && c.PasswordHash != ""
}

type CronConfig struct {
	Enabled           bool
	OpenPunchInterval time.Duration
}

type PayrollConfig struct {
	Concurrency int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := getEnvInt("DB_MAX_CONNS", 25)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_master"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	// Tenant stores
	storeMaxConns, err := getEnvInt("TENANT_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	config.Tenant = TenantConfig{
		DefaultStoreURL:  getEnv("TENANT_DEFAULT_DSN", config.DatabaseURL()),
		StoreURLTemplate: getEnv("TENANT_DSN_TEMPLATE", config.storeURLTemplate()),
		StoreNamePrefix:  getEnv("TENANT_DB_PREFIX", "hris_tenant_"),
		MaxConnsPerStore: int32(storeMaxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "Local"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// SMTP configuration
	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "Attendance"),
	}

	config.Telegram = TelegramConfig{
		BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		APIBaseURL:     getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		DefaultChatIDs: getEnvSlice("ADMIN_CHAT_IDS"),
	}

	// Notification workers
	workers, err := getEnvInt("NOTIFICATION_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	queueSize, err := getEnvInt("NOTIFICATION_QUEUE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	taskTimeout, err := time.ParseDuration(getEnv("NOTIFICATION_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_TIMEOUT: %w", err)
	}
	config.Notification = NotificationConfig{
		WorkerCount: workers,
		QueueSize:   queueSize,
		TaskTimeout: taskTimeout,
	}

	config.Admin = CredentialConfig{
		Username:     getEnv("ADMIN_USERNAME", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}
	config.Master = CredentialConfig{
		Username:     getEnv("MASTER_USERNAME", ""),
		PasswordHash: getEnv("MASTER_PASSWORD_HASH", ""),
	}

	// Cron
	openPunchInterval, err := time.ParseDuration(getEnv("CRON_OPEN_PUNCH_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_OPEN_PUNCH_INTERVAL: %w", err)
	}
	config.Cron = CronConfig{
		Enabled:           getEnv("CRON_ENABLED", "true") == "true",
		OpenPunchInterval: openPunchInterval,
	}

	payrollConcurrency, err := getEnvInt("PAYROLL_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	config.Payroll = PayrollConfig{Concurrency: payrollConcurrency}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if !strings.Contains(c.Tenant.StoreURLTemplate, "%s") {
		return fmt.Errorf("TENANT_DSN_TEMPLATE must contain %%s for the database name")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Notification.WorkerCount <= 0 || c.Notification.QueueSize <= 0 {
		return errors.New("NOTIFICATION_WORKERS and NOTIFICATION_QUEUE_SIZE must be positive")
	}
	if (c.Admin.Username == "") != (c.Admin.PasswordHash == "") {
		return errors.New("ADMIN_USERNAME and ADMIN_PASSWORD_HASH must be set together")
	}
	if (c.Master.Username == "") != (c.Master.PasswordHash == "") {
		return errors.New("MASTER_USERNAME and MASTER_PASSWORD_HASH must be set together")
	}
	if c.Cron.Enabled && c.Cron.OpenPunchInterval <= 0 {
		return errors.New("CRON_OPEN_PUNCH_INTERVAL must be positive")
	}
	return nil
}

// Location is the wall clock zone punches are recorded in.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) storeURLTemplate() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
