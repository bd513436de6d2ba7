package config

import (
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`

	JWTSecret           string `mapstructure:"JWT_SECRET"`
	JWTTTLHours         int    `mapstructure:"JWT_TTL_HOURS"`
	JWTRememberTTLHours int    `mapstructure:"JWT_REMEMBER_TTL_HOURS"`

	EmailBackend     string `mapstructure:"EMAIL_BACKEND"`
	SMTPHost         string `mapstructure:"SMTP_HOST"`
	SMTPPort         int    `mapstructure:"SMTP_PORT"`
	SMTPUsername     string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword     string `mapstructure:"SMTP_PASSWORD"`
	DefaultFromEmail string `mapstructure:"DEFAULT_FROM_EMAIL"`
	DefaultFromName  string `mapstructure:"DEFAULT_FROM_NAME"`

	MediaRoot      string `mapstructure:"MEDIA_ROOT"`
	MediaURL       string `mapstructure:"MEDIA_URL"`
	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	StaticRoot   string `mapstructure:"STATIC_ROOT"`
	PDFEngines   string `mapstructure:"PDF_ENGINES"`
	ChromiumPath string `mapstructure:"CHROMIUM_PATH"`

	CompanyName    string `mapstructure:"COMPANY_NAME"`
	CompanyAddress string `mapstructure:"COMPANY_ADDRESS"`
	CompanyPhone   string `mapstructure:"COMPANY_PHONE"`
	CompanyEmail   string `mapstructure:"COMPANY_EMAIL"`

	SchedulerEnabled bool `mapstructure:"SCHEDULER_ENABLED"`

	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"JWT_SECRET", "JWT_TTL_HOURS", "JWT_REMEMBER_TTL_HOURS",
	"EMAIL_BACKEND", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD",
	"DEFAULT_FROM_EMAIL", "DEFAULT_FROM_NAME",
	"MEDIA_ROOT", "MEDIA_URL",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
	"STATIC_ROOT", "PDF_ENGINES", "CHROMIUM_PATH",
	"COMPANY_NAME", "COMPANY_ADDRESS", "COMPANY_PHONE", "COMPANY_EMAIL",
	"SCHEDULER_ENABLED",
	"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("JWT_TTL_HOURS", 12)
	viper.SetDefault("JWT_REMEMBER_TTL_HOURS", 30*24)
	viper.SetDefault("EMAIL_BACKEND", "log")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("DEFAULT_FROM_EMAIL", "noreply@homemanagement.co.th")
	viper.SetDefault("DEFAULT_FROM_NAME", "Project House")
	viper.SetDefault("MEDIA_ROOT", "media")
	viper.SetDefault("MEDIA_URL", "/media/")
	viper.SetDefault("STATIC_ROOT", "static")
	viper.SetDefault("PDF_ENGINES", "chromium,fpdf")
	viper.SetDefault("COMPANY_NAME", "บริษัท โฮมแมนเนจเมนท์ จำกัด")
	viper.SetDefault(
		"COMPANY_ADDRESS",
		"123/45 ถนนสุขุมวิท แขวงคลองเตย เขตคลองเตย กรุงเทพมหานคร 10110",
	)
	viper.SetDefault("COMPANY_PHONE", "02-123-4567")
	viper.SetDefault("COMPANY_EMAIL", "contact@homemanagement.co.th")
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()
	setDefaults()

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"emailBackend", config.EmailBackend,
		"pdfEngines", config.PDFEngines,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// StaticDirs splits STATIC_ROOT on commas.
func (c Config) StaticDirs() []string {
	return splitList(c.StaticRoot)
}

func (c Config) PDFEngineNames() []string {
	return splitList(c.PDFEngines)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.Error("Fatal error: JWT_SECRET is required")
	}

	if config.EmailBackend != "smtp" && config.EmailBackend != "log" {
		return log.Error(
			"Fatal error: EMAIL_BACKEND must be smtp or log",
			"emailBackend", config.EmailBackend,
		)
	}

	if config.EmailBackend == "smtp" && config.SMTPHost == "" {
		return log.Error("Fatal error: SMTP_HOST required when EMAIL_BACKEND is smtp")
	}

	if config.MinioEndpoint != "" && config.MinioBucket == "" {
		return log.Error("Fatal error: MINIO_BUCKET required when MINIO_ENDPOINT is set")
	}

	ConfigInstance = config
	return nil
}
