package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Redis      RedisConfig
	Auth       AuthConfig
	OTP        OTPConfig
	SMTP       SMTPConfig
	Cloudinary CloudinaryConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	LLM        LLMConfig
	Logger     LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	FrontendURL  string
	BodyLimit    int
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
}

type JWTConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UserInfoURL  string
	TokenInfoURL string
	// FrontendRedirectURL receives ?token=... after the callback flow.
	FrontendRedirectURL string
}

// OTPConfig governs one-time code lifetime and per-email throttling.
type OTPConfig struct {
	TTL               time.Duration
	MaxVerifyAttempts int
	MaxResendRequests int
	Window            time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type CacheConfig struct {
	QuestionListTTL time.Duration
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type LLMConfig struct {
	ServerURL string
	Model     string
}

type LoggerConfig struct {
	Level string
	Env   string
}

const (
	DriverGoOra  = "oracle"
	DriverGodror = "godror"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.body_limit", 50*1024*1024)
	v.SetDefault("db.driver", DriverGoOra)
	v.SetDefault("db.port", 1521)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("auth.jwt.token_ttl", "168h")
	v.SetDefault("auth.google.user_info_url", "https://www.googleapis.com/oauth2/v2/userinfo")
	v.SetDefault("auth.google.token_info_url", "https://oauth2.googleapis.com/tokeninfo")
	v.SetDefault("otp.ttl", "10m")
	v.SetDefault("otp.max_verify_attempts", 5)
	v.SetDefault("otp.max_resend_requests", 3)
	v.SetDefault("otp.window", "15m")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("cloudinary.folder", "quiz-app/profile-pictures")
	v.SetDefault("cache.question_list_ttl", "10m")
	v.SetDefault("rate_limit.max", 100)
	v.SetDefault("rate_limit.window", "15m")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.model", "llama3")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			FrontendURL:  v.GetString("server.frontend_url"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				SecretKey: v.GetString("auth.jwt.secret_key"),
				TokenTTL:  v.GetDuration("auth.jwt.token_ttl"),
			},
			GoogleOAuth: GoogleOAuthConfig{
				ClientID:            v.GetString("auth.google.client_id"),
				ClientSecret:        v.GetString("auth.google.client_secret"),
				RedirectURL:         v.GetString("auth.google.redirect_url"),
				UserInfoURL:         v.GetString("auth.google.user_info_url"),
				TokenInfoURL:        v.GetString("auth.google.token_info_url"),
				FrontendRedirectURL: v.GetString("auth.google.frontend_redirect_url"),
			},
		},
		OTP: OTPConfig{
			TTL:               v.GetDuration("otp.ttl"),
			MaxVerifyAttempts: v.GetInt("otp.max_verify_attempts"),
			MaxResendRequests: v.GetInt("otp.max_resend_requests"),
			Window:            v.GetDuration("otp.window"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("cloudinary.cloud_name"),
			APIKey:    v.GetString("cloudinary.api_key"),
			APISecret: v.GetString("cloudinary.api_secret"),
			Folder:    v.GetString("cloudinary.folder"),
		},
		Cache: CacheConfig{
			QuestionListTTL: v.GetDuration("cache.question_list_ttl"),
		},
		RateLimit: RateLimitConfig{
			Max:    v.GetInt("rate_limit.max"),
			Window: v.GetDuration("rate_limit.window"),
		},
		LLM: LLMConfig{
			ServerURL: v.GetString("llm.server_url"),
			Model:     v.GetString("llm.model"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
	}
}

// applyEnvOverrides lets the conventional flat variable names win over the file.
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		cfg.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWT.SecretKey = secret
	}
	if id := os.Getenv("GOOGLE_CLIENT_ID"); id != "" {
		cfg.Auth.GoogleOAuth.ClientID = id
	}
	if secret := os.Getenv("GOOGLE_CLIENT_SECRET"); secret != "" {
		cfg.Auth.GoogleOAuth.ClientSecret = secret
	}
	if user := os.Getenv("EMAIL_USER"); user != "" {
		cfg.SMTP.Username = user
	}
	if password := os.Getenv("EMAIL_PASS"); password != "" {
		cfg.SMTP.Password = password
	}
	if name := os.Getenv("CLOUDINARY_CLOUD_NAME"); name != "" {
		cfg.Cloudinary.CloudName = name
	}
	if key := os.Getenv("CLOUDINARY_API_KEY"); key != "" {
		cfg.Cloudinary.APIKey = key
	}
	if secret := os.Getenv("CLOUDINARY_API_SECRET"); secret != "" {
		cfg.Cloudinary.APISecret = secret
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		cfg.Server.FrontendURL = frontend
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		cfg.LLM.ServerURL = llmServer
	}
	if cfg.SMTP.From == "" && cfg.SMTP.Username != "" {
		cfg.SMTP.From = fmt.Sprintf("\"Quiz App\" <%s>", cfg.SMTP.Username)
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWT.SecretKey == "" {
		return fmt.Errorf("auth.jwt.secret_key is required")
	}
	if c.Auth.JWT.TokenTTL <= 0 {
		return fmt.Errorf("auth.jwt.token_ttl must be positive")
	}
	if c.OTP.TTL <= 0 {
		return fmt.Errorf("otp.ttl must be positive")
	}
	if (c.OTP.MaxVerifyAttempts > 0 || c.OTP.MaxResendRequests > 0) && c.OTP.Window <= 0 {
		return fmt.Errorf("otp.window must be positive when otp limits are set")
	}
	switch c.DB.Driver {
	case DriverGoOra, DriverGodror:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	return nil
}

// GetDSN renders the connection string for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == DriverGodror {
		return fmt.Sprintf(`user=%q password=%q connectString="%s:%d/%s"`,
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
