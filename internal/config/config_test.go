package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("auth.jwt.secret_key", "s3cret")

	cfg := fromViper(v)

	assert.Equal(t, 168*time.Hour, cfg.Auth.JWT.TokenTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "quiz-app/profile-pictures", cfg.Cloudinary.Folder)
	assert.Equal(t, DriverGoOra, cfg.DB.Driver)
	assert.Equal(t, "https://oauth2.googleapis.com/tokeninfo", cfg.Auth.GoogleOAuth.TokenInfoURL)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DB:   DBConfig{Driver: DriverGodror},
			Auth: AuthConfig{JWT: JWTConfig{SecretKey: "k", TokenTTL: time.Hour}},
			OTP:  OTPConfig{TTL: time.Minute},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Auth.JWT.SecretKey = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.DB.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.OTP.TTL = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.OTP.MaxVerifyAttempts = 5
	assert.Error(t, cfg.Validate())
	cfg.OTP.Window = 15 * time.Minute
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.OTP.MaxResendRequests = 3
	cfg.OTP.Window = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DB: DBConfig{Driver: DriverGoOra, Host: "db", Port: 1521, User: "quiz", Password: "pw", DBName: "FREEPDB1"}}
	assert.Equal(t, "oracle://quiz:pw@db:1521/FREEPDB1", cfg.GetDSN())

	cfg.DB.Driver = DriverGodror
	assert.Equal(t, `user="quiz" password="pw" connectString="db:1521/FREEPDB1"`, cfg.GetDSN())
}
