package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
env:
  env: staging
  serviceName: letsshare
http:
  port: 9090
secretKey:
  access: yaml-access
  refresh: yaml-refresh
auth:
  signingAlgorithm: HS384
  accessTokenTTL: 10m
  refreshTokenTTL: 48h
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	return dir
}

func TestLoadWithEnv_ReadsYAMLAndOverlaysEnvironment(t *testing.T) {
	t.Chdir(writeConfig(t, testConfigYAML))
	t.Setenv("SECRETKEY_ACCESS", "env-access")
	t.Setenv("AUTH_ACCESSTOKENTTL", "5m")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env.Env)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "env-access", cfg.SecretKey.Access)
	assert.Equal(t, "yaml-refresh", cfg.SecretKey.Refresh)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, "HS384", cfg.Auth.SigningAlgorithm)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.Auth.RefreshTokenTTL)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, EnvDevelopment, cfg.Env.Env)
	assert.Equal(t, defaultHTTPPort, cfg.HTTP.Port)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORS.AllowOrigins)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, "HS256", cfg.Auth.SigningAlgorithm)
	assert.Equal(t, 900*time.Second, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 604800*time.Second, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, PasswordHasherBcrypt, cfg.Auth.PasswordHasher)
	assert.Equal(t, defaultBcryptCost, cfg.Auth.BcryptCost)
	require.NotNil(t, cfg.QRCode)
	assert.Equal(t, defaultQRCodeSize, cfg.QRCode.Size)
	assert.Nil(t, cfg.Metrics)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{
			SecretKey: SecretKeyConfig{Access: "access-secret", Refresh: "refresh-secret"},
		}
		cfg.applyDefaults()

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "valid development config", mutate: func(*Config) {}},
		{
			name:    "unknown environment",
			mutate:  func(cfg *Config) { cfg.Env.Env = "qa" },
			wantErr: "unknown environment",
		},
		{
			name:    "missing refresh secret",
			mutate:  func(cfg *Config) { cfg.SecretKey.Refresh = "" },
			wantErr: "must be provided",
		},
		{
			name:    "identical secrets",
			mutate:  func(cfg *Config) { cfg.SecretKey.Refresh = cfg.SecretKey.Access },
			wantErr: "must differ",
		},
		{
			name:    "unsupported algorithm",
			mutate:  func(cfg *Config) { cfg.Auth.SigningAlgorithm = "none" },
			wantErr: "unsupported signing algorithm",
		},
		{
			name:    "negative ttl",
			mutate:  func(cfg *Config) { cfg.Auth.AccessTokenTTL = -time.Second },
			wantErr: "token TTLs must be positive",
		},
		{
			name:    "unsupported hasher",
			mutate:  func(cfg *Config) { cfg.Auth.PasswordHasher = "md5" },
			wantErr: "unsupported password hasher",
		},
		{
			name: "throttle without window",
			mutate: func(cfg *Config) {
				cfg.Auth.LoginThrottle = &LoginThrottleConfig{MaxAttempts: 5}
			},
			wantErr: "loginThrottle.window",
		},
		{
			name:    "production without postgres",
			mutate:  func(cfg *Config) { cfg.Env.Env = EnvProduction },
			wantErr: "postgres configuration is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
