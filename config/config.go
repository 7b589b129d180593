package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultHTTPPort           = 8000
	defaultReadTimeout        = 30 * time.Second
	defaultWriteTimeout       = 30 * time.Second
	defaultIdleTimeout        = 120 * time.Second
	defaultSigningAlgorithm   = "HS256"
	defaultAccessTokenTTL     = 15 * time.Minute
	defaultRefreshTokenTTL    = 7 * 24 * time.Hour
	defaultPasswordHasher     = PasswordHasherBcrypt
	defaultBcryptCost         = 12
	defaultQRCodeSize         = 256
	defaultQRCodeLevel        = "M"
	defaultMetricsPath        = "/metrics"
)

// Deployment environments recognised by Validate.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Password hashing schemes accepted in auth.passwordHasher.
const (
	PasswordHasherBcrypt   = "bcrypt"
	PasswordHasherArgon2id = "argon2id"
)

// Pub/Sub providers accepted in pubsub.provider.
const (
	PubSubProviderLocal   = "local"
	PubSubProviderGoogle  = "google"
	PubSubProviderGoCloud = "gocloud"
)

// SigningAlgorithms lists the JWT algorithms the token service can use.
var SigningAlgorithms = []string{"HS256", "HS384", "HS512"}

type Config struct {
	Env EnvConfig `json:"env" yaml:"env"`

	HTTP HTTPConfig `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey SecretKeyConfig `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Redis backs the login throttle. Nil disables throttling.
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	// QRCode configuration for post share codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// PubSub configuration for domain event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	Metrics *MetricsConfig `json:"metrics" yaml:"metrics"`
}

type EnvConfig struct {
	Env         string `json:"env" yaml:"env"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	Debug       bool   `json:"debug" yaml:"debug"`
	Log         Log    `json:"log" yaml:"log"`
}

type HTTPConfig struct {
	Host               string         `json:"host" yaml:"host"`
	Port               int            `json:"port" yaml:"port"`
	MaxRequestBodySize string         `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
	Timeouts           TimeoutsConfig `json:"timeouts" yaml:"timeouts"`
	CORS               CORSConfig     `json:"cors" yaml:"cors"`
}

type TimeoutsConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
}

type CORSConfig struct {
	AllowOrigins []string `json:"allowOrigins" yaml:"allowOrigins"`
}

// SecretKeyConfig holds the HMAC secrets for access and refresh tokens.
type SecretKeyConfig struct {
	Access  string `json:"access" yaml:"access"`
	Refresh string `json:"refresh" yaml:"refresh"`
}

// AuthConfig defines token and password hashing configuration
type AuthConfig struct {
	SigningAlgorithm string               `json:"signingAlgorithm" yaml:"signingAlgorithm"`
	AccessTokenTTL   time.Duration        `json:"accessTokenTTL" yaml:"accessTokenTTL"`
	RefreshTokenTTL  time.Duration        `json:"refreshTokenTTL" yaml:"refreshTokenTTL"`
	PasswordHasher   string               `json:"passwordHasher" yaml:"passwordHasher"`
	BcryptCost       int                  `json:"bcryptCost" yaml:"bcryptCost"`
	Argon2           Argon2Config         `json:"argon2" yaml:"argon2"`
	LoginThrottle    *LoginThrottleConfig `json:"loginThrottle" yaml:"loginThrottle"`
}

// Argon2Config tunes argon2id hashing. Zero values fall back to the hasher defaults.
type Argon2Config struct {
	Memory      uint32 `json:"memory" yaml:"memory"`
	Iterations  uint32 `json:"iterations" yaml:"iterations"`
	Parallelism uint8  `json:"parallelism" yaml:"parallelism"`
	SaltLength  uint32 `json:"saltLength" yaml:"saltLength"`
	KeyLength   uint32 `json:"keyLength" yaml:"keyLength"`
}

// LoginThrottleConfig limits failed login attempts per email within a window
type LoginThrottleConfig struct {
	MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts"`
	Window      time.Duration `json:"window" yaml:"window"`
}

type RedisConfig struct {
	URL      string `json:"url" yaml:"url"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	PoolSize int    `json:"poolSize" yaml:"poolSize"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
	BaseURL              string `json:"baseUrl" yaml:"baseUrl"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local", "google" or "gocloud"
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Optional API endpoint override (for google provider)
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	// Portable topic URL such as mem://events (for gocloud provider)
	TopicURL string `json:"topicUrl" yaml:"topicUrl"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// SECRETKEY_ACCESS -> secretKey.access, aligned with the YAML keys.
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads config.yaml, overlays the environment and validates the result.
// The returned Config is treated as read-only for the process lifetime.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Postgres != nil {
		// POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, ...
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Env.Env == "" {
		c.Env.Env = EnvDevelopment
	}
	if c.Env.Log.Level == "" {
		c.Env.Log.Level = "info"
	}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultHTTPPort
	}
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.HTTP.Timeouts.ReadTimeout == 0 {
		c.HTTP.Timeouts.ReadTimeout = defaultReadTimeout
	}
	if c.HTTP.Timeouts.WriteTimeout == 0 {
		c.HTTP.Timeouts.WriteTimeout = defaultWriteTimeout
	}
	if c.HTTP.Timeouts.IdleTimeout == 0 {
		c.HTTP.Timeouts.IdleTimeout = defaultIdleTimeout
	}
	if len(c.HTTP.CORS.AllowOrigins) == 0 {
		c.HTTP.CORS.AllowOrigins = []string{"*"}
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.SigningAlgorithm == "" {
		c.Auth.SigningAlgorithm = defaultSigningAlgorithm
	}
	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
	if c.Auth.RefreshTokenTTL == 0 {
		c.Auth.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if c.Auth.PasswordHasher == "" {
		c.Auth.PasswordHasher = defaultPasswordHasher
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = defaultBcryptCost
	}

	if c.QRCode == nil {
		c.QRCode = &QRCodeConfig{}
	}
	if c.QRCode.Size == 0 {
		c.QRCode.Size = defaultQRCodeSize
	}
	if c.QRCode.ErrorCorrectionLevel == "" {
		c.QRCode.ErrorCorrectionLevel = defaultQRCodeLevel
	}

	if c.Metrics != nil && c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}
}

// Validate reports configuration that would leave the service insecure or unusable.
func (c *Config) Validate() error {
	switch c.Env.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return errors.Errorf("unknown environment %q", c.Env.Env)
	}

	if c.SecretKey.Access == "" || c.SecretKey.Refresh == "" {
		return errors.New("secretKey.access and secretKey.refresh must be provided")
	}
	if c.SecretKey.Access == c.SecretKey.Refresh {
		return errors.New("secretKey.access and secretKey.refresh must differ")
	}

	if c.Auth == nil {
		return errors.New("auth configuration is missing")
	}
	if !slices.Contains(SigningAlgorithms, c.Auth.SigningAlgorithm) {
		return errors.Errorf("unsupported signing algorithm %q", c.Auth.SigningAlgorithm)
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	switch c.Auth.PasswordHasher {
	case PasswordHasherBcrypt, PasswordHasherArgon2id:
	default:
		return errors.Errorf("unsupported password hasher %q", c.Auth.PasswordHasher)
	}
	if c.Auth.LoginThrottle != nil && c.Auth.LoginThrottle.MaxAttempts > 0 && c.Auth.LoginThrottle.Window <= 0 {
		return errors.New("auth.loginThrottle.window must be positive")
	}

	if c.Env.Env == EnvProduction {
		if c.Postgres == nil {
			return errors.New("postgres configuration is required in production")
		}
		if slices.Contains(c.HTTP.CORS.AllowOrigins, "*") {
			return errors.New("wildcard CORS origin is not allowed in production")
		}
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Format: POSTGRES_REPLICAS_{index}_{HOST|PORT|USERNAME|PASSWORD}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
