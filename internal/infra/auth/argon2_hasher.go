package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"letsshare/config"
	domainerrors "letsshare/internal/domain/errors"
	"letsshare/internal/domain/service"
	"letsshare/internal/errors"

	"golang.org/x/crypto/argon2"
)

const argon2idPrefix = "$argon2id$"

const (
	defaultArgon2Memory      = 64 * 1024
	defaultArgon2Iterations  = 3
	defaultArgon2Parallelism = 2
	defaultArgon2SaltLength  = 16
	defaultArgon2KeyLength   = 32
)

// argon2Hasher implements PasswordHasher with argon2id, encoding hashes as
// $argon2id$v=19$m=MEMORY,t=TIME,p=THREADS$SALT$HASH.
type argon2Hasher struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// NewArgon2Hasher returns an argon2id PasswordHasher. Zero fields use defaults.
func NewArgon2Hasher(cfg config.Argon2Config) service.PasswordHasher {
	h := &argon2Hasher{
		memory:      cfg.Memory,
		iterations:  cfg.Iterations,
		parallelism: cfg.Parallelism,
		saltLength:  cfg.SaltLength,
		keyLength:   cfg.KeyLength,
	}
	if h.memory == 0 {
		h.memory = defaultArgon2Memory
	}
	if h.iterations == 0 {
		h.iterations = defaultArgon2Iterations
	}
	if h.parallelism == 0 {
		h.parallelism = defaultArgon2Parallelism
	}
	if h.saltLength == 0 {
		h.saltLength = defaultArgon2SaltLength
	}
	if h.keyLength == 0 {
		h.keyLength = defaultArgon2KeyLength
	}

	return h
}

func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrapf(domainerrors.ErrPasswordHashFailed, "argon2id salt: %v", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memory, h.parallelism, h.keyLength)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix,
		argon2.Version,
		h.memory, h.iterations, h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *argon2Hasher) Check(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}

	key := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// schemeHasher hashes with the configured scheme and verifies any supported
// scheme, detected from the stored hash prefix.
type schemeHasher struct {
	primary service.PasswordHasher
	bcrypt  service.PasswordHasher
	argon2  service.PasswordHasher
}

// NewPasswordHasher builds the PasswordHasher selected by auth.passwordHasher.
func NewPasswordHasher(cfg *config.Config) service.PasswordHasher {
	var authCfg config.AuthConfig
	if cfg.Auth != nil {
		authCfg = *cfg.Auth
	}

	h := &schemeHasher{
		bcrypt: NewBcryptHasher(authCfg.BcryptCost),
		argon2: NewArgon2Hasher(authCfg.Argon2),
	}
	h.primary = h.bcrypt
	if authCfg.PasswordHasher == config.PasswordHasherArgon2id {
		h.primary = h.argon2
	}

	return h
}

func (h *schemeHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *schemeHasher) Check(password, hash string) bool {
	if strings.HasPrefix(hash, argon2idPrefix) {
		return h.argon2.Check(password, hash)
	}

	return h.bcrypt.Check(password, hash)
}
