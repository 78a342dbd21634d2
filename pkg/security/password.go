package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
)

const (
	// MinPasswordLength is counted in runes.
	MinPasswordLength = 8

	hashPrefix = "$argon2id$"
)

var (
	ErrInvalidHash  = errors.New("invalid argon2id hash")
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters and mix letters and digits", MinPasswordLength)
)

var b64 = base64.RawStdEncoding

// argonCost is encoded into every hash so old hashes keep verifying after
// the configured cost changes.
type argonCost struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

func costFromConfig(cfg config.PasswordConfig) argonCost {
	return argonCost{
		memory:  uint32(between(cfg.ArgonMemoryKB, 8, 512*1024)),
		time:    uint32(between(cfg.ArgonTime, 1, 10)),
		threads: uint8(between(cfg.ArgonParallelism, 1, 255)),
		saltLen: uint32(between(cfg.ArgonSaltLen, 8, 64)),
		keyLen:  uint32(between(cfg.ArgonKeyLen, 16, 64)),
	}
}

func (c argonCost) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, c.time, c.memory, c.threads, c.keyLen)
}

// HashPassword encodes password as $argon2id$v=19$m=..,t=..,p=..$salt$key.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	cost := costFromConfig(cfg)
	salt := make([]byte, cost.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := cost.derive(password, salt)
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		hashPrefix, argon2.Version, cost.memory, cost.time, cost.threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword reports a mismatch as (false, nil); only unreadable hashes error.
func VerifyPassword(password, encoded string) (bool, error) {
	cost, salt, key, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(key, cost.derive(password, salt)) == 1, nil
}

func parseHash(encoded string) (argonCost, []byte, []byte, error) {
	rest, ok := strings.CutPrefix(encoded, hashPrefix)
	if !ok {
		return argonCost{}, nil, nil, ErrInvalidHash
	}
	// v=19 $ m=..,t=..,p=.. $ salt $ key
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return argonCost{}, nil, nil, ErrInvalidHash
	}

	var cost argonCost
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &cost.memory, &cost.time, &cost.threads); err != nil {
		return argonCost{}, nil, nil, ErrInvalidHash
	}
	salt, err := b64.DecodeString(fields[2])
	if err != nil {
		return argonCost{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(fields[3])
	if err != nil || len(key) == 0 {
		return argonCost{}, nil, nil, ErrInvalidHash
	}
	cost.saltLen = uint32(len(salt))
	cost.keyLen = uint32(len(key))
	return cost, salt, key, nil
}

func between(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// CheckStrength requires MinPasswordLength runes with at least one letter and one digit.
func CheckStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	hasLetter := strings.IndexFunc(password, unicode.IsLetter) >= 0
	hasDigit := strings.IndexFunc(password, unicode.IsDigit) >= 0
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
