package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// limitKey extracts the value a dimension counts against. body is nil unless
// some dimension of the policy needs it.
type limitKey func(r *http.Request, body []byte) string

type dimension struct {
	kind     string
	limit    int64
	key      limitKey
	needBody bool
}

// AuthRateLimitPolicy throttles one auth endpoint over a fixed window.
type AuthRateLimitPolicy struct {
	name   string
	window time.Duration
	dims   []dimension
}

// NewAuthRateLimitPolicy counts per client IP and per hashed email. A zero
// limit drops that dimension.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	p := AuthRateLimitPolicy{name: strings.ToLower(strings.TrimSpace(name)), window: window}
	if p.name == "" {
		p.name = "auth"
	}
	if ipLimit > 0 {
		p.dims = append(p.dims, dimension{kind: "ip", limit: int64(ipLimit), key: ipKey})
	}
	if emailLimit > 0 {
		p.dims = append(p.dims, dimension{kind: "email", limit: int64(emailLimit), key: emailKey, needBody: true})
	}
	return p
}

func LoginRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy("login", cfg.LoginWindow, cfg.LoginIPLimit, cfg.LoginEmailLimit)
}

func RegisterRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy("register", cfg.RegisterWindow, cfg.RegisterIPLimit, cfg.RegisterEmailLimit)
}

func (p AuthRateLimitPolicy) needsBody() bool {
	for _, d := range p.dims {
		if d.needBody {
			return true
		}
	}
	return false
}

// AuthRateLimit rejects with 429 once any dimension of policy is over its
// limit. Store failures surface as DEPENDENCY_ERROR rather than failing open.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || policy.window <= 0 || len(policy.dims) == 0 {
			return next
		}
		readBody := policy.needsBody()

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if readBody {
				raw, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				body = raw
				r.Body = io.NopCloser(bytes.NewReader(raw))
			}

			for _, d := range policy.dims {
				value := d.key(r, body)
				if value == "" {
					continue
				}
				scope := "auth:" + policy.name + ":" + d.kind + ":" + value
				allowed, count, err := store.FixedWindowAllow(ctx, scope, d.limit, policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":   policy.name,
							"scope":    d.kind,
							"attempts": count,
							"limit":    d.limit,
						}), "auth rate limit hit")
					}
					w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ipKey(r *http.Request, _ []byte) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// emailKey hashes the address so raw emails never land in redis keys.
func emailKey(_ *http.Request, body []byte) string {
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
