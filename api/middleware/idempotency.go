package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/darkstore-backend/pkg/redis"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the idempotency store.
	ReplayedHeader = "Idempotent-Replayed"

	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// idempotentRoutes lists the dashboard writes that require a key. Patterns use
// path.Match syntax, so * stands for one path segment.
var idempotentRoutes = []struct {
	method  string
	pattern string
	ttl     time.Duration
}{
	{http.MethodPost, "/api/v1/dashboard/inventory", defaultIdempotencyTTL},
	{http.MethodPost, "/api/v1/dashboard/orders", defaultIdempotencyTTL},
	{http.MethodPatch, "/api/v1/dashboard/orders/*", defaultIdempotencyTTL},
	{http.MethodPost, "/api/v1/dashboard/orders/*/assign", defaultIdempotencyTTL},
	{http.MethodPost, "/api/v1/dashboard/orders/*/status", defaultIdempotencyTTL},
	{http.MethodPost, "/api/v1/dashboard/orders/*/complete", criticalIdempotencyTTL},
	{http.MethodPost, "/api/v1/dashboard/cart/checkout", criticalIdempotencyTTL},
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	BodyHash    string `json:"body_hash"`
}

// Idempotency replays the stored response when a request repeats its key with
// the same body and rejects the key when the body differs. 5xx responses are
// not stored so the client can retry.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, r.URL.Path)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, IdempotencyKeyHeader+" header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := bodyHash(body)
			storeKey := store.IdempotencyKey(requestScope(r), key)

			prior, err := loadResponse(r.Context(), store, storeKey)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if prior != nil {
				if prior.BodyHash != hash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				prior.replay(w)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if capture.statusCode() >= http.StatusInternalServerError {
				return
			}
			saveResponse(r.Context(), logg, store, storeKey, ttl, storedResponse{
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				BodyHash:    hash,
			})
		})
	}
}

func routeTTL(method, urlPath string) (time.Duration, bool) {
	for _, route := range idempotentRoutes {
		if route.method != method {
			continue
		}
		if matched, _ := path.Match(route.pattern, urlPath); matched {
			return route.ttl, true
		}
	}
	return 0, false
}

// requestScope keys stored responses by caller and route.
func requestScope(r *http.Request) string {
	return UserIDFromContext(r.Context()) + "|" + r.Method + "|" + r.URL.Path
}

func bodyHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func loadResponse(ctx context.Context, store pkgredis.IdempotencyStore, key string) (*storedResponse, error) {
	raw, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	case raw == "":
		return nil, nil
	}
	var resp storedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &resp, nil
}

func saveResponse(ctx context.Context, logg *logger.Logger, store pkgredis.IdempotencyStore, key string, ttl time.Duration, resp storedResponse) {
	payload, err := json.Marshal(resp)
	if err == nil {
		_, err = store.SetNX(ctx, key, string(payload), ttl)
	}
	if err != nil && logg != nil {
		logg.Error(ctx, "persist idempotency record", err)
	}
}

func (s *storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
