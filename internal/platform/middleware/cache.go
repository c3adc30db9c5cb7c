package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
)

// CacheStore is a response cache backend.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// ---------------------------------------------------------------------------
// InMemoryCacheStore
// ---------------------------------------------------------------------------

type memItem struct {
	body    []byte
	expires time.Time
}

func (it memItem) expired(now time.Time) bool { return !now.Before(it.expires) }

// InMemoryCacheStore keeps entries in a map. Expired entries are dropped
// on read and by StartCleanup.
type InMemoryCacheStore struct {
	mu    sync.Mutex
	items map[string]memItem
}

func NewInMemoryCacheStore() *InMemoryCacheStore {
	return &InMemoryCacheStore{items: make(map[string]memItem)}
}

func (s *InMemoryCacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	if it.expired(time.Now()) {
		delete(s.items, key)
		return nil, false, nil
	}
	return it.body, true, nil
}

func (s *InMemoryCacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.items[key] = memItem{body: value, expires: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *InMemoryCacheStore) DeletePrefix(_ context.Context, prefix string) error {
	s.removeIf(func(k string, _ memItem) bool { return strings.HasPrefix(k, prefix) })
	return nil
}

func (s *InMemoryCacheStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *InMemoryCacheStore) removeIf(match func(string, memItem) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, it := range s.items {
		if match(k, it) {
			delete(s.items, k)
		}
	}
}

// StartCleanup sweeps expired entries every interval until ctx is done.
func (s *InMemoryCacheStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.removeIf(func(_ string, it memItem) bool { return it.expired(now) })
			}
		}
	}()
}

// ---------------------------------------------------------------------------
// Response capture
// ---------------------------------------------------------------------------

// captureWriter holds status and body back until the middleware decides
// whether to store them.
type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) { return w.body.Write(b) }

func (w *captureWriter) WriteHeader(code int) { w.status = code }

func (w *captureWriter) release() error {
	w.ResponseWriter.WriteHeader(w.status)
	if w.body.Len() == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(w.body.Bytes())
	return err
}

// ---------------------------------------------------------------------------
// ResponseCache
// ---------------------------------------------------------------------------

type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ResponseCache caches successful GET responses per clinic and lets
// services drop them after writes.
type ResponseCache struct {
	store  CacheStore
	ttl    time.Duration
	logger zerolog.Logger
}

func NewResponseCache(store CacheStore, ttl time.Duration, logger zerolog.Logger) *ResponseCache {
	return &ResponseCache{store: store, ttl: ttl, logger: logger}
}

// cacheKey builds "resp:<clinic>:<path>?<query>". The clinic segment keeps
// tenants apart; the path segment is what Invalidate matches on.
func cacheKey(clinicID uuid.UUID, path, rawQuery string) string {
	k := "resp:" + clinicID.String() + ":" + path
	if rawQuery != "" {
		k += "?" + rawQuery
	}
	return k
}

// Middleware serves cached bodies with X-Cache: HIT and stores 200
// responses on a miss. Requests without a clinic session are not cached.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				return next(c)
			}
			sess := auth.SessionFromContext(req.Context())
			if !sess.HasClinic() {
				c.Response().Header().Set("X-Cache", "SKIP")
				return next(c)
			}

			ctx := req.Context()
			key := cacheKey(*sess.ClinicID, req.URL.Path, req.URL.RawQuery)

			data, ok, err := rc.store.Get(ctx, key)
			if err != nil {
				rc.logger.Warn().Err(err).Str("key", key).Msg("response cache read failed")
			}
			if ok {
				var cached cachedResponse
				if err := json.Unmarshal(data, &cached); err == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(http.StatusOK, cached.ContentType, cached.Body)
				}
			}

			res := c.Response()
			orig := res.Writer
			cw := &captureWriter{ResponseWriter: orig, status: http.StatusOK}
			res.Writer = cw
			err = next(c)
			res.Writer = orig
			if err != nil {
				return err
			}

			if cw.status == http.StatusOK {
				rc.save(ctx, key, res.Header().Get(echo.HeaderContentType), cw.body.Bytes())
			}

			res.Header().Set("X-Cache", "MISS")
			return cw.release()
		}
	}
}

func (rc *ResponseCache) save(ctx context.Context, key, contentType string, body []byte) {
	payload, err := json.Marshal(cachedResponse{ContentType: contentType, Body: body})
	if err != nil {
		return
	}
	if err := rc.store.Set(ctx, key, payload, rc.ttl); err != nil {
		rc.logger.Warn().Err(err).Str("key", key).Msg("response cache write failed")
	}
}

// Invalidate drops every cached response for clinicID under each path,
// including query variants and sub-paths. Failures are logged and not
// returned.
func (rc *ResponseCache) Invalidate(ctx context.Context, clinicID uuid.UUID, paths ...string) {
	for _, p := range paths {
		prefix := cacheKey(clinicID, p, "")
		if err := rc.store.DeletePrefix(ctx, prefix); err != nil {
			rc.logger.Warn().Err(err).Str("prefix", prefix).Msg("response cache invalidation failed")
		}
	}
}
