package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sphereview_backend/internal/config"
	"sphereview_backend/internal/model"
	"sphereview_backend/pkg/logger"
	"sphereview_backend/pkg/monitoring"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	scriptureBreakerName   = "scripture-api"
	scriptureCachePrefix   = "scripture:"
	defaultTranslationName = "World English Bible"
	defaultTranslationNote = "Public Domain"
)

// 去掉经文引用中的半节后缀，例如 16b、28a
var verseSuffix = regexp.MustCompile(`(?i)(\d)([ab])\b`)

func NormalizeReference(ref string) string {
	return strings.TrimSpace(verseSuffix.ReplaceAllString(ref, "$1"))
}

type scriptureAPIResponse struct {
	Reference       string `json:"reference"`
	Text            string `json:"text"`
	TranslationName string `json:"translation_name"`
	TranslationNote string `json:"translation_note"`
}

// ScriptureService 经文查询，失败时返回 nil，页面照常渲染
type ScriptureService struct {
	baseURL string
	client  *http.Client
	cache   *redis.Client
	breaker *gobreaker.CircuitBreaker[*model.ScripturePassage]

	mu       sync.RWMutex
	cacheTTL time.Duration
}

func NewScriptureService(cfg config.ScriptureConfig, rdb *redis.Client) *ScriptureService {
	monitoring.CircuitBreakerState.WithLabelValues(scriptureBreakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[*model.ScripturePassage](gobreaker.Settings{
		Name:        scriptureBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 调用方断开不代表经文接口故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			monitoring.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &ScriptureService{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		client:   &http.Client{Timeout: cfg.Timeout()},
		cache:    rdb,
		breaker:  breaker,
		cacheTTL: cfg.CacheTTL(),
	}
}

// SetCacheTTL 配置热更新时调用
func (s *ScriptureService) SetCacheTTL(ttl time.Duration) {
	s.mu.Lock()
	s.cacheTTL = ttl
	s.mu.Unlock()
}

func (s *ScriptureService) ttl() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cacheTTL
}

// Lookup 先查缓存，再经熔断器请求外部接口
func (s *ScriptureService) Lookup(ctx context.Context, reference string) *model.ScripturePassage {
	ref := NormalizeReference(reference)
	if ref == "" {
		return nil
	}

	if passage := s.cached(ctx, ref); passage != nil {
		monitoring.ScriptureLookups.WithLabelValues("cache_hit").Inc()
		return passage
	}

	passage, err := s.breaker.Execute(func() (*model.ScripturePassage, error) {
		return s.fetch(ctx, ref)
	})
	if err != nil {
		result := "error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			result = "rejected"
		case errors.Is(err, context.Canceled):
			result = "canceled"
		}
		monitoring.ScriptureLookups.WithLabelValues(result).Inc()
		logger.Log.Warn("Scripture lookup failed", zap.String("reference", ref), zap.Error(err))
		return nil
	}
	if passage == nil {
		monitoring.ScriptureLookups.WithLabelValues("not_found").Inc()
		return nil
	}

	monitoring.ScriptureLookups.WithLabelValues("fetched").Inc()
	s.store(ctx, ref, passage)
	return passage
}

// fetch 未找到经文返回 nil, nil，不计入熔断失败
func (s *ScriptureService) fetch(ctx context.Context, ref string) (*model.ScripturePassage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("scripture api returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var body scriptureAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		return nil, nil
	}

	passage := &model.ScripturePassage{
		Reference:       body.Reference,
		Text:            text,
		TranslationName: body.TranslationName,
		TranslationNote: body.TranslationNote,
	}
	if passage.Reference == "" {
		passage.Reference = ref
	}
	if passage.TranslationName == "" {
		passage.TranslationName = defaultTranslationName
	}
	if passage.TranslationNote == "" {
		passage.TranslationNote = defaultTranslationNote
	}
	return passage, nil
}

func (s *ScriptureService) cached(ctx context.Context, ref string) *model.ScripturePassage {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, scriptureCachePrefix+ref).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Debug("Scripture cache read failed", zap.Error(err))
		}
		return nil
	}
	var passage model.ScripturePassage
	if err := json.Unmarshal(raw, &passage); err != nil {
		return nil
	}
	return &passage
}

func (s *ScriptureService) store(ctx context.Context, ref string, passage *model.ScripturePassage) {
	ttl := s.ttl()
	if s.cache == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(passage)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, scriptureCachePrefix+ref, raw, ttl).Err(); err != nil {
		logger.Log.Debug("Scripture cache write failed", zap.Error(err))
	}
}
