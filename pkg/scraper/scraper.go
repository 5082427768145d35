package scraper

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tgscraper/pkg/cache"
	"tgscraper/pkg/config"
	errs "tgscraper/pkg/errors"
	"tgscraper/pkg/logger"
	"tgscraper/pkg/models"
	"tgscraper/pkg/ratelimit"
	"tgscraper/pkg/telegram"
)

// Engine owns one transport session and the member cache, and drives the
// pattern-sweep enumeration. It is created once per embedding context and
// its cache grows monotonically for its whole lifetime.
type Engine struct {
	client      TelegramClient
	memberCache *cache.Store
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
	connected   atomic.Bool
	running     atomic.Bool
}

// New creates an Engine from configuration, wiring the real transport
// client and the configured rate limiter.
func New(cfg *config.Config) *Engine {
	log := logger.GetLogger()

	client := telegram.NewClient(telegram.Config{
		APIID:         cfg.Telegram.APIID,
		APIHash:       cfg.Telegram.APIHash,
		SessionFile:   cfg.Telegram.SessionFile,
		DeviceModel:   cfg.Telegram.DeviceModel,
		SystemVersion: cfg.Telegram.SystemVersion,
		AppVersion:    cfg.Telegram.AppVersion,
		LangCode:      cfg.Telegram.LangCode,
	}, log)

	var limiter ratelimit.Limiter
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	} else {
		limiter = ratelimit.NewInterval(cfg.RateLimit.MinInterval)
	}

	return NewWithClient(client, limiter, log)
}

// NewWithClient creates an Engine with an explicit transport client and
// rate limiter. Tests use this to inject mocks.
func NewWithClient(client TelegramClient, limiter ratelimit.Limiter, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.NewInterval(2 * time.Second)
	}
	return &Engine{
		client:      client,
		memberCache: cache.NewStore(),
		rateLimiter: limiter,
		logger:      log,
	}
}

// Connect establishes the transport session. A second call while already
// connected fails fast; a failed connect may be retried.
func (e *Engine) Connect(ctx context.Context) error {
	if e.connected.Load() {
		return errs.New(errs.ErrorTypeState, "already connected")
	}

	if err := e.client.Connect(ctx); err != nil {
		e.logger.WithError(err).Error("connect failed")
		return err
	}

	e.connected.Store(true)
	return nil
}

// Connected reports whether a transport session is established
func (e *Engine) Connected() bool {
	return e.connected.Load()
}

// CacheLen returns the number of unique members discovered so far
func (e *Engine) CacheLen() int {
	return e.memberCache.Len()
}

// Scrape enumerates the member list of the task's target channel by
// sweeping the task's search prefixes and merging every batch through the
// dedup cache. Partial results are success: patterns running out before
// the cap is reached just means the channel has fewer members.
func (e *Engine) Scrape(ctx context.Context, task models.Task) ([]models.Member, error) {
	if !e.connected.Load() {
		return nil, errs.New(errs.ErrorTypeState, "not connected")
	}
	if task.MaxMembers < 0 {
		return nil, errs.New(errs.ErrorTypeArgument, "max members cannot be negative, got %d", task.MaxMembers)
	}
	if !e.running.CompareAndSwap(false, true) {
		return nil, errs.New(errs.ErrorTypeState, "a scrape is already in progress")
	}
	defer e.running.Store(false)

	// A zero cap returns before any transport work, including resolution.
	if task.MaxMembers == 0 {
		return []models.Member{}, nil
	}

	taskID := uuid.NewString()
	log := e.logger.WithFields(map[string]interface{}{
		"task_id": taskID,
		"target":  task.Target,
	})
	log.WithField("max_members", task.MaxMembers).Info("starting scrape")

	channel, err := e.client.ResolveChannel(ctx, task.Target)
	if err != nil {
		if errs.TypeOf(err) == errs.ErrorTypeNotFound {
			log.WithError(err).Error("target did not resolve")
			return nil, err
		}
		log.WithError(err).Error("channel resolution failed")
		return nil, errs.New(errs.ErrorTypeBackend, "resolve %s: %v", task.Target, err)
	}

	unique := 0
	for i, pattern := range task.Patterns {
		if unique >= task.MaxMembers {
			break
		}

		log.DebugWithFields("sweeping pattern", map[string]interface{}{
			"pattern":  pattern,
			"position": i + 1,
			"total":    len(task.Patterns),
		})

		batch, err := e.client.SearchParticipants(ctx, channel, pattern, task.MaxMembers-unique)
		if err != nil {
			// One failed prefix must not abort the whole enumeration.
			if errs.IsRetryable(errs.TypeOf(err)) {
				log.WithError(err).WithField("pattern", pattern).Warn("pattern query failed, skipping")
				continue
			}
			log.WithError(err).WithField("pattern", pattern).Error("search failed")
			return nil, errs.New(errs.ErrorTypeBackend, "search %q: %v", pattern, err)
		}

		for _, raw := range batch {
			member := normalize(raw, task.Target)
			if e.memberCache.TryInsert(member) {
				unique++
				if unique >= task.MaxMembers {
					break
				}
			}
		}

		if unique >= task.MaxMembers {
			break
		}
		if err := e.rateLimiter.Wait(ctx); err != nil {
			return nil, errs.New(errs.ErrorTypeBackend, "rate limiter wait: %v", err)
		}
	}

	results := e.memberCache.Snapshot()
	if len(results) > task.MaxMembers {
		results = results[:task.MaxMembers]
	}

	log.WithFields(map[string]interface{}{
		"unique_new": unique,
		"returned":   len(results),
	}).Info("scrape completed")

	return results, nil
}

// normalize converts a raw wire record into the canonical member model.
// Text fields are copied so the cache never aliases transport buffers.
func normalize(raw telegram.RawMember, source string) models.Member {
	return models.Member{
		ID:         raw.ID,
		Username:   clonePtr(raw.Username),
		FirstName:  clonePtr(raw.FirstName),
		LastName:   clonePtr(raw.LastName),
		Phone:      clonePtr(raw.Phone),
		IsPremium:  raw.IsPremium,
		LastOnline: raw.LastOnline,
		SourceChan: source,
	}
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
