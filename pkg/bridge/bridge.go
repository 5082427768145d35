package bridge

import (
	"context"
	"sync"

	"tgscraper/internal/runner"
	"tgscraper/pkg/config"
	errs "tgscraper/pkg/errors"
	"tgscraper/pkg/logger"
	"tgscraper/pkg/models"
	"tgscraper/pkg/scraper"
)

// State tracks the lifecycle of one boundary instance
type State int

const (
	// StateInitialized means init has run but no session exists yet
	StateInitialized State = iota
	// StateConnected means a transport session is established
	StateConnected
	// StateDestroyed means the instance is dead; every further call fails
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateConnected:
		return "connected"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Bridge adapts the asynchronous engine to the synchronous call surface a
// foreign host expects. Each operation is submitted to a dedicated worker
// through a bounded queue and the caller blocks until it completes, so
// hosts may call from any thread without seeing engine internals.
//
// A Bridge is one independent instance; the C layer hands hosts an opaque
// handle per instance instead of sharing process-global state.
type Bridge struct {
	run     *runner.Runner
	engine  *scraper.Engine
	logger  logger.Logger
	mu      sync.Mutex
	state   State
	lastErr error
}

// New creates a bridge in the initialized state with its worker running
func New(log logger.Logger) *Bridge {
	if log == nil {
		log = logger.GetLogger()
	}
	b := &Bridge{
		run:    runner.New(runner.DefaultQueueSize, log),
		logger: log,
		state:  StateInitialized,
	}
	b.run.Start()
	return b
}

// LastError returns the error recorded by the most recent operation, or
// nil if it succeeded. The C layer exposes this as a stable error code.
func (b *Bridge) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// LastErrorCode returns the boundary error code of the most recent
// operation (errors.CodeNone when it succeeded).
func (b *Bridge) LastErrorCode() int {
	return errs.BoundaryCode(b.LastError())
}

// State returns the current lifecycle state
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Connect establishes the transport session. Credentials arrive from the
// host at call time; engine construction is deferred until here so each
// bridge carries exactly one session's configuration.
func (b *Bridge) Connect(apiID int, apiHash, sessionFile string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateDestroyed {
		return b.record(errs.New(errs.ErrorTypeState, "bridge is destroyed"))
	}
	if b.state == StateConnected {
		return b.record(errs.New(errs.ErrorTypeState, "already connected"))
	}
	if apiHash == "" {
		return b.record(errs.New(errs.ErrorTypeArgument, "api hash must not be empty"))
	}
	if sessionFile == "" {
		return b.record(errs.New(errs.ErrorTypeArgument, "session file must not be empty"))
	}

	cfg := config.DefaultConfig()
	cfg.Telegram.APIID = apiID
	cfg.Telegram.APIHash = apiHash
	cfg.Telegram.SessionFile = sessionFile

	engine := scraper.New(cfg)

	var connectErr error
	if err := b.run.Do(func() {
		connectErr = engine.Connect(context.Background())
	}); err != nil {
		return b.record(err)
	}
	if connectErr != nil {
		// Connect may be retried on a fresh call; the bridge stays
		// initialized and keeps no half-built engine around.
		return b.record(connectErr)
	}

	b.engine = engine
	b.state = StateConnected
	b.logger.WithField("api_id", apiID).Info("bridge connected")
	return b.record(nil)
}

// Scrape runs one enumeration task and returns an owned copy of the
// unique member records. The cache inside the engine keeps its own
// copies; the returned slice belongs to the caller.
func (b *Bridge) Scrape(target string, maxMembers int) ([]models.Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateDestroyed {
		return nil, b.record(errs.New(errs.ErrorTypeState, "bridge is destroyed"))
	}
	if b.state != StateConnected {
		return nil, b.record(errs.New(errs.ErrorTypeState, "not connected"))
	}
	if target == "" {
		return nil, b.record(errs.New(errs.ErrorTypeArgument, "target must not be empty"))
	}
	if maxMembers < 0 {
		return nil, b.record(errs.New(errs.ErrorTypeArgument, "max members cannot be negative"))
	}

	task := models.Task{
		Target:     target,
		MaxMembers: maxMembers,
		Patterns:   models.DefaultPatterns,
	}

	var (
		members   []models.Member
		scrapeErr error
	)
	if err := b.run.Do(func() {
		members, scrapeErr = b.engine.Scrape(context.Background(), task)
	}); err != nil {
		return nil, b.record(err)
	}
	if scrapeErr != nil {
		return nil, b.record(scrapeErr)
	}

	return copyMembers(members), b.record(nil)
}

// Destroy invalidates the bridge. Pending queued work completes first;
// every later call fails with a state error. Destroy is idempotent.
func (b *Bridge) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateDestroyed {
		return
	}
	b.state = StateDestroyed
	b.engine = nil
	b.run.Stop()
	b.logger.Info("bridge destroyed")
}

// record stores the outcome of an operation for LastError and passes the
// error through.
func (b *Bridge) record(err error) error {
	b.lastErr = err
	return err
}

// copyMembers deep-copies records so the caller's slice shares nothing
// with the engine's cache.
func copyMembers(members []models.Member) []models.Member {
	out := make([]models.Member, len(members))
	for i, m := range members {
		out[i] = models.Member{
			ID:         m.ID,
			Username:   clonePtr(m.Username),
			FirstName:  clonePtr(m.FirstName),
			LastName:   clonePtr(m.LastName),
			Phone:      clonePtr(m.Phone),
			IsPremium:  m.IsPremium,
			LastOnline: m.LastOnline,
			SourceChan: m.SourceChan,
		}
	}
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
