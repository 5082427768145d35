package telegram

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	errs "tgscraper/pkg/errors"
	"tgscraper/pkg/logger"
)

// PerQueryCap is the hard limit the search endpoint places on a single
// participant query. Fetching a full member list requires sweeping many
// queries and merging the results.
const PerQueryCap = 50

// Config holds the connection parameters for one API identity
type Config struct {
	APIID         int
	APIHash       string
	SessionFile   string
	DeviceModel   string
	SystemVersion string
	AppVersion    string
	LangCode      string
}

// Client is the transport client for the messaging platform.
//
// The participant-search backend here is a placeholder: it synthesizes
// deterministic records in the same shape a real search endpoint returns,
// capped at PerQueryCap per query, so everything above the transport can
// be exercised end to end. Swapping in a real MTProto client changes only
// this package.
type Client struct {
	config    Config
	session   *Session
	connected bool
	logger    logger.Logger
}

var channelNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{2,}$`)

// NewClient creates a new transport client. No connection is made until
// Connect is called.
func NewClient(cfg Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		config: cfg,
		logger: log,
	}
}

// Connect establishes the session. Credentials are validated first, then
// the session file is loaded or created. Connect may be retried after a
// failure; calling it again on a connected client is an error.
func (c *Client) Connect(ctx context.Context) error {
	if c.connected {
		return errs.New(errs.ErrorTypeState, "client already connected")
	}
	if c.config.APIID <= 0 {
		return errs.New(errs.ErrorTypeAuth, "api_id must be positive, got %d", c.config.APIID)
	}
	if c.config.APIHash == "" {
		return errs.New(errs.ErrorTypeAuth, "api_hash must not be empty")
	}
	if c.config.SessionFile == "" {
		return errs.New(errs.ErrorTypeSession, "session file path must not be empty")
	}

	session, err := LoadOrCreateSession(c.config.SessionFile, c.config)
	if err != nil {
		return errs.New(errs.ErrorTypeSession, "session setup failed: %v", err)
	}

	if err := ctx.Err(); err != nil {
		return errs.New(errs.ErrorTypeNetwork, "connect aborted: %v", err)
	}

	c.session = session
	c.connected = true

	c.logger.InfoWithFields("connected to Telegram", map[string]interface{}{
		"api_id":       c.config.APIID,
		"session_file": c.config.SessionFile,
		"device":       session.DeviceModel,
	})
	return nil
}

// Connected reports whether a session is established
func (c *Client) Connected() bool {
	return c.connected
}

// ResolveChannel resolves a channel name or t.me link to a channel handle
func (c *Client) ResolveChannel(ctx context.Context, target string) (*Channel, error) {
	if !c.connected {
		return nil, errs.New(errs.ErrorTypeState, "client not connected")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, "resolve aborted: %v", err)
	}

	name := NormalizeTarget(target)
	if !channelNameRe.MatchString(name) {
		return nil, errs.New(errs.ErrorTypeNotFound, "target %q not found", target)
	}

	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(name)))

	channel := &Channel{
		ID:       int64(h.Sum64() & 0x7fffffffffffffff),
		Username: name,
		Title:    name,
	}

	c.logger.DebugWithFields("resolved channel", map[string]interface{}{
		"target":     target,
		"channel_id": channel.ID,
	})
	return channel, nil
}

// NormalizeTarget strips the "@" and t.me link prefixes from a channel
// reference, leaving the bare username.
func NormalizeTarget(target string) string {
	name := strings.TrimSpace(target)
	for _, prefix := range []string{"https://t.me/", "http://t.me/", "t.me/"} {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
			break
		}
	}
	return strings.TrimPrefix(name, "@")
}

// SearchParticipants runs one participant search query against the channel
// and returns up to min(limit, PerQueryCap) members matching the prefix.
func (c *Client) SearchParticipants(ctx context.Context, channel *Channel, prefix string, limit int) ([]RawMember, error) {
	if !c.connected {
		return nil, errs.New(errs.ErrorTypeState, "client not connected")
	}
	if channel == nil {
		return nil, errs.New(errs.ErrorTypeArgument, "channel must not be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.New(errs.ErrorTypeTransient, "search aborted: %v", err)
	}
	if limit <= 0 {
		return nil, nil
	}

	// Placeholder backend: synthesize the batch a real search call would
	// return. Ids are offset per prefix so different prefixes overlap the
	// way real searches do.
	count := limit
	if count > PerQueryCap {
		count = PerQueryCap
	}

	now := time.Now().Unix()
	members := make([]RawMember, 0, count)
	for i := 0; i < count; i++ {
		m := RawMember{
			ID:         int64(i) + int64(len(prefix))*1000,
			Username:   strPtr(fmt.Sprintf("user_%s%d", prefix, i)),
			FirstName:  strPtr(fmt.Sprintf("User%d", i)),
			LastName:   strPtr(fmt.Sprintf("Last%d", i)),
			IsPremium:  i%10 == 0,
			LastOnline: now,
		}
		if i%5 == 0 {
			m.Phone = strPtr(fmt.Sprintf("+1%010d", i))
		}
		members = append(members, m)
	}

	c.logger.DebugWithFields("participant search completed", map[string]interface{}{
		"channel": channel.Username,
		"prefix":  prefix,
		"limit":   limit,
		"count":   len(members),
	})
	return members, nil
}

// Close tears down the session state
func (c *Client) Close() {
	c.connected = false
	c.session = nil
}

func strPtr(s string) *string {
	return &s
}
