package scraper

import (
	"context"

	"tgscraper/pkg/telegram"
)

// TelegramClient defines the transport operations the engine needs. The
// production implementation is telegram.Client; tests substitute a
// deterministic mock.
type TelegramClient interface {
	Connect(ctx context.Context) error
	ResolveChannel(ctx context.Context, target string) (*telegram.Channel, error)
	SearchParticipants(ctx context.Context, channel *telegram.Channel, prefix string, limit int) ([]telegram.RawMember, error)
}
