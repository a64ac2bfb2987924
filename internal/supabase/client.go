package supabase

import (
	"github.com/supabase-community/supabase-go"

	"clothora-backend/internal/config"
)

// Client bundles the shared Supabase API client with the loaded
// configuration. The realtime publisher rides on it; storage and the
// direct database connection have their own clients.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

// NewClient connects with the publishable key; per-user authorization is
// enforced by the JWT middleware, not by this client.
func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}
