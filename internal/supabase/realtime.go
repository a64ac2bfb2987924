package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// RealtimeClient surfaces order lifecycle events to subscribed clients.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// Note: Supabase Go client doesn't have direct Realtime publish.
	// Database updates trigger Realtime automatically; clients subscribe
	// to postgres_changes on the orders table filtered by user_id.
	return nil
}

// PublishUserEvent targets the per-user channel that storefront clients
// subscribe to for their own order updates.
func (r *RealtimeClient) PublishUserEvent(userID string, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("user:%s", userID)
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func OrderCreatedPayload(orderID uuid.UUID, status string) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderID.String(),
		"status":   status,
	}
}

func OrderStatusChangedPayload(orderID uuid.UUID, status string) map[string]interface{} {
	return map[string]interface{}{
		"order_id": orderID.String(),
		"status":   status,
	}
}
