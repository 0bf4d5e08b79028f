package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sharetube/syncroom/pkg/metrics"
)

// Message is what rooms fan out. Username names the originating user and
// drives exclusive and self routing.
type Message struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Payload  any    `json:"payload,omitempty"`
}

type recipientFilter func(member Member) bool

// Broadcast sends msg to every member of the room.
func (r *Room) Broadcast(ctx context.Context, msg *Message) (int, error) {
	return r.send(ctx, "all", msg, func(Member) bool { return true })
}

// BroadcastExclusive sends msg to every member whose username differs from
// msg.Username. All sessions of the sender's username are skipped.
func (r *Room) BroadcastExclusive(ctx context.Context, msg *Message) (int, error) {
	if msg == nil {
		return 0, ErrNilMessage
	}

	return r.send(ctx, "exclusive", msg, func(m Member) bool {
		return m.Username() != msg.Username
	})
}

// BroadcastSelf sends msg only to members named msg.Username, which may be
// more than one session.
func (r *Room) BroadcastSelf(ctx context.Context, msg *Message) (int, error) {
	if msg == nil {
		return 0, ErrNilMessage
	}

	return r.send(ctx, "self", msg, func(m Member) bool {
		return m.Username() == msg.Username
	})
}

// send marshals msg once and hands it to every matching member. A failing
// member is logged and skipped. The returned count is the number of members
// that accepted the payload.
func (r *Room) send(ctx context.Context, variant string, msg *Message, match recipientFilter) (int, error) {
	if msg == nil {
		return 0, ErrNilMessage
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}

	metrics.Broadcasts.WithLabelValues(variant).Inc()

	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for member := range r.members {
		if !match(member) {
			continue
		}

		if err := member.Send(data); err != nil {
			metrics.SendFailures.Inc()
			r.logger.WarnContext(ctx, "failed to send message",
				"type", msg.Type,
				"username", member.Username(),
				"error", err,
			)
			continue
		}

		delivered++
	}

	metrics.Deliveries.Add(float64(delivered))
	r.logger.DebugContext(ctx, "broadcast", "variant", variant, "type", msg.Type, "delivered", delivered)

	return delivered, nil
}
