package service

import (
	"context"
	"log/slog"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// Notifier hands a freshly minted invitation off to the delivery channel
// (email templating and sending live outside this service). Calls are
// fire-and-forget: delivery failure never fails the request that minted the
// invitation.
type Notifier interface {
	InvitationCreated(ctx context.Context, inv domain.Invitation, token string)
}

// LogNotifier is the default Notifier: it records the hand-off and nothing
// else. Deployments wire a real delivery integration in its place.
type LogNotifier struct{}

func (LogNotifier) InvitationCreated(ctx context.Context, inv domain.Invitation, token string) {
	slogx.FromContext(ctx).Info("invitation ready for delivery",
		slog.String("invitation_id", inv.ID),
		slog.String("email", inv.Email),
		slog.String("role", string(inv.Role)),
	)
}
