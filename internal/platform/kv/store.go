// Package kv provides the narrow key-value contract the income engine reads
// business data through. Each key holds a JSON-serialised array (or is
// absent); callers must tolerate both absence and malformed payloads.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the upstream data contract. Implementations must treat Get on a
// missing key as ErrNotFound, never as an empty string.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Well-known keys used by the income engine.
const (
	KeyPOSTransactions = "pos_transactions"
	KeyAppointments    = "appointments"
	KeyServices        = "services"
	KeyFeedback        = "feedback"
	KeyActiveWorkspace = "active_workspace"
	KeyWorkspaces      = "workspaces"
	KeyBusinessName    = "business_name"

	bookingsKeyFormat = "bookings_%s"
)

// BookingsKey returns the workspace-scoped bookings collection key.
func BookingsKey(workspaceID string) string {
	return fmt.Sprintf(bookingsKeyFormat, workspaceID)
}

// ChangeChannel is the pub/sub channel carrying store-change notifications.
// The message payload is the key that changed; a workspace switch publishes
// KeyActiveWorkspace.
const ChangeChannel = "store.changed"
