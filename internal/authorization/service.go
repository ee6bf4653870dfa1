package authorization

import (
	"context"

	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
)

// Action names a privileged operation on a store.
type Action string

const (
	ActionStoreUpdate   Action = "store.update"
	ActionBillingRefund Action = "billing.refund"
)

// Service decides whether an actor may perform a privileged action on a
// store. Kept behind an interface so tests can substitute the check.
type Service interface {
	Authorize(ctx context.Context, actor string, store *storedomain.Store, action Action) error
}
