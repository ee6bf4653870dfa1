package authorization

import (
	"context"
	"strings"

	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	"go.uber.org/zap"
)

// OwnerService authorizes by identity equality: only the store owner may
// perform privileged actions.
type OwnerService struct {
	log *zap.Logger
}

func NewService(log *zap.Logger) Service {
	return &OwnerService{log: log.Named("authorization.service")}
}

func (s *OwnerService) Authorize(ctx context.Context, actor string, store *storedomain.Store, action Action) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	if store == nil {
		return storedomain.ErrStoreNotFound
	}
	switch action {
	case ActionStoreUpdate, ActionBillingRefund:
	default:
		return ErrInvalidAction
	}

	if actor != store.Owner {
		s.log.Debug("authorization denied",
			zap.String("actor", actor),
			zap.String("store_id", store.ID.String()),
			zap.String("action", string(action)),
		)
		return ErrNotOwner
	}
	return nil
}
