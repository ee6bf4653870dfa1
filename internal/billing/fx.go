package billing

import (
	"github.com/AvantStark/avant-stark-contract/internal/billing/repository"
	"github.com/AvantStark/avant-stark-contract/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
