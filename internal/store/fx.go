package store

import (
	"github.com/AvantStark/avant-stark-contract/internal/store/service"
	"go.uber.org/fx"
)

var Module = fx.Module("store.service",
	fx.Provide(service.NewService),
)
