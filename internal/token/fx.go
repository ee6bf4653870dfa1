package token

import (
	"github.com/AvantStark/avant-stark-contract/internal/clock"
	"github.com/AvantStark/avant-stark-contract/internal/config"
	tokendomain "github.com/AvantStark/avant-stark-contract/internal/token/domain"
	"github.com/AvantStark/avant-stark-contract/internal/token/ledgertoken"
	"go.uber.org/fx"
)

var Module = fx.Module("token",
	fx.Provide(func(cfg config.Config, clk clock.Clock) *ledgertoken.Ledger {
		return ledgertoken.New(cfg.ServiceName, clk)
	}),
	fx.Provide(func(ledger *ledgertoken.Ledger) tokendomain.Transferer {
		return ledger
	}),
)
