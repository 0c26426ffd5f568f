package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/aquadesk/aquadesk/internal/config"
	"github.com/aquadesk/aquadesk/internal/domain/repository"
	"github.com/aquadesk/aquadesk/internal/guard"
	"github.com/aquadesk/aquadesk/internal/schedule"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newCalculator,
	NewCustomerUseCase,
	NewRuleUseCase,
	NewRequestUseCase,
	newSweepUseCase,
)

func newCalculator(cfg *config.Config) *schedule.Calculator {
	return schedule.NewCalculator(cfg.BusinessTZOffsetMin)
}

type sweepParams struct {
	fx.In

	Rules     repository.RuleRepository
	Requests  repository.RequestRepository
	Customers repository.CustomerRepository
	Guard     *guard.Guard
	Calc      *schedule.Calculator
	Logger    *slog.Logger
	Config    *config.Config
}

func newSweepUseCase(p sweepParams) *SweepUseCase {
	return NewSweepUseCase(p.Rules, p.Requests, p.Customers, p.Guard, p.Calc, p.Logger, p.Config.RuleTimeout)
}
