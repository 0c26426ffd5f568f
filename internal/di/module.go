package di

import (
	"go.uber.org/fx"

	"github.com/aquadesk/aquadesk/internal/app"
	"github.com/aquadesk/aquadesk/internal/config"
	"github.com/aquadesk/aquadesk/internal/guard"
	"github.com/aquadesk/aquadesk/internal/logger"
	"github.com/aquadesk/aquadesk/internal/server/http/handlers"
	"github.com/aquadesk/aquadesk/internal/server/http/router"
	"github.com/aquadesk/aquadesk/internal/storage/postgres"
	"github.com/aquadesk/aquadesk/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		guard.Module,
		usecase.Module,
		fx.Provide(
			func(s *postgres.Storage) app.Pinger { return s },
			func(f *app.DispatchFacade) handlers.DispatchFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
