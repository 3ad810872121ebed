//go:build wireinject
// +build wireinject

package di

import (
	"mediawall/internal"
	"mediawall/internal/archive"
	"mediawall/internal/controllers"
	"mediawall/internal/providers"
	"mediawall/internal/services"
	"mediawall/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		services.NewCooldown,
		wire.Bind(new(providers.ActiveClientsCounter), new(*services.Cooldown)),
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		services.NewLikesLedger,
		services.NewSuggestionsLedger,
		services.NewImplementedCorpus,
		wire.Bind(new(services.CorpusInterface), new(*services.ImplementedCorpus)),
		services.NewLikesService,
		services.NewSuggestionService,
		services.NewTextsService,

		archive.NewZstdCompressor,
		archive.NewSnapshotter,
		archive.NewScheduler,

		controllers.NewMediaController,
		controllers.NewLikesController,
		controllers.NewSuggestionsController,
		controllers.NewTextsController,
		controllers.NewStaticController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
