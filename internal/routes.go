package internal

import (
	"mediawall/internal/controllers"
	"mediawall/internal/providers"
	"net/http"
)

func InitRoutes(mediaController *controllers.MediaController, likesController *controllers.LikesController, suggestionsController *controllers.SuggestionsController, textsController *controllers.TextsController, staticController *controllers.StaticController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/videos", http.HandlerFunc(mediaController.ListMedia))
	routers.Get("/api/likes", http.HandlerFunc(likesController.GetLikes))
	routers.Post("/api/likes", http.HandlerFunc(likesController.AddLike))
	routers.Get("/api/suggestions", http.HandlerFunc(suggestionsController.ListSuggestions))
	routers.Post("/api/suggestions", http.HandlerFunc(suggestionsController.SubmitSuggestion))
	routers.Post("/api/existential-texts", http.HandlerFunc(textsController.GetTexts))
	routers.Get("/videos/", http.HandlerFunc(mediaController.ServeMedia))
	routers.Get("/", http.HandlerFunc(staticController.ServeStatic))
	return routers
}
