package controllers

import (
	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"

	authController "housemanagement/internal/controllers/auth"
	catalogController "housemanagement/internal/controllers/catalog"
	chatController "housemanagement/internal/controllers/chat"
	constructionController "housemanagement/internal/controllers/construction"
	designController "housemanagement/internal/controllers/designs"
	quoteController "housemanagement/internal/controllers/quotes"
	userController "housemanagement/internal/controllers/users"
)

type Controllers struct {
	User         userController.UserControllerInterface
	Auth         authController.AuthControllerInterface
	Design       designController.DesignControllerInterface
	Catalog      catalogController.CatalogControllerInterface
	Quote        quoteController.QuoteControllerInterface
	Construction constructionController.ConstructionControllerInterface
	Chat         chatController.ChatControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		User:         userController.New(repos, services, config, db),
		Auth:         authController.New(services, repos, db),
		Design:       designController.New(repos, services, eventBus, config, db),
		Catalog:      catalogController.New(repos, services, eventBus, config, db),
		Quote:        quoteController.New(repos, services, eventBus, config, db),
		Construction: constructionController.New(repos, services, eventBus, config, db),
		Chat:         chatController.New(repos, services, eventBus, config, db),
	}
}
