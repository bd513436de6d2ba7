package repositories

import (
	"errors"

	"housemanagement/internal/database"
	"housemanagement/internal/types"

	"gorm.io/gorm"
)

type Repository struct {
	User         UserRepository
	Design       DesignRepository
	Catalog      CatalogRepository
	Quote        QuoteRepository
	Project      ProjectRepository
	Conversation ConversationRepository
	Inquiry      InquiryRepository
	Dashboard    DashboardRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:         NewUserRepository(db.Cache.User),
		Design:       NewDesignRepository(),
		Catalog:      NewCatalogRepository(),
		Quote:        NewQuoteRepository(),
		Project:      NewProjectRepository(),
		Conversation: NewConversationRepository(),
		Inquiry:      NewInquiryRepository(),
		Dashboard:    NewDashboardRepository(db.Cache.General),
	}
}

// notFound maps gorm's missing-row error onto the domain sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	return err
}
