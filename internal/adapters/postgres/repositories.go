package postgres

import (
	"gorm.io/gorm"

	"github.com/x67digital/marketplace/internal/ports"
)

type Repositories struct {
	Ads         ports.AdRepository
	Payments    ports.PaymentRepository
	Reviews     ports.ReviewRepository
	Favorites   ports.FavoriteRepository
	SellerStats ports.SellerStatsRepository
	Outbox      ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Ads:         &adRepository{db: db},
		Payments:    &paymentRepository{db: db},
		Reviews:     &reviewRepository{db: db},
		Favorites:   &favoriteRepository{db: db},
		SellerStats: &sellerStatsRepository{db: db},
		Outbox:      &outboxRepository{db: db},
	}
}
