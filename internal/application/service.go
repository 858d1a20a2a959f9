package application

import (
	"log/slog"
	"time"

	"github.com/x67digital/marketplace/internal/domain"
	"github.com/x67digital/marketplace/internal/ports"
)

type Service struct {
	cfg         Config
	ads         ports.AdRepository
	payments    ports.PaymentRepository
	reviews     ports.ReviewRepository
	favorites   ports.FavoriteRepository
	sellerStats ports.SellerStatsRepository
	outbox      ports.OutboxRepository
	gateway     ports.PaymentGateway
	notifier    ports.Notifier
	cache       ports.Cache
	logger      *slog.Logger
	moderated   map[string]bool
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Ads         ports.AdRepository
	Payments    ports.PaymentRepository
	Reviews     ports.ReviewRepository
	Favorites   ports.FavoriteRepository
	SellerStats ports.SellerStatsRepository
	Outbox      ports.OutboxRepository
	Gateway     ports.PaymentGateway
	Notifier    ports.Notifier
	Cache       ports.Cache
	Logger      *slog.Logger
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "marketplace-api"
	}
	if len(cfg.PriceTable) == 0 {
		cfg.PriceTable = DefaultPriceTable()
	}
	if cfg.TopUpCooldown <= 0 {
		cfg.TopUpCooldown = 60 * time.Minute
	}
	if cfg.TopUpCooldownReferral <= 0 {
		cfg.TopUpCooldownReferral = 40 * time.Minute
	}
	if cfg.BoostDuration <= 0 {
		cfg.BoostDuration = 24 * time.Hour
	}
	if cfg.PromoteDuration <= 0 {
		cfg.PromoteDuration = 7 * 24 * time.Hour
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if cfg.PromotedCacheTTL <= 0 {
		cfg.PromotedCacheTTL = time.Minute
	}

	moderated := make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		moderated[c.ID] = c.ModerationRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:         cfg,
		ads:         deps.Ads,
		payments:    deps.Payments,
		reviews:     deps.Reviews,
		favorites:   deps.Favorites,
		sellerStats: deps.SellerStats,
		outbox:      deps.Outbox,
		gateway:     deps.Gateway,
		notifier:    deps.Notifier,
		cache:       deps.Cache,
		logger:      logger,
		moderated:   moderated,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

// DefaultPriceTable returns the static per-kind amounts in minor currency
// units. Amounts are never client-supplied.
func DefaultPriceTable() map[domain.PaymentKind]int64 {
	return map[domain.PaymentKind]int64{
		domain.PaymentKindPostAd:  1140,
		domain.PaymentKindBoost:   700,
		domain.PaymentKindPromote: 2999,
	}
}

func (s *Service) moderationRequired(categoryID string) bool {
	return s.moderated[categoryID]
}

func (s *Service) Categories() []domain.Category { return s.cfg.Categories }
func (s *Service) Cities() []domain.City         { return s.cfg.Cities }
