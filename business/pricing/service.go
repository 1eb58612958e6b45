package pricing

import (
	"context"
	"time"

	"hotelPricing/domain"
)

// ---- Repository interfaces ----

type HotelRepository interface {
	FindHotelByID(ctx context.Context, id uint) (domain.Hotel, error)
}

type RoomTypeRepository interface {
	FindRoomTypeByID(ctx context.Context, id uint) (domain.RoomType, error)
	FindActiveRoomTypes(ctx context.Context, hotelID uint) ([]domain.RoomType, error)
}

type RuleRepository interface {
	// FindActiveRule returns nil when the hotel has no active rule.
	FindActiveRule(ctx context.Context, hotelID uint) (*domain.PricingRule, error)
}

type RoomPricingRepository interface {
	FindRange(ctx context.Context, roomTypeID uint, from, to domain.Date) ([]domain.RoomPricing, error)

	// UpsertSuggestions writes regenerated rows. Existing rows always get the
	// new suggested price and forecast fields; final_price only when the stored
	// row is not an override. is_override is never changed.
	UpsertSuggestions(ctx context.Context, rows []domain.RoomPricing) error

	// ApplyOverride inserts row, or sets final_price, is_override and notes on
	// the existing row for the same key. It returns the stored row.
	ApplyOverride(ctx context.Context, row domain.RoomPricing) (domain.RoomPricing, error)

	// ClearOverride resets final_price to suggested_price. ErrNotFound when no row exists.
	ClearOverride(ctx context.Context, roomTypeID uint, d domain.Date) (domain.RoomPricing, error)
}

type Forecaster interface {
	ForecastRoomType(ctx context.Context, rt domain.RoomType, start domain.Date, days int) (domain.DemandForecast, error)
	DemandAtPrices(ctx context.Context, rt domain.RoomType, d domain.Date, prices []float64) ([]float64, int, error)
}

// ---- Service ----

type Service struct {
	hotelRepo    HotelRepository
	roomTypeRepo RoomTypeRepository
	ruleRepo     RuleRepository
	pricingRepo  RoomPricingRepository
	forecaster   Forecaster
	locks        *keyLocker
	cfg          Config
	now          func() time.Time
}

func NewService(
	hotelRepo HotelRepository,
	roomTypeRepo RoomTypeRepository,
	ruleRepo RuleRepository,
	pricingRepo RoomPricingRepository,
	forecaster Forecaster,
	cfg Config,
) *Service {
	return &Service{
		hotelRepo:    hotelRepo,
		roomTypeRepo: roomTypeRepo,
		ruleRepo:     ruleRepo,
		pricingRepo:  pricingRepo,
		forecaster:   forecaster,
		locks:        newKeyLocker(),
		cfg:          cfg.withDefaults(),
		now:          time.Now,
	}
}

func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) today() domain.Date {
	return domain.DateOf(s.now().UTC())
}

// activeRule returns the hotel's active rule or the synthesized default.
func (s *Service) activeRule(ctx context.Context, hotelID uint) (domain.PricingRule, error) {
	if s.ruleRepo == nil {
		return domain.DefaultPricingRule(hotelID), nil
	}
	rule, err := s.ruleRepo.FindActiveRule(ctx, hotelID)
	if err != nil {
		return domain.PricingRule{}, err
	}
	if rule == nil {
		return domain.DefaultPricingRule(hotelID), nil
	}
	return *rule, nil
}
