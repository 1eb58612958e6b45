package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelPricing/domain"
	"hotelPricing/pkg/logger"
	"hotelPricing/pkg/trace"
)

// ---- Repository interfaces ----

type HotelRepository interface {
	FindHotelByID(ctx context.Context, id uint) (domain.Hotel, error)
}

type RoomTypeRepository interface {
	FindRoomTypeByID(ctx context.Context, id uint) (domain.RoomType, error)
	FindActiveRoomTypes(ctx context.Context, hotelID uint) ([]domain.RoomType, error)
}

type HistoryRepository interface {
	FindHistory(ctx context.Context, roomTypeID uint, from, to domain.Date) ([]domain.HistoricalBooking, error)
	UpsertHistory(ctx context.Context, rows []domain.HistoricalBooking) error
}

// ModelRepository persists fitted models so a restart reloads instead of retraining.
type ModelRepository interface {
	GetModel(ctx context.Context, hotelID, roomTypeID uint) (*domain.ForecastModelSnapshot, error)
	SaveModel(ctx context.Context, snap domain.ForecastModelSnapshot) error
}

type ForecastCache interface {
	GetForecast(ctx context.Context, key string) ([]domain.DemandForecastPoint, bool, error)
	SetForecast(ctx context.Context, key string, points []domain.DemandForecastPoint) error
}

// ---- Service ----

type Service struct {
	hotelRepo    HotelRepository
	roomTypeRepo RoomTypeRepository
	historyRepo  HistoryRepository
	modelRepo    ModelRepository
	cache        ForecastCache
	registry     *Registry
	cfg          Config
	now          func() time.Time
}

// NewService wires the forecaster. historyRepo, modelRepo and cache may be nil.
func NewService(
	hotelRepo HotelRepository,
	roomTypeRepo RoomTypeRepository,
	historyRepo HistoryRepository,
	modelRepo ModelRepository,
	cache ForecastCache,
	cfg Config,
) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		hotelRepo:    hotelRepo,
		roomTypeRepo: roomTypeRepo,
		historyRepo:  historyRepo,
		modelRepo:    modelRepo,
		cache:        cache,
		registry:     NewRegistry(cfg.MaxScopes),
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *Service) Registry() *Registry {
	return s.registry
}

// Train fits the requested sub-models for one room type or for every active room
// type of the hotel. The sub-model not being trained is carried over.
func (s *Service) Train(ctx context.Context, req domain.TrainRequest) ([]domain.TrainingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if req.ModelType == "" {
		req.ModelType = domain.ModelCombined
	}
	if !req.ModelType.Valid() {
		return nil, fmt.Errorf("%w: model_type must be one of seasonal, regression, combined", domain.ErrValidation)
	}

	if _, err := s.hotelRepo.FindHotelByID(ctx, req.HotelID); err != nil {
		return nil, err
	}

	var roomTypes []domain.RoomType
	if req.RoomTypeID != 0 {
		rt, err := s.roomTypeOfHotel(ctx, req.HotelID, req.RoomTypeID)
		if err != nil {
			return nil, err
		}
		roomTypes = []domain.RoomType{rt}
	} else {
		all, err := s.roomTypeRepo.FindActiveRoomTypes(ctx, req.HotelID)
		if err != nil {
			return nil, fmt.Errorf("load room types: %w", err)
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: hotel %d has no active room types", domain.ErrNotFound, req.HotelID)
		}
		roomTypes = all
	}

	results := make([]domain.TrainingResult, 0, len(roomTypes))
	for _, rt := range roomTypes {
		scope := Scope{HotelID: req.HotelID, RoomTypeID: rt.ID}

		unlock := s.registry.lockScope(scope)
		m, err := s.trainLocked(ctx, scope, rt, req.ModelType, "manual")
		unlock()
		if err != nil {
			return nil, err
		}

		results = append(results, domain.TrainingResult{
			HotelID:       scope.HotelID,
			RoomTypeID:    scope.RoomTypeID,
			ModelType:     req.ModelType,
			ModelVersion:  m.Version,
			HistorySource: m.HistorySource,
			HistoryPoints: m.HistoryPoints,
			TrainedAt:     m.TrainedAt,
		})
	}
	return results, nil
}

// Forecast returns the daily demand of a room type over [start, start+days).
func (s *Service) Forecast(ctx context.Context, req domain.ForecastRequest) (domain.DemandForecast, error) {
	if err := ctx.Err(); err != nil {
		return domain.DemandForecast{}, fmt.Errorf("context error: %w", err)
	}
	rt, err := s.roomTypeOfHotel(ctx, req.HotelID, req.RoomTypeID)
	if err != nil {
		return domain.DemandForecast{}, err
	}
	return s.ForecastRoomType(ctx, rt, req.StartDate, req.Days)
}

// ForecastRoomType is Forecast for an already loaded room type.
func (s *Service) ForecastRoomType(ctx context.Context, rt domain.RoomType, start domain.Date, days int) (domain.DemandForecast, error) {
	if days < 1 || days > s.cfg.MaxForecastDays {
		return domain.DemandForecast{}, fmt.Errorf("%w: days must be between 1 and %d", domain.ErrValidation, s.cfg.MaxForecastDays)
	}
	if start.IsZero() {
		start = domain.DateOf(s.now().UTC())
	}

	scope := Scope{HotelID: rt.HotelID, RoomTypeID: rt.ID}
	m, err := s.ensureModel(ctx, scope, rt, func(m *ScopeModel) bool {
		return m.Seasonal != nil && m.Regressor != nil
	})
	if err != nil {
		return domain.DemandForecast{}, err
	}

	out := domain.DemandForecast{
		HotelID:      rt.HotelID,
		RoomTypeID:   rt.ID,
		RoomTypeName: rt.Name,
		StartDate:    start,
		EndDate:      start.AddDays(days - 1),
		Days:         days,
		ModelVersion: m.Version,
		GeneratedAt:  s.now().UTC(),
	}

	key := cacheKey(scope, m.Version, start, days)
	if points, ok := s.cachedForecast(ctx, key); ok {
		out.Forecast = points
		ForecastsTotal.WithLabelValues("hit").Inc()
		return out, nil
	}

	out.Forecast = make([]domain.DemandForecastPoint, 0, days)
	for i := range days {
		d := start.AddDays(i)
		seasonal := clamp01(m.Seasonal.Predict(d))
		regression := m.Regressor.Predict(d, assumedPrice(d, rt.BasePrice))
		out.Forecast = append(out.Forecast, domain.DemandForecastPoint{
			Date:                d,
			DemandProbability:   clamp01((seasonal + regression) / 2),
			SeasonalComponent:   seasonal,
			RegressionComponent: regression,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetForecast(ctx, key, out.Forecast); err != nil {
			logger.Warn("forecast_cache_set_failed", "trace_id", trace.IDFromContext(ctx), "key", key, "error", err)
		}
		ForecastsTotal.WithLabelValues("miss").Inc()
	} else {
		ForecastsTotal.WithLabelValues("disabled").Inc()
	}
	return out, nil
}

// DemandAtPrices evaluates the regressor for rt on date d once per candidate price.
// Results are clamped to [0,1]. The model version used is returned alongside.
func (s *Service) DemandAtPrices(ctx context.Context, rt domain.RoomType, d domain.Date, prices []float64) ([]float64, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}
	scope := Scope{HotelID: rt.HotelID, RoomTypeID: rt.ID}
	m, err := s.ensureModel(ctx, scope, rt, func(m *ScopeModel) bool {
		return m.Regressor != nil
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = clamp01(m.Regressor.Predict(d, p))
	}
	return out, m.Version, nil
}

// ImportHistory validates and upserts observed bookings of a hotel's room types.
func (s *Service) ImportHistory(ctx context.Context, hotelID uint, rows []domain.HistoricalBooking) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	if s.historyRepo == nil {
		return 0, errors.New("history store is not configured")
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no history points supplied", domain.ErrValidation)
	}
	if _, err := s.hotelRepo.FindHotelByID(ctx, hotelID); err != nil {
		return 0, err
	}

	checked := make(map[uint]bool)
	for i := range rows {
		r := &rows[i]
		if !checked[r.RoomTypeID] {
			if _, err := s.roomTypeOfHotel(ctx, hotelID, r.RoomTypeID); err != nil {
				return 0, err
			}
			checked[r.RoomTypeID] = true
		}
		if r.Date.IsZero() {
			return 0, fmt.Errorf("%w: history point %d has no date", domain.ErrValidation, i)
		}
		if r.TotalRooms < 0 || r.RoomsSold < 0 || r.RoomsSold > r.TotalRooms {
			return 0, fmt.Errorf("%w: history point %d must satisfy 0 <= rooms_sold <= total_rooms", domain.ErrValidation, i)
		}
		if r.OccupancyRate == 0 {
			r.OccupancyRate = safeDiv(float64(r.RoomsSold), float64(r.TotalRooms))
		}
		if r.OccupancyRate < 0 || r.OccupancyRate > 1 {
			return 0, fmt.Errorf("%w: history point %d occupancy_rate must be within [0,1]", domain.ErrValidation, i)
		}
		if r.Revenue == 0 {
			r.Revenue = float64(r.RoomsSold) * r.AverageDailyRate
		}
	}

	if err := s.historyRepo.UpsertHistory(ctx, rows); err != nil {
		return 0, fmt.Errorf("save history: %w", err)
	}

	logger.Info("forecast_history_imported",
		"trace_id", trace.IDFromContext(ctx),
		"hotel_id", hotelID,
		"rows", len(rows),
	)
	return len(rows), nil
}

// Models lists the registry contents.
func (s *Service) Models() []domain.ForecastModelInfo {
	models := s.registry.Models()
	out := make([]domain.ForecastModelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, domain.ForecastModelInfo{
			HotelID:       m.Scope.HotelID,
			RoomTypeID:    m.Scope.RoomTypeID,
			Version:       m.Version,
			HasSeasonal:   m.Seasonal != nil,
			HasRegressor:  m.Regressor != nil,
			HistorySource: m.HistorySource,
			HistoryPoints: m.HistoryPoints,
			TrainedAt:     m.TrainedAt,
		})
	}
	return out
}

// ---- internals ----

func (s *Service) roomTypeOfHotel(ctx context.Context, hotelID, roomTypeID uint) (domain.RoomType, error) {
	rt, err := s.roomTypeRepo.FindRoomTypeByID(ctx, roomTypeID)
	if err != nil {
		return domain.RoomType{}, err
	}
	if hotelID != 0 && rt.HotelID != hotelID {
		return domain.RoomType{}, fmt.Errorf("%w: room type %d does not belong to hotel %d", domain.ErrNotFound, roomTypeID, hotelID)
	}
	return rt, nil
}

// ensureModel returns the scope's model when ready satisfies it. Otherwise it
// reloads the persisted snapshot or trains the missing parts, under the scope lock.
func (s *Service) ensureModel(ctx context.Context, scope Scope, rt domain.RoomType, ready func(*ScopeModel) bool) (*ScopeModel, error) {
	if m, ok := s.registry.Get(scope); ok && ready(m) {
		return m, nil
	}

	unlock := s.registry.lockScope(scope)
	defer unlock()

	current, err := s.currentLocked(ctx, scope)
	if err != nil {
		return nil, err
	}
	if current != nil && ready(current) {
		return current, nil
	}

	modelType := domain.ModelCombined
	switch {
	case current == nil:
	case current.Seasonal != nil:
		modelType = domain.ModelRegression
	case current.Regressor != nil:
		modelType = domain.ModelSeasonal
	}

	logger.Info("forecast_auto_train",
		"trace_id", trace.IDFromContext(ctx),
		"scope", scope.String(),
		"model_type", string(modelType),
	)
	return s.trainLocked(ctx, scope, rt, modelType, "auto")
}

// currentLocked returns the registry model, falling back to the persisted snapshot.
func (s *Service) currentLocked(ctx context.Context, scope Scope) (*ScopeModel, error) {
	if m, ok := s.registry.Get(scope); ok {
		return m, nil
	}
	if s.modelRepo == nil {
		return nil, nil
	}

	snap, err := s.modelRepo.GetModel(ctx, scope.HotelID, scope.RoomTypeID)
	if err != nil {
		return nil, fmt.Errorf("load model snapshot: %w", err)
	}
	if snap == nil {
		return nil, nil
	}

	m, err := decodeSnapshot(*snap)
	if err != nil {
		// unreadable snapshot: retrain rather than fail the request
		logger.Warn("forecast_snapshot_decode_failed", "scope", scope.String(), "error", err)
		return nil, nil
	}
	s.registry.Put(m)
	RegistryScopes.Set(float64(s.registry.Len()))
	return m, nil
}

// trainLocked fits modelType for scope on top of the current model. Caller holds the scope lock.
func (s *Service) trainLocked(ctx context.Context, scope Scope, rt domain.RoomType, modelType domain.ModelType, trigger string) (*ScopeModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	current, err := s.currentLocked(ctx, scope)
	if err != nil {
		return nil, err
	}

	end := domain.DateOf(s.now().UTC())
	history, source, err := s.loadHistory(ctx, scope, rt, end)
	if err != nil {
		return nil, err
	}

	next := current.next(scope)
	if modelType == domain.ModelSeasonal || modelType == domain.ModelCombined {
		seasonal, err := fitSeasonal(history)
		if err != nil {
			return nil, fmt.Errorf("fit seasonal model for %s: %w", scope, err)
		}
		next.Seasonal = seasonal
	}
	if modelType == domain.ModelRegression || modelType == domain.ModelCombined {
		reg, err := fitRegressor(history, s.cfg.RidgeLambda)
		if err != nil {
			return nil, fmt.Errorf("fit regressor for %s: %w", scope, err)
		}
		next.Regressor = reg
	}
	next.HistorySource = source
	next.HistoryPoints = len(history)
	next.TrainedAt = s.now().UTC()

	s.registry.Put(next)
	RegistryScopes.Set(float64(s.registry.Len()))
	TrainingsTotal.WithLabelValues(string(modelType), string(source), trigger).Inc()

	if s.modelRepo != nil {
		snap, err := encodeSnapshot(next)
		if err == nil {
			err = s.modelRepo.SaveModel(ctx, snap)
		}
		if err != nil {
			// the in-memory model is still served
			logger.Error("forecast_snapshot_save_failed", "scope", scope.String(), "error", err)
		}
	}

	logger.Debug("forecast_trained",
		"trace_id", trace.IDFromContext(ctx),
		"scope", scope.String(),
		"version", next.Version,
		"model_type", string(modelType),
		"history_source", string(source),
		"history_points", len(history),
	)
	return next, nil
}

func (s *Service) loadHistory(ctx context.Context, scope Scope, rt domain.RoomType, end domain.Date) ([]observation, domain.HistorySource, error) {
	days := s.cfg.HistoryDays
	if s.cfg.HistoryMode != HistorySynthetic && s.historyRepo != nil {
		rows, err := s.historyRepo.FindHistory(ctx, rt.ID, end.AddDays(-(days - 1)), end)
		if err != nil {
			return nil, "", fmt.Errorf("load history: %w", err)
		}
		if len(rows) >= s.cfg.MinHistoryPoints {
			return observationsFromBookings(rows, rt.BasePrice), domain.HistoryIngested, nil
		}
		if s.cfg.HistoryMode == HistoryIngested {
			return nil, "", fmt.Errorf("%w: %s has %d history points, %d required", domain.ErrValidation, scope, len(rows), s.cfg.MinHistoryPoints)
		}
	} else if s.cfg.HistoryMode == HistoryIngested {
		return nil, "", fmt.Errorf("%w: ingested history mode requires a history store", domain.ErrValidation)
	}

	return synthesizeHistory(scope, rt.BasePrice, end, days, s.cfg.Seed), domain.HistorySynthetic, nil
}

func (s *Service) cachedForecast(ctx context.Context, key string) ([]domain.DemandForecastPoint, bool) {
	if s.cache == nil {
		return nil, false
	}
	points, ok, err := s.cache.GetForecast(ctx, key)
	if err != nil {
		logger.Warn("forecast_cache_get_failed", "trace_id", trace.IDFromContext(ctx), "key", key, "error", err)
		return nil, false
	}
	return points, ok
}

// cacheKey includes the model version so a retrained scope never reads old entries.
func cacheKey(scope Scope, version int, start domain.Date, days int) string {
	return fmt.Sprintf("forecast|%s|v=%d|start=%s|days=%d", scope, version, start, days)
}

type snapshotParams struct {
	Seasonal  *SeasonalModel `json:"seasonal,omitempty"`
	Regressor *Regressor     `json:"regressor,omitempty"`
}

func encodeSnapshot(m *ScopeModel) (domain.ForecastModelSnapshot, error) {
	raw, err := json.Marshal(snapshotParams{Seasonal: m.Seasonal, Regressor: m.Regressor})
	if err != nil {
		return domain.ForecastModelSnapshot{}, fmt.Errorf("failed to marshal model params: %w", err)
	}
	return domain.ForecastModelSnapshot{
		HotelID:       m.Scope.HotelID,
		RoomTypeID:    m.Scope.RoomTypeID,
		Version:       m.Version,
		HistorySource: string(m.HistorySource),
		HistoryPoints: m.HistoryPoints,
		Params:        raw,
		TrainedAt:     m.TrainedAt,
	}, nil
}

func decodeSnapshot(snap domain.ForecastModelSnapshot) (*ScopeModel, error) {
	var p snapshotParams
	if err := json.Unmarshal(snap.Params, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model params: %w", err)
	}
	return &ScopeModel{
		Scope:         Scope{HotelID: snap.HotelID, RoomTypeID: snap.RoomTypeID},
		Version:       snap.Version,
		Seasonal:      p.Seasonal,
		Regressor:     p.Regressor,
		HistorySource: domain.HistorySource(snap.HistorySource),
		HistoryPoints: snap.HistoryPoints,
		TrainedAt:     snap.TrainedAt,
	}, nil
}
