package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/types"
)

type StatisticType string

const (
	// Notification delivery
	StatisticTypeDailyNotificationCount StatisticType = "daily_notification_count"

	// Lifecycle outcomes, per run day
	StatisticTypeDailyExpiredCount  StatisticType = "daily_expired_count"
	StatisticTypeDailyInactiveCount StatisticType = "daily_inactive_count"

	// Current state
	StatisticTypeTotalActiveSubscriptions StatisticType = "total_active_subscriptions"
)

// Filter fields supported by certain statistic types
type LifecycleStatisticFilterType string

const (
	LifecycleStatisticFilterTypeNotificationType LifecycleStatisticFilterType = "type"
	LifecycleStatisticFilterTypeGymID            LifecycleStatisticFilterType = "gym_id"
)

var filterTypes = []LifecycleStatisticFilterType{
	LifecycleStatisticFilterTypeNotificationType,
	LifecycleStatisticFilterTypeGymID,
}

var validFilters = map[LifecycleStatisticFilterType][]StatisticType{
	LifecycleStatisticFilterTypeNotificationType: {StatisticTypeDailyNotificationCount},
	LifecycleStatisticFilterTypeGymID:            {StatisticTypeDailyNotificationCount, StatisticTypeTotalActiveSubscriptions},
}

type LifecycleStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type LifecycleStatisticRequest struct {
	Filters   []*types.CommonFilter         `json:"filters"`
	DataItems []*LifecycleStatisticDataItem `json:"data_items"`
}

// GetFilters keeps only the filters applicable to the given statistic type.
func (f *LifecycleStatisticRequest) GetFilters(statisticType StatisticType) *LifecycleStatisticRequest {
	if f == nil || len(f.Filters) == 0 {
		return f
	}
	var result LifecycleStatisticRequest
	for _, filter := range f.Filters {
		if statisticTypes, ok := validFilters[LifecycleStatisticFilterType(filter.Field)]; ok {
			if lo.Contains(statisticTypes, statisticType) {
				result.Filters = append(result.Filters, filter)
			}
		} else {
			result.Filters = append(result.Filters, filter)
		}
	}
	return &result
}

// Build composes a WHERE clause from the surviving filters.
func (f *LifecycleStatisticRequest) Build(builder clause.Builder) {
	if len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		filter.Build(builder)
	}
}

type LifecycleStatisticResponseDataItem struct {
	Date  string `json:"date"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type LifecycleStatisticResponse struct {
	DataItems map[StatisticType][]LifecycleStatisticResponseDataItem `json:"data_items"`
}

// Service provides statistics over notifications, subscriptions and
// lifecycle runs for the admin back-office.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailyNotificationCount(ctx context.Context, request *LifecycleStatisticRequest) ([]LifecycleStatisticResponseDataItem, error) {
	var results []LifecycleStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Notification{}).TableName()).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, type AS label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyNotificationCount)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("type").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyExpiredCount(ctx context.Context, _ *LifecycleStatisticRequest) ([]LifecycleStatisticResponseDataItem, error) {
	var results []LifecycleStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.LifecycleRun{}).TableName()).
		Select("TO_CHAR(started_at, 'YYYY-MM-DD') as date, SUM(expired) as value").
		Where("status = ?", types.LifecycleRunStatusCompleted).
		Group("TO_CHAR(started_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyInactiveCount(ctx context.Context, _ *LifecycleStatisticRequest) ([]LifecycleStatisticResponseDataItem, error) {
	var results []LifecycleStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.LifecycleRun{}).TableName()).
		Select("TO_CHAR(started_at, 'YYYY-MM-DD') as date, SUM(inactive) as value").
		Where("status = ?", types.LifecycleRunStatusCompleted).
		Group("TO_CHAR(started_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalActiveSubscriptions(ctx context.Context, request *LifecycleStatisticRequest) ([]LifecycleStatisticResponseDataItem, error) {
	var results []LifecycleStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Subscription{}).TableName()).
		Select("count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeTotalActiveSubscriptions)}}).
		Where("status = ?", types.SubscriptionStatusActive).
		Where("end_at IS NULL OR end_at >= ?", time.Now())
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getLifecycleStatistic(ctx context.Context, request *LifecycleStatisticRequest, dataItem *LifecycleStatisticDataItem) ([]LifecycleStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyNotificationCount:
		return s.getDailyNotificationCount(ctx, request)
	case StatisticTypeDailyExpiredCount:
		return s.getDailyExpiredCount(ctx, request)
	case StatisticTypeDailyInactiveCount:
		return s.getDailyInactiveCount(ctx, request)
	case StatisticTypeTotalActiveSubscriptions:
		return s.getTotalActiveSubscriptions(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetLifecycleStatistic answers the requested data items concurrently and
// folds the results into one response.
func (s *Service) GetLifecycleStatistic(ctx context.Context, request *LifecycleStatisticRequest) (*LifecycleStatisticResponse, error) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []LifecycleStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *LifecycleStatisticDataItem) {
			defer wg.Done()
			// check filter applicability
			for _, filter := range request.Filters {
				ft := LifecycleStatisticFilterType(filter.Field)
				if lo.Contains(filterTypes, ft) && !lo.Contains(validFilters[ft], di.ID) {
					resChan <- &lo.Entry[StatisticType, []LifecycleStatisticResponseDataItem]{Key: di.ID, Value: nil}
					return
				}
			}
			res, err := s.getLifecycleStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []LifecycleStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	results := make(map[StatisticType][]LifecycleStatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &LifecycleStatisticResponse{DataItems: results}, nil
}
