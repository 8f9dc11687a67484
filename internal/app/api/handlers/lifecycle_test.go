package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitalfit/backend/internal/app/service/lifecycle"
	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/types"
)

type stubStore struct {
	mu         sync.Mutex
	subs       []*models.Subscription
	savedRuns  []*models.LifecycleRun
	dispatched int
}

func (s *stubStore) ActiveEndingBetween(_ context.Context, from, to time.Time) ([]*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Subscription
	for _, sub := range s.subs {
		if sub.Status == types.SubscriptionStatusActive && sub.EndAt != nil &&
			!sub.EndAt.Before(from) && sub.EndAt.Before(to) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *stubStore) ActiveEndedBefore(_ context.Context, t time.Time) ([]*models.Subscription, error) {
	return nil, nil
}

func (s *stubStore) MarkExpired(_ context.Context, _ string) error { return nil }

func (s *stubStore) ActiveWithPlanAssignment(_ context.Context) ([]*models.Subscription, error) {
	return nil, nil
}

func (s *stubStore) LatestWorkout(_ context.Context, _ string) (*models.WorkoutSession, error) {
	return nil, nil
}

func (s *stubStore) UserCreatedAt(_ context.Context, _ string) (time.Time, error) {
	return time.Time{}, nil
}

func (s *stubStore) Save(_ context.Context, run *models.LifecycleRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedRuns = append(s.savedRuns, run)
	return nil
}

func (s *stubStore) ListRecent(_ context.Context, _ int) ([]*models.LifecycleRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedRuns, nil
}

func (s *stubStore) DispatchTemplate(_ context.Context, userID string, _ *string, tpl notification.Template) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched++
	return &models.Notification{UserID: userID, Title: tpl.Title, Message: tpl.Message, Type: tpl.Type}, nil
}

func setupLifecycleRouter(t *testing.T, secret string, store *stubStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()
	expiry := lifecycle.NewExpiryChecker(store, store, log)
	lifecycleCfg := &config.Config{
		Cron:      config.CronConfig{Secret: secret},
		Lifecycle: config.LifecycleConfig{InactiveAfterWorkoutDays: 5, InactiveAfterSignupDays: 7},
	}
	inactivity := lifecycle.NewInactivityChecker(lifecycleCfg, store, store, log)
	runner := lifecycle.NewRunner(expiry, inactivity, store, log)

	r := gin.New()
	RegisterLifecycleRoutes(r.Group("/internal/lifecycle"), runner, lifecycleCfg, log)
	return r
}

func TestRunLifecycle_RejectsWhenNoSecretConfigured(t *testing.T) {
	store := &stubStore{}
	r := setupLifecycleRouter(t, "", store)

	req := httptest.NewRequest(http.MethodPost, "/internal/lifecycle/run", nil)
	req.Header.Set("X-Cron-Secret", "anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, store.savedRuns)
	require.Zero(t, store.dispatched)
}

func TestRunLifecycle_RejectsWrongSecret(t *testing.T) {
	store := &stubStore{}
	r := setupLifecycleRouter(t, "topsecret", store)

	req := httptest.NewRequest(http.MethodPost, "/internal/lifecycle/run", nil)
	req.Header.Set("X-Cron-Secret", "not-it")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, store.savedRuns)
	require.Zero(t, store.dispatched)
}

func TestRunLifecycle_AcceptsSecretHeader(t *testing.T) {
	end := time.Now().AddDate(0, 0, 7)
	store := &stubStore{subs: []*models.Subscription{{
		ID:     "sub-1",
		UserID: "user-1",
		GymID:  "gym-1",
		Status: types.SubscriptionStatusActive,
		EndAt:  &end,
	}}}
	r := setupLifecycleRouter(t, "topsecret", store)

	req := httptest.NewRequest(http.MethodPost, "/internal/lifecycle/run", nil)
	req.Header.Set("X-Cron-Secret", "topsecret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary lifecycle.RunSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.NotEmpty(t, summary.RunID)
	require.Equal(t, 1, summary.Expiring7)
	require.Len(t, store.savedRuns, 1)
	require.Equal(t, types.LifecycleTriggerManual, store.savedRuns[0].Trigger)
}

func TestRunLifecycle_AcceptsSecretQueryParam(t *testing.T) {
	store := &stubStore{}
	r := setupLifecycleRouter(t, "topsecret", store)

	req := httptest.NewRequest(http.MethodPost, "/internal/lifecycle/run?secret=topsecret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.savedRuns, 1)
}

func TestLifecycleHealth(t *testing.T) {
	store := &stubStore{}
	r := setupLifecycleRouter(t, "", store)

	req := httptest.NewRequest(http.MethodGet, "/internal/lifecycle/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.NotEmpty(t, body["time"])
}
