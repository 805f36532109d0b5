package ranking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/events"
	"github.com/MikeSquared-Agency/Topsis/internal/logging"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *mockPublisher) Close() {}

type failingStore struct {
	store.MemoryStore
}

func (*failingStore) SaveRun(context.Context, *store.Run) error {
	return errors.New("disk full")
}

const fundsCSV = `Fund Name,P1,P2,P3,P4,P5
M1,0.49,0.23,6.4,42.5,12.42
M2,0.7,0.4,4.1,36.0,9.79
M3,0.41,0.15,4.9,49.6,13.1
M4,0.44,0.15,5.7,44.3,12.52
M5,1.2,1.03,8.0,59.2,17.04
M6,0.79,0.36,7.6,53.5,14.61
M7,0.8,0.55,9.2,45.7,14.2
M8,1.22,1.2,3.9,34.6,10.94
`

func fundsRequest(t *testing.T) Request {
	t.Helper()
	table, err := dataset.Read(strings.NewReader(fundsCSV))
	require.NoError(t, err)
	weights, impacts, err := dataset.ParseParams("1,1,1,2,1", "+,+,+,-,+", len(table.Criteria()))
	require.NoError(t, err)
	return Request{Name: "funds.csv", Source: store.SourceUpload, Table: table, Weights: weights, Impacts: impacts}
}

func newTestService(t *testing.T, s store.Store, p events.Publisher) (*Service, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	cfg := config.RankingConfig{TieTolerance: topsis.DefaultTieTolerance, ScorePrecision: 4}
	svc := New(s, p, metrics.New(reg), cfg, logging.Discard())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, reg
}

func TestRank_StoresAndPublishes(t *testing.T) {
	ms := store.NewMemoryStore(0)
	pub := &mockPublisher{}
	pub.On("Publish", mock.MatchedBy(func(s string) bool { return strings.HasSuffix(s, ".completed") }),
		mock.MatchedBy(func(ev events.RunCompletedEvent) bool {
			return ev.BestID == "M8" && ev.Alternatives == 8 && ev.Criteria == 5
		})).Return(nil).Once()

	svc, reg := newTestService(t, ms, pub)
	run, err := svc.Rank(context.Background(), fundsRequest(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"P1", "P2", "P3", "P4", "P5"}, run.Criteria)
	assert.Equal(t, []string{"+", "+", "+", "-", "+"}, run.Impacts)
	ranks := make([]int, len(run.Alternatives))
	for i, a := range run.Alternatives {
		ranks[i] = a.Rank
	}
	assert.Equal(t, []int{6, 4, 8, 7, 2, 5, 3, 1}, ranks)
	assert.Contains(t, string(run.ResultCSV), "Fund Name,P1,P2,P3,P4,P5,Topsis Score,Rank\n")
	assert.Contains(t, string(run.ResultCSV), "M8,1.22,1.2,3.9,34.6,10.94,0.7021,1\n")
	assert.Equal(t, "result_funds.csv", run.ResultFilename())
	assert.Equal(t, []string{"M1", "M2", "M4", "M5", "M6", "M7", "M8"}, run.ParetoFrontier)

	stored, err := svc.Get(context.Background(), run.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, run.ResultCSV, stored.ResultCSV)

	pub.AssertExpectations(t)
	assert.Equal(t, 1.0, runCount(t, reg, store.SourceUpload, metrics.StatusOK))
}

func TestRank_InvalidInputPublishesFailure(t *testing.T) {
	ms := store.NewMemoryStore(0)
	pub := &mockPublisher{}
	pub.On("Publish", mock.MatchedBy(func(s string) bool { return strings.HasSuffix(s, ".failed") }),
		mock.MatchedBy(func(ev events.RunFailedEvent) bool { return ev.Invalid })).Return(nil).Once()

	svc, reg := newTestService(t, ms, pub)
	req := fundsRequest(t)
	req.Weights = topsis.Weights{1, 1, 1, 0, 1}

	run, err := svc.Rank(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, run)
	assert.True(t, errors.Is(err, topsis.ErrInvalidWeight))

	runs, err := svc.List(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)

	pub.AssertExpectations(t)
	assert.Equal(t, 1.0, runCount(t, reg, store.SourceUpload, metrics.StatusInvalid))
}

func TestRank_NonNumericTable(t *testing.T) {
	svc, _ := newTestService(t, store.NewMemoryStore(0), nil)
	table, err := dataset.Read(strings.NewReader("Name,A,B\nx,1,high\ny,2,3\n"))
	require.NoError(t, err)

	_, err = svc.Rank(context.Background(), Request{
		Source:  store.SourceAPI,
		Table:   table,
		Weights: topsis.Weights{1, 1},
		Impacts: topsis.Impacts{topsis.Benefit, topsis.Benefit},
	})
	assert.ErrorIs(t, err, topsis.ErrNonNumericData)
	assert.True(t, topsis.IsValidation(err))
}

func TestRank_StoreFailureIsNotValidation(t *testing.T) {
	svc, reg := newTestService(t, &failingStore{}, nil)

	_, err := svc.Rank(context.Background(), fundsRequest(t))
	require.Error(t, err)
	assert.False(t, topsis.IsValidation(err))
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1.0, runCount(t, reg, store.SourceUpload, metrics.StatusError))
}

func TestRank_PublishFailureIsLoggedOnly(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats down"))

	svc, _ := newTestService(t, store.NewMemoryStore(0), pub)
	run, err := svc.Rank(context.Background(), fundsRequest(t))
	require.NoError(t, err)
	assert.NotNil(t, run)
}

func TestRank_NoTable(t *testing.T) {
	svc, _ := newTestService(t, store.NewMemoryStore(0), nil)
	_, err := svc.Rank(context.Background(), Request{Source: store.SourceAPI})
	assert.ErrorIs(t, err, ErrNoTable)
}

// runCount reads topsis_runs_total for one label pair.
func runCount(t *testing.T, reg *prometheus.Registry, source, status string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "topsis_runs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["source"] == source && labels["status"] == status {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
