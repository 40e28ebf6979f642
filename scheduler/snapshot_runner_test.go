package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/ai_talent_pulse/config"
	"github.com/LilVoxy/ai_talent_pulse/database"
	"github.com/LilVoxy/ai_talent_pulse/dataset"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

type runEntry struct {
	status     string
	snapshotID string
	rowsSaved  int
	pruned     int64
	errMessage string
}

type fakeRepository struct {
	mu        sync.Mutex
	snapshots []database.Snapshot
	runs      []runEntry
	saveErr   error
	pruneN    int64
	prunedAt  time.Time
}

func (f *fakeRepository) SaveSnapshot(ctx context.Context, s database.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeRepository) GetLatestSnapshot(ctx context.Context, months int) (*database.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].Months == months {
			s := f.snapshots[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) DeleteSnapshotsBefore(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prunedAt = before
	return f.pruneN, nil
}

func (f *fakeRepository) CreateRunEntry(ctx context.Context, startTime time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, runEntry{status: database.RunStatusInProgress})
	return int64(len(f.runs)), nil
}

func (f *fakeRepository) UpdateRunSuccess(ctx context.Context, id int64, endTime time.Time, snapshotID string, rowsSaved int, pruned int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[id-1] = runEntry{status: database.RunStatusSuccess, snapshotID: snapshotID, rowsSaved: rowsSaved, pruned: pruned}
	return nil
}

func (f *fakeRepository) UpdateRunFailure(ctx context.Context, id int64, endTime time.Time, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[id-1] = runEntry{status: database.RunStatusFailed, errMessage: errorMessage}
	return nil
}

type recordingNotifier struct {
	snapshots []database.Snapshot
}

func (n *recordingNotifier) NotifySnapshot(s database.Snapshot) {
	n.snapshots = append(n.snapshots, s)
}

var now = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newRunner(repo *fakeRepository, notifier Notifier) (*SnapshotRunner, *dataset.Cache) {
	g := dataset.NewGenerator(dataset.WithSeed(17), dataset.WithClock(func() time.Time { return now }))
	cache := dataset.NewCache(g, utils.NewDiscardLogger())
	cfg := config.SnapshotConfig{RunInterval: time.Minute, Retention: 48 * time.Hour}
	r := NewSnapshotRunner(cfg, 6, cache, repo, notifier, utils.NewDiscardLogger())
	r.now = func() time.Time { return now }
	return r, cache
}

func TestExecuteSnapshotSavesOnce(t *testing.T) {
	repo := &fakeRepository{pruneN: 2}
	notifier := &recordingNotifier{}
	runner, cache := newRunner(repo, notifier)

	require.NoError(t, runner.ExecuteSnapshot(context.Background()))
	require.NoError(t, runner.ExecuteSnapshot(context.Background()))

	require.Len(t, repo.snapshots, 1)
	saved := repo.snapshots[0]
	assert.Equal(t, 6, saved.Months)
	assert.Equal(t, 72, saved.RowCount)
	assert.Equal(t, cache.Get(6), saved.Observations)

	require.Len(t, repo.runs, 2)
	assert.Equal(t, runEntry{status: database.RunStatusSuccess, snapshotID: saved.ID, rowsSaved: 72, pruned: 2}, repo.runs[0])
	assert.Equal(t, runEntry{status: database.RunStatusSuccess, pruned: 2}, repo.runs[1])
	assert.Equal(t, now.Add(-48*time.Hour), repo.prunedAt)

	require.Len(t, notifier.snapshots, 1)
	assert.Equal(t, saved.ID, notifier.snapshots[0].ID)
}

func TestExecuteSnapshotFailure(t *testing.T) {
	repo := &fakeRepository{saveErr: errors.New("disk full")}
	runner, _ := newRunner(repo, nil)
	var logs bytes.Buffer
	runner.logger = utils.NewWriterLogger(&logs, false)

	err := runner.ExecuteSnapshot(context.Background())
	require.Error(t, err)

	require.Len(t, repo.runs, 1)
	assert.Equal(t, database.RunStatusFailed, repo.runs[0].status)
	assert.Contains(t, repo.runs[0].errMessage, "disk full")
	assert.Contains(t, logs.String(), "run_id=1")

	// следующая попытка снова пробует сохранить
	repo.saveErr = nil
	require.NoError(t, runner.ExecuteSnapshot(context.Background()))
	assert.Len(t, repo.snapshots, 1)
}

func TestRestoreSeedsCacheFromCurrentSnapshot(t *testing.T) {
	repo := &fakeRepository{}
	stored := []dataset.Observation{
		{Month: dataset.NewMonth(2026, time.September), Region: dataset.RegionAMER, Role: dataset.RoleAIEngineer, Jobs: 1},
		{Month: dataset.NewMonth(2026, time.October), Region: dataset.RegionAMER, Role: dataset.RoleAIEngineer, Jobs: 2},
	}
	repo.snapshots = []database.Snapshot{{ID: "old", Months: 6, RowCount: 2, Observations: stored}}
	runner, cache := newRunner(repo, nil)

	restored, err := runner.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, stored, cache.Get(6))

	// восстановленный снимок не сохраняется повторно
	require.NoError(t, runner.ExecuteSnapshot(context.Background()))
	assert.Len(t, repo.snapshots, 1)
}

func TestRestoreSkipsStaleSnapshot(t *testing.T) {
	repo := &fakeRepository{}
	repo.snapshots = []database.Snapshot{{ID: "stale", Months: 6, RowCount: 1, Observations: []dataset.Observation{
		{Month: dataset.NewMonth(2026, time.August), Region: dataset.RegionEMEA, Role: dataset.RoleMLEngineer},
	}}}
	runner, cache := newRunner(repo, nil)

	restored, err := runner.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)

	_, ok := cache.Peek(6)
	assert.False(t, ok)
}

func TestRestoreWithoutSnapshots(t *testing.T) {
	runner, _ := newRunner(&fakeRepository{}, nil)

	restored, err := runner.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestStartSchedulerStopsOnCancel(t *testing.T) {
	repo := &fakeRepository{}
	runner, _ := newRunner(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.StartScheduler(ctx) }()

	// gocron выполняет задачу сразу при старте
	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.snapshots) == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("планировщик не остановился")
	}
}
