package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	changeStatus "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_booking_status"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fakeBookings struct {
	cutoff   time.Time
	limit    int
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookings) ListConfirmedEndedBefore(_ context.Context, t time.Time, limit int) ([]*domain.Booking, error) {
	f.cutoff, f.limit = t, limit
	return f.bookings, f.err
}

type fakeCompleter struct {
	errs      map[string]error
	completed []string
}

func (f *fakeCompleter) AutoComplete(_ context.Context, id string) (*changeStatus.Response, error) {
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	f.completed = append(f.completed, id)
	return &changeStatus.Response{Booking: &domain.Booking{ID: id, Status: domain.StatusCompleted}}, nil
}

type fakeSlots struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeSlots) DeleteUnbookedEndedBefore(_ context.Context, t time.Time) (int64, error) {
	f.cutoff = t
	return f.deleted, f.err
}

type recordingMetrics struct {
	mu   sync.Mutex
	runs map[string][]string
}

func (m *recordingMetrics) IncJobRun(job, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs == nil {
		m.runs = make(map[string][]string)
	}
	m.runs[job] = append(m.runs[job], result)
}

func (m *recordingMetrics) results(job string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.runs[job]...)
}

var now = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func TestCompleteBookings_Run(t *testing.T) {
	repo := &fakeBookings{bookings: []*domain.Booking{{ID: "b-1"}, {ID: "b-2"}, {ID: "b-3"}}}
	completer := &fakeCompleter{errs: map[string]error{
		"b-2": changeStatus.ErrStatusConflict,
	}}

	job := NewCompleteBookings(repo, completer, time.Hour, logger.NewNop())
	job.timeProvider = fixedTime{now}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, now.Add(-time.Hour), repo.cutoff)
	assert.Equal(t, completeBatchSize, repo.limit)
	assert.Equal(t, []string{"b-1", "b-3"}, completer.completed)
}

func TestCompleteBookings_ReportsFailures(t *testing.T) {
	repo := &fakeBookings{bookings: []*domain.Booking{{ID: "b-1"}, {ID: "b-2"}}}
	completer := &fakeCompleter{errs: map[string]error{
		"b-1": changeStatus.ErrInternal,
	}}

	job := NewCompleteBookings(repo, completer, time.Hour, logger.NewNop())
	job.timeProvider = fixedTime{now}

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"b-2"}, completer.completed)
}

func TestCompleteBookings_RepositoryError(t *testing.T) {
	repo := &fakeBookings{err: errors.New("connection refused")}
	job := NewCompleteBookings(repo, &fakeCompleter{}, time.Hour, logger.NewNop())

	assert.Error(t, job.Run(context.Background()))
}

func TestPurgeSlots_Run(t *testing.T) {
	repo := &fakeSlots{deleted: 7}
	job := NewPurgeSlots(repo, 30*24*time.Hour, logger.NewNop())
	job.timeProvider = fixedTime{now}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, now.AddDate(0, 0, -30), repo.cutoff)

	repo.err = errors.New("boom")
	assert.Error(t, job.Run(context.Background()))
}

type funcJob struct {
	name string
	run  func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.run(ctx) }

func TestScheduler_ExecuteRecordsResult(t *testing.T) {
	m := &recordingMetrics{}
	s := NewScheduler(m, time.Second, logger.NewNop())

	s.execute(funcJob{name: "ok", run: func(context.Context) error { return nil }})
	s.execute(funcJob{name: "fail", run: func(context.Context) error { return errors.New("boom") }})

	assert.Equal(t, []string{resultSuccess}, m.results("ok"))
	assert.Equal(t, []string{resultError}, m.results("fail"))
}

func TestScheduler_ExecuteAppliesTimeout(t *testing.T) {
	s := NewScheduler(nil, 10*time.Millisecond, logger.NewNop())

	var deadline bool
	s.execute(funcJob{name: "slow", run: func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	}})

	assert.True(t, deadline)
}

func TestScheduler_RegisterRejectsBadSpec(t *testing.T) {
	s := NewScheduler(nil, 0, logger.NewNop())
	err := s.Register("every tuesday", funcJob{name: "x", run: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestScheduler_RunsRegisteredJob(t *testing.T) {
	m := &recordingMetrics{}
	s := NewScheduler(m, time.Second, logger.NewNop())

	ran := make(chan struct{}, 1)
	require.NoError(t, s.Register("@every 1s", funcJob{name: "tick", run: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}}))

	s.Start()
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.NotEmpty(t, m.results("tick"))
}
