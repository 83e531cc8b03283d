package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// Job периодическая задача
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler запускает задачи по cron-расписанию
// Запуск задачи пропускается, если предыдущий ещё не закончился
type Scheduler struct {
	cron    *cron.Cron
	metrics Metrics
	timeout time.Duration
	logger  Logger
}

// NewScheduler создает планировщик; metrics может быть nil
// timeout ограничивает один запуск задачи
func NewScheduler(metrics Metrics, timeout time.Duration, logger Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		metrics: metrics,
		timeout: timeout,
		logger:  logger,
	}
}

// Register добавляет задачу с расписанием в формате cron ("*/15 * * * *", "@every 15m", "@daily")
func (s *Scheduler) Register(spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { s.execute(job) }); err != nil {
		return fmt.Errorf("register job %s with schedule %q: %w", job.Name(), spec, err)
	}
	s.logger.Info("Scheduler: registered job %s (%s)", job.Name(), spec)
	return nil
}

func (s *Scheduler) execute(job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	err := job.Run(ctx)

	result := resultSuccess
	if err != nil {
		result = resultError
		s.logger.Error("Scheduler: job %s failed after %s: %v", job.Name(), time.Since(started), err)
	}
	if s.metrics != nil {
		s.metrics.IncJobRun(job.Name(), result)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения выполняющихся задач
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger адаптирует Logger к интерфейсу cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
