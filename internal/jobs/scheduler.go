package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler периодические фоновые задачи сервиса
type Scheduler struct {
	cron   *cron.Cron
	logger Logger
}

// NewScheduler создает планировщик. Запуск задачи пропускается, пока
// предыдущий запуск той же задачи не завершился.
func NewScheduler(logger Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// AddReconcile регистрирует проход сверки outbox, timeout ограничивает один проход
func (s *Scheduler) AddReconcile(spec string, reconciler Reconciler, timeout time.Duration) error {
	return s.add("reconcile", spec, func() {
		runReconcile(reconciler, timeout, s.logger)
	})
}

// AddCleanup регистрирует задачу очистки, fn возвращает число удаленных записей
func (s *Scheduler) AddCleanup(name, spec string, fn func() int) error {
	return s.add(name, spec, func() {
		if n := fn(); n > 0 {
			s.logger.Info("Jobs.%s: removed %d entries", name, n)
		}
	})
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Jobs: scheduler started with %d jobs", len(s.cron.Entries()))
}

// Stop останавливает планировщик и ждет завершения запущенных задач или ctx
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Jobs: scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Jobs: scheduler stop timed out: %v", ctx.Err())
	}
}

func (s *Scheduler) add(name, spec string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("failed to schedule %s job %q: %w", name, spec, err)
	}
	s.logger.Info("Jobs: %s scheduled (%s)", name, spec)
	return nil
}

func runReconcile(reconciler Reconciler, timeout time.Duration, logger Logger) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := reconciler.Reconcile(ctx)
	if err != nil {
		logger.Error("Jobs.reconcile: %v", err)
		return
	}
	if result.Processed > 0 || result.Retried > 0 || result.Skipped > 0 {
		logger.Info("Jobs.reconcile: processed=%d, retried=%d, skipped=%d, pending=%d",
			result.Processed, result.Retried, result.Skipped, result.Pending)
	}
}

// cronLogger адаптер Logger к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	// Сообщения о каждом запуске/пробуждении не пишем
	if msg == "skip" {
		l.logger.Warn("Jobs: run skipped, previous run still in progress%s", formatKV(keysAndValues))
	}
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Jobs: %s: %v%s", msg, err, formatKV(keysAndValues))
}

func formatKV(keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, ", %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}
