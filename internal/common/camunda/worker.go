// internal/common/camunda/worker.go
package camunda

import (
	"sync"
	"time"

	"conversation-starters/internal/common/config"
	"conversation-starters/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every task handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// WorkerSet opens and closes the job workers of one process.
type WorkerSet struct {
	client  zbc.Client
	cfg     *config.Config
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerSet(client zbc.Client, cfg *config.Config, log logger.Logger) *WorkerSet {
	return &WorkerSet{
		client:  client,
		cfg:     cfg,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a worker for taskType unless it is disabled in config.
// It reports whether a worker was opened.
func (s *WorkerSet) Start(taskType string, handler JobHandler) bool {
	if !config.IsWorkerEnabled(s.cfg, taskType) {
		s.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}
	wcfg := config.GetWorkerConfig(s.cfg, taskType)

	jobWorker := s.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	s.mu.Lock()
	s.workers[taskType] = jobWorker
	s.mu.Unlock()

	s.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Count returns the number of open workers.
func (s *WorkerSet) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// Close stops every worker, waiting at most timeout for each.
func (s *WorkerSet) Close(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for taskType, w := range s.workers {
		s.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		done := make(chan struct{})
		go func() {
			w.AwaitClose()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(timeout):
			s.logger.Warn("worker did not stop in time", map[string]interface{}{"taskType": taskType})
		}
		delete(s.workers, taskType)
	}
}
