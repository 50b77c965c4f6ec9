package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hoopwire/hoopwire/app/cfg"
	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/scraper"
	"github.com/hoopwire/hoopwire/app/translator"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	fetcher        scraper.Fetcher
	persister      *scraper.Persister
	repo           database.NewsRepository
	translator     translator.Service
	translateLang  string
	interval       time.Duration
	workerCount    int
	scrapeInFlight atomic.Bool
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface
}

// NewScheduler builds the background scheduler. A nil translator disables
// translation tasks.
func NewScheduler(fetcher scraper.Fetcher, persister *scraper.Persister,
	repo database.NewsRepository, translationService translator.Service) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	c := cfg.Get()

	return &Scheduler{
		fetcher:       fetcher,
		persister:     persister,
		repo:          repo,
		translator:    translationService,
		translateLang: c.TranslationTarget,
		interval:      time.Duration(c.SchedulerInterval) * time.Second,
		workerCount:   c.WorkerCount,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueScrapeCycle()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueScrapeCycle()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// NewScrapeTask builds a scrape task sharing the scheduler's in-flight guard,
// so retried and freshly ticked scrapes never run concurrently.
func (s *Scheduler) NewScrapeTask() *ScrapeTask {
	return NewScrapeTask(s.fetcher, s.persister, &s.scrapeInFlight)
}

func (s *Scheduler) enqueueScrapeCycle() {
	scrapeTask := s.NewScrapeTask()
	if err := s.EnqueueTask(scrapeTask); err != nil {
		slog.Warn("Failed to enqueue ScrapeTask", "error", err)
		return
	}

	if s.translator != nil {
		translateTask := NewTranslateTask(s.repo, s.translator, s.translateLang)
		if err := s.EnqueueTask(translateTask); err != nil {
			slog.Warn("Failed to enqueue TranslateTask", "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
