package scheduler

import (
	"context"
	"sync"

	"github.com/autoclock/scheduler/pkg/errors"
	"go.uber.org/zap"
)

// Scheduler 同时运行 runner 与 builder 两个循环，二者各自持有独立租约
type Scheduler struct {
	runner  *RunnerLoop
	builder *BuilderLoop
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	mu   sync.Mutex
	errs error
}

func New(runner *RunnerLoop, builder *BuilderLoop, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:  runner,
		builder: builder,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start 启动两个循环，立即返回
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.logger.Info("starting scheduler")

	loops := map[string]func(context.Context) error{
		"runner":  s.runner.Run,
		"builder": s.builder.Run,
	}
	for name, run := range loops {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := run(ctx); err != nil {
				s.logger.Error("loop exited", zap.String("loop", name), zap.Error(err))
				s.mu.Lock()
				s.errs = errors.CombineErrors(s.errs, errors.Wrapf(err, "%s loop", name))
				s.mu.Unlock()
				return
			}
			s.logger.Info("loop stopped", zap.String("loop", name))
		}()
	}

	go func() {
		s.wg.Wait()
		close(s.done)
	}()
}

// Done 两个循环都退出后关闭
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Stop 取消循环并等待退出，返回循环的错误
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping scheduler")
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}
