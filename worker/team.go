package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/types"
)

// TeamSupervisor 持有一组 Worker，按注册顺序调度第一个能处理的成员。
// 本身也是 Worker，可被上层 MetaSupervisor 调度，支持任意嵌套。
type TeamSupervisor struct {
	teamName string
	workers  []Worker
	logger   *zap.Logger
}

// NewTeamSupervisor 创建团队 Supervisor。
func NewTeamSupervisor(teamName string, logger *zap.Logger, workers ...Worker) *TeamSupervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamSupervisor{
		teamName: teamName,
		workers:  workers,
		logger:   logger.With(zap.String("team", teamName)),
	}
}

// Name 实现 Worker。
func (s *TeamSupervisor) Name() string { return s.teamName }

// CanHandle 实现 Worker：任一成员能处理即为真。
func (s *TeamSupervisor) CanHandle(ctx context.Context, wc *types.WorkerContext) bool {
	for _, w := range s.workers {
		if w.CanHandle(ctx, wc) {
			return true
		}
	}
	return false
}

// Handle 实现 Worker：调度第一个命中的成员，无人接手时返回兜底回答。
func (s *TeamSupervisor) Handle(ctx context.Context, wc *types.WorkerContext) (types.WorkerResult, error) {
	for _, w := range s.workers {
		if w.CanHandle(ctx, wc) {
			s.logger.Debug("dispatching to worker", zap.String("worker", w.Name()))
			return w.Handle(ctx, wc)
		}
	}
	return types.WorkerResult{Answer: cannotHandleAnswer}, nil
}
