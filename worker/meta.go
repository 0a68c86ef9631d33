package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kefuflow/kefuflow/types"
)

// minAnswerLength 是触发反思包装的回答长度下限（按字符计）。
const minAnswerLength = 10

// MetaSupervisor 顶层路由：按用户角色调度到对应团队。
// 未知角色回落到 customer 团队。
type MetaSupervisor struct {
	teams     map[string]*TeamSupervisor
	sentiment SentimentAnalyzer
	logger    *zap.Logger
}

// NewMetaSupervisor 创建顶层路由。sentiment 可为 nil（跳过情绪检测）。
func NewMetaSupervisor(teams map[string]*TeamSupervisor, sentiment SentimentAnalyzer, logger *zap.Logger) *MetaSupervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaSupervisor{
		teams:     teams,
		sentiment: sentiment,
		logger:    logger.With(zap.String("component", "meta_supervisor")),
	}
}

// Process 处理一轮消息：情绪检测 → 角色路由 → 团队调度 → 反思。
// 与 LLM 驱动的主路径满足相同的下游契约。
func (m *MetaSupervisor) Process(ctx context.Context, wc *types.WorkerContext) (*types.AgentResponse, error) {
	var sentiment *types.SentimentResult
	if m.sentiment != nil {
		s := m.sentiment.Analyze(wc.UserMessage)
		sentiment = &s
	}

	response, err := m.dispatch(ctx, wc)
	if err != nil {
		return nil, err
	}

	response.Answer = reflect(response.Answer, wc.UserMessage)

	if sentiment != nil {
		response.Sentiment = sentiment.Sentiment
		response.Escalated = sentiment.ShouldEscalate
	}
	return response, nil
}

func (m *MetaSupervisor) dispatch(ctx context.Context, wc *types.WorkerContext) (*types.AgentResponse, error) {
	team, ok := m.teams[wc.Role()]
	if !ok {
		team = m.teams[types.DefaultUserRole]
	}
	if team == nil {
		return &types.AgentResponse{
			Answer:         "抱歉，我无法处理您的请求。",
			ConversationID: uuid.NewString(),
		}, nil
	}

	m.logger.Debug("dispatching to team",
		zap.String("role", wc.Role()),
		zap.String("team", team.Name()))

	result, err := team.Handle(ctx, wc)
	if err != nil {
		return nil, err
	}

	response := &types.AgentResponse{
		Answer:         result.Answer,
		ToolCalls:      result.ToolCalls,
		Sources:        result.Sources,
		ConversationID: uuid.NewString(),
		Usage:          result.Usage,
	}
	if step, ok := types.ParseRefundStep(result.Metadata[types.MetaKeyRefundStep]); ok {
		response.RefundStep = string(step)
	}
	return response, nil
}

// reflect 对过短回答做一次包装：复述用户问题并附上后续邀请。
// 长度达标的回答原样通过。
func reflect(answer, userMessage string) string {
	if len([]rune(answer)) >= minAnswerLength {
		return answer
	}
	return fmt.Sprintf("关于您的问题「%s」，%s如需更多协助，请告诉我。", userMessage, answer)
}
