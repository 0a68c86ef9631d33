// kefuflow 离线演示命令行。
//
// 加载配置，初始化 SQLite 工具后端，并在终端上用离线 Worker
// 调度链做多轮客服对话。不需要任何 LLM 凭据。
//
// 使用方法:
//
//	kefuflow -config config.yaml
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/kefuflow/kefuflow"
	"github.com/kefuflow/kefuflow/agent"
	"github.com/kefuflow/kefuflow/config"
	"github.com/kefuflow/kefuflow/store"
	"github.com/kefuflow/kefuflow/testutil/mocks"
	"github.com/kefuflow/kefuflow/types"
	"github.com/kefuflow/kefuflow/worker"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（可选）")
	tenantID := flag.String("tenant", "tenant-demo", "租户 ID")
	flag.Parse()

	cfg, err := config.NewLoader().WithConfigPath(*configPath).Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := store.Init(db); err != nil {
		log.Fatalf("init store: %v", err)
	}
	if cfg.Database.SeedDemoData {
		if err := store.SeedDemoData(db); err != nil {
			log.Fatalf("seed demo data: %v", err)
		}
	}

	team := worker.NewTeamSupervisor("customer_team", logger,
		worker.NewRefundWorker(store.NewTicketService(db)),
		worker.NewKnowledgeWorker(),
	)
	offline := worker.NewMetaSupervisor(
		map[string]*worker.TeamSupervisor{types.DefaultUserRole: team},
		worker.NewKeywordSentiment(),
		logger,
	)

	orch, err := kefuflow.New(
		kefuflow.WithProvider(mocks.NewMockProvider()),
		kefuflow.WithConfig(cfg),
		kefuflow.WithOffline(offline),
		kefuflow.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("create orchestrator: %v", err)
	}

	runShell(orch, *tenantID)
}

// runShell 读取标准输入逐轮处理，跨轮透传历史与 metadata。
func runShell(orch *agent.Orchestrator, tenantID string) {
	fmt.Println("kefuflow 离线客服演示。输入消息开始对话，exit 退出。")

	var history []types.Message
	metadata := map[string]any{}
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			return
		}

		resp, err := orch.Process(context.Background(), &agent.ProcessRequest{
			TenantID:    tenantID,
			UserMessage: msg,
			History:     history,
			Metadata:    metadata,
		})
		if err != nil {
			fmt.Println("错误:", err)
			continue
		}

		fmt.Println(resp.Answer)
		if resp.Escalated {
			fmt.Println("（已标记升级人工）")
		}

		history = append(history,
			types.NewMessage(types.RoleUser, msg),
			types.NewMessage(types.RoleAssistant, resp.Answer),
		)
		metadata = map[string]any{}
		if resp.RefundStep != "" {
			metadata[types.MetaKeyRefundStep] = resp.RefundStep
		}
	}
}

// buildLogger 按配置构建 zap logger。
func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}
	return zapCfg.Build()
}
