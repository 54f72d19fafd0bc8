package main

import (
	"context"
	"fmt"

	"ytsa-go/internal/sentiment"
	"ytsa-go/internal/service"
	"ytsa-go/internal/task"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
)

// dispatcher 按任务名把信封派发给对应服务
type dispatcher struct {
	statusStore      *task.StatusStore
	ingestService    *service.IngestService
	analyzeService   *service.AnalyzeService
	analyticsService *service.AnalyticsService
	engine           *sentiment.Engine
}

func newDispatcher(
	statusStore *task.StatusStore,
	ingestService *service.IngestService,
	analyzeService *service.AnalyzeService,
	analyticsService *service.AnalyticsService,
	engine *sentiment.Engine,
) *dispatcher {
	return &dispatcher{
		statusStore:      statusStore,
		ingestService:    ingestService,
		analyzeService:   analyzeService,
		analyticsService: analyticsService,
		engine:           engine,
	}
}

// handle 执行单个任务：RUNNING → 业务逻辑（带重试）→ SUCCESS/FAILURE
func (d *dispatcher) handle(ctx context.Context, env *task.Envelope) error {
	if env.TaskID != "" {
		if err := d.statusStore.SetState(ctx, env.TaskID, task.StateRunning); err != nil {
			logger.Warn("Set task RUNNING failed",
				zap.String("task_id", env.TaskID), zap.Error(err))
		}
	}

	var result interface{}
	runErr := task.RunWithRetry(ctx, env.Name, func(ctx context.Context) error {
		var err error
		result, err = d.run(ctx, env)
		return err
	})

	if env.TaskID == "" {
		return runErr
	}

	if runErr != nil {
		if err := d.statusStore.SetFailure(ctx, env.TaskID, runErr); err != nil {
			logger.Error("Set task FAILURE failed",
				zap.String("task_id", env.TaskID), zap.Error(err))
		}
		return runErr
	}

	if err := d.statusStore.SetSuccess(ctx, env.TaskID, result); err != nil {
		logger.Error("Set task SUCCESS failed",
			zap.String("task_id", env.TaskID), zap.Error(err))
	}
	return nil
}

func (d *dispatcher) run(ctx context.Context, env *task.Envelope) (interface{}, error) {
	switch env.Name {
	case task.NameFetchComments:
		count, err := d.ingestService.RunFetch(ctx, env.OrgID, env.YtVideoID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"comments_fetched": count}, nil

	case task.NameAnalyzeComments:
		inserted, err := d.analyzeService.RunAnalyze(ctx, env.OrgID, env.YtVideoID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"results_inserted": inserted}, nil

	case task.NameComputeTrend:
		data, err := d.analyticsService.ComputeTrend(env.OrgID, env.YtVideoID, env.Window)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"windows": len(data.Points)}, nil

	case task.NameComputeKeywords:
		data, err := d.analyticsService.ComputeKeywords(env.OrgID, env.YtVideoID, env.TopK)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"keywords": len(data.Keywords)}, nil

	case task.NameWarmupModel:
		loaded, err := d.engine.Warmup(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"model_loaded": loaded}, nil

	default:
		return nil, fmt.Errorf("unknown task name: %s", env.Name)
	}
}
