package sentiment

import (
	"context"
	"errors"
	"strings"
	"sync"

	"ytsa-go/internal/model"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
)

var ErrEmptyBatch = errors.New("待分析文本为空")

// RawResult 分类器的原始输出（标签未归一化）
type RawResult struct {
	Label string
	Score float64
}

// Result 归一化后的情感结果
type Result struct {
	Label     string  `json:"label"` // pos | neg | neu
	Score     float64 `json:"score"`
	ModelName string  `json:"model_name"`
}

// Classifier 批量文本情感分类器
type Classifier interface {
	AnalyzeBatch(ctx context.Context, texts []string) ([]RawResult, error)
	ModelName() string
}

// ReadinessStore 模型就绪标志的外部存储，供健康探针跨进程读取
type ReadinessStore interface {
	SetModelLoaded(ctx context.Context) error
	ModelLoaded(ctx context.Context) (bool, error)
}

// Engine 进程内共享的推理引擎。
// 底层 Classifier 由工厂函数在首次使用时创建（惰性单例），之后不再重建；
// 每个 worker 进程各自加载一份，Warmup 需逐进程调用
type Engine struct {
	factory   func() (Classifier, error)
	readiness ReadinessStore

	mu         sync.Mutex
	classifier Classifier
	loaded     bool
}

// NewEngine 创建引擎。factory 负责构造真正的分类器，
// readiness 可为 nil（不发布就绪标志）
func NewEngine(factory func() (Classifier, error), readiness ReadinessStore) *Engine {
	return &Engine{factory: factory, readiness: readiness}
}

// classifierInstance 惰性初始化并返回共享分类器
func (e *Engine) classifierInstance() (Classifier, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.classifier == nil {
		c, err := e.factory()
		if err != nil {
			return nil, err
		}
		e.classifier = c
		e.loaded = true
		logger.Info("Sentiment classifier loaded", zap.String("model", c.ModelName()))
	}
	return e.classifier, nil
}

// Loaded 本进程的模型是否已加载
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// AnalyzeBatch 对一批文本做情感分析。
// 整批一次性交给分类器（内部分批由分类器自行处理），
// 原始标签按前缀归一化为 pos/neg/neu，并附上模型标识
func (e *Engine) AnalyzeBatch(ctx context.Context, texts []string) ([]Result, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyBatch
	}

	c, err := e.classifierInstance()
	if err != nil {
		return nil, err
	}

	raw, err := c.AnalyzeBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(raw))
	for _, r := range raw {
		results = append(results, Result{
			Label:     NormalizeLabel(r.Label),
			Score:     r.Score,
			ModelName: c.ModelName(),
		})
	}
	return results, nil
}

// Warmup 强制完成惰性初始化：跑一条哑输入触发模型加载，
// 并把就绪标志发布到外部存储，摊平首次真实请求的冷启动延迟
func (e *Engine) Warmup(ctx context.Context) (bool, error) {
	if _, err := e.AnalyzeBatch(ctx, []string{"warmup"}); err != nil {
		return false, err
	}

	if e.readiness != nil {
		if err := e.readiness.SetModelLoaded(ctx); err != nil {
			logger.Warn("Publish model readiness flag failed", zap.Error(err))
		}
	}

	return e.Loaded(), nil
}

// NormalizeLabel 把分类器原始标签归一化为 pos/neg/neu：
// pos 前缀 → pos，neg 前缀 → neg，其余一律 neu
func NormalizeLabel(raw string) string {
	label := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(label, "pos"):
		return model.LabelPositive
	case strings.HasPrefix(label, "neg"):
		return model.LabelNegative
	default:
		return model.LabelNeutral
	}
}
