package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ytsa-go/internal/config"
)

// HTTPClassifier 通过 HTTP 调用独立部署的推理服务（HuggingFace pipeline 的边车）。
// 超长文本在发送前截断而不是报错
type HTTPClassifier struct {
	url       string
	modelName string
	batchSize int
	maxChars  int
	client    *http.Client
}

// NewHTTPClassifier 按配置创建 HTTP 分类器
func NewHTTPClassifier(cfg *config.InferenceConfig) *HTTPClassifier {
	return &HTTPClassifier{
		url:       cfg.URL,
		modelName: cfg.ModelName,
		batchSize: cfg.BatchSize,
		maxChars:  cfg.MaxChars,
		client:    &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

// ModelName 返回模型标识
func (c *HTTPClassifier) ModelName() string {
	return c.modelName
}

type inferenceRequest struct {
	Model     string   `json:"model"`
	Texts     []string `json:"texts"`
	BatchSize int      `json:"batch_size"`
}

type inferenceResponse struct {
	Results []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// AnalyzeBatch 一次请求提交整批文本，服务端按 batch_size 内部分批推理
func (c *HTTPClassifier) AnalyzeBatch(ctx context.Context, texts []string) ([]RawResult, error) {
	truncated := make([]string, len(texts))
	for i, t := range texts {
		truncated[i] = truncate(t, c.maxChars)
	}

	payload, err := json.Marshal(inferenceRequest{
		Model:     c.modelName,
		Texts:     truncated,
		BatchSize: c.batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	var body inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}
	if len(body.Results) != len(texts) {
		return nil, fmt.Errorf("inference service returned %d results for %d texts",
			len(body.Results), len(texts))
	}

	results := make([]RawResult, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, RawResult{Label: r.Label, Score: r.Score})
	}
	return results, nil
}

// truncate 按字符数截断（rune 边界安全）
func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
