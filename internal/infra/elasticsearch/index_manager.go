package elasticsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ytsa-go/internal/config"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
)

// GetCommentsIndexMapping 返回 comments 索引的 mapping。
// org_id 做 term 过滤保证租户隔离，text 分词供全文检索
func GetCommentsIndexMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		},
		"mappings": {
			"properties": {
				"id":           { "type": "long" },
				"org_id":       { "type": "long" },
				"video_id":     { "type": "long" },
				"author":       { "type": "keyword" },
				"text":         { "type": "text" },
				"published_at": { "type": "date" },
				"like_count":   { "type": "long" }
			}
		}
	}`
}

// InitIndexes 确保 comments 索引存在，不存在则按 mapping 创建
func InitIndexes() error {
	cfg := config.GetElasticsearch()
	indexName := cfg.Index["comments"]
	if indexName == "" {
		indexName = "comments"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := IndicesExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index %s: %w", indexName, err)
	}
	if exists {
		logger.Debug("ES index already exists", zap.String("index", indexName))
		return nil
	}

	resp, err := IndicesCreate(ctx, indexName, strings.NewReader(GetCommentsIndexMapping()))
	if err != nil {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index %s failed: %s", indexName, resp.String())
	}

	logger.Info("ES index created", zap.String("index", indexName))
	return nil
}
