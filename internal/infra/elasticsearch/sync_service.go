package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ytsa-go/internal/config"
	"ytsa-go/internal/model"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
)

// ESCommentDoc ES 评论文档结构
type ESCommentDoc struct {
	ID          int64  `json:"id"`
	OrgID       int64  `json:"org_id"`
	VideoID     int64  `json:"video_id"`
	Author      string `json:"author"`
	Text        string `json:"text"`
	PublishedAt string `json:"published_at"`
	LikeCount   int64  `json:"like_count"`
}

func commentToESDoc(c *model.Comment) *ESCommentDoc {
	return &ESCommentDoc{
		ID:          c.ID,
		OrgID:       c.OrgID,
		VideoID:     c.VideoID,
		Author:      c.Author,
		Text:        c.Text,
		PublishedAt: c.PublishedAt.Format(time.RFC3339),
		LikeCount:   c.LikeCount,
	}
}

func commentsIndexName() string {
	cfg := config.GetElasticsearch()
	indexName := cfg.Index["comments"]
	if indexName == "" {
		indexName = "comments"
	}
	return indexName
}

// SyncComment 同步单条评论到 ES
func SyncComment(ctx context.Context, c *model.Comment) error {
	doc := commentToESDoc(c)
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp, err := Index(ctx, commentsIndexName(), fmt.Sprintf("%d", c.ID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Comment synced to ES", zap.Int64("comment_id", c.ID))
	return nil
}

// BulkSyncComments 批量同步评论到 ES
func BulkSyncComments(ctx context.Context, comments []model.Comment) (success, failed int, err error) {
	indexName := commentsIndexName()

	var buf strings.Builder
	for i := range comments {
		doc := commentToESDoc(&comments[i])
		docBody, _ := json.Marshal(doc)

		buf.WriteString(fmt.Sprintf(`{"index":{"_index":"%s","_id":"%d"}}`, indexName, comments[i].ID))
		buf.WriteString("\n")
		buf.Write(docBody)
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return 0, 0, nil
	}

	resp, err := Bulk(ctx, strings.NewReader(buf.String()))
	if err != nil {
		return 0, len(comments), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(comments), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return len(comments), 0, nil
	}

	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}

	logger.Info("Bulk sync to ES completed", zap.Int("success", success), zap.Int("failed", failed))
	return success, failed, nil
}

// SearchComments 在 ES 中按关键词检索评论，限定租户和视频
func SearchComments(ctx context.Context, orgID, videoID int64, query string, from, size int) ([]int64, int64, error) {
	esQuery := map[string]interface{}{
		"from": from,
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"match": map[string]interface{}{"text": query},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"org_id": orgID},
					},
					map[string]interface{}{
						"term": map[string]interface{}{"video_id": videoID},
					},
				},
			},
		},
	}

	body, err := json.Marshal(esQuery)
	if err != nil {
		return nil, 0, err
	}

	resp, err := Search(ctx, commentsIndexName(), bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("search failed: %s", resp.String())
	}

	var searchResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ESCommentDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, searchResp.Hits.Total.Value, nil
}
