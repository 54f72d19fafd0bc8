package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ytsa-go/internal/config"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
)

// VideoMetadata 视频元数据
type VideoMetadata struct {
	Title     string
	ChannelID string
}

// RawComment 原始评论（未落库前的抓取结果），可选字段用指针表达缺失
type RawComment struct {
	YtCommentID string     `json:"yt_comment_id"`
	Text        string     `json:"text"`
	Author      *string    `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	LikeCount   *int64     `json:"like_count,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
}

// BatchFunc 逐批消费评论的回调；返回错误即中止抓取
type BatchFunc func(batch []RawComment) error

// Client 外部评论源客户端。抓取失败视为瞬时错误，
// 由任务层的重试策略兜底
type Client interface {
	FetchVideoMetadata(ctx context.Context, ytVideoID string) (*VideoMetadata, error)
	FetchComments(ctx context.Context, ytVideoID string, fn BatchFunc) error
}

// DataAPIClient 调用 YouTube Data API v3 的实现
type DataAPIClient struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
}

// NewDataAPIClient 按配置创建客户端
func NewDataAPIClient(cfg *config.YouTubeConfig) *DataAPIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &DataAPIClient{
		baseURL:  baseURL,
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		client:   &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

type videoListResponse struct {
	Items []struct {
		Snippet struct {
			Title     string `json:"title"`
			ChannelID string `json:"channelId"`
		} `json:"snippet"`
	} `json:"items"`
}

// FetchVideoMetadata 拉取视频标题与频道 ID（一次往返）
func (c *DataAPIClient) FetchVideoMetadata(ctx context.Context, ytVideoID string) (*VideoMetadata, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", ytVideoID)
	q.Set("key", c.apiKey)

	var body videoListResponse
	if err := c.getJSON(ctx, "/videos", q, &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return nil, fmt.Errorf("video %s not found on youtube", ytVideoID)
	}

	return &VideoMetadata{
		Title:     body.Items[0].Snippet.Title,
		ChannelID: body.Items[0].Snippet.ChannelID,
	}, nil
}

type commentThreadsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			TopLevelComment struct {
				ID      string `json:"id"`
				Snippet struct {
					TextDisplay       string `json:"textDisplay"`
					AuthorDisplayName string `json:"authorDisplayName"`
					LikeCount         int64  `json:"likeCount"`
					PublishedAt       string `json:"publishedAt"`
					ParentID          string `json:"parentId"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

// FetchComments 按页抓取评论，每页作为一个批次回调 fn。
// 严格按抓取顺序逐批处理，fn 出错即中止（后续由任务重试，
// 已处理批次因幂等 upsert 可安全重放）
func (c *DataAPIClient) FetchComments(ctx context.Context, ytVideoID string, fn BatchFunc) error {
	pageToken := ""
	page := 0

	for {
		q := url.Values{}
		q.Set("part", "snippet")
		q.Set("videoId", ytVideoID)
		q.Set("maxResults", strconv.Itoa(c.pageSize))
		q.Set("key", c.apiKey)
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var body commentThreadsResponse
		if err := c.getJSON(ctx, "/commentThreads", q, &body); err != nil {
			return err
		}

		batch := make([]RawComment, 0, len(body.Items))
		for _, item := range body.Items {
			top := item.Snippet.TopLevelComment
			rc := RawComment{
				YtCommentID: top.ID,
				Text:        top.Snippet.TextDisplay,
			}
			if top.Snippet.AuthorDisplayName != "" {
				author := top.Snippet.AuthorDisplayName
				rc.Author = &author
			}
			if ts, err := time.Parse(time.RFC3339, top.Snippet.PublishedAt); err == nil {
				rc.PublishedAt = &ts
			}
			likes := top.Snippet.LikeCount
			rc.LikeCount = &likes
			if top.Snippet.ParentID != "" {
				parent := top.Snippet.ParentID
				rc.ParentID = &parent
			}
			batch = append(batch, rc)
		}

		page++
		logger.Debug("YouTube comment page fetched",
			zap.String("yt_video_id", ytVideoID),
			zap.Int("page", page),
			zap.Int("comments", len(batch)),
		)

		if len(batch) > 0 {
			if err := fn(batch); err != nil {
				return err
			}
		}

		if body.NextPageToken == "" {
			return nil
		}
		pageToken = body.NextPageToken
	}
}

func (c *DataAPIClient) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build youtube request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call youtube api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube response: %w", err)
	}
	return nil
}
