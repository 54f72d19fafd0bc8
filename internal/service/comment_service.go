package service

import (
	"context"
	"errors"
	"time"

	"ytsa-go/internal/api/dto"
	"ytsa-go/internal/infra/elasticsearch"
	"ytsa-go/internal/model"
	"ytsa-go/internal/repository"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 分页缺省值
const (
	defaultPage     = 1
	defaultPageSize = 20
)

// CommentService 评论查询服务。带关键词时优先走 ES 全文检索，
// ES 不可用或出错时回落到数据库模糊匹配
type CommentService struct {
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
}

func NewCommentService(videoRepo *repository.VideoRepository, commentRepo *repository.CommentRepository) *CommentService {
	return &CommentService{videoRepo: videoRepo, commentRepo: commentRepo}
}

// List 分页查询视频评论（含已有的情感结果）
func (s *CommentService) List(ctx context.Context, orgID int64, req *dto.CommentListRequest) (*dto.CommentListData, error) {
	page := req.Page
	if page <= 0 {
		page = defaultPage
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	videoID, err := s.videoRepo.ResolveInternalID(orgID, req.YtVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if req.Query != "" {
		data, esErr := s.searchES(ctx, orgID, videoID, req.Query, page, pageSize)
		if esErr == nil {
			return data, nil
		}
		logger.Warn("ES search failed, falling back to database",
			zap.String("query", req.Query), zap.Error(esErr))
		return s.searchDB(orgID, videoID, req.Query, page, pageSize)
	}

	comments, total, err := s.commentRepo.ListByVideo(orgID, videoID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.CommentListData{
		Comments: toCommentInfos(comments),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// searchES ES 全文检索，命中 ID 回表补全情感结果
func (s *CommentService) searchES(ctx context.Context, orgID, videoID int64, query string, page, pageSize int) (*dto.CommentListData, error) {
	ids, total, err := elasticsearch.SearchComments(ctx, orgID, videoID, query, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByIDs(orgID, ids)
	if err != nil {
		return nil, err
	}

	// 回表后按 ES 相关度顺序重排
	byID := make(map[int64]model.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	ordered := make([]model.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}

	return &dto.CommentListData{
		Comments: toCommentInfos(ordered),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// searchDB 数据库模糊匹配兜底
func (s *CommentService) searchDB(orgID, videoID int64, query string, page, pageSize int) (*dto.CommentListData, error) {
	comments, total, err := s.commentRepo.SearchByText(orgID, videoID, query, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &dto.CommentListData{
		Comments: toCommentInfos(comments),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func toCommentInfos(comments []model.Comment) []dto.CommentInfo {
	infos := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		info := dto.CommentInfo{
			ID:          c.ID,
			YtCommentID: c.YtCommentID,
			Author:      c.Author,
			Text:        c.Text,
			PublishedAt: c.PublishedAt.UTC().Format(time.RFC3339),
			LikeCount:   c.LikeCount,
			ParentID:    c.ParentID,
		}
		if c.Sentiment != nil {
			info.Sentiment = &dto.SentimentInfo{
				Label:     c.Sentiment.Label,
				Score:     c.Sentiment.Score,
				ModelName: c.Sentiment.ModelName,
			}
		}
		infos = append(infos, info)
	}
	return infos
}
