package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"ytsa-go/internal/api/dto"
	"ytsa-go/internal/model"
	"ytsa-go/internal/repository"
	"ytsa-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidWindow = errors.New("窗口粒度只支持 hour/day/week")

// 窗口粒度
const (
	WindowHour = "hour"
	WindowDay  = "day"
	WindowWeek = "week"
)

// DefaultTopK 关键词缺省条数
const DefaultTopK = 10

// AnalyticsService 分析统计服务：趋势聚合、实时分布、关键词提取
type AnalyticsService struct {
	videoRepo     *repository.VideoRepository
	commentRepo   *repository.CommentRepository
	sentimentRepo *repository.SentimentRepository
	aggregateRepo *repository.AggregateRepository
	keywordRepo   *repository.KeywordRepository
}

func NewAnalyticsService(
	videoRepo *repository.VideoRepository,
	commentRepo *repository.CommentRepository,
	sentimentRepo *repository.SentimentRepository,
	aggregateRepo *repository.AggregateRepository,
	keywordRepo *repository.KeywordRepository,
) *AnalyticsService {
	return &AnalyticsService{
		videoRepo:     videoRepo,
		commentRepo:   commentRepo,
		sentimentRepo: sentimentRepo,
		aggregateRepo: aggregateRepo,
		keywordRepo:   keywordRepo,
	}
}

// ComputeTrend 按窗口粒度聚合情感占比并物化落库。
// 每次全量重算，同窗口整行覆盖，重复执行安全。
// window 为空时按 day 处理
func (s *AnalyticsService) ComputeTrend(orgID int64, ytVideoID, window string) (*dto.TrendData, error) {
	if window == "" {
		window = WindowDay
	}
	if window != WindowHour && window != WindowDay && window != WindowWeek {
		return nil, ErrInvalidWindow
	}

	videoID, err := s.videoRepo.ResolveInternalID(orgID, ytVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	labeled, err := s.sentimentRepo.ListLabeledByVideo(orgID, videoID)
	if err != nil {
		return nil, fmt.Errorf("list labeled rows: %w", err)
	}

	type bucket struct {
		pos, neg, neu int64
	}
	buckets := make(map[time.Time]*bucket)
	for _, row := range labeled {
		start := windowStart(row.AnalyzedAt, window)
		b := buckets[start]
		if b == nil {
			b = &bucket{}
			buckets[start] = b
		}
		switch row.Label {
		case model.LabelPositive:
			b.pos++
		case model.LabelNegative:
			b.neg++
		default:
			b.neu++
		}
	}

	starts := make([]time.Time, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	rows := make([]model.SentimentAggregate, 0, len(starts))
	points := make([]dto.TrendPoint, 0, len(starts))
	for _, start := range starts {
		b := buckets[start]
		total := b.pos + b.neg + b.neu
		end := windowEnd(start, window)

		agg := model.SentimentAggregate{
			OrgID:       orgID,
			VideoID:     videoID,
			WindowStart: start,
			WindowEnd:   end,
			PosPct:      float64(b.pos) / float64(total),
			NegPct:      float64(b.neg) / float64(total),
			NeuPct:      float64(b.neu) / float64(total),
			Count:       total,
		}
		rows = append(rows, agg)
		points = append(points, dto.TrendPoint{
			WindowStart: start.UTC().Format(time.RFC3339),
			WindowEnd:   end.UTC().Format(time.RFC3339),
			PosPct:      agg.PosPct,
			NegPct:      agg.NegPct,
			NeuPct:      agg.NeuPct,
			Count:       agg.Count,
		})
	}

	if err := s.aggregateRepo.UpsertWindows(rows); err != nil {
		return nil, fmt.Errorf("upsert trend windows: %w", err)
	}

	logger.Debug("Trend computed",
		zap.Int64("org_id", orgID),
		zap.String("yt_video_id", ytVideoID),
		zap.String("window", window),
		zap.Int("points", len(points)),
	)

	return &dto.TrendData{
		YtVideoID: ytVideoID,
		Window:    window,
		Points:    points,
	}, nil
}

// Distribution 实时统计视频下的情感分布（纯读，不落库）。
// 无任何结果时三个占比均为 0
func (s *AnalyticsService) Distribution(orgID int64, ytVideoID string) (*dto.DistributionData, error) {
	videoID, err := s.videoRepo.ResolveInternalID(orgID, ytVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	counts, err := s.sentimentRepo.CountByLabel(orgID, videoID)
	if err != nil {
		return nil, fmt.Errorf("count by label: %w", err)
	}

	data := &dto.DistributionData{YtVideoID: ytVideoID}
	for _, row := range counts {
		data.Total += row.Count
	}
	if data.Total == 0 {
		return data, nil
	}

	for _, row := range counts {
		pct := float64(row.Count) / float64(data.Total)
		switch row.Label {
		case model.LabelPositive:
			data.PosPct = pct
		case model.LabelNegative:
			data.NegPct = pct
		case model.LabelNeutral:
			data.NeuPct = pct
		}
	}
	return data, nil
}

// ComputeKeywords 统计视频评论的高频词并物化 top-k 快照。
// 同词条覆盖 count（快照而非累加）。topK 非正时按缺省值处理
func (s *AnalyticsService) ComputeKeywords(orgID int64, ytVideoID string, topK int) (*dto.KeywordsData, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	videoID, err := s.videoRepo.ResolveInternalID(orgID, ytVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	texts, err := s.commentRepo.TextsByVideo(orgID, videoID)
	if err != nil {
		return nil, fmt.Errorf("load comment texts: %w", err)
	}

	freq := make(map[string]int64)
	firstSeen := make(map[string]int)
	terms := make([]string, 0)
	for _, text := range texts {
		for _, term := range Tokenize(text) {
			if _, ok := freq[term]; !ok {
				firstSeen[term] = len(terms)
				terms = append(terms, term)
			}
			freq[term]++
		}
	}

	// 词频降序，同频保持首次出现顺序
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return firstSeen[terms[i]] < firstSeen[terms[j]]
	})
	if len(terms) > topK {
		terms = terms[:topK]
	}

	rows := make([]model.Keyword, 0, len(terms))
	items := make([]dto.KeywordItem, 0, len(terms))
	for _, term := range terms {
		rows = append(rows, model.Keyword{
			OrgID:   orgID,
			VideoID: videoID,
			Term:    term,
			Count:   freq[term],
		})
		items = append(items, dto.KeywordItem{Term: term, Count: freq[term]})
	}

	if err := s.keywordRepo.UpsertTerms(rows); err != nil {
		return nil, fmt.Errorf("upsert keywords: %w", err)
	}

	return &dto.KeywordsData{
		YtVideoID: ytVideoID,
		TopK:      topK,
		Keywords:  items,
	}, nil
}

// TopKeywords 读取已物化的词频快照
func (s *AnalyticsService) TopKeywords(orgID int64, ytVideoID string, topK int) (*dto.KeywordsData, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	videoID, err := s.videoRepo.ResolveInternalID(orgID, ytVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	rows, err := s.keywordRepo.TopByVideo(orgID, videoID, topK)
	if err != nil {
		return nil, err
	}

	items := make([]dto.KeywordItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.KeywordItem{Term: row.Term, Count: row.Count})
	}
	return &dto.KeywordsData{
		YtVideoID: ytVideoID,
		TopK:      topK,
		Keywords:  items,
	}, nil
}

// Tokenize 把文本切成小写词条：字母数字为词，其余一律当分隔符
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// windowStart 把时间对齐到所在窗口的起点（UTC）。
// week 对齐到周一零点
func windowStart(t time.Time, window string) time.Time {
	t = t.UTC()
	switch window {
	case WindowHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case WindowWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// windowEnd 由窗口起点和粒度推出终点（开区间右端）
func windowEnd(start time.Time, window string) time.Time {
	switch window {
	case WindowHour:
		return start.Add(time.Hour)
	case WindowWeek:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 0, 1)
	}
}
