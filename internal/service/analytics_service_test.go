package service

import (
	"testing"
	"time"

	"ytsa-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "cat", "sat"}, Tokenize("The cat sat."))
	assert.Equal(t, []string{"hello", "world", "123"}, Tokenize("hello,world!123"))
	assert.Empty(t, Tokenize("!!! ... ???"))
}

func TestComputeKeywords(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	env.seedComment(t, 1, video.ID, "c1", "The cat sat on the mat")
	env.seedComment(t, 1, video.ID, "c2", "the cat ran")

	svc := env.analyticsService()

	data, err := svc.ComputeKeywords(1, "vid-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, data.TopK)
	require.Len(t, data.Keywords, 3)

	// the:3 cat:2，其余均为 1，同频保持首次出现顺序取 sat
	assert.Equal(t, "the", data.Keywords[0].Term)
	assert.Equal(t, int64(3), data.Keywords[0].Count)
	assert.Equal(t, "cat", data.Keywords[1].Term)
	assert.Equal(t, int64(2), data.Keywords[1].Count)
	assert.Equal(t, "sat", data.Keywords[2].Term)
	assert.Equal(t, int64(1), data.Keywords[2].Count)

	// 快照已落库
	var rows []model.Keyword
	require.NoError(t, env.db.Where("video_id = ?", video.ID).Find(&rows).Error)
	assert.Len(t, rows, 3)
}

func TestComputeKeywordsTieKeepsFirstSeenOrder(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	env.seedComment(t, 1, video.ID, "c1", "the cat sat")
	env.seedComment(t, 1, video.ID, "c2", "the cat ran")

	svc := env.analyticsService()

	data, err := svc.ComputeKeywords(1, "vid-1", 2)
	require.NoError(t, err)
	require.Len(t, data.Keywords, 2)

	// the 与 cat 同为 2 次，the 先出现，不按字典序排到 cat 之后
	assert.Equal(t, "the", data.Keywords[0].Term)
	assert.Equal(t, int64(2), data.Keywords[0].Count)
	assert.Equal(t, "cat", data.Keywords[1].Term)
	assert.Equal(t, int64(2), data.Keywords[1].Count)
}

func TestComputeKeywordsSnapshotOverwrite(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	env.seedComment(t, 1, video.ID, "c1", "cat cat cat dog")

	svc := env.analyticsService()

	_, err := svc.ComputeKeywords(1, "vid-1", 5)
	require.NoError(t, err)

	// 新评论进来后重算，count 覆盖为新快照值
	env.seedComment(t, 1, video.ID, "c2", "cat bird")
	data, err := svc.ComputeKeywords(1, "vid-1", 5)
	require.NoError(t, err)

	byTerm := make(map[string]int64)
	for _, kw := range data.Keywords {
		byTerm[kw.Term] = kw.Count
	}
	assert.Equal(t, int64(4), byTerm["cat"])
	assert.Equal(t, int64(1), byTerm["bird"])
}

func TestComputeKeywordsDefaultTopK(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, 1, "vid-1")

	svc := env.analyticsService()

	data, err := svc.ComputeKeywords(1, "vid-1", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTopK, data.TopK)
	assert.Empty(t, data.Keywords)
}

func TestDistribution(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")
	now := time.Now()

	labels := []string{model.LabelPositive, model.LabelPositive, model.LabelNegative, model.LabelNegative}
	for i, label := range labels {
		c := env.seedComment(t, 1, video.ID, string(rune('a'+i)), "text")
		env.seedSentiment(t, 1, c.ID, label, now)
	}

	svc := env.analyticsService()

	data, err := svc.Distribution(1, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), data.Total)
	assert.InDelta(t, 0.5, data.PosPct, 1e-9)
	assert.InDelta(t, 0.5, data.NegPct, 1e-9)
	assert.InDelta(t, 0.0, data.NeuPct, 1e-9)
	assert.InDelta(t, 1.0, data.PosPct+data.NegPct+data.NeuPct, 1e-6, "percentages must sum to 1")
}

func TestDistributionEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, 1, "vid-1")

	svc := env.analyticsService()

	data, err := svc.Distribution(1, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), data.Total)
	assert.Zero(t, data.PosPct)
	assert.Zero(t, data.NegPct)
	assert.Zero(t, data.NeuPct)
}

func TestComputeTrendDaily(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")

	day1 := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 5, 2, 8, 15, 0, 0, time.UTC)

	c1 := env.seedComment(t, 1, video.ID, "c1", "a")
	c2 := env.seedComment(t, 1, video.ID, "c2", "b")
	c3 := env.seedComment(t, 1, video.ID, "c3", "c")
	env.seedSentiment(t, 1, c1.ID, model.LabelPositive, day1)
	env.seedSentiment(t, 1, c2.ID, model.LabelNegative, day1)
	env.seedSentiment(t, 1, c3.ID, model.LabelPositive, day2)

	svc := env.analyticsService()

	data, err := svc.ComputeTrend(1, "vid-1", "day")
	require.NoError(t, err)
	assert.Equal(t, "day", data.Window)
	require.Len(t, data.Points, 2)

	p1 := data.Points[0]
	assert.Equal(t, "2025-05-01T00:00:00Z", p1.WindowStart)
	assert.Equal(t, "2025-05-02T00:00:00Z", p1.WindowEnd)
	assert.InDelta(t, 0.5, p1.PosPct, 1e-9)
	assert.InDelta(t, 0.5, p1.NegPct, 1e-9)
	assert.Equal(t, int64(2), p1.Count)

	p2 := data.Points[1]
	assert.Equal(t, "2025-05-02T00:00:00Z", p2.WindowStart)
	assert.InDelta(t, 1.0, p2.PosPct, 1e-9)
	assert.Equal(t, int64(1), p2.Count)

	// 聚合行已物化
	rows, err := env.aggregateRepo.ListByVideo(1, video.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestComputeTrendHourlyWindowEnd(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")

	at := time.Date(2025, 5, 1, 10, 45, 0, 0, time.UTC)
	c := env.seedComment(t, 1, video.ID, "c1", "a")
	env.seedSentiment(t, 1, c.ID, model.LabelNeutral, at)

	svc := env.analyticsService()

	data, err := svc.ComputeTrend(1, "vid-1", "hour")
	require.NoError(t, err)
	require.Len(t, data.Points, 1)
	assert.Equal(t, "2025-05-01T10:00:00Z", data.Points[0].WindowStart)
	assert.Equal(t, "2025-05-01T11:00:00Z", data.Points[0].WindowEnd)
}

func TestComputeTrendWeeklyAlignsToMonday(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")

	// 2025-05-01 是周四，所在周的周一是 2025-04-28
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	c := env.seedComment(t, 1, video.ID, "c1", "a")
	env.seedSentiment(t, 1, c.ID, model.LabelPositive, at)

	svc := env.analyticsService()

	data, err := svc.ComputeTrend(1, "vid-1", "week")
	require.NoError(t, err)
	require.Len(t, data.Points, 1)
	assert.Equal(t, "2025-04-28T00:00:00Z", data.Points[0].WindowStart)
	assert.Equal(t, "2025-05-05T00:00:00Z", data.Points[0].WindowEnd)
}

func TestComputeTrendInvalidWindow(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, 1, "vid-1")

	svc := env.analyticsService()

	_, err := svc.ComputeTrend(1, "vid-1", "month")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestComputeTrendRecomputeOverwrites(t *testing.T) {
	env := newTestEnv(t)
	video := env.seedVideo(t, 1, "vid-1")

	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	c1 := env.seedComment(t, 1, video.ID, "c1", "a")
	env.seedSentiment(t, 1, c1.ID, model.LabelPositive, at)

	svc := env.analyticsService()

	_, err := svc.ComputeTrend(1, "vid-1", "day")
	require.NoError(t, err)

	// 同窗口新增一条负向结果后重算：整行覆盖，不产生第二行
	c2 := env.seedComment(t, 1, video.ID, "c2", "b")
	env.seedSentiment(t, 1, c2.ID, model.LabelNegative, at.Add(time.Hour))

	data, err := svc.ComputeTrend(1, "vid-1", "day")
	require.NoError(t, err)
	require.Len(t, data.Points, 1)
	assert.Equal(t, int64(2), data.Points[0].Count)

	rows, err := env.aggregateRepo.ListByVideo(1, video.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.5, rows[0].PosPct, 1e-9)
	assert.InDelta(t, 0.5, rows[0].NegPct, 1e-9)
}

func TestAnalyticsTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, 1, "vid-1")

	svc := env.analyticsService()

	_, err := svc.ComputeTrend(2, "vid-1", "day")
	assert.ErrorIs(t, err, ErrVideoNotFound)

	_, err = svc.Distribution(2, "vid-1")
	assert.ErrorIs(t, err, ErrVideoNotFound)

	_, err = svc.ComputeKeywords(2, "vid-1", 5)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
