package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ytsa-go/internal/model"
	"ytsa-go/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// 每个测试一个独立的命名内存库，cache=shared 让连接池内的连接看到同一份数据
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Org{},
		&model.Membership{},
		&model.Video{},
		&model.Comment{},
		&model.CommentSentiment{},
		&model.SentimentAggregate{},
		&model.Keyword{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func seedVideo(t *testing.T, db *gorm.DB, orgID int64, ytVideoID string) *model.Video {
	t.Helper()

	video := &model.Video{
		OrgID:     orgID,
		YtVideoID: ytVideoID,
		Title:     "test video",
		ChannelID: "UC-test",
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func seedComment(t *testing.T, db *gorm.DB, orgID, videoID int64, ytCommentID, text string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		OrgID:       orgID,
		VideoID:     videoID,
		YtCommentID: ytCommentID,
		Author:      "alice",
		Text:        text,
		PublishedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
