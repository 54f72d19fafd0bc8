package sentiment

import (
	"context"
	"errors"
	"testing"

	"ytsa-go/internal/model"
	"ytsa-go/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Init("error", "console", "stdout", "")
}

type stubClassifier struct {
	name    string
	results []RawResult
	err     error
	calls   int
}

func (s *stubClassifier) AnalyzeBatch(_ context.Context, texts []string) ([]RawResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.results != nil {
		return s.results, nil
	}
	out := make([]RawResult, len(texts))
	for i := range texts {
		out[i] = RawResult{Label: "NEUTRAL", Score: 0.5}
	}
	return out, nil
}

func (s *stubClassifier) ModelName() string {
	return s.name
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"POSITIVE": model.LabelPositive,
		"positive": model.LabelPositive,
		"pos":      model.LabelPositive,
		"NEGATIVE": model.LabelNegative,
		"neg":      model.LabelNegative,
		"NEUTRAL":  model.LabelNeutral,
		"SURPRISE": model.LabelNeutral,
		"joy":      model.LabelNeutral,
		"":         model.LabelNeutral,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeLabel(raw), "raw label %q", raw)
	}
}

func TestEngineAnalyzeBatch(t *testing.T) {
	stub := &stubClassifier{
		name: "test-model",
		results: []RawResult{
			{Label: "POSITIVE", Score: 0.9},
			{Label: "NEGATIVE", Score: 0.8},
			{Label: "SURPRISE", Score: 0.4},
		},
	}
	engine := NewEngine(func() (Classifier, error) { return stub, nil }, nil)

	results, err := engine.AnalyzeBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, model.LabelPositive, results[0].Label)
	assert.Equal(t, model.LabelNegative, results[1].Label)
	assert.Equal(t, model.LabelNeutral, results[2].Label)
	for _, r := range results {
		assert.Equal(t, "test-model", r.ModelName)
	}
}

func TestEngineEmptyBatch(t *testing.T) {
	engine := NewEngine(func() (Classifier, error) { return &stubClassifier{}, nil }, nil)

	_, err := engine.AnalyzeBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestEngineLazySingleton(t *testing.T) {
	stub := &stubClassifier{name: "once"}
	factoryCalls := 0
	engine := NewEngine(func() (Classifier, error) {
		factoryCalls++
		return stub, nil
	}, nil)

	assert.False(t, engine.Loaded())

	_, err := engine.AnalyzeBatch(context.Background(), []string{"x"})
	require.NoError(t, err)
	_, err = engine.AnalyzeBatch(context.Background(), []string{"y"})
	require.NoError(t, err)

	assert.Equal(t, 1, factoryCalls, "factory must run exactly once")
	assert.True(t, engine.Loaded())
}

func TestEngineFactoryError(t *testing.T) {
	wantErr := errors.New("model file missing")
	engine := NewEngine(func() (Classifier, error) { return nil, wantErr }, nil)

	_, err := engine.AnalyzeBatch(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, wantErr)
	assert.False(t, engine.Loaded())
}

func TestEngineWarmupPublishesReadiness(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	readiness := NewRedisReadinessStore(rdb)
	engine := NewEngine(func() (Classifier, error) { return &stubClassifier{name: "warm"}, nil }, readiness)

	ctx := context.Background()

	loaded, err := readiness.ModelLoaded(ctx)
	require.NoError(t, err)
	assert.False(t, loaded)

	ok, err := engine.Warmup(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err = readiness.ModelLoaded(ctx)
	require.NoError(t, err)
	assert.True(t, loaded, "warmup must publish the readiness flag")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 512))
	assert.Equal(t, "ab", truncate("abcd", 2))
	assert.Equal(t, "abcd", truncate("abcd", 0), "non-positive limit means no truncation")

	// 多字节字符按 rune 截断，不能截出半个字符
	assert.Equal(t, "你好", truncate("你好世界", 2))
}
