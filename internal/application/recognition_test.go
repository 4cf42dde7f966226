package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/logging"
)

type fakeRecognizer struct {
	mu       sync.Mutex
	calls    map[string]string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	fail     map[string]error
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{calls: make(map[string]string), fail: make(map[string]error)}
}

func (f *fakeRecognizer) Recognize(ctx context.Context, src, dst string) (*entity.PlateResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls[src] = dst
	err := f.fail[src]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return entity.NewFailedResult("ts", entity.ReasonBudgetExhausted), ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &entity.PlateResult{Text: "AB123CDE", Timestamp: "ts", Found: true, Confidence: 0.9}, nil
}

func TestRecognitionService_Validation(t *testing.T) {
	_, err := NewRecognitionService(newFakeRecognizer(), 0, 0, "")
	require.Error(t, err)

	svc, err := NewRecognitionService(nil, 1, 0, "")
	require.NoError(t, err)
	defer svc.Close()
	_, err = svc.Recognize(context.Background(), "a.jpg", "")
	require.EqualError(t, err, "recognizer is not configured")
}

func TestRecognitionService_Recognize(t *testing.T) {
	rec := newFakeRecognizer()
	svc, err := NewRecognitionService(rec, 1, time.Second, "")
	require.NoError(t, err)
	defer svc.Close()

	result, err := svc.Recognize(context.Background(), "car.jpg", "out.jpg")
	require.NoError(t, err)
	require.Equal(t, "AB123CDE\nts", result.String())
	require.Equal(t, "out.jpg", rec.calls["car.jpg"])
}

func TestRecognitionService_RecognizeTimeout(t *testing.T) {
	rec := newFakeRecognizer()
	rec.delay = time.Second
	svc, err := NewRecognitionService(rec, 1, 10*time.Millisecond, "")
	require.NoError(t, err)
	defer svc.Close()

	result, err := svc.Recognize(context.Background(), "slow.jpg", "")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, entity.NotAvailable, result.Text)
}

func TestRecognitionService_RecognizeBatchKeepsOrder(t *testing.T) {
	rec := newFakeRecognizer()
	rec.delay = 5 * time.Millisecond
	boom := errors.New("boom")
	rec.fail["b.jpg"] = boom

	svc, err := NewRecognitionService(rec, 2, 0, "out")
	require.NoError(t, err)
	defer svc.Close()

	sources := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}
	outcomes := svc.RecognizeBatch(context.Background(), sources)
	require.Len(t, outcomes, len(sources))

	ids := make(map[string]struct{})
	for i, o := range outcomes {
		require.Equal(t, sources[i], o.Job.Source)
		require.NotEmpty(t, o.Job.ID)
		ids[o.Job.ID] = struct{}{}
		if sources[i] == "b.jpg" {
			require.ErrorIs(t, o.Err, boom)
			continue
		}
		require.NoError(t, o.Err)
		require.True(t, o.Result.Found)
	}
	require.Len(t, ids, len(sources))
	require.LessOrEqual(t, rec.peak.Load(), int32(2))
	require.Equal(t, filepath.Join("out", "c_annotated.jpg"), rec.calls["c.jpg"])
}

func TestRecognitionService_DestinationFor(t *testing.T) {
	svc, err := NewRecognitionService(newFakeRecognizer(), 1, 0, "")
	require.NoError(t, err)
	defer svc.Close()
	require.Empty(t, svc.DestinationFor("/data/car.jpg"))

	svc2, err := NewRecognitionService(newFakeRecognizer(), 1, 0, "/tmp/out")
	require.NoError(t, err)
	defer svc2.Close()
	require.Equal(t, filepath.Join("/tmp/out", "car_annotated.jpg"), svc2.DestinationFor("/data/car.jpg"))
	require.Equal(t, filepath.Join("/tmp/out", "frame_annotated"), svc2.DestinationFor("frame"))
}

func TestRecognitionService_RecognizeBatchLogsJobID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logging.Default
	logging.Default = zap.New(core).Sugar()
	defer func() { logging.Default = prev }()

	rec := newFakeRecognizer()
	rec.fail["bad.jpg"] = errors.New("boom")
	svc, err := NewRecognitionService(rec, 1, 0, "")
	require.NoError(t, err)
	defer svc.Close()

	outcomes := svc.RecognizeBatch(context.Background(), []string{"bad.jpg"})
	require.Len(t, outcomes, 1)
	id := outcomes[0].Job.ID

	failed := logs.FilterMessageSnippet(id).FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, failed, 1)
	require.Contains(t, failed[0].Message, "boom")
	require.Equal(t, 1, logs.FilterMessageSnippet(id).FilterLevelExact(zapcore.DebugLevel).Len())
}
