//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/domain/port"
)

func fillRect(m *gocv.Mat, r image.Rectangle) {
	region := m.Region(r)
	defer region.Close()
	region.SetTo(gocv.NewScalar(255, 255, 255, 0))
}

func TestToHSVAndBack(t *testing.T) {
	blue := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 2, 2, gocv.MatTypeCV8UC3)
	defer blue.Close()

	hsv := ToHSV(blue)
	defer hsv.Close()
	require.Equal(t, []uint8{120, 255, 255}, []uint8(hsv.GetVecbAt(1, 1)))

	bgr := ToBGR(hsv)
	defer bgr.Close()
	require.Equal(t, []uint8{255, 0, 0}, []uint8(bgr.GetVecbAt(0, 1)))

	gray := zeros(2, 2)
	defer gray.Close()
	empty := ToHSV(gray)
	defer empty.Close()
	require.True(t, empty.Empty())
}

func TestConnectedComponents_LargestFirst(t *testing.T) {
	mask := zeros(20, 20)
	defer mask.Close()
	fillRect(&mask, image.Rect(1, 1, 5, 5))
	fillRect(&mask, image.Rect(10, 10, 18, 16))

	comps := ConnectedComponents(mask, 10)
	require.Len(t, comps, 2)
	require.Equal(t, 48, comps[0].Area)
	require.Equal(t, entity.Rect{X: 10, Y: 10, Width: 8, Height: 6}, comps[0].Box)
	require.Equal(t, 16, comps[1].Area)

	require.Len(t, ConnectedComponents(mask, 1), 1)
}

func bars(n int) gocv.Mat {
	mask := zeros(40, 20*n+10)
	for i := 0; i < n; i++ {
		fillRect(&mask, image.Rect(10+20*i, 10, 18+20*i, 30))
	}
	return mask
}

func TestDenoise(t *testing.T) {
	mask := bars(6)
	defer mask.Close()
	fillRect(&mask, image.Rect(2, 2, 4, 4))

	clean, err := Denoise(mask, 0.2)
	require.NoError(t, err)
	defer clean.Close()
	require.Equal(t, 6*8*20, gocv.CountNonZero(clean))

	again, err := Denoise(clean, 0.2)
	require.NoError(t, err)
	defer again.Close()
	require.Equal(t, gocv.CountNonZero(clean), gocv.CountNonZero(again))

	boxes := CharBoxes(clean)
	require.Len(t, boxes, 6)
	require.Equal(t, entity.Rect{X: 10, Y: 10, Width: 8, Height: 20}, boxes[0])
	require.Equal(t, 110, boxes[5].X)
}

func TestDenoise_TooFewGlyphs(t *testing.T) {
	mask := bars(5)
	defer mask.Close()

	_, err := Denoise(mask, 0.2)
	var se *entity.StageError
	require.True(t, errors.As(err, &se))
	require.Equal(t, entity.ReasonTooFewGlyphs, se.Reason)
}

func TestRelayout(t *testing.T) {
	mask := bars(6)
	defer mask.Close()
	chars := CharBoxes(mask)

	layout, err := Relayout(mask, chars, PadChars(chars, 0.15))
	require.NoError(t, err)
	defer layout.Close()

	require.Len(t, layout.Chars, 6)
	require.Equal(t, 26, layout.Strip.Rows())
	require.Equal(t, 6*14, layout.Strip.Cols())
	require.Equal(t, gocv.CountNonZero(mask), gocv.CountNonZero(layout.Strip))
}

func TestNewDiceMatcher_MatchesItself(t *testing.T) {
	sheet := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 40, 30, gocv.MatTypeCV8UC1)
	defer sheet.Close()
	ink := sheet.Region(image.Rect(12, 5, 18, 35))
	ink.SetTo(gocv.NewScalar(0, 0, 0, 0))
	ink.Close()

	data, err := encodePNG(sheet)
	require.NoError(t, err)

	m, err := NewDiceMatcher(data)
	require.NoError(t, err)

	matched, d := m.Match(m.template, DiceThreshold)
	require.True(t, matched)
	require.InDelta(t, 1.0, d, 1e-9)

	_, err = NewDiceMatcher([]byte("not an image"))
	require.Error(t, err)
}

func TestAnnotate(t *testing.T) {
	now := time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)
	require.Equal(t, "05-03-2024 07:08:09", Annotate(nil, nil, 0, "N/A", 0, now))

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 200, 400, gocv.MatTypeCV8UC3)
	defer out.Close()
	roi := entity.Rect{X: 10, Y: 5, Width: 40, Height: 10}
	require.Equal(t, "05-03-2024 07:08:09", Annotate(&out, &roi, 50, "AB123CD", 0.87, now))

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(out, &gray, gocv.ColorBGRToGray)
	require.Positive(t, gocv.CountNonZero(gray))
}

func TestAssessQuality_FlatImageIsBlurry(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer img.Close()

	warnings := AssessQuality(img, DefaultQualityLimits())
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "blurry")
}

func fixedPipeline() *Pipeline {
	now := time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)
	return NewPipeline(DefaultParams(), nil, nil, WithClock(func() time.Time { return now }))
}

func TestRecognize_CorruptFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.jpg")
	require.NoError(t, os.WriteFile(src, []byte("garbage"), 0o600))

	p := fixedPipeline()
	result, err := p.Recognize(context.Background(), src, "")
	require.NoError(t, err)
	require.Equal(t, entity.ReasonMalformedInput, result.Reason)
	require.Equal(t, "N/A\n05-03-2024 07:08:09", p.TextFromImage(context.Background(), src, ""))
}

func TestRecognize_GrayscaleIsMalformed(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "gray.png")
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC1)
	defer gray.Close()
	require.True(t, gocv.IMWrite(src, gray))

	result, err := fixedPipeline().Recognize(context.Background(), src, "")
	require.NoError(t, err)
	require.False(t, result.Found)
	require.Equal(t, entity.ReasonMalformedInput, result.Reason)
}

func TestRecognize_BlankImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "blank.png")
	dst := filepath.Join(dir, "blank_annotated.png")
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 200, 300, gocv.MatTypeCV8UC3)
	defer blank.Close()
	require.True(t, gocv.IMWrite(src, blank))

	result, err := fixedPipeline().Recognize(context.Background(), src, dst)
	require.NoError(t, err)
	require.Equal(t, entity.NotAvailable, result.Text)
	require.Equal(t, entity.ReasonNoCandidate, result.Reason)
	require.Zero(t, result.Candidates)
	require.FileExists(t, dst)
}

type unavailablePool struct{}

func (unavailablePool) Acquire(context.Context) (port.GlyphReader, error) {
	return nil, errors.New("no readers left")
}

func (unavailablePool) Release(port.GlyphReader) {}

func TestRecognize_AnnotatesWhenReadersFail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "car.png")
	dst := filepath.Join(dir, "car_annotated.png")
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 300, 400, gocv.MatTypeCV8UC3)
	defer img.Close()
	fillRect(&img, image.Rect(100, 200, 260, 240))
	require.True(t, gocv.IMWrite(src, img))

	now := time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)
	p := NewPipeline(DefaultParams(), unavailablePool{}, nil, WithClock(func() time.Time { return now }))
	result, err := p.Recognize(context.Background(), src, dst)
	require.Error(t, err)
	require.NotNil(t, result)
	require.Equal(t, entity.NotAvailable, result.Text)
	require.FileExists(t, dst)
}

type cancelAwareTemplates struct {
	data []byte
}

func (r cancelAwareTemplates) Get(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.data, nil
}

func TestDiceMatcher_LoadsDespiteCancelledCaller(t *testing.T) {
	sheet := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 40, 30, gocv.MatTypeCV8UC1)
	defer sheet.Close()
	ink := sheet.Region(image.Rect(12, 5, 18, 35))
	ink.SetTo(gocv.NewScalar(0, 0, 0, 0))
	ink.Close()
	data, err := encodePNG(sheet)
	require.NoError(t, err)

	p := NewPipeline(DefaultParams(), nil, cancelAwareTemplates{data: data})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NotNil(t, p.diceMatcher(ctx))
	require.Same(t, p.diceMatcher(context.Background()), p.diceMatcher(ctx))
}
