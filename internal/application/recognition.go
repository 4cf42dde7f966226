package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"plate-reader/internal/domain/entity"
	"plate-reader/internal/domain/port"
	"plate-reader/internal/logging"
)

// AnnotatedSuffix добавляется к имени размеченного снимка.
const AnnotatedSuffix = "_annotated"

// RecognitionService распознаёт номера на одиночных снимках и пачками.
type RecognitionService struct {
	recognizer port.PlateRecognizer
	timeout    time.Duration
	outputDir  string
	pool       *ants.PoolWithFunc
}

type recognitionParam struct {
	ctx      context.Context
	svc      *RecognitionService
	job      entity.Job
	outcomes []entity.JobOutcome
	idx      int
	wg       *sync.WaitGroup
}

// NewRecognitionService создаёт сервис с пулом из workers обработчиков.
// timeout ограничивает один снимок, 0 значит без ограничения. Пустой outputDir отключает
// запись размеченных снимков в пакетном режиме.
func NewRecognitionService(recognizer port.PlateRecognizer, workers int, timeout time.Duration, outputDir string) (*RecognitionService, error) {
	if workers <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	s := &RecognitionService{
		recognizer: recognizer,
		timeout:    timeout,
		outputDir:  outputDir,
	}
	pool, err := ants.NewPoolWithFunc(workers, func(args any) {
		param, ok := args.(*recognitionParam)
		if !ok {
			panic("recognition pool args type error")
		}
		defer param.wg.Done()
		logging.Debugf("job %s: recognize %s", param.job.ID, param.job.Source)
		result, err := param.svc.Recognize(param.ctx, param.job.Source, param.job.Destination)
		if err != nil {
			logging.Warnf("job %s failed: %v", param.job.ID, err)
		}
		param.outcomes[param.idx] = entity.JobOutcome{Job: param.job, Result: result, Err: err}
	})
	if err != nil {
		return nil, fmt.Errorf("create recognition pool: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Recognize распознаёт один снимок.
func (s *RecognitionService) Recognize(ctx context.Context, src, dst string) (*entity.PlateResult, error) {
	if s.recognizer == nil {
		return nil, errors.New("recognizer is not configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	result, err := s.recognizer.Recognize(ctx, src, dst)
	if err != nil {
		return result, fmt.Errorf("recognize %s: %w", src, err)
	}
	return result, nil
}

// RecognizeBatch распознаёт снимки параллельно. Результаты идут в порядке sources.
func (s *RecognitionService) RecognizeBatch(ctx context.Context, sources []string) []entity.JobOutcome {
	outcomes := make([]entity.JobOutcome, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		job := entity.NewJob(src, s.DestinationFor(src))
		wg.Add(1)
		param := &recognitionParam{ctx: ctx, svc: s, job: job, outcomes: outcomes, idx: i, wg: &wg}
		if err := s.pool.Invoke(param); err != nil {
			wg.Done()
			outcomes[i] = entity.JobOutcome{Job: job, Err: fmt.Errorf("submit %s: %w", src, err)}
		}
	}
	wg.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	logging.Infof("batch done: %d images, %d failed", len(sources), failed)
	return outcomes
}

// DestinationFor путь размеченного снимка для src: <outputDir>/<имя>_annotated<расширение>.
func (s *RecognitionService) DestinationFor(src string) string {
	if s.outputDir == "" {
		return ""
	}
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	return filepath.Join(s.outputDir, strings.TrimSuffix(base, ext)+AnnotatedSuffix+ext)
}

// Close останавливает пул обработчиков.
func (s *RecognitionService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}
