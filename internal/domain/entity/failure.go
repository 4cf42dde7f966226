package entity

import "fmt"

// FailureReason код причины, по которой кандидат или весь снимок отброшен.
type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonMalformedInput  FailureReason = "MALFORMED_INPUT"
	ReasonNoCandidate     FailureReason = "NO_CANDIDATE"
	ReasonNoRegion        FailureReason = "NO_REGION"
	ReasonNoCorners       FailureReason = "NO_CORNERS"
	ReasonPaddingOverflow FailureReason = "PADDING_OVERFLOW"
	ReasonDegenerateQuad  FailureReason = "DEGENERATE_QUAD"
	ReasonTooFewGlyphs    FailureReason = "TOO_FEW_GLYPHS"
	ReasonWordSplit       FailureReason = "WORD_SPLIT"
	ReasonOCRInconclusive FailureReason = "OCR_INCONCLUSIVE"
	ReasonBudgetExhausted FailureReason = "BUDGET_EXHAUSTED"
	ReasonStageFailed     FailureReason = "STAGE_FAILED"
)

// Stage этап конвейера распознавания.
type Stage string

const (
	StageInput    Stage = "input"
	StageSegment  Stage = "segment"
	StageEdges    Stage = "edges"
	StageRegion   Stage = "region"
	StageCorners  Stage = "corners"
	StageRectify  Stage = "rectify"
	StageInterior Stage = "interior"
	StageDenoise  Stage = "denoise"
	StageChars    Stage = "chars"
	StageLayout   Stage = "layout"
	StageOCR      Stage = "ocr"
	StageAnnotate Stage = "annotate"
)

// StageError отказ конкретного этапа конвейера.
type StageError struct {
	Stage  Stage
	Reason FailureReason
	Cause  error
}

// NewStageError создаёт ошибку этапа.
func NewStageError(stage Stage, reason FailureReason, cause error) *StageError {
	return &StageError{Stage: stage, Reason: reason, Cause: cause}
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Stage, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Reason)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
