package vision

// Эмпирически подобранные константы. Менять их значит менять поведение распознавания.
const (
	// HueScale переводит тон в градусах в единицы канала H. Канал H лежит в [0, 180),
	// а не в [0, 127]: только в этой шкале диапазон плашки 100..130 попадает на синий.
	HueScale = 0.5

	// Диапазон синей плашки, которую не должны принять за краску номера.
	badgeHueMin, badgeHueMax = 100, 130
	badgeSatMin, badgeSatMax = 90, 230
	badgeValMin, badgeValMax = 110, 195

	// DownscaleFactor во сколько раз уменьшается снимок перед поиском.
	DownscaleFactor = 2

	// PlateAspect отношение ширины номера к высоте.
	PlateAspect = 4.3

	// MinPadding минимальный отступ при расширении рамки, в пикселях.
	MinPadding = 3

	// MinGlyphs минимальное число символов на номере.
	MinGlyphs = 6
	// MaxGlyphContours сколько самых высоких контуров рассматривается как символы.
	MaxGlyphContours = 8
	// TrailingLetters длина последнего буквенного слова.
	TrailingLetters = 3

	// ShrinkMargin на сколько рамка символа должна превышать плотную рамку.
	ShrinkMargin = 3

	// DiceThreshold порог совпадения с эталоном буквы "I".
	DiceThreshold = 0.8
	// FallbackGlyph символ, который подставляется при совпадении с эталоном.
	FallbackGlyph = "I"

	histogramBins = 256
)

// Params настройки конвейера распознавания.
type Params struct {
	MaxCandidates      int     // сколько крупнейших компонент проверять
	BadgeThreshold     uint8   // порог S/V для бинаризации
	CandidateMinArea   float64 // доли площади уменьшенного кадра
	CandidateMaxArea   float64
	CandidateMinAspect float64 // высота/ширина
	CandidateMaxAspect float64
	CandidatePadding   float64

	RegionMinWidth   float64 // доля ширины кандидата, которую должен занимать номер
	HoughStartFrac   float64 // начальная длина линии относительно высоты номера
	HoughVotes       int
	HoughMaxGap      float64
	HoughMaxAttempts int
	MaxPaddingGrowth float64
	MinPlateHeight   float64 // доля высоты кандидата

	HeightDeviation float64
	CharPadding     float64

	OCRMaxShrinks int
	BlurKernel    int // нечётный размер ядра размытия

	Quality QualityLimits
}

// DefaultParams возвращает настройки, на которых откалиброван конвейер.
func DefaultParams() Params {
	return Params{
		MaxCandidates:      10,
		BadgeThreshold:     100,
		CandidateMinArea:   0.002,
		CandidateMaxArea:   0.2,
		CandidateMinAspect: 0.1,
		CandidateMaxAspect: 0.6,
		CandidatePadding:   0.1,
		RegionMinWidth:     0.4,
		HoughStartFrac:     0.25,
		HoughVotes:         10,
		HoughMaxGap:        3,
		HoughMaxAttempts:   64,
		MaxPaddingGrowth:   0.25,
		MinPlateHeight:     0.3,
		HeightDeviation:    0.2,
		CharPadding:        0.15,
		OCRMaxShrinks:      32,
		BlurKernel:         5,
		Quality:            DefaultQualityLimits(),
	}
}
