package vision

import (
	"sort"

	"plate-reader/internal/domain/entity"
)

// Component связная компонента маски.
type Component struct {
	Label int
	Area  int
	Box   entity.Rect
}

// RankCandidates сортирует компоненты по убыванию площади и оставляет первые maxCount.
// Порядок равных площадей сохраняется. При maxCount = 0 ограничения нет.
func RankCandidates(comps []Component, maxCount int) []Component {
	ranked := append([]Component(nil), comps...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Area > ranked[j].Area
	})
	if maxCount > 0 && len(ranked) > maxCount {
		ranked = ranked[:maxCount]
	}
	return ranked
}

// selectCandidates отбирает компоненты, похожие на номер, и расширяет их рамки.
// Порядок проверки совпадает с порядком компонент.
func selectCandidates(comps []Component, size entity.Size, p Params) []entity.Rect {
	rois := make([]entity.Rect, 0, len(comps))
	for _, c := range comps {
		if !SizeFilter(size, c.Box, p.CandidateMinArea, p.CandidateMaxArea) {
			continue
		}
		if !AspectFilter(c.Box, p.CandidateMinAspect, p.CandidateMaxAspect) {
			continue
		}
		rois = append(rois, Pad(c.Box, p.CandidatePadding, false, &size))
	}
	return rois
}
