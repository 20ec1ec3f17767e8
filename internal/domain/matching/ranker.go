package matching

import (
	"sort"

	"github.com/aviato-app/aviato-match/internal/domain/user"
)

// MatchThreshold — минимальное число выбранных интересов, после которого
// ранжирование переключается с популярности на похожесть.
const MatchThreshold = 5

// Mode — стратегия упорядочивания.
type Mode string

const (
	// ModeBrowse - сортировка по рейтингу одобрения.
	ModeBrowse Mode = "browse"

	// ModeMatch - сортировка по проценту совместимости.
	ModeMatch Mode = "match"
)

// ModeFor возвращает режим для выбора заданного размера.
func ModeFor(selectionSize int) Mode {
	if selectionSize >= MatchThreshold {
		return ModeMatch
	}
	return ModeBrowse
}

// Rank возвращает кандидатов без самого пользователя actingID в порядке
// показа. Сортировка стабильная: при равенстве сохраняется входной порядок.
// Входной срез и записи не изменяются; в режиме match у копий
// заполняется MatchPercentage.
func Rank(all []user.User, actingID user.ID, selection []string, scorer Scorer) []user.User {
	out := make([]user.User, 0, len(all))
	for _, u := range all {
		if u.ID == actingID {
			continue
		}
		out = append(out, u)
	}

	if ModeFor(len(selection)) == ModeBrowse {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ApprovalRating > out[j].ApprovalRating
		})
		return out
	}

	if scorer == nil {
		scorer = InterestOverlapScorer{}
	}
	for i := range out {
		pct := scorer.Score(out[i], selection).Clamp()
		out[i] = out[i].WithMatchPercentage(int(pct))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].MatchPercentage > *out[j].MatchPercentage
	})
	return out
}
