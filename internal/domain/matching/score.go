// Package matching выбирает и упорядочивает кандидатов для списка матчей.
//
// Два режима:
//   - browse: пока выбрано меньше MatchThreshold интересов, показываем
//     самых одобряемых людей (рейтинг одобрения по убыванию);
//   - match: набрано достаточно сигнала, сортируем по проценту совместимости.
package matching

import (
	"math"
	"strings"

	"github.com/aviato-app/aviato-match/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERCENTAGE
// ══════════════════════════════════════════════════════════════════════════════

// Percentage представляет процент совместимости (0-100).
type Percentage int

// IsValid проверяет корректность процента.
func (p Percentage) IsValid() bool {
	return p >= 0 && p <= 100
}

// Clamp приводит значение в диапазон 0..100.
func (p Percentage) Clamp() Percentage {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// Quality возвращает качественную оценку совместимости.
func (p Percentage) Quality() Quality {
	switch {
	case p >= 80:
		return QualityExcellent
	case p >= 60:
		return QualityGood
	case p >= 40:
		return QualityFair
	case p >= 20:
		return QualityPoor
	default:
		return QualityNone
	}
}

// Quality определяет качество совпадения.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityNone      Quality = "none"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORER
// ══════════════════════════════════════════════════════════════════════════════

// Scorer вычисляет совместимость кандидата с выбранными интересами.
// Реализация внедряется снаружи.
type Scorer interface {
	Score(candidate user.User, selection []string) Percentage
}

// ScorerFunc позволяет использовать обычную функцию как Scorer.
type ScorerFunc func(candidate user.User, selection []string) Percentage

// Score вызывает f.
func (f ScorerFunc) Score(candidate user.User, selection []string) Percentage {
	return f(candidate, selection)
}

// InterestOverlapScorer — скорер по умолчанию: доля выбранных интересов,
// которые есть в профиле кандидата.
type InterestOverlapScorer struct{}

// Score возвращает round(100 * |selection ∩ interests| / |selection|).
// Сравнение без учёта регистра.
func (InterestOverlapScorer) Score(candidate user.User, selection []string) Percentage {
	if len(selection) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(candidate.Interests))
	for _, tag := range candidate.Interests {
		have[strings.ToLower(tag)] = struct{}{}
	}

	shared := 0
	for _, tag := range selection {
		if _, ok := have[strings.ToLower(tag)]; ok {
			shared++
		}
	}

	pct := math.Round(100 * float64(shared) / float64(len(selection)))
	return Percentage(pct).Clamp()
}
