// Package availability отвечает на один вопрос: можно ли написать этому
// человеку прямо сейчас. Весь набор правил собран в Resolve, чтобы слой
// представления никогда не выводил их заново.
package availability

import "strings"

// ══════════════════════════════════════════════════════════════════════════════
// MODE
// Закрытое перечисление режимов доступности.
// ══════════════════════════════════════════════════════════════════════════════

// Mode — режим доступности пользователя.
type Mode uint8

const (
	// ModeUnknown - тег не задан или не распознан.
	ModeUnknown Mode = iota

	// ModeGreen - полностью доступен.
	ModeGreen

	// ModeYellow - ненадолго отошёл, скоро вернётся.
	ModeYellow

	// ModeBlue - занят по расписанию.
	ModeBlue

	// ModeOrange - сейчас с другими людьми.
	ModeOrange

	// ModeBrown - пауза между разговорами (кулдаун).
	ModeBrown

	// ModeGray - сознательно на паузе.
	ModeGray

	// ModeRed - сообщения закрыты.
	ModeRed

	modeCount
)

var modeTags = [...]string{
	ModeUnknown: "",
	ModeGreen:   "green",
	ModeYellow:  "yellow",
	ModeBlue:    "blue",
	ModeOrange:  "orange",
	ModeBrown:   "brown",
	ModeGray:    "gray",
	ModeRed:     "red",
}

// Every Mode must have a tag; the array length is checked at compile time.
var _ = [1]struct{}{}[len(modeTags)-int(modeCount)]

// ParseMode разбирает внешний тег режима. Регистр не важен.
// Любое нераспознанное значение даёт ModeUnknown.
func ParseMode(tag string) Mode {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return ModeUnknown
	}
	for m := ModeGreen; m < modeCount; m++ {
		if modeTags[m] == tag {
			return m
		}
	}
	return ModeUnknown
}

// String возвращает тег режима.
func (m Mode) String() string {
	if m >= modeCount {
		return ""
	}
	return modeTags[m]
}

// IsKnown возвращает true для всех режимов, кроме неизвестного.
func (m Mode) IsKnown() bool {
	return m > ModeUnknown && m < modeCount
}

// AllModes возвращает все известные режимы в порядке объявления.
func AllModes() []Mode {
	modes := make([]Mode, 0, modeCount-1)
	for m := ModeGreen; m < modeCount; m++ {
		modes = append(modes, m)
	}
	return modes
}
