package availability

import "github.com/aviato-app/aviato-match/internal/domain/user"

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Color — цвет индикатора в формате CSS.
type Color string

const (
	ColorGreen  Color = "#22C55E"
	ColorYellow Color = "#EAB308"
	ColorBlue   Color = "#3B82F6"
	ColorOrange Color = "#F97316"
	ColorBrown  Color = "#92400E"
	ColorGray   Color = "#6B7280"
	ColorRed    Color = "#EF4444"

	// ColorNone - индикатор не рисуется.
	ColorNone Color = "transparent"
)

// Icon — иконка рядом с текстом статуса.
type Icon string

const (
	IconNone     Icon = ""
	IconClock    Icon = "clock"
	IconCalendar Icon = "calendar"
	IconUsers    Icon = "users"
	IconPause    Icon = "pause-circle"
	IconLock     Icon = "lock"
)

// Status — итог проверки доступности.
type Status struct {
	// Mode - распознанный режим.
	Mode Mode `json:"-"`

	// Available - можно ли написать пользователю.
	Available bool `json:"available"`

	// Reason - почему нельзя (или подпись пользователя).
	Reason string `json:"reason"`

	// ModeColor - цвет индикатора.
	ModeColor Color `json:"mode_color"`

	// StatusText - базовый текст режима.
	StatusText string `json:"status_text"`

	// Icon - иконка статуса.
	Icon Icon `json:"icon,omitempty"`
}

// DisplayText возвращает текст для карточки: StatusText, иначе Reason.
func (s Status) DisplayText() string {
	if s.StatusText != "" {
		return s.StatusText
	}
	return s.Reason
}

// ══════════════════════════════════════════════════════════════════════════════
// RESOLVER
// ══════════════════════════════════════════════════════════════════════════════

type modeSpec struct {
	available bool
	color     Color
	icon      Icon
	text      string
	reason    string
}

var modeSpecs = [...]modeSpec{
	ModeUnknown: {available: false, color: ColorNone, icon: IconNone},
	ModeGreen:   {available: true, color: ColorGreen, icon: IconNone, text: "Available"},
	ModeYellow:  {available: false, color: ColorYellow, icon: IconClock, text: "Back soon", reason: "Stepped away for a bit"},
	ModeBlue:    {available: false, color: ColorBlue, icon: IconCalendar, text: "Busy with a scheduled plan", reason: "Calendar conflict"},
	ModeOrange:  {available: false, color: ColorOrange, icon: IconUsers, text: "With other people", reason: "Hanging out with a group"},
	ModeBrown:   {available: false, color: ColorBrown, icon: IconClock, text: "Cooling down", reason: "Taking a break between chats"},
	ModeGray:    {available: false, color: ColorGray, icon: IconPause, text: "Paused", reason: "Not looking to chat right now"},
	ModeRed:     {available: false, color: ColorRed, icon: IconLock, text: "Not accepting messages", reason: "Messaging is locked"},
}

// Every Mode must have a spec; the array length is checked at compile time.
var _ = [1]struct{}{}[len(modeSpecs)-int(modeCount)]

// Resolve вычисляет статус доступности пользователя.
// Каждый режим даёт ровно одну тройку цвет + текст + флаг. Неизвестный
// режим закрывается: недоступен, без иконки, без догадок о причине.
func Resolve(u user.User) Status {
	return ResolveMode(ParseMode(u.AvailabilityMode), u.StatusNote)
}

// ResolveMode — то же, что Resolve, для уже разобранного режима.
func ResolveMode(mode Mode, note string) Status {
	if !mode.IsKnown() {
		mode = ModeUnknown
	}
	spec := modeSpecs[mode]

	reason := spec.reason
	if mode.IsKnown() && note != "" {
		reason = note
	}

	return Status{
		Mode:       mode,
		Available:  spec.available,
		Reason:     reason,
		ModeColor:  spec.color,
		StatusText: spec.text,
		Icon:       spec.icon,
	}
}
