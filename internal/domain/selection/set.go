// Package selection содержит набор выбранных интересов и логику листа
// выбора (picker), который редактирует рабочую копию этого набора.
package selection

// MaxItems — ёмкость набора.
const MaxItems = 20

// Set — упорядоченный набор тегов без дубликатов, не больше MaxItems.
// Порядок сохраняется для отображения, для подбора он не важен.
// Нулевое значение — пустой набор, готовый к использованию.
type Set struct {
	items []string
}

// NewSet создаёт набор из тегов. Дубликаты и всё, что не влезает
// в ёмкость, молча отбрасываются.
func NewSet(tags ...string) Set {
	var s Set
	for _, tag := range tags {
		if !s.Contains(tag) {
			s.add(tag)
		}
	}
	return s
}

// Toggle убирает тег, если он есть; иначе добавляет, если есть место.
// Полный набор молча игнорирует добавление. Возвращает true, если после
// вызова тег присутствует в наборе.
func (s *Set) Toggle(tag string) bool {
	for i, item := range s.items {
		if item == tag {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return false
		}
	}
	return s.add(tag)
}

func (s *Set) add(tag string) bool {
	if len(s.items) >= MaxItems {
		return false
	}
	s.items = append(s.items, tag)
	return true
}

// Clear безусловно очищает набор.
func (s *Set) Clear() {
	s.items = nil
}

// Contains проверяет наличие тега.
func (s Set) Contains(tag string) bool {
	for _, item := range s.items {
		if item == tag {
			return true
		}
	}
	return false
}

// Len возвращает размер набора.
func (s Set) Len() int {
	return len(s.items)
}

// IsFull возвращает true, если набор достиг ёмкости.
func (s Set) IsFull() bool {
	return len(s.items) >= MaxItems
}

// Items возвращает копию тегов в порядке добавления.
func (s Set) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Clone возвращает независимую копию набора.
func (s Set) Clone() Set {
	return Set{items: s.Items()}
}

// Equal сравнивает наборы без учёта порядка.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, item := range s.items {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}
