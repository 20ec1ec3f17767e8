package selection

import (
	"context"

	"github.com/aviato-app/aviato-match/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PICKER STATE MACHINE
//
//   Closed ──Open(committed)──▶ Open(копия) ──Toggle/Clear──▶ Open(изменён)
//      ▲                                                        │
//      └──────────── Apply (зафиксировать) / Cancel (отбросить) ┘
//
// При каждом открытии рабочая копия заново берётся из зафиксированного
// набора, поэтому отменённые правки никогда не всплывают при повторном
// открытии.
// ══════════════════════════════════════════════════════════════════════════════

// PickerState — состояние листа выбора.
type PickerState string

const (
	PickerClosed PickerState = "closed"
	PickerOpen   PickerState = "open"
)

// Outcome — чем закончилась последняя сессия.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCommitted Outcome = "committed"
	OutcomeDiscarded Outcome = "discarded"
)

// Picker владеет рабочей копией набора, пока лист открыт.
// Зафиксированный набор принадлежит вызывающей стороне.
type Picker struct {
	state   PickerState
	working Set
	outcome Outcome
}

// NewPicker создаёт закрытый picker.
func NewPicker() *Picker {
	return &Picker{state: PickerClosed}
}

// State возвращает текущее состояние.
func (p *Picker) State() PickerState {
	return p.state
}

// IsOpen возвращает true, если лист открыт.
func (p *Picker) IsOpen() bool {
	return p.state == PickerOpen
}

// LastOutcome возвращает итог последней закрытой сессии.
func (p *Picker) LastOutcome() Outcome {
	return p.outcome
}

// Open открывает лист и синхронизирует рабочую копию с committed.
// Повторный Open на открытом листе тоже пересинхронизирует копию.
func (p *Picker) Open(committed Set) {
	p.working = committed.Clone()
	p.state = PickerOpen
	p.outcome = OutcomeNone
}

// Working возвращает копию рабочего набора.
func (p *Picker) Working() (Set, error) {
	if !p.IsOpen() {
		return Set{}, shared.ErrPickerClosed
	}
	return p.working.Clone(), nil
}

// Toggle переключает тег в рабочей копии.
func (p *Picker) Toggle(tag string) (bool, error) {
	if !p.IsOpen() {
		return false, shared.ErrPickerClosed
	}
	return p.working.Toggle(tag), nil
}

// Clear очищает рабочую копию.
func (p *Picker) Clear() error {
	if !p.IsOpen() {
		return shared.ErrPickerClosed
	}
	p.working.Clear()
	return nil
}

// Apply закрывает лист и возвращает набор, который нужно зафиксировать.
func (p *Picker) Apply() (Set, error) {
	if !p.IsOpen() {
		return Set{}, shared.ErrPickerClosed
	}
	out := p.working
	p.close(OutcomeCommitted)
	return out, nil
}

// Cancel закрывает лист, отбрасывая рабочую копию.
func (p *Picker) Cancel() error {
	if !p.IsOpen() {
		return shared.ErrPickerClosed
	}
	p.close(OutcomeDiscarded)
	return nil
}

func (p *Picker) close(outcome Outcome) {
	p.working = Set{}
	p.state = PickerClosed
	p.outcome = outcome
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store хранит зафиксированные наборы пользователей.
// Реализации находятся в infrastructure/persistence.
type Store interface {
	// Committed возвращает зафиксированный набор. Отсутствие записи —
	// пустой набор, не ошибка.
	Committed(ctx context.Context, userID string) (Set, error)

	// Commit заменяет зафиксированный набор.
	Commit(ctx context.Context, userID string, set Set) error
}
