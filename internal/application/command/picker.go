// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aviato-app/aviato-match/internal/domain/matching"
	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/internal/domain/user"
	"github.com/aviato-app/aviato-match/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// INTEREST PICKER COMMANDS
// Drives the interest picker sheet for each user. Every user owns at most one
// picker; edits stay in the picker's working copy until Apply commits them.
// ══════════════════════════════════════════════════════════════════════════════

// PickerView is the picker state returned after every command.
type PickerView struct {
	SessionID string                `json:"session_id"`
	UserID    string                `json:"user_id"`
	State     selection.PickerState `json:"state"`
	Outcome   selection.Outcome     `json:"outcome,omitempty"`

	// Selected is the working copy while open, the committed set once applied.
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
	Capacity int      `json:"capacity"`
	IsFull   bool     `json:"is_full"`

	// Mode is the ranking mode the selection would produce.
	Mode matching.Mode `json:"mode"`

	// Present reports whether the toggled tag is in the working copy.
	// Only set by Toggle.
	Present *bool `json:"present,omitempty"`
}

type pickerSession struct {
	mu       sync.Mutex
	id       string
	picker   *selection.Picker
	openedAt time.Time
}

// PickerService manages picker sessions and commits applied selections.
type PickerService struct {
	store selection.Store
	log   *logger.Logger

	mu       sync.Mutex
	sessions *lru.Cache[string, *pickerSession]
}

// DefaultMaxSessions bounds the number of live picker sessions. The least
// recently used session is dropped first; its uncommitted edits are lost,
// exactly as if the user had cancelled.
const DefaultMaxSessions = 10_000

// NewPickerService creates a new PickerService.
func NewPickerService(store selection.Store, log *logger.Logger) *PickerService {
	return NewPickerServiceWithCapacity(store, log, DefaultMaxSessions)
}

// NewPickerServiceWithCapacity is NewPickerService with a custom session limit.
func NewPickerServiceWithCapacity(store selection.Store, log *logger.Logger, maxSessions int) *PickerService {
	if log == nil {
		log = logger.Nop()
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	log = log.With(logger.Component("picker"))

	sessions, err := lru.NewWithEvict(maxSessions, func(userID string, _ *pickerSession) {
		log.Debug("picker session evicted", logger.UserID(userID))
	})
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}

	return &PickerService{
		store:    store,
		log:      log,
		sessions: sessions,
	}
}

// Sessions returns the number of live picker sessions.
func (s *PickerService) Sessions() int {
	return s.sessions.Len()
}

func validateUserID(op, userID string) error {
	if !user.ID(userID).IsValid() {
		return shared.NewDomainError("selection", op, shared.ErrInvalidID, "user id is required")
	}
	return nil
}

// session returns the user's session, creating it when create is true.
func (s *PickerService) session(userID string, create bool) (*pickerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(userID)
	if !ok {
		if !create {
			return nil, shared.ErrPickerNotFound
		}
		sess = &pickerSession{picker: selection.NewPicker()}
		s.sessions.Add(userID, sess)
	}
	return sess, nil
}

// Open opens the picker for a user, syncing its working copy from the
// committed selection. Opening an already open picker re-syncs it.
func (s *PickerService) Open(ctx context.Context, userID string) (*PickerView, error) {
	if err := validateUserID("Open", userID); err != nil {
		return nil, err
	}

	committed, err := s.store.Committed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load committed selection: %w", err)
	}

	sess, _ := s.session(userID, true)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.picker.Open(committed)
	sess.id = uuid.NewString()
	sess.openedAt = time.Now()

	s.log.Debug("picker opened",
		logger.UserID(userID),
		logger.SessionID(sess.id),
		logger.SelectionSize(committed.Len()),
	)

	return s.view(userID, sess, committed), nil
}

// Toggle adds or removes a vocabulary tag in the working copy.
// Adding to a full selection leaves it unchanged.
func (s *PickerService) Toggle(_ context.Context, userID, tag string) (*PickerView, error) {
	if err := validateUserID("Toggle", userID); err != nil {
		return nil, err
	}
	if !selection.IsKnownInterest(tag) {
		return nil, shared.ErrUnknownInterest
	}

	sess, err := s.session(userID, false)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	present, err := sess.picker.Toggle(tag)
	if err != nil {
		return nil, err
	}

	working, _ := sess.picker.Working()
	v := s.view(userID, sess, working)
	v.Present = &present
	return v, nil
}

// Clear empties the working copy.
func (s *PickerService) Clear(_ context.Context, userID string) (*PickerView, error) {
	if err := validateUserID("Clear", userID); err != nil {
		return nil, err
	}

	sess, err := s.session(userID, false)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.picker.Clear(); err != nil {
		return nil, err
	}
	return s.view(userID, sess, selection.Set{}), nil
}

// Apply commits the working copy and closes the picker. When the commit
// fails the picker stays open with its edits intact.
func (s *PickerService) Apply(ctx context.Context, userID string) (*PickerView, error) {
	if err := validateUserID("Apply", userID); err != nil {
		return nil, err
	}

	sess, err := s.session(userID, false)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	working, err := sess.picker.Working()
	if err != nil {
		return nil, err
	}
	if err := s.store.Commit(ctx, userID, working); err != nil {
		return nil, fmt.Errorf("commit selection: %w", err)
	}

	committed, _ := sess.picker.Apply()

	s.log.Info("selection committed",
		logger.UserID(userID),
		logger.SessionID(sess.id),
		logger.SelectionSize(committed.Len()),
		logger.Latency(time.Since(sess.openedAt)),
	)

	return s.view(userID, sess, committed), nil
}

// Cancel discards the working copy and closes the picker.
func (s *PickerService) Cancel(ctx context.Context, userID string) (*PickerView, error) {
	if err := validateUserID("Cancel", userID); err != nil {
		return nil, err
	}

	sess, err := s.session(userID, false)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.picker.Cancel(); err != nil {
		return nil, err
	}

	s.log.Debug("picker cancelled", logger.UserID(userID), logger.SessionID(sess.id))

	// Отмена уже состоялась; без committed отдаём пустой вид, а не ошибку.
	committed, err := s.store.Committed(ctx, userID)
	if err != nil {
		s.log.Warn("load committed selection after cancel failed",
			logger.UserID(userID), logger.Err(err))
		committed = selection.NewSet()
	}

	return s.view(userID, sess, committed), nil
}

// Working returns the current picker state without changing it.
func (s *PickerService) Working(ctx context.Context, userID string) (*PickerView, error) {
	if err := validateUserID("Working", userID); err != nil {
		return nil, err
	}

	sess, err := s.session(userID, false)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if working, err := sess.picker.Working(); err == nil {
		return s.view(userID, sess, working), nil
	}

	committed, err := s.store.Committed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load committed selection: %w", err)
	}
	return s.view(userID, sess, committed), nil
}

func (s *PickerService) view(userID string, sess *pickerSession, set selection.Set) *PickerView {
	return &PickerView{
		SessionID: sess.id,
		UserID:    userID,
		State:     sess.picker.State(),
		Outcome:   sess.picker.LastOutcome(),
		Selected:  set.Items(),
		Count:     set.Len(),
		Capacity:  selection.MaxItems,
		IsFull:    set.IsFull(),
		Mode:      matching.ModeFor(set.Len()),
	}
}
