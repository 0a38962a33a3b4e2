package session

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/a3tai/turni-pdf/internal/pdf/errors"
	"github.com/a3tai/turni-pdf/internal/roster"
)

// ErrNoSchedule is returned when a session has not extracted a roster yet
var ErrNoSchedule = stderrors.New("no schedule loaded for this session, run roster_extract_shifts first")

// Manager applies validated edits to per-session schedules
type Manager struct {
	store    *Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewManager creates a manager keeping at most capacity sessions
func NewManager(capacity int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    NewStore(capacity, logger),
		validate: newValidator(),
		logger:   logger,
	}
}

// Load replaces the session's schedule with a freshly extracted one
func (m *Manager) Load(id string, schedule *Schedule) {
	m.store.Put(id, schedule)
	m.logger.Debug("schedule loaded",
		zap.String("session", id),
		zap.String("surname", schedule.Surname),
		zap.Int("shifts", len(schedule.Shifts)))
}

// Schedule returns a copy of the session's schedule
func (m *Manager) Schedule(id string) (*Schedule, error) {
	s, ok := m.store.Get(id)
	if !ok {
		return nil, ErrNoSchedule
	}
	return s, nil
}

// Add inserts a shift and re-sorts the schedule
func (m *Manager) Add(id string, req AddShiftRequest) (*Schedule, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, invalid(err)
	}

	day, _ := roster.ParseDay(req.Day)
	return m.store.Update(id, func(s *Schedule) error {
		s.Shifts = roster.AddShift(s.Shifts, day, req.Date, req.Location, req.Time, parseFlag(req.Bathroom))
		return nil
	})
}

// Edit changes the selected rows in place. Either every row is changed or
// none is.
func (m *Manager) Edit(id string, req EditShiftsRequest) (*Schedule, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, invalid(err)
	}

	indices := make([]int, len(req.Rows))
	for i, row := range req.Rows {
		indices[i] = row - 1
	}

	return m.store.Update(id, func(s *Schedule) error {
		if err := roster.BatchEdit(s.Shifts, indices, req.Location, req.Time, parseFlag(req.Bathroom)); err != nil {
			return errors.WrapError(errors.ErrorTypeInvalidInput, "edit rejected", err)
		}
		return nil
	})
}

// Delete removes one row
func (m *Manager) Delete(id string, req DeleteShiftRequest) (*Schedule, error) {
	if err := m.validate.Struct(req); err != nil {
		return nil, invalid(err)
	}

	return m.store.Update(id, func(s *Schedule) error {
		shifts, err := roster.DeleteShift(s.Shifts, req.Row-1)
		if err != nil {
			return errors.WrapError(errors.ErrorTypeInvalidInput, "delete rejected", err)
		}
		s.Shifts = shifts
		return nil
	})
}

// Forget drops the session's schedule
func (m *Manager) Forget(id string) bool {
	return m.store.Remove(id)
}

// Sessions returns the number of live sessions
func (m *Manager) Sessions() int {
	return m.store.Len()
}

func invalid(err error) error {
	return errors.WrapError(errors.ErrorTypeInvalidInput, "invalid request", describe(err))
}

// parseFlag leaves a blank answer unset so edits keep the row's flag
func parseFlag(answer string) roster.BathroomFlag {
	if answer == "" {
		return roster.BathroomUnset
	}
	return roster.ParseBathroomFlag(answer)
}
