// Package store keeps the mock backend's exam records and applications in
// memory. All methods are safe for concurrent use.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"capreg/internal/mockapi/models"
	regmodels "capreg/internal/registration/models"
	"capreg/pkg/platform/sentinel"
)

// FirstApplicationNumber is the numeric part of the first issued application ID.
const FirstApplicationNumber = 100045

type InMemory struct {
	mu sync.RWMutex

	exams        map[string]models.ExamRecord
	applications map[string]*models.Application
	byMobile     map[string]string
	byEmail      map[string]string
	nextNumber   int
}

func New(records ...models.ExamRecord) *InMemory {
	s := &InMemory{
		exams:        make(map[string]models.ExamRecord, len(records)),
		applications: make(map[string]*models.Application),
		byMobile:     make(map[string]string),
		byEmail:      make(map[string]string),
		nextNumber:   FirstApplicationNumber,
	}
	for _, r := range records {
		s.exams[examKey(r.ExamType, r.RollNumber)] = r
	}
	return s
}

func examKey(examType regmodels.ExamType, roll string) string {
	return string(examType) + "|" + strings.ToUpper(strings.TrimSpace(roll))
}

// NormalizeEmail lowercases and trims an email for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindExam returns the exam record for a roll number, or sentinel.ErrNotFound.
func (s *InMemory) FindExam(_ context.Context, examType regmodels.ExamType, roll string) (models.ExamRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.exams[examKey(examType, roll)]
	if !ok {
		return models.ExamRecord{}, fmt.Errorf("exam %s/%s: %w", examType, roll, sentinel.ErrNotFound)
	}
	return r, nil
}

// MobileExists reports whether any application uses mobile.
func (s *InMemory) MobileExists(_ context.Context, mobile string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byMobile[strings.TrimSpace(mobile)]
	return ok
}

// EmailExists reports whether any application uses email.
func (s *InMemory) EmailExists(_ context.Context, email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[NormalizeEmail(email)]
	return ok
}

// ConflictError says which unique contact was already taken.
type ConflictError struct {
	Field string // "mobileNo" or "email"
}

func (e *ConflictError) Error() string {
	return e.Field + " already registered"
}

func (e *ConflictError) Unwrap() error {
	return sentinel.ErrConflict
}

// Create assigns the next application ID to app and stores it. The mobile
// and email uniqueness check and the insert happen under one lock.
func (s *InMemory) Create(_ context.Context, app *models.Application) (string, error) {
	mobile := strings.TrimSpace(app.Draft.MobileNo)
	email := NormalizeEmail(app.Draft.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byMobile[mobile]; ok {
		return "", &ConflictError{Field: "mobileNo"}
	}
	if _, ok := s.byEmail[email]; ok {
		return "", &ConflictError{Field: "email"}
	}

	app.ID = fmt.Sprintf("APP-%d", s.nextNumber)
	s.nextNumber++

	stored := *app
	s.applications[stored.ID] = &stored
	s.byMobile[mobile] = stored.ID
	s.byEmail[email] = stored.ID
	return stored.ID, nil
}

// Get returns a copy of the application, or sentinel.ErrNotFound.
func (s *InMemory) Get(_ context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *app
	return &cp, nil
}

// Update applies fn to the stored application under the write lock. If fn
// returns an error nothing is changed.
func (s *InMemory) Update(_ context.Context, id string, fn func(app *models.Application) error) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.applications[id]
	if !ok {
		return nil, fmt.Errorf("application %s: %w", id, sentinel.ErrNotFound)
	}

	working := *app
	if err := fn(&working); err != nil {
		return nil, err
	}
	*app = working

	cp := working
	return &cp, nil
}

// Count returns the number of stored applications.
func (s *InMemory) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.applications)
}
