package exam

import (
	"context"
	"sort"
	"sync"
)

// Store is the narrow persistence interface the service depends on: a
// mapping from exam ID to Exam and, per exam, from student ID to Submission.
// Scores and stats are never stored; they are derived on demand.
type Store interface {
	// CreateExam stores a new exam, failing with ErrConflict if the ID is
	// already taken.
	CreateExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)
	// PutExam replaces an existing exam's record wholesale.
	PutExam(ctx context.Context, e Exam) error
	// PutSubmission upserts the student's submission: last write wins.
	PutSubmission(ctx context.Context, examID string, sub Submission) error
	// ListSubmissions returns every current submission for the exam in
	// arrival order (submitted-at ascending, student ID as a deterministic
	// tiebreak).
	ListSubmissions(ctx context.Context, examID string) ([]Submission, error)
}

type memoryStore struct {
	mu    sync.RWMutex
	exams map[string]Exam
	subs  map[string]map[string]Submission // examID -> studentID -> submission
}

// NewInMemoryStore returns a Store backed by process-local maps, for tests
// and single-node development.
func NewInMemoryStore() Store {
	return &memoryStore{
		exams: map[string]Exam{},
		subs:  map[string]map[string]Submission{},
	}
}

func (m *memoryStore) CreateExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[e.ID]; ok {
		return ErrConflict
	}
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) GetExam(_ context.Context, id string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[id]
	if !ok {
		return Exam{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) PutExam(_ context.Context, e Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[e.ID]; !ok {
		return ErrNotFound
	}
	m.exams[e.ID] = e
	return nil
}

func (m *memoryStore) PutSubmission(_ context.Context, examID string, sub Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[examID]; !ok {
		return ErrNotFound
	}
	byStudent, ok := m.subs[examID]
	if !ok {
		byStudent = map[string]Submission{}
		m.subs[examID] = byStudent
	}
	byStudent[sub.StudentID] = sub
	return nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, examID string) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.exams[examID]; !ok {
		return nil, ErrNotFound
	}
	out := make([]Submission, 0, len(m.subs[examID]))
	for _, sub := range m.subs[examID] {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out, nil
}
