package exam

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/classhour/examd/internal/grading"
	"github.com/classhour/examd/internal/stats"
)

// Service orchestrates the exam lifecycle: definition, question import,
// gated student access, submission intake, and stats. It owns no state beyond
// the injected Store and recomputes every score from raw answers.
type Service struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateExamInput carries the fields of a new exam definition.
type CreateExamInput struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// CreateExam registers a new exam with two empty parts. Fails with
// ErrConflict if the ID is already taken.
func (s *Service) CreateExam(ctx context.Context, in CreateExamInput) (Exam, error) {
	if in.ID == "" {
		return Exam{}, fmt.Errorf("%w: exam id required", ErrInvalidInput)
	}
	if in.DurationMinutes < 0 {
		return Exam{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
	}
	e := Exam{
		ID:              in.ID,
		Title:           in.Title,
		StartTime:       in.StartTime,
		DurationMinutes: in.DurationMinutes,
	}
	if err := s.store.CreateExam(ctx, e); err != nil {
		return Exam{}, err
	}
	s.log.Info("exam created", zap.String("exam_id", e.ID))
	return e, nil
}

// UpdateExamInput carries a partial exam update; nil fields are left as-is.
type UpdateExamInput struct {
	Title           *string    `json:"title"`
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// UpdateExam merges only the provided fields into the stored exam.
func (s *Service) UpdateExam(ctx context.Context, id string, in UpdateExamInput) (Exam, error) {
	e, err := s.store.GetExam(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes < 0 {
			return Exam{}, fmt.Errorf("%w: duration must not be negative", ErrInvalidInput)
		}
		e.DurationMinutes = *in.DurationMinutes
	}
	if err := s.store.PutExam(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

// QuestionImport is one question of an import payload.
type QuestionImport struct {
	Statements []string `json:"statements"`
	Correct    []bool   `json:"correct"`
}

// PartImport is one part of an import payload.
type PartImport struct {
	Questions []QuestionImport `json:"questions"`
}

// ImportQuestions replaces the exam's parts atomically. The payload must be
// exactly two parts of exactly QuestionsPerPart questions, each with four
// statements and four correct booleans; anything else is rejected wholesale,
// never partially applied.
func (s *Service) ImportQuestions(ctx context.Context, id string, parts []PartImport) (Exam, error) {
	if len(parts) != NumParts {
		return Exam{}, fmt.Errorf("%w: expected %d parts, got %d", ErrInvalidInput, NumParts, len(parts))
	}
	var imported [NumParts]Part
	for pi, p := range parts {
		if len(p.Questions) != QuestionsPerPart {
			return Exam{}, fmt.Errorf("%w: part %d must have %d questions, got %d",
				ErrInvalidInput, pi, QuestionsPerPart, len(p.Questions))
		}
		qs := make([]Question, len(p.Questions))
		for qi, q := range p.Questions {
			if len(q.Statements) != grading.SlotsPerQuestion || len(q.Correct) != grading.SlotsPerQuestion {
				return Exam{}, fmt.Errorf("%w: part %d question %d must have %d statements and %d correct booleans",
					ErrInvalidInput, pi, qi, grading.SlotsPerQuestion, grading.SlotsPerQuestion)
			}
			qs[qi] = Question{Statements: q.Statements, Correct: q.Correct}
		}
		imported[pi] = Part{Questions: qs}
	}

	e, err := s.store.GetExam(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	e.Parts = imported
	if err := s.store.PutExam(ctx, e); err != nil {
		return Exam{}, err
	}
	s.log.Info("questions imported", zap.String("exam_id", id), zap.Int("questions", e.QuestionCount()))
	return e, nil
}

// StudentExam is the student-facing view: redacted content plus the view
// window descriptor so the client can run a countdown.
type StudentExam struct {
	Exam   Exam   `json:"exam"`
	Window Window `json:"window"`
}

// ExamForStudent returns the exam with correct keys stripped and the current
// view-eligibility window.
func (s *Service) ExamForStudent(ctx context.Context, id string) (StudentExam, error) {
	e, err := s.store.GetExam(ctx, id)
	if err != nil {
		return StudentExam{}, err
	}
	return StudentExam{Exam: e.Redacted(), Window: ViewWindow(e, s.now())}, nil
}

// SubmitInput carries one student's answers. Parts beyond the exam's two are
// ignored; malformed answer sets inside the parts were already coerced to
// unanswered during decoding.
type SubmitInput struct {
	StudentID   string                `json:"student_id"`
	StudentName string                `json:"student_name"`
	Parts       [][]grading.AnswerSet `json:"parts"`
}

// Submit stores the student's submission (overwriting any earlier one) and
// returns its freshly computed score. The submission must arrive within the
// inclusive window; outside it nothing is scored or stored.
func (s *Service) Submit(ctx context.Context, examID string, in SubmitInput) (grading.Score, error) {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return grading.Score{}, err
	}
	now := s.now()
	if !SubmitOpen(e, now) {
		return grading.Score{}, fmt.Errorf("%w: exam %q is not accepting submissions", ErrWindowClosed, examID)
	}
	if in.StudentID == "" {
		return grading.Score{}, fmt.Errorf("%w: student id required", ErrInvalidInput)
	}

	sub := Submission{
		StudentID:   in.StudentID,
		StudentName: in.StudentName,
		SubmittedAt: now,
	}
	for i := 0; i < NumParts && i < len(in.Parts); i++ {
		sub.Parts[i] = in.Parts[i]
	}
	if err := s.store.PutSubmission(ctx, examID, sub); err != nil {
		return grading.Score{}, err
	}
	score := grading.Evaluate(e.AnswerKeys(), sub.Parts[:])
	s.log.Info("submission accepted",
		zap.String("exam_id", examID),
		zap.String("student_id", in.StudentID),
		zap.Float64("total", score.Total))
	return score, nil
}

// Results recomputes the full stats snapshot over every stored submission.
// Nothing is cached: a changed answer key is reflected immediately.
func (s *Service) Results(ctx context.Context, examID string) (stats.Snapshot, error) {
	e, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return stats.Snapshot{}, err
	}
	subs, err := s.store.ListSubmissions(ctx, examID)
	if err != nil {
		return stats.Snapshot{}, err
	}
	in := make([]stats.Submission, len(subs))
	for i, sub := range subs {
		in[i] = stats.Submission{
			StudentID:   sub.StudentID,
			StudentName: sub.StudentName,
			SubmittedAt: sub.SubmittedAt,
			Answers:     sub.Parts[:],
		}
	}
	return stats.Compute(e.AnswerKeys(), in), nil
}
