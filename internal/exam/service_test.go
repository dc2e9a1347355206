package exam

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classhour/examd/internal/grading"
)

var examStart = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// testClock is a settable time source for driving the window gate.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	clk := &testClock{t: examStart}
	return NewService(NewInMemoryStore(), WithClock(clk.now)), clk
}

func createTestExam(t *testing.T, svc *Service) Exam {
	t.Helper()
	e, err := svc.CreateExam(context.Background(), CreateExamInput{
		ID:              "mid-1",
		Title:           "Midterm",
		StartTime:       examStart,
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	return e
}

// fullImport builds a valid two-part payload of 50 questions each, all keyed
// to the given slot pattern.
func fullImport(key [4]bool) []PartImport {
	parts := make([]PartImport, NumParts)
	for pi := range parts {
		qs := make([]QuestionImport, QuestionsPerPart)
		for qi := range qs {
			qs[qi] = QuestionImport{
				Statements: []string{"a", "b", "c", "d"},
				Correct:    key[:],
			}
		}
		parts[pi] = PartImport{Questions: qs}
	}
	return parts
}

// answerAll answers every question of both parts with the same slots.
func answerAll(slots grading.AnswerSet) [][]grading.AnswerSet {
	out := make([][]grading.AnswerSet, NumParts)
	for pi := range out {
		part := make([]grading.AnswerSet, QuestionsPerPart)
		for qi := range part {
			part[qi] = slots
		}
		out[pi] = part
	}
	return out
}

func TestCreateExam(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e := createTestExam(t, svc)
	if e.QuestionCount() != 0 {
		t.Errorf("new exam should start with two empty parts, got %d questions", e.QuestionCount())
	}

	if _, err := svc.CreateExam(ctx, CreateExamInput{ID: "mid-1", Title: "Duplicate"}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate create = %v, want ErrConflict", err)
	}
	if _, err := svc.CreateExam(ctx, CreateExamInput{Title: "No ID"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("create without id = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateExamMergesOnlyProvidedFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	createTestExam(t, svc)

	title := "Midterm (rescheduled)"
	e, err := svc.UpdateExam(ctx, "mid-1", UpdateExamInput{Title: &title})
	if err != nil {
		t.Fatalf("UpdateExam: %v", err)
	}
	if e.Title != title {
		t.Errorf("Title = %q, want %q", e.Title, title)
	}
	if !e.StartTime.Equal(examStart) || e.DurationMinutes != 60 {
		t.Errorf("unprovided fields changed: start=%v duration=%d", e.StartTime, e.DurationMinutes)
	}

	if _, err := svc.UpdateExam(ctx, "nope", UpdateExamInput{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown exam = %v, want ErrNotFound", err)
	}
}

func TestImportQuestionsValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	createTestExam(t, svc)

	tests := []struct {
		name  string
		parts []PartImport
	}{
		{"one part", fullImport([4]bool{true, true, true, true})[:1]},
		{"three parts", append(fullImport([4]bool{}), PartImport{})},
		{"short part", func() []PartImport {
			p := fullImport([4]bool{})
			p[1].Questions = p[1].Questions[:49]
			return p
		}()},
		{"three statements", func() []PartImport {
			p := fullImport([4]bool{})
			p[0].Questions[7].Statements = []string{"a", "b", "c"}
			return p
		}()},
		{"five correct booleans", func() []PartImport {
			p := fullImport([4]bool{})
			p[1].Questions[0].Correct = []bool{true, true, true, true, true}
			return p
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ImportQuestions(ctx, "mid-1", tt.parts); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ImportQuestions = %v, want ErrInvalidInput", err)
			}
			// Rejection is atomic: the exam keeps its previous parts.
			e, err := svc.store.GetExam(ctx, "mid-1")
			if err != nil {
				t.Fatalf("GetExam: %v", err)
			}
			if e.QuestionCount() != 0 {
				t.Errorf("rejected import must not change the exam, got %d questions", e.QuestionCount())
			}
		})
	}

	e, err := svc.ImportQuestions(ctx, "mid-1", fullImport([4]bool{true, false, true, false}))
	if err != nil {
		t.Fatalf("valid import: %v", err)
	}
	if e.QuestionCount() != NumParts*QuestionsPerPart {
		t.Errorf("QuestionCount = %d, want %d", e.QuestionCount(), NumParts*QuestionsPerPart)
	}
}

func TestExamForStudentRedactsKeys(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	createTestExam(t, svc)
	if _, err := svc.ImportQuestions(ctx, "mid-1", fullImport([4]bool{true, true, true, true})); err != nil {
		t.Fatalf("import: %v", err)
	}

	clk.t = examStart.Add(time.Minute)
	se, err := svc.ExamForStudent(ctx, "mid-1")
	if err != nil {
		t.Fatalf("ExamForStudent: %v", err)
	}
	for pi, p := range se.Exam.Parts {
		for qi, q := range p.Questions {
			if q.Correct != nil {
				t.Fatalf("part %d question %d still carries its correct key", pi, qi)
			}
			if len(q.Statements) != 4 {
				t.Fatalf("part %d question %d lost its statements", pi, qi)
			}
		}
	}
	if !se.Window.Open {
		t.Errorf("window should be open one minute in")
	}
	if se.Window.RemainingSec != 59*60 {
		t.Errorf("RemainingSec = %d, want %d", se.Window.RemainingSec, 59*60)
	}

	if _, err := svc.ExamForStudent(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown exam = %v, want ErrNotFound", err)
	}
}

func TestSubmitWindowGating(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	createTestExam(t, svc)

	in := SubmitInput{StudentID: "s1", Parts: answerAll(grading.AnswerSet{})}
	end := examStart.Add(60 * time.Minute)

	clk.t = examStart.Add(-time.Second)
	if _, err := svc.Submit(ctx, "mid-1", in); !errors.Is(err, ErrWindowClosed) {
		t.Errorf("submit before start = %v, want ErrWindowClosed", err)
	}

	clk.t = end
	if _, err := svc.Submit(ctx, "mid-1", in); err != nil {
		t.Errorf("submit exactly at the closing instant should be accepted, got %v", err)
	}

	clk.t = end.Add(time.Millisecond)
	if _, err := svc.Submit(ctx, "mid-1", in); !errors.Is(err, ErrWindowClosed) {
		t.Errorf("submit 1ms past end = %v, want ErrWindowClosed", err)
	}

	// Rejected submissions are never stored.
	snap, err := svc.Results(ctx, "mid-1")
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if snap.TotalParticipants != 1 {
		t.Errorf("TotalParticipants = %d, want 1 (only the in-window submission)", snap.TotalParticipants)
	}
}

func TestSubmitRequiresStudentID(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	createTestExam(t, svc)
	clk.t = examStart

	if _, err := svc.Submit(ctx, "mid-1", SubmitInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("submit without student id = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Submit(ctx, "nope", SubmitInput{StudentID: "s1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("submit to unknown exam = %v, want ErrNotFound", err)
	}
}

func TestSubmitScoresAndOverwrites(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	createTestExam(t, svc)
	if _, err := svc.ImportQuestions(ctx, "mid-1", fullImport([4]bool{true, true, true, true})); err != nil {
		t.Fatalf("import: %v", err)
	}
	clk.t = examStart.Add(10 * time.Minute)

	perfect := grading.AnswerSet{grading.SlotTrue, grading.SlotTrue, grading.SlotTrue, grading.SlotTrue}
	score, err := svc.Submit(ctx, "mid-1", SubmitInput{StudentID: "s1", Parts: answerAll(perfect)})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if score.Total != 100 {
		t.Errorf("Total = %v, want 100", score.Total)
	}
	if score.PartTotals[0] != 50 || score.PartTotals[1] != 50 {
		t.Errorf("PartTotals = %v, want [50 50]", score.PartTotals)
	}
	if len(score.QuestionScores) != 100 {
		t.Errorf("len(QuestionScores) = %d, want 100", len(score.QuestionScores))
	}

	// Second submission from the same student replaces the first.
	clk.t = clk.t.Add(5 * time.Minute)
	blank, err := svc.Submit(ctx, "mid-1", SubmitInput{StudentID: "s1", Parts: answerAll(grading.AnswerSet{})})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if blank.Total != 0 {
		t.Errorf("resubmit Total = %v, want 0", blank.Total)
	}
	snap, err := svc.Results(ctx, "mid-1")
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if snap.TotalParticipants != 1 {
		t.Fatalf("TotalParticipants = %d, want 1 (last write wins)", snap.TotalParticipants)
	}
	if snap.Rankings[0].Total != 0 {
		t.Errorf("ranked total = %v, want the overwriting submission's 0", snap.Rankings[0].Total)
	}
}

// Scores are derived, never cached: re-importing questions changes the
// results computed for submissions that were never re-stored.
func TestReimportChangesDerivedScores(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	createTestExam(t, svc)
	if _, err := svc.ImportQuestions(ctx, "mid-1", fullImport([4]bool{true, true, true, true})); err != nil {
		t.Fatalf("import: %v", err)
	}
	clk.t = examStart.Add(10 * time.Minute)

	allTrue := grading.AnswerSet{grading.SlotTrue, grading.SlotTrue, grading.SlotTrue, grading.SlotTrue}
	if _, err := svc.Submit(ctx, "mid-1", SubmitInput{StudentID: "s1", Parts: answerAll(allTrue)}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap, err := svc.Results(ctx, "mid-1")
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if snap.Rankings[0].Total != 100 {
		t.Fatalf("pre-reimport total = %v, want 100", snap.Rankings[0].Total)
	}

	if _, err := svc.ImportQuestions(ctx, "mid-1", fullImport([4]bool{false, false, false, false})); err != nil {
		t.Fatalf("reimport: %v", err)
	}
	snap, err = svc.Results(ctx, "mid-1")
	if err != nil {
		t.Fatalf("Results after reimport: %v", err)
	}
	if snap.Rankings[0].Total != 0 {
		t.Errorf("post-reimport total = %v, want 0", snap.Rankings[0].Total)
	}
}
