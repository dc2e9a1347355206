package exam

import (
	"time"

	"github.com/classhour/examd/internal/grading"
)

const (
	// NumParts is the fixed number of parts every exam has.
	NumParts = 2
	// QuestionsPerPart is the question count each imported part must hold.
	QuestionsPerPart = 50
)

// Question is one four-statement item. Correct is its answer key, set once at
// import and authoritative for scoring; it is stripped before an exam is
// served to a student.
type Question struct {
	Statements []string `json:"statements"`
	Correct    []bool   `json:"correct,omitempty"`
}

// Part is one of the exam's two fixed sections.
type Part struct {
	Questions []Question `json:"questions"`
}

// Exam is the definition of one scheduled exam. The ID is externally
// assigned. Parts are always evaluated in order: part 0, then part 1.
type Exam struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	StartTime       time.Time      `json:"start_time"`
	DurationMinutes int            `json:"duration_minutes"`
	Parts           [NumParts]Part `json:"parts"`
}

// QuestionCount is the exam's actual current total question count across both
// parts (50+50 once imported, but never assumed).
func (e Exam) QuestionCount() int {
	n := 0
	for _, p := range e.Parts {
		n += len(p.Questions)
	}
	return n
}

// AnswerKeys adapts the exam into the per-part key view the grading and stats
// packages consume.
func (e Exam) AnswerKeys() []grading.PartKey {
	keys := make([]grading.PartKey, NumParts)
	for pi, p := range e.Parts {
		keys[pi] = make(grading.PartKey, len(p.Questions))
		for qi, q := range p.Questions {
			keys[pi][qi] = grading.Key(q.Correct)
		}
	}
	return keys
}

// Redacted returns a copy of the exam with every correct key stripped, safe
// to serve to students.
func (e Exam) Redacted() Exam {
	out := e
	for pi, p := range e.Parts {
		qs := make([]Question, len(p.Questions))
		for qi, q := range p.Questions {
			qs[qi] = Question{Statements: q.Statements}
		}
		out.Parts[pi] = Part{Questions: qs}
	}
	return out
}

// Submission is one student's answers for an exam, keyed by student ID.
// A later submission from the same student overwrites the earlier one; no
// history is kept.
type Submission struct {
	StudentID   string                        `json:"student_id"`
	StudentName string                        `json:"student_name,omitempty"`
	SubmittedAt time.Time                     `json:"submitted_at"`
	Parts       [NumParts][]grading.AnswerSet `json:"parts"`
}
