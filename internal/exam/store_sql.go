package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/classhour/examd/internal/grading"
)

// SQLStore persists exams and submissions in a relational database, with the
// structured parts/answers kept as JSON text columns. Works unchanged on
// sqlite and postgres ($N placeholders, ON CONFLICT upserts).
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) CreateExam(ctx context.Context, e Exam) error {
	pj, err := json.Marshal(e.Parts)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO exams (id,title,start_ms,duration_min,parts_json)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.Title, e.StartTime.UnixMilli(), e.DurationMinutes, string(pj))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrConflict, e.ID)
	}
	return nil
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,start_ms,duration_min,parts_json FROM exams WHERE id=$1`, id)
	var e Exam
	var startMS int64
	var pjson string
	if err := row.Scan(&e.ID, &e.Title, &startMS, &e.DurationMinutes, &pjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Exam{}, err
	}
	e.StartTime = time.UnixMilli(startMS).UTC()
	if err := json.Unmarshal([]byte(pjson), &e.Parts); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	pj, err := json.Marshal(e.Parts)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE exams
		SET title=$2, start_ms=$3, duration_min=$4, parts_json=$5 WHERE id=$1`,
		e.ID, e.Title, e.StartTime.UnixMilli(), e.DurationMinutes, string(pj))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, e.ID)
	}
	return nil
}

func (s *SQLStore) PutSubmission(ctx context.Context, examID string, sub Submission) error {
	if _, err := s.GetExam(ctx, examID); err != nil {
		return err
	}
	aj, err := json.Marshal(sub.Parts)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO submissions (exam_id,student_id,student_name,submitted_ms,answers_json)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (exam_id,student_id) DO UPDATE SET
			student_name=EXCLUDED.student_name,
			submitted_ms=EXCLUDED.submitted_ms,
			answers_json=EXCLUDED.answers_json`,
		examID, sub.StudentID, sub.StudentName, sub.SubmittedAt.UnixMilli(), string(aj))
	return err
}

func (s *SQLStore) ListSubmissions(ctx context.Context, examID string) ([]Submission, error) {
	if _, err := s.GetExam(ctx, examID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT student_id,student_name,submitted_ms,answers_json
		FROM submissions WHERE exam_id=$1
		ORDER BY submitted_ms ASC, student_id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var submittedMS int64
		var ajson string
		if err := rows.Scan(&sub.StudentID, &sub.StudentName, &submittedMS, &ajson); err != nil {
			return nil, err
		}
		sub.SubmittedAt = time.UnixMilli(submittedMS).UTC()
		var answers [NumParts][]grading.AnswerSet
		if err := json.Unmarshal([]byte(ajson), &answers); err != nil {
			return nil, err
		}
		sub.Parts = answers
		out = append(out, sub)
	}
	return out, rows.Err()
}
