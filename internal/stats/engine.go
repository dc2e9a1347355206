// Package stats aggregates an exam's submissions into rankings, cohort
// averages, per-question difficulty, and a score-distribution histogram.
// Nothing here is persisted: every snapshot is recomputed from raw answers,
// so the grading rules stay the single source of truth.
package stats

import (
	"sort"
	"time"

	"github.com/classhour/examd/internal/grading"
)

// Submission is the minimal view of a stored submission the engine needs.
type Submission struct {
	StudentID   string
	StudentName string
	SubmittedAt time.Time
	Answers     [][]grading.AnswerSet
}

// Entry is one ranked row of the snapshot.
type Entry struct {
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	Total       float64   `json:"total"`
	PartTotals  []float64 `json:"part_totals"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Bucket is one histogram bin. From is inclusive; To is exclusive except for
// the final bucket, which is closed so a perfect score lands in it.
type Bucket struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// Snapshot is the full derived aggregate view over an exam's submissions.
type Snapshot struct {
	TotalParticipants int       `json:"total_participants"`
	Rankings          []Entry   `json:"rankings"`
	AverageTotal      float64   `json:"average_total"`
	AverageParts      []float64 `json:"average_parts"`
	QuestionAverages  []float64 `json:"question_averages"`
	Distribution      []Bucket  `json:"distribution"`
}

// Compute builds a snapshot from the exam's current correct keys and every
// stored submission, in arrival order. Ranking sorts by total descending with
// a stable sort, so tied students keep their arrival order; there is no
// secondary tiebreak key. With zero submissions every average is zero and
// every bucket count is zero, never NaN.
//
// QuestionAverages is sized to the exam's actual current question count, so
// it adapts if the exam's shape differs from what historical submissions
// assumed.
func Compute(parts []grading.PartKey, subs []Submission) Snapshot {
	questionCount := 0
	for _, keys := range parts {
		questionCount += len(keys)
	}

	snap := Snapshot{
		Rankings:         make([]Entry, 0, len(subs)),
		AverageParts:     make([]float64, len(parts)),
		QuestionAverages: make([]float64, questionCount),
	}
	for _, sub := range subs {
		sc := grading.Evaluate(parts, sub.Answers)
		snap.Rankings = append(snap.Rankings, Entry{
			StudentID:   sub.StudentID,
			StudentName: sub.StudentName,
			Total:       sc.Total,
			PartTotals:  sc.PartTotals,
			SubmittedAt: sub.SubmittedAt,
		})
		snap.AverageTotal += sc.Total
		for i, v := range sc.PartTotals {
			snap.AverageParts[i] += v
		}
		for i, v := range sc.QuestionScores {
			snap.QuestionAverages[i] += v
		}
	}

	if n := float64(len(snap.Rankings)); n > 0 {
		snap.AverageTotal /= n
		for i := range snap.AverageParts {
			snap.AverageParts[i] /= n
		}
		for i := range snap.QuestionAverages {
			snap.QuestionAverages[i] /= n
		}
	}

	sort.SliceStable(snap.Rankings, func(i, j int) bool {
		return snap.Rankings[i].Total > snap.Rankings[j].Total
	})
	snap.TotalParticipants = len(snap.Rankings)
	snap.Distribution = distribute(questionCount, snap.Rankings)
	return snap
}

// distribute bins ranked totals into consecutive buckets of width
// max(5, ceil(maxScore/10)) starting at 0. Each total falls in exactly one
// bucket: [k*width, (k+1)*width) for all but the last bucket, which is capped
// at maxScore and closed at both ends.
func distribute(maxScore int, entries []Entry) []Bucket {
	width := maxScore / 10
	if maxScore%10 != 0 {
		width++
	}
	if width < 5 {
		width = 5
	}
	n := maxScore / width
	if maxScore%width != 0 {
		n++
	}
	if n == 0 {
		n = 1
	}

	buckets := make([]Bucket, n)
	for k := range buckets {
		from := k * width
		to := (k + 1) * width
		if to > maxScore {
			to = maxScore
		}
		buckets[k] = Bucket{From: from, To: to}
	}
	for _, e := range entries {
		k := int(e.Total) / width
		if k >= n || e.Total >= float64(maxScore) {
			k = n - 1
		}
		buckets[k].Count++
	}
	return buckets
}
