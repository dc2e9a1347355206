package grading

// Score is the derived result of evaluating one submission. It is never
// stored: it is recomputed from the raw answers and the current correct keys
// on every request, so a re-imported answer key changes all historical scores
// on their next computation.
type Score struct {
	Total          float64   `json:"total"`
	PartTotals     []float64 `json:"part_totals"`
	QuestionScores []float64 `json:"question_scores"`
}

// Evaluate scores a whole submission against an exam's correct keys. parts
// carries the exam's keys per part; answers carries the student's answer
// sets per part, in the same order.
//
// The exam's question list is authoritative: every exam question contributes
// one entry to QuestionScores (part 0's questions in order, then part 1's),
// and a missing part or short answer sequence counts as all-unanswered.
// Evaluate never fails on structurally mismatched input, so an exam edited
// after submissions exist still scores cleanly.
func Evaluate(parts []PartKey, answers [][]AnswerSet) Score {
	total := 0
	for _, keys := range parts {
		total += len(keys)
	}
	sc := Score{
		PartTotals:     make([]float64, len(parts)),
		QuestionScores: make([]float64, 0, total),
	}
	for pi, keys := range parts {
		var ans []AnswerSet
		if pi < len(answers) {
			ans = answers[pi]
		}
		for qi, key := range keys {
			var a AnswerSet
			if qi < len(ans) {
				a = ans[qi]
			}
			q := ScoreQuestion(key, a)
			sc.PartTotals[pi] += q
			sc.QuestionScores = append(sc.QuestionScores, q)
		}
		sc.Total += sc.PartTotals[pi]
	}
	return sc
}
