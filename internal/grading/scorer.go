package grading

// ScoreQuestion maps one answered question to its score. It counts the slots
// where the student's answer equals the correct boolean and applies the
// partial-credit curve:
//
//	4 matches -> 1.0
//	3 matches -> 0.6
//	2 matches -> 0.2
//	0-1 matches -> 0.0
//
// The curve is deliberately non-linear: near-complete correctness is rewarded
// disproportionately and a bare majority earns nothing. Pure function of its
// two inputs.
func ScoreQuestion(correct Key, answer AnswerSet) float64 {
	matches := 0
	for i, want := range correct {
		if i >= len(answer) {
			break
		}
		if answer[i].Matches(want) {
			matches++
		}
	}
	switch matches {
	case 4:
		return 1.0
	case 3:
		return 0.6
	case 2:
		return 0.2
	default:
		return 0
	}
}
