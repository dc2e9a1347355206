package grading

import "testing"

func TestEvaluateZeroQuestions(t *testing.T) {
	sc := Evaluate([]PartKey{{}, {}}, [][]AnswerSet{
		{{SlotTrue, SlotTrue, SlotTrue, SlotTrue}},
	})
	if sc.Total != 0 {
		t.Errorf("Total = %v, want 0", sc.Total)
	}
	if len(sc.PartTotals) != 2 || sc.PartTotals[0] != 0 || sc.PartTotals[1] != 0 {
		t.Errorf("PartTotals = %v, want [0 0]", sc.PartTotals)
	}
	if len(sc.QuestionScores) != 0 {
		t.Errorf("QuestionScores = %v, want empty", sc.QuestionScores)
	}
}

func TestEvaluateFlattensPartsInOrder(t *testing.T) {
	parts := []PartKey{
		{Key{true, true, true, true}, Key{false, false, false, false}},
		{Key{true, false, true, false}},
	}
	answers := [][]AnswerSet{
		{
			{SlotTrue, SlotTrue, SlotTrue, SlotTrue},     // 1.0
			{SlotTrue, SlotFalse, SlotFalse, SlotFalse},  // 3 matches -> 0.6
		},
		{
			{SlotTrue, SlotFalse, SlotFalse, SlotFalse}, // 3 matches -> 0.6
		},
	}
	sc := Evaluate(parts, answers)

	wantQ := []float64{1.0, 0.6, 0.6}
	if len(sc.QuestionScores) != len(wantQ) {
		t.Fatalf("QuestionScores = %v, want %v", sc.QuestionScores, wantQ)
	}
	for i, w := range wantQ {
		if sc.QuestionScores[i] != w {
			t.Errorf("QuestionScores[%d] = %v, want %v", i, sc.QuestionScores[i], w)
		}
	}
	if sc.PartTotals[0] != 1.6 || sc.PartTotals[1] != 0.6 {
		t.Errorf("PartTotals = %v, want [1.6 0.6]", sc.PartTotals)
	}
	if want := 1.6 + 0.6; sc.Total != want {
		t.Errorf("Total = %v, want %v", sc.Total, want)
	}
}

// Mismatched shapes never fail: missing parts, short answer sequences, and
// extra answers all degrade to unanswered or get ignored.
func TestEvaluateMismatchedShapes(t *testing.T) {
	parts := []PartKey{
		{Key{true, true, true, true}, Key{true, true, true, true}},
		{Key{true, true, true, true}},
	}

	t.Run("no answers at all", func(t *testing.T) {
		sc := Evaluate(parts, nil)
		if sc.Total != 0 {
			t.Errorf("Total = %v, want 0", sc.Total)
		}
		if len(sc.QuestionScores) != 3 {
			t.Errorf("len(QuestionScores) = %d, want 3", len(sc.QuestionScores))
		}
	})

	t.Run("short answer sequence", func(t *testing.T) {
		sc := Evaluate(parts, [][]AnswerSet{
			{{SlotTrue, SlotTrue, SlotTrue, SlotTrue}}, // second question unanswered
		})
		if sc.PartTotals[0] != 1.0 {
			t.Errorf("PartTotals[0] = %v, want 1.0", sc.PartTotals[0])
		}
		if sc.PartTotals[1] != 0 {
			t.Errorf("PartTotals[1] = %v, want 0", sc.PartTotals[1])
		}
	})

	t.Run("extra answers ignored", func(t *testing.T) {
		perfect := AnswerSet{SlotTrue, SlotTrue, SlotTrue, SlotTrue}
		sc := Evaluate(parts, [][]AnswerSet{
			{perfect, perfect, perfect, perfect},
			{perfect, perfect},
			{perfect},
		})
		if sc.Total != 3.0 {
			t.Errorf("Total = %v, want 3.0", sc.Total)
		}
		if len(sc.QuestionScores) != 3 {
			t.Errorf("len(QuestionScores) = %d, want 3", len(sc.QuestionScores))
		}
	})
}
