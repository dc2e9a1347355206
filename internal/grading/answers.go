package grading

import (
	"bytes"
	"encoding/json"
)

// SlotsPerQuestion is the number of statement/answer slots every question has.
const SlotsPerQuestion = 4

// Slot is one answer position of a question: affirmed, denied, or left blank.
type Slot int8

const (
	SlotUnanswered Slot = iota
	SlotTrue
	SlotFalse
)

// Matches reports whether the slot is an answered value equal to want.
// An unanswered slot never matches.
func (s Slot) Matches(want bool) bool {
	if want {
		return s == SlotTrue
	}
	return s == SlotFalse
}

// MarshalJSON encodes a slot as true, false, or null.
func (s Slot) MarshalJSON() ([]byte, error) {
	switch s {
	case SlotTrue:
		return []byte("true"), nil
	case SlotFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true/false and treats every other value (null,
// strings, numbers, garbage) as unanswered. It never fails: a broken client
// payload still records an honest blank rather than rejecting the submission.
func (s *Slot) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*s = SlotTrue
	case "false":
		*s = SlotFalse
	default:
		*s = SlotUnanswered
	}
	return nil
}

// AnswerSet holds a student's four slots for a single question.
type AnswerSet [SlotsPerQuestion]Slot

// UnmarshalJSON coerces malformed shapes to unanswered: a non-array payload
// becomes all blanks, short arrays are padded, extra elements are dropped.
func (a *AnswerSet) UnmarshalJSON(data []byte) error {
	var raw []Slot
	if err := json.Unmarshal(data, &raw); err != nil {
		*a = AnswerSet{}
		return nil
	}
	var out AnswerSet
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	*a = out
	return nil
}

// Key is a question's four-slot correct key, set at import time.
type Key []bool

// PartKey lists one part's correct keys in question order. It is the minimal
// view of an exam part the scoring code needs; the exam package adapts its
// model into this shape.
type PartKey []Key
