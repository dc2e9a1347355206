package exam

import "time"

// Window describes an exam's open interval to a client. ServerTime lets the
// client synchronize its countdown despite clock skew.
type Window struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Open         bool      `json:"open"`
	RemainingSec int64     `json:"remaining_sec"`
	ServerTime   time.Time `json:"server_time"`
}

func (e Exam) windowEnd() time.Time {
	return e.StartTime.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// ViewWindow reports whether the exam content may be served at now.
// Viewing is open on [start, end): the closing instant itself is closed.
// Remaining whole seconds are floored and never negative. A zero duration
// collapses the window to the start instant only.
func ViewWindow(e Exam, now time.Time) Window {
	end := e.windowEnd()
	w := Window{Start: e.StartTime, End: end, ServerTime: now}
	w.Open = !now.Before(e.StartTime) && now.Before(end)
	if rem := end.Sub(now); rem > 0 {
		w.RemainingSec = int64(rem / time.Second)
	}
	return w
}

// SubmitOpen reports whether a submission may be accepted at now.
// Unlike viewing, the window is closed at both ends: a submission arriving
// exactly at the closing instant is still accepted, a one-instant grace for
// the final submission.
func SubmitOpen(e Exam, now time.Time) bool {
	return !now.Before(e.StartTime) && !now.After(e.windowEnd())
}
