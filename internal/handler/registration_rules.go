package handler

import (
	"time"

	"github.com/iliyamo/exam-registration/internal/model"
)

// validExamTime reports whether s is a well-formed "HH:MM" start time
// inside the daily exam window.  Exams may start from 08:00 up to and
// including 16:59; anything later would run past closing.
func validExamTime(s string) bool {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return false
	}
	h := t.Hour()
	return h >= 8 && h < 17
}

// firstAvailable scans the student's ordered venue preferences and
// returns the first one with space left.  Unknown venue names are
// skipped rather than rejected, so a stale preference list degrades to
// the next choice instead of failing the registration.
func firstAvailable(prefs []string, locs []model.ExamLocation) (model.ExamLocation, bool) {
	byName := make(map[string]model.ExamLocation, len(locs))
	for _, l := range locs {
		byName[l.Name] = l
	}
	for _, p := range prefs {
		l, ok := byName[p]
		if !ok {
			continue
		}
		if l.HasSpace() {
			return l, true
		}
	}
	return model.ExamLocation{}, false
}
