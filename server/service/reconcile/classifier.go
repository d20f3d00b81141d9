package reconcile

import (
	"strings"

	"github.com/calkins/teampulse/store"
)

// TaskType tags a task with the matching strategy it should use.
type TaskType string

const (
	TypeTraining  TaskType = "training"
	TypeMeeting   TaskType = "meeting"
	TypeRecurring TaskType = "recurring"
	TypeAdmin     TaskType = "admin"
	TypeRegular   TaskType = "regular"
)

// IsRecurringLike reports whether tasks of this type are matched exactly
// (description + employee + date) before any similarity scoring.
func (t TaskType) IsRecurringLike() bool {
	switch t {
	case TypeTraining, TypeMeeting, TypeRecurring:
		return true
	}
	return false
}

var (
	trainingKeywords  = []string{"class", "training", "certification", "learning"}
	meetingKeywords   = []string{"attended", "meeting", "call", "sync", "session"}
	recurringKeywords = []string{"weekly", "daily", "monthly", "recurring"}
)

// Classify maps a task to its type. Keyword rules run in order against the
// description; the category-based admin rule is checked only after all
// keyword rules miss.
func Classify(task *store.Task) TaskType {
	description := strings.ToLower(task.Description)

	if containsAny(description, trainingKeywords) {
		return TypeTraining
	}
	if containsAny(description, meetingKeywords) {
		return TypeMeeting
	}
	if containsAny(description, recurringKeywords) {
		return TypeRecurring
	}
	if strings.EqualFold(task.Category, "admin") {
		return TypeAdmin
	}
	return TypeRegular
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
