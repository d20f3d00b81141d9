package reconcile

import (
	"testing"

	"github.com/calkins/teampulse/store"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		category    string
		want        TaskType
	}{
		{"training keyword", "Completed AWS certification exam", "", TypeTraining},
		{"learning keyword", "Learning Go generics", "", TypeTraining},
		{"meeting keyword", "Attended sync meeting", "", TypeMeeting},
		{"call keyword", "Customer call with Acme", "", TypeMeeting},
		{"recurring keyword", "Weekly report submitted", "", TypeRecurring},
		{"monthly keyword", "monthly invoice run", "", TypeRecurring},
		{"admin category", "Filed expense reports", "Admin", TypeAdmin},
		{"admin category lowercase", "Filed expense reports", "admin", TypeAdmin},
		{"plain task", "Refactor payment module", "Billing", TypeRegular},
		{"case insensitive keyword", "TRAINING session prep", "", TypeTraining},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := &store.Task{Description: tc.description, Category: tc.category}
			if got := Classify(task); got != tc.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tc.description, tc.category, got, tc.want)
			}
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	// Training keywords win over meeting and recurring keywords.
	task := &store.Task{Description: "Weekly training call"}
	if got := Classify(task); got != TypeTraining {
		t.Errorf("got %q, want %q", got, TypeTraining)
	}
	// Keyword rules win over the admin category rule.
	task = &store.Task{Description: "Attended meeting about budgets", Category: "admin"}
	if got := Classify(task); got != TypeMeeting {
		t.Errorf("got %q, want %q", got, TypeMeeting)
	}
}

func TestIsRecurringLike(t *testing.T) {
	for tag, want := range map[TaskType]bool{
		TypeTraining:  true,
		TypeMeeting:   true,
		TypeRecurring: true,
		TypeAdmin:     false,
		TypeRegular:   false,
	} {
		if got := tag.IsRecurringLike(); got != want {
			t.Errorf("%q.IsRecurringLike() = %v, want %v", tag, got, want)
		}
	}
}
