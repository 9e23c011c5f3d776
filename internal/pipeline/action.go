package pipeline

import "github.com/techplay/core/internal/models"

// Action is a closed enum of XP-earning user actions. Dispatch is a
// compile-time-checked switch, not runtime type inspection.
type Action int

const (
	ActionCommentCreated Action = iota
	ActionThreadCreated
	ActionReplyCreated
	ActionReviewCreated
)

// Rule binds an action to its XP award, achievement criterion and
// activity-log verb.
type Rule struct {
	XP        int64
	Criterion string
	Verb      string
}

// RuleFor returns the fixed rule for an action. The zero Rule is never
// returned; an unknown action is a programming error.
func RuleFor(a Action) Rule {
	switch a {
	case ActionCommentCreated:
		return Rule{XP: 10, Criterion: models.CriterionComments, Verb: "commented on"}
	case ActionThreadCreated:
		return Rule{XP: 20, Criterion: models.CriterionThreads, Verb: "started thread"}
	case ActionReplyCreated:
		return Rule{XP: 5, Criterion: models.CriterionReplies, Verb: "replied to"}
	case ActionReviewCreated:
		return Rule{XP: 50, Criterion: models.CriterionReviews, Verb: "reviewed"}
	}
	panic("pipeline: unknown action")
}
