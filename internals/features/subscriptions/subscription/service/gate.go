package service

import (
	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/subscriptions/subscription/model"
)

// DeriveFeatures: pro unlocks everything; any other plan is capped at
// BasicMaxChapters with every flag off.
func DeriveFeatures(plan string) model.Features {
	if plan == constants.PlanPro {
		return model.Features{
			UnlimitedPractice: true,
			OfflineAccess:     true,
			PrioritySupport:   true,
			AITutor:           true,
		}
	}
	max := constants.BasicMaxChapters
	return model.Features{MaxChapters: &max}
}

// IsChapterLocked decides access by zero-based chapter position. plan is
// "" when the user has no active subscription.
func IsChapterLocked(plan string, index int) bool {
	switch plan {
	case constants.PlanPro:
		return false
	case constants.PlanBasic:
		return index >= constants.BasicMaxChapters
	default:
		return true
	}
}

// HasActivePlan is true for any paid plan still in force.
func HasActivePlan(plan string) bool {
	return plan == constants.PlanBasic || plan == constants.PlanPro
}
