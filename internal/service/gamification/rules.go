package gamification

import (
	"strings"

	"github.com/seu-repo/quest-board/internal/domain"
)

// Satisfied reports whether stats meet the achievement's condition.
// streak_days is never satisfied: completion dates are not tracked per day.
func Satisfied(a domain.Achievement, stats domain.UserStats) bool {
	switch a.ConditionType {
	case domain.ConditionCardsCompleted:
		return stats.CompletedCards >= a.ConditionValue
	case domain.ConditionPointsEarned:
		return stats.TotalPoints >= a.ConditionValue
	case domain.ConditionServiceType:
		svc, ok := ServiceTypeFromName(a.Name)
		if !ok {
			return false
		}
		return stats.CompletedByService[svc] >= a.ConditionValue
	default:
		return false
	}
}

// ServiceTypeFromName reads the service type an achievement is about from
// its name.
func ServiceTypeFromName(name string) (domain.ServiceType, bool) {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "físico"), strings.Contains(n, "fisico"), strings.Contains(n, "physical"):
		return domain.ServicePhysical, true
	case strings.Contains(n, "digital"):
		return domain.ServiceDigital, true
	}
	return "", false
}
