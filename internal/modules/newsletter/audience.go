package newsletter

import "github.com/techpress/core/internal/models"

// matchesTarget reports whether a subscriber belongs to a send's audience.
// Only active subscribers ever match. For filtered sends each configured
// facet must match (source AND segment), while values inside one facet are
// alternatives (any listed source, any listed segment). An empty facet list
// places no constraint.
func matchesTarget(sub *models.SubscriberModel, target models.TargetConfig) bool {
	if !sub.IsActive() {
		return false
	}
	switch target.Type {
	case models.TargetAll, "":
		return true
	case models.TargetManual:
		return containsString(target.IDs, sub.ID)
	case models.TargetFilter:
		if len(target.Sources) > 0 && !containsString(target.Sources, sub.Source) {
			return false
		}
		if len(target.Tags) > 0 && !intersects(target.Tags, sub.Preferences.Segments) {
			return false
		}
		return true
	default:
		return false
	}
}

// filterAudience returns the subscribers a send would reach.
func filterAudience(subs []models.SubscriberModel, target models.TargetConfig) []models.SubscriberModel {
	out := make([]models.SubscriberModel, 0, len(subs))
	for i := range subs {
		if matchesTarget(&subs[i], target) {
			out = append(out, subs[i])
		}
	}
	return out
}

func containsString(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if containsString(b, v) {
			return true
		}
	}
	return false
}
