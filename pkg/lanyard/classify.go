package lanyard

// Classification splits a snapshot's activity list into the one featured
// activity and the rest. Secondary preserves the original relative order
// with the primary's element removed.
type Classification struct {
	Primary   *Activity
	Secondary []Activity
}

// HasActivities reports whether the classification carries anything to show.
func (c Classification) HasActivities() bool {
	return c.Primary != nil || len(c.Secondary) > 0
}

// Classify selects the primary activity by priority:
//
//  1. the reserved Spotify activity (ID == MusicActivityID)
//  2. the first game activity
//  3. the first activity that is not a custom status
//
// If nothing matches, there is no primary and every activity is secondary.
// A custom status is never primary on its own; it only surfaces as a
// secondary entry. Classify is pure and total: it never fails, and an empty
// input yields an empty result.
func Classify(activities []Activity) Classification {
	pick := -1

	for i := range activities {
		if activities[i].ID == MusicActivityID {
			pick = i
			break
		}
	}
	if pick < 0 {
		for i := range activities {
			if activities[i].Type == GameActivity {
				pick = i
				break
			}
		}
	}
	if pick < 0 {
		for i := range activities {
			if activities[i].Type != CustomActivity {
				pick = i
				break
			}
		}
	}

	if pick < 0 {
		secondary := make([]Activity, len(activities))
		copy(secondary, activities)
		return Classification{Secondary: secondary}
	}

	primary := activities[pick]
	secondary := make([]Activity, 0, len(activities)-1)
	for i := range activities {
		if i != pick {
			secondary = append(secondary, activities[i])
		}
	}
	return Classification{Primary: &primary, Secondary: secondary}
}
