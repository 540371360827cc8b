package scoring

// IsApplicable reports whether a goal applies on a day given the day's
// recorded condition values. An empty requirement set always applies.
// Otherwise every required condition must match, with an unrecorded
// condition counting as false.
func IsApplicable(requirements []ConditionRequirement, dayValues map[string]bool) bool {
	for _, requirement := range requirements {
		if dayValues[requirement.ConditionID] != requirement.RequiredValue {
			return false
		}
	}
	return true
}
