package scoring

import (
	"github.com/mbharti12/goal-tracker/internal/model"
)

// ConditionRequirement is one entry of a goal's required-condition set,
// whether it comes from the live goal or a version snapshot.
type ConditionRequirement struct {
	ConditionID   string
	RequiredValue bool
}

// EffectiveConfig is the scoring configuration in force for one goal on one
// date. VersionID is empty when no version exists and the live goal fields
// are used instead.
type EffectiveConfig struct {
	VersionID    string
	TargetWindow string
	TargetCount  int
	ScoringMode  string
	TagWeights   map[string]int
	Conditions   []ConditionRequirement
}

// SelectEffectiveVersion returns the version covering date: start_date <=
// date and (end_date is null or end_date >= date). Among several covering
// versions the one with the greatest start_date wins. Returns nil when no
// version covers the date.
func SelectEffectiveVersion(versions []model.GoalVersion, date string) *model.GoalVersion {
	var effective *model.GoalVersion
	for i := range versions {
		version := &versions[i]
		if version.StartDate > date {
			continue
		}
		if version.EndDate != nil && *version.EndDate < date {
			continue
		}
		if effective == nil || version.StartDate > effective.StartDate {
			effective = version
		}
	}
	return effective
}

// EffectiveOrFallback resolves like SelectEffectiveVersion but never leaves
// a goal with versions unresolved: a date before the earliest version gets
// the earliest, anything else gets the latest. Only a goal with no versions
// at all yields nil.
func EffectiveOrFallback(versions []model.GoalVersion, date string) *model.GoalVersion {
	if effective := SelectEffectiveVersion(versions, date); effective != nil {
		return effective
	}
	if len(versions) == 0 {
		return nil
	}
	earliest := &versions[0]
	latest := &versions[0]
	for i := range versions {
		version := &versions[i]
		if version.StartDate < earliest.StartDate {
			earliest = version
		}
		if version.StartDate > latest.StartDate {
			latest = version
		}
	}
	if date < earliest.StartDate {
		return earliest
	}
	return latest
}

// resolveConfig normalizes a goal's configuration for a date into one
// EffectiveConfig, picking the resolved version's snapshot when a version
// exists and the live goal fields and sets otherwise.
func resolveConfig(
	goal model.Goal,
	versions []model.GoalVersion,
	versionTags map[string]map[string]int,
	versionConditions map[string][]ConditionRequirement,
	liveTags map[string]int,
	liveConditions []ConditionRequirement,
	date string,
) EffectiveConfig {
	version := EffectiveOrFallback(versions, date)
	if version == nil {
		return EffectiveConfig{
			TargetWindow: goal.TargetWindow,
			TargetCount:  goal.TargetCount,
			ScoringMode:  goal.ScoringMode,
			TagWeights:   liveTags,
			Conditions:   liveConditions,
		}
	}
	return EffectiveConfig{
		VersionID:    version.ID,
		TargetWindow: version.TargetWindow,
		TargetCount:  version.TargetCount,
		ScoringMode:  version.ScoringMode,
		TagWeights:   versionTags[version.ID],
		Conditions:   versionConditions[version.ID],
	}
}
