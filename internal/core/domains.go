package core

// Domain identifies one class of ring data. The set is closed: routing,
// freshness thresholds and specialist toolsets are all keyed by it.
type Domain string

const (
	DomainSleep      Domain = "sleep"
	DomainActivity   Domain = "activity"
	DomainSleepScore Domain = "sleep_score"
	DomainReadiness  Domain = "readiness"
	DomainWorkout    Domain = "workout"
	DomainStress     Domain = "stress"
	DomainSpO2       Domain = "spo2"
	DomainVO2Max     Domain = "vo2_max"
	DomainCardioAge  Domain = "cardio_age"
)

// AllDomains returns the domains in their canonical report order.
func AllDomains() []Domain {
	return []Domain{
		DomainSleep,
		DomainActivity,
		DomainSleepScore,
		DomainReadiness,
		DomainWorkout,
		DomainStress,
		DomainSpO2,
		DomainVO2Max,
		DomainCardioAge,
	}
}

func ValidDomain(d Domain) bool {
	for _, known := range AllDomains() {
		if d == known {
			return true
		}
	}
	return false
}

// DomainTerms is the fixed vocabulary used to detect a domain in free text.
// Single words match on word boundaries, multi-word terms as phrases.
func DomainTerms(d Domain) []string {
	switch d {
	case DomainSleep:
		return []string{"sleep", "slept", "sleeping", "bedtime", "insomnia", "nap", "rem", "deep sleep", "snore"}
	case DomainActivity:
		return []string{"steps", "walk", "walked", "calories", "activity", "active", "move", "movement"}
	case DomainSleepScore:
		return []string{"sleep score"}
	case DomainReadiness:
		return []string{"readiness", "ready", "recovery", "recovered", "rest day"}
	case DomainWorkout:
		return []string{"workout", "workouts", "work out", "training", "trained", "exercise", "exercised", "run", "ran", "gym"}
	case DomainStress:
		return []string{"stress", "stressed", "resilience"}
	case DomainSpO2:
		return []string{"spo2", "oxygen", "blood oxygen", "breathing"}
	case DomainVO2Max:
		return []string{"vo2", "vo2max", "vo2 max", "aerobic", "cardio fitness"}
	case DomainCardioAge:
		return []string{"cardio age", "cardiovascular age", "heart age"}
	}
	return nil
}

// MentionsDomain reports whether text talks about the domain, matching the
// domain vocabulary case-insensitively on word boundaries.
func MentionsDomain(text string, d Domain) bool {
	return ContainsAnyTerm(text, DomainTerms(d))
}

// GoalType is the closed set of goal kinds the memory keeper may store.
type GoalType string

const (
	GoalSleepDuration     GoalType = "sleep_duration"
	GoalSleepScore        GoalType = "sleep_score"
	GoalStepCount         GoalType = "step_count"
	GoalActiveCalories    GoalType = "active_calories"
	GoalHRVTarget         GoalType = "hrv_target"
	GoalReadinessScore    GoalType = "readiness_score"
	GoalWorkoutFrequency  GoalType = "workout_frequency"
	GoalMeditationMinutes GoalType = "meditation_minutes"
)

func AllGoalTypes() []GoalType {
	return []GoalType{
		GoalSleepDuration,
		GoalSleepScore,
		GoalStepCount,
		GoalActiveCalories,
		GoalHRVTarget,
		GoalReadinessScore,
		GoalWorkoutFrequency,
		GoalMeditationMinutes,
	}
}

func ValidGoalType(t GoalType) bool {
	for _, known := range AllGoalTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Baseline metrics computed from the health store over a trailing window.
const (
	BaselineHRVAvg          = "hrv_avg"
	BaselineRestingHR       = "resting_hr"
	BaselineSleepEfficiency = "sleep_efficiency"
	BaselineSleepDuration   = "sleep_duration_avg"
	BaselineStepCount       = "step_count_avg"
	BaselineReadiness       = "readiness_avg"
	BaselineActivityScore   = "activity_score_avg"
)
