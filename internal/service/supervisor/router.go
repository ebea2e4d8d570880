package supervisor

import (
	"strings"

	"github.com/pulsebit/pulsebot/internal/core"
)

// Intent is the router's verdict on one query.
type Intent int

const (
	// IntentDispatch sends the query to one or more specialists.
	IntentDispatch Intent = iota
	// IntentGreeting is conversational input the supervisor answers itself.
	IntentGreeting
	// IntentEmpty is blank input: clarification prompt, no dispatch, no
	// memory write.
	IntentEmpty
)

// Route is the classification result. Tags are always in the fixed
// precedence order sleep, fitness, memory, auditor. Unclassified is set
// when no vocabulary matched and the auditor was chosen as fallback.
type Route struct {
	Intent       Intent
	Tags         []core.SpecialistTag
	Unclassified bool
}

// Router classifies queries with fixed keyword tables. Same input, same
// route, every time; there is no model in the loop.
type Router struct{}

func NewRouter() *Router {
	return &Router{}
}

func (r *Router) Route(text string) Route {
	if strings.TrimSpace(text) == "" {
		return Route{Intent: IntentEmpty}
	}
	if isConversational(text) {
		return Route{Intent: IntentGreeting}
	}

	var tags []core.SpecialistTag
	for _, tag := range core.SpecialistOrder() {
		if core.ContainsAnyTerm(text, specialistTerms(tag)) {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		return Route{
			Intent:       IntentDispatch,
			Tags:         []core.SpecialistTag{core.SpecAuditor},
			Unclassified: true,
		}
	}
	return Route{Intent: IntentDispatch, Tags: tags}
}

// specialistTerms is the routing vocabulary per specialist. Sleep and
// fitness inherit their domains' vocabulary; memory and auditor match on
// what they do rather than on data domains.
func specialistTerms(tag core.SpecialistTag) []string {
	switch tag {
	case core.SpecSleep:
		terms := core.DomainTerms(core.DomainSleep)
		terms = append(terms, core.DomainTerms(core.DomainSleepScore)...)
		return append(terms, core.DomainTerms(core.DomainSpO2)...)
	case core.SpecFitness:
		terms := core.DomainTerms(core.DomainActivity)
		terms = append(terms, core.DomainTerms(core.DomainReadiness)...)
		terms = append(terms, core.DomainTerms(core.DomainWorkout)...)
		terms = append(terms, core.DomainTerms(core.DomainStress)...)
		terms = append(terms, core.DomainTerms(core.DomainVO2Max)...)
		terms = append(terms, core.DomainTerms(core.DomainCardioAge)...)
		return append(terms, "hrv", "heart rate", "fitness")
	case core.SpecMemory:
		return []string{
			"goal", "goals", "remember", "remembered", "recall", "remind",
			"baseline", "baselines", "progress", "told me", "said about",
			"preference", "preferences", "insight", "insights", "advice", "advised",
		}
	case core.SpecAuditor:
		return []string{
			"sync", "syncing", "synced", "stale", "freshness", "data quality",
			"ring working", "up to date", "missing data", "data old", "data current",
		}
	}
	return nil
}

// greetingStarters open short conversational messages ("hey there",
// "thanks a lot"). Longer messages starting with these words still route
// normally, so "hey, how did I sleep?" reaches the sleep analyst.
var greetingStarters = map[string]bool{
	"hello": true, "hi": true, "hey": true, "howdy": true, "yo": true,
	"thanks": true, "thank": true, "good": true,
}

// smalltalk matches whole normalized phrases.
var smalltalk = map[string]bool{
	"how are you":    true,
	"how s it going": true,
	"what s up":      true,
	"whats up":       true,
	"ok":             true,
	"okay":           true,
	"bye":            true,
	"goodbye":        true,
	"see you":        true,
	"good night":     true,
}

func isConversational(text string) bool {
	words := core.NormalizeWords(text)
	if len(words) == 0 {
		return false
	}
	if smalltalk[strings.Join(words, " ")] {
		return true
	}
	return len(words) <= 4 && greetingStarters[words[0]]
}
