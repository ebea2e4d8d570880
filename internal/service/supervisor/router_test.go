package supervisor

import (
	"reflect"
	"testing"

	"github.com/pulsebit/pulsebot/internal/core"
)

func TestRouteSingleSpecialist(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  core.SpecialistTag
	}{
		{"sleep question", "How did I sleep last night?", core.SpecSleep},
		{"sleep score", "What is my sleep score today?", core.SpecSleep},
		{"blood oxygen", "How was my blood oxygen overnight?", core.SpecSleep},
		{"steps", "How many steps did I take yesterday?", core.SpecFitness},
		{"readiness", "Am I ready to train hard today?", core.SpecFitness},
		{"workout", "Show me my last workout", core.SpecFitness},
		{"recovery", "How is my recovery going?", core.SpecFitness},
		{"vo2", "What is my vo2max?", core.SpecFitness},
		{"goal", "Set a goal to drink more water", core.SpecMemory},
		{"recall", "What did you tell me about caffeine? Please recall it", core.SpecMemory},
		{"ok prefix command", "ok set a goal", core.SpecMemory},
		{"sync status", "Is my ring syncing?", core.SpecAuditor},
		{"data currency", "Is my data up to date?", core.SpecAuditor},
	}

	r := NewRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := r.Route(tt.query)
			if route.Intent != IntentDispatch {
				t.Fatalf("intent = %v, want dispatch", route.Intent)
			}
			if route.Unclassified {
				t.Fatalf("query %q should classify directly", tt.query)
			}
			found := false
			for _, tag := range route.Tags {
				if tag == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("Route(%q).Tags = %v, want %v included", tt.query, route.Tags, tt.want)
			}
		})
	}
}

func TestRouteMultiDomainKeepsPrecedenceOrder(t *testing.T) {
	r := NewRouter()

	tests := []struct {
		name  string
		query string
		want  []core.SpecialistTag
	}{
		{
			"sleep then fitness",
			"How did I sleep and should I work out today?",
			[]core.SpecialistTag{core.SpecSleep, core.SpecFitness},
		},
		{
			"fitness mentioned first still yields sleep first",
			"Should I work out today given how badly I slept?",
			[]core.SpecialistTag{core.SpecSleep, core.SpecFitness},
		},
		{
			"sleep and goal",
			"Did I hit my sleep goal this week?",
			[]core.SpecialistTag{core.SpecSleep, core.SpecMemory},
		},
		{
			"three specialists",
			"Given my sleep and workouts, update my goal",
			[]core.SpecialistTag{core.SpecSleep, core.SpecFitness, core.SpecMemory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := r.Route(tt.query)
			if !reflect.DeepEqual(route.Tags, tt.want) {
				t.Errorf("Route(%q).Tags = %v, want %v", tt.query, route.Tags, tt.want)
			}
		})
	}
}

func TestRouteConversational(t *testing.T) {
	tests := []string{
		"Hello!",
		"hi",
		"Hey there",
		"Good morning",
		"good night",
		"How are you?",
		"what's up",
		"ok",
		"Thanks!",
		"thank you so much",
	}

	r := NewRouter()
	for _, q := range tests {
		if route := r.Route(q); route.Intent != IntentGreeting {
			t.Errorf("Route(%q).Intent = %v, want greeting", q, route.Intent)
		}
	}
}

func TestRouteGreetingWordDoesNotShadowQuestions(t *testing.T) {
	tests := []struct {
		query string
		want  core.SpecialistTag
	}{
		{"hey, how did I sleep last night?", core.SpecSleep},
		{"hello can you check my readiness score", core.SpecFitness},
		{"thanks, now show my goals", core.SpecMemory},
	}

	r := NewRouter()
	for _, tt := range tests {
		route := r.Route(tt.query)
		if route.Intent != IntentDispatch {
			t.Errorf("Route(%q).Intent = %v, want dispatch", tt.query, route.Intent)
			continue
		}
		if !reflect.DeepEqual(route.Tags, []core.SpecialistTag{tt.want}) {
			t.Errorf("Route(%q).Tags = %v, want [%v]", tt.query, route.Tags, tt.want)
		}
	}
}

func TestRouteEmpty(t *testing.T) {
	r := NewRouter()
	for _, q := range []string{"", "   ", "\n\t  \n"} {
		if route := r.Route(q); route.Intent != IntentEmpty {
			t.Errorf("Route(%q).Intent = %v, want empty", q, route.Intent)
		}
	}
}

func TestRouteUnclassifiableFallsBackToAuditor(t *testing.T) {
	r := NewRouter()

	route := r.Route("What is the weather like on Mars?")
	if route.Intent != IntentDispatch {
		t.Fatalf("intent = %v, want dispatch", route.Intent)
	}
	if !route.Unclassified {
		t.Error("off-topic query should be flagged unclassified")
	}
	want := []core.SpecialistTag{core.SpecAuditor}
	if !reflect.DeepEqual(route.Tags, want) {
		t.Errorf("Tags = %v, want %v", route.Tags, want)
	}
}

func TestRouteMatchesWholeWordsOnly(t *testing.T) {
	// "snapshot" contains "nap" but must not wake the sleep analyst.
	r := NewRouter()

	route := r.Route("Show me a snapshot of my data quality")
	want := []core.SpecialistTag{core.SpecAuditor}
	if !reflect.DeepEqual(route.Tags, want) {
		t.Errorf("Tags = %v, want %v", route.Tags, want)
	}
	if route.Unclassified {
		t.Error("data quality is auditor vocabulary, not a fallback")
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	r := NewRouter()
	query := "How did I sleep and should I work out today?"

	first := r.Route(query)
	for i := 0; i < 50; i++ {
		if got := r.Route(query); !reflect.DeepEqual(got, first) {
			t.Fatalf("route changed between identical calls: %v then %v", first, got)
		}
	}
}
