package core

import "context"

type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Specialist is the uniform contract every domain agent satisfies. Handle
// never returns an error: failures become a degraded SpecialistResponse with
// Failed set (the supervisor must stay isolated from specialist faults).
type Specialist interface {
	Tag() SpecialistTag
	Domains() []Domain
	Handle(ctx context.Context, query Query, thread ThreadContext) SpecialistResponse
}

// FreshnessChecker gates answers on data currency. Check never fails: absent
// data and read errors are both reported as missing.
type FreshnessChecker interface {
	Check(ctx context.Context, userID string, domain Domain) FreshnessResult
	Report(ctx context.Context, userID string) []FreshnessResult
}
