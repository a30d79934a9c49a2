package domain

// ResultSource says which index produced a retrieved item.
type ResultSource string

const (
	SourceVector     ResultSource = "vector"
	SourceStructured ResultSource = "structured"
)

// SearchFilter restricts a search to one service domain. The zero value
// means no restriction.
type SearchFilter struct {
	Domain DomainLabel
}

// RetrievedItem is one ranked hit from vector or structured search.
// Ref identifies the chunk ("docID:index") or the structured record.
type RetrievedItem struct {
	Ref        string       `json:"ref"`
	DocumentID string       `json:"document_id,omitempty"`
	Domain     DomainLabel  `json:"domain"`
	Text       string       `json:"text"`
	Score      float64      `json:"score"`
	Source     ResultSource `json:"source"`
}

// RouteState is a terminal or intermediate state of the orchestration
// router. States are never re-entered; the single fallback step is the
// only branch after dispatch.
type RouteState string

const (
	StateReceived          RouteState = "received"
	StateClassified        RouteState = "classified"
	StateDispatched        RouteState = "dispatched"
	StateCompleted         RouteState = "completed"
	StateFallbackCompleted RouteState = "fallback_completed"
	StateFailed            RouteState = "failed"
)

// AgentResponse is the normalized handler output returned by the router.
type AgentResponse struct {
	Domain       DomainLabel     `json:"domain"`
	Answer       string          `json:"answer"`
	Context      []RetrievedItem `json:"context"`
	Handler      string          `json:"handler"`
	FallbackUsed bool            `json:"fallback_used"`
	State        RouteState      `json:"state"`
}
