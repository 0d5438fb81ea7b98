package metrics

// Evaluation outcomes.
const (
	OutcomeEnabled  = "enabled"
	OutcomeDisabled = "disabled"
	OutcomeNotFound = "not_found"
)

// Observer receives domain events worth counting. The service layer
// depends on this interface so tests can pass a noop.
type Observer interface {
	RecordEvaluation(outcome string)
	RecordAuditWrite()
}

type noopObserver struct{}

func NewNoopObserver() Observer { return noopObserver{} }

func (noopObserver) RecordEvaluation(string) {}
func (noopObserver) RecordAuditWrite()       {}
