package fusion

import "github.com/poiesic/answerit/core"

// Monitor provides hooks to observe the answer pipeline.
// Implement this interface to track intermediate steps during a query.
type Monitor interface {
	Start(query string)
	AfterRoute(route core.Route)
	AfterDocumentRetrieval(items []core.ContextItem)
	AfterWebSearch(items []core.ContextItem)
	EvidenceAssembled(evidence []core.ContextItem)
	Finish(result core.AnswerResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterRoute(_ core.Route)                    {}
func (n *noopMonitor) AfterDocumentRetrieval(_ []core.ContextItem) {}
func (n *noopMonitor) AfterWebSearch(_ []core.ContextItem)        {}
func (n *noopMonitor) EvidenceAssembled(_ []core.ContextItem)     {}
func (n *noopMonitor) Finish(_ core.AnswerResult)                 {}
