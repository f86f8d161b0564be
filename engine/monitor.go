package engine

import (
	"github.com/sirenic/firmatch/core"
	"github.com/sirenic/firmatch/size"
)

// Monitor provides hooks to observe the processing of one search round.
// Implement this interface to track intermediate normalization steps and
// the final decision.
type Monitor interface {
	Start(messages []core.Message)
	AfterExtraction(bundle core.CriteriaBundle)
	LocationResolved(corrections []core.LocationCorrection)
	SectorMatched(original, matched string)
	SizeParsed(result *size.Result)
	ActivityMatched(query string, codes []string)
	AfterCount(count int)
	Finish(response *Response)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ []core.Message)                        {}
func (n *noopMonitor) AfterExtraction(_ core.CriteriaBundle)         {}
func (n *noopMonitor) LocationResolved(_ []core.LocationCorrection)  {}
func (n *noopMonitor) SectorMatched(_, _ string)                     {}
func (n *noopMonitor) SizeParsed(_ *size.Result)                     {}
func (n *noopMonitor) ActivityMatched(_ string, _ []string)          {}
func (n *noopMonitor) AfterCount(_ int)                              {}
func (n *noopMonitor) Finish(_ *Response)                            {}
