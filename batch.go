package tmplcore

import (
	"io"

	"go.uber.org/multierr"
)

// BatchItem pairs one independent render's sink and context for
// ExecuteAll.
type BatchItem struct {
	Sink    io.Writer
	Context Context
}

// ExecuteAll runs Execute sequentially over each item, against
// independent Contexts and independent sinks. This is plain sequential
// batching, not the "parallel rendering of the same state" spec.md §1
// excludes: every item gets its own fresh state, nothing is shared
// across items but the read-only Registry/FuncTable. Every item's error,
// if any, is collected rather than aborting the batch, and the combined
// error is returned via go.uber.org/multierr (SPEC_FULL.md DOMAIN
// STACK), so a caller can errors.Is/As into any one failure.
func (e *Engine) ExecuteAll(items []BatchItem) error {
	var combined error
	for _, item := range items {
		if err := e.Execute(item.Sink, item.Context); err != nil {
			combined = multierr.Append(combined, err)
		}
	}
	return combined
}
