package sink

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sintatools/journalharvest/internal/model"
)

// Sink is a single record destination.
type Sink interface {
	// Name identifies the sink in logs and results.
	Name() string

	// Remote reports whether the sink writes to remote storage.
	Remote() bool

	// Write persists the records. Implementations must be self-contained
	// so that one sink's failure cannot affect another.
	Write(ctx context.Context, records []model.JournalRecord) error
}

// Result is the outcome of one sink's write.
type Result struct {
	Name   string
	Remote bool
	Err    error
}

// WriteAll writes the records to every sink concurrently and returns one
// Result per sink, in sink order. It never short-circuits: a failing sink
// is reported in its Result while the others keep writing.
func WriteAll(ctx context.Context, sinks []Sink, records []model.JournalRecord) []Result {
	results := make([]Result, len(sinks))

	var g errgroup.Group
	for i, s := range sinks {
		g.Go(func() error {
			results[i] = Result{
				Name:   s.Name(),
				Remote: s.Remote(),
				Err:    s.Write(ctx, records),
			}
			return nil
		})
	}
	// Goroutines only record into their own slot, so Wait cannot fail.
	_ = g.Wait()

	return results
}

// Record merges the results into the run statistics.
func Record(stats *model.RunStatistics, results []Result) {
	for _, r := range results {
		stats.AddSinkOutcome(r.Remote, r.Err == nil)
		if r.Err != nil {
			stats.AddError("sink " + r.Name + ": " + r.Err.Error())
		}
	}
}
