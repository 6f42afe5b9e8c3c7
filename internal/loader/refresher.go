package loader

import (
	"context"
	"sync"

	"github.com/stellarsignal/orbitwatch/internal/logging"
	"github.com/stellarsignal/orbitwatch/model"
)

// Committer accepts a complete replacement dataset. TrackerState satisfies
// it; the refresher never mutates tracker state any other way.
type Committer interface {
	ReplaceDataset(objects []*model.TrackedObject)
}

// Refresher serializes dataset refreshes. A new refresh supersedes any
// in-flight fetch: the older fetch's context is cancelled and, even if it
// races to completion, its result is discarded. Only the latest response
// commits.
type Refresher struct {
	loader    *Loader
	committer Committer
	log       logging.Logger
	metrics   FetchMetrics

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc

	// commitMu spans the staleness re-check and the commit, so a fetch
	// that passed the check can never write after a newer refresh has
	// committed. Fetches themselves stay concurrent.
	commitMu sync.Mutex
}

// NewRefresher wires a loader to the dataset committer.
func NewRefresher(l *Loader, committer Committer, log logging.Logger) *Refresher {
	if log == nil {
		log = logging.Noop()
	}
	return &Refresher{
		loader:    l,
		committer: committer,
		log:       log,
		metrics:   l.metrics,
	}
}

// Refresh starts an asynchronous dataset load for the given source and
// returns a channel closed when the attempt finishes, whether it committed
// or was superseded.
func (r *Refresher) Refresh(ctx context.Context, source model.DataSource) <-chan struct{} {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		objects, fellBack := r.loader.LoadDataset(ctx, source)

		r.commitMu.Lock()
		defer r.commitMu.Unlock()

		r.mu.Lock()
		latest := seq == r.seq
		r.mu.Unlock()
		if !latest {
			if r.metrics != nil {
				r.metrics.CountFetch(source, "superseded")
			}
			r.log.Debug(ctx, "refresh superseded; discarding result",
				logging.String("source", source.String()))
			return
		}

		r.committer.ReplaceDataset(objects)
		r.log.Info(ctx, "dataset committed",
			logging.String("source", source.String()),
			logging.Int("objects", len(objects)),
			logging.Any("synthetic", fellBack),
		)
	}()
	return done
}
