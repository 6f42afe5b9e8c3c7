package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stellarsignal/orbitwatch/internal/logging"
	"github.com/stellarsignal/orbitwatch/model"
)

const testBatch = "ISS (ZARYA)\n" +
	"1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990\n" +
	"2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760\n" +
	"COSMOS 2251 DEB\n" +
	"1 34427U 93036SX  21275.00000000\n" +
	"2 34427\n"

func TestLoadDataset_FetchSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(testBatch))
	}))
	defer srv.Close()

	l := New(srv.URL, logging.Noop(), WithHTTPClient(srv.Client()))
	objects, fellBack := l.LoadDataset(context.Background(), model.SourceDebris)

	if fellBack {
		t.Fatal("successful fetch must not fall back")
	}
	if gotPath != "/elements/debris" {
		t.Fatalf("path = %q, want /elements/debris", gotPath)
	}
	if len(objects) != 2 {
		t.Fatalf("objects = %d, want 2", len(objects))
	}
	if objects[0].Name != "ISS (ZARYA)" || objects[1].Category != model.CategoryDebris {
		t.Fatalf("unexpected classification: %+v, %+v", objects[0], objects[1])
	}
}

func TestLoadDataset_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := New(srv.URL, logging.Noop(), WithHTTPClient(srv.Client()))
	objects, fellBack := l.LoadDataset(context.Background(), model.SourceActive)

	if !fellBack {
		t.Fatal("expected synthetic fallback on 500")
	}
	if len(objects) == 0 {
		t.Fatal("synthetic fallback produced no objects")
	}
}

func TestLoadDataset_FallsBackOnUnreachableHost(t *testing.T) {
	l := New("http://127.0.0.1:1", logging.Noop(),
		WithFetchTimeout(200*time.Millisecond))
	objects, fellBack := l.LoadDataset(context.Background(), model.SourceWeather)

	if !fellBack || len(objects) == 0 {
		t.Fatalf("fellBack=%v objects=%d, want fallback with objects", fellBack, len(objects))
	}
}

func TestSyntheticDataset_DeterministicAndParseable(t *testing.T) {
	if SyntheticDataset(model.SourceDebris) != SyntheticDataset(model.SourceDebris) {
		t.Fatal("synthetic dataset must be deterministic per source")
	}

	l := New("http://unused", logging.Noop())
	objects, skipped := l.classifier.ParseRecords(SyntheticDataset(model.SourceDebris))
	if skipped != 0 {
		t.Fatalf("synthetic batch skipped %d records", skipped)
	}
	if len(objects) != syntheticBatchSize {
		t.Fatalf("objects = %d, want %d", len(objects), syntheticBatchSize)
	}
	for _, obj := range objects {
		if obj.Category != model.CategoryDebris {
			t.Fatalf("debris source produced %v for %q", obj.Category, obj.Name)
		}
		if obj.Elements != nil {
			t.Fatalf("synthetic object %q should have no parseable elements", obj.Name)
		}
	}

	// Different sources occupy distinct catalog id blocks.
	active, _ := l.classifier.ParseRecords(SyntheticDataset(model.SourceActive))
	if active[0].CatalogID == objects[0].CatalogID {
		t.Fatal("sources must not share catalog id blocks")
	}
}

type recordingCommitter struct {
	mu      sync.Mutex
	commits [][]*model.TrackedObject
}

func (c *recordingCommitter) ReplaceDataset(objects []*model.TrackedObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commits = append(c.commits, objects)
}

func (c *recordingCommitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.commits)
}

func TestRefresher_CommitsLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testBatch))
	}))
	defer srv.Close()

	committer := &recordingCommitter{}
	l := New(srv.URL, logging.Noop(), WithHTTPClient(srv.Client()))
	r := NewRefresher(l, committer, logging.Noop())

	<-r.Refresh(context.Background(), model.SourceActive)
	if committer.count() != 1 {
		t.Fatalf("commits = %d, want 1", committer.count())
	}
}

func TestRefresher_SupersededFetchDoesNotCommit(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/elements/active" {
			<-release
		}
		_, _ = w.Write([]byte(testBatch))
	}))
	defer srv.Close()

	committer := &recordingCommitter{}
	l := New(srv.URL, logging.Noop(), WithHTTPClient(srv.Client()))
	r := NewRefresher(l, committer, logging.Noop())

	// The first refresh blocks in the server; the second supersedes it and
	// commits. When the first is released (or resolves via its cancelled
	// context to a synthetic dataset), its result must be discarded.
	first := r.Refresh(context.Background(), model.SourceActive)
	second := r.Refresh(context.Background(), model.SourceDebris)

	<-second
	close(release)
	<-first

	if committer.count() != 1 {
		t.Fatalf("commits = %d, want exactly the latest refresh", committer.count())
	}
	committer.mu.Lock()
	defer committer.mu.Unlock()
	if len(committer.commits[0]) == 0 {
		t.Fatal("latest refresh committed an empty dataset")
	}
}

// gatedCommitter stalls the first commit until released, after the
// refresher's staleness check has already passed.
type gatedCommitter struct {
	recordingCommitter
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (c *gatedCommitter) ReplaceDataset(objects []*model.TrackedObject) {
	c.once.Do(func() {
		close(c.entered)
		<-c.release
	})
	c.recordingCommitter.ReplaceDataset(objects)
}

func TestRefresher_StaleCommitCannotLandAfterNewer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/elements/debris" {
			_, _ = w.Write([]byte("COSMOS 2251 DEB\n" +
				"1 34427U 93036SX  21275.00000000\n" +
				"2 34427\n"))
			return
		}
		_, _ = w.Write([]byte(testBatch))
	}))
	defer srv.Close()

	committer := &gatedCommitter{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	l := New(srv.URL, logging.Noop(), WithHTTPClient(srv.Client()))
	r := NewRefresher(l, committer, logging.Noop())

	// The first refresh fetches and passes its staleness check, then stalls
	// inside the commit. A second refresh supersedes it while it is stalled.
	first := r.Refresh(context.Background(), model.SourceActive)
	<-committer.entered
	second := r.Refresh(context.Background(), model.SourceDebris)

	// Let the superseding refresh try to commit. Commit serialization keeps
	// it waiting behind the stalled first commit rather than overtaking it.
	select {
	case <-second:
	case <-time.After(100 * time.Millisecond):
	}

	close(committer.release)
	<-first
	<-second

	committer.mu.Lock()
	defer committer.mu.Unlock()
	if len(committer.commits) == 0 {
		t.Fatal("no dataset committed")
	}
	last := committer.commits[len(committer.commits)-1]
	if len(last) != 1 {
		t.Fatalf("final committed dataset has %d objects, want 1", len(last))
	}
	if last[0].CatalogID != 34427 {
		t.Fatalf("final committed dataset is not the latest refresh's (catalog %d)", last[0].CatalogID)
	}
}
