package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/INLOpen/vectree"
)

const (
	// progressEvery is the number of operations between two progress lines of a worker.
	progressEvery = 100_000
	// traverseLimit caps the nodes visited by one traversal.
	traverseLimit = 4096
)

// Observer is told about every operation a Runner issues.
// ok is false when the tree refused or ignored the operation (stale Index, cycle).
type Observer interface {
	ObserveOp(op string, ok bool)
}

// Result summarises a finished run.
type Result struct {
	Ops      map[string]int // operations issued, per name
	Rejected int            // operations the tree refused or ignored
	Final    vectree.Stats
	Elapsed  time.Duration
}

// Runner issues a Config's operations against a shared tree.
type Runner struct {
	cfg      Config
	log      zerolog.Logger
	observer Observer
	weights  []weighted
	total    int
}

type weighted struct {
	op     string
	weight int
}

// NewRunner validates cfg and returns a runner for it. observer may be nil.
func NewRunner(cfg Config, log zerolog.Logger, observer Observer) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg, log: log, observer: observer}
	for _, op := range Operations {
		if w := cfg.Mix[op]; w > 0 {
			r.weights = append(r.weights, weighted{op, w})
			r.total += w
		}
	}
	return r, nil
}

// NewTree builds an empty tree with the configured growth policy.
func (r *Runner) NewTree() *vectree.Synced[int] {
	return vectree.NewSynced(vectree.New[int](r.cfg.Growth.Options()...))
}

// Run splits the configured operations between the workers and runs them against
// tree until done or until ctx is cancelled. A structural check failure aborts
// every worker.
func (r *Runner) Run(ctx context.Context, tree *vectree.Synced[int]) (Result, error) {
	start := time.Now()
	res := Result{Ops: make(map[string]int, len(Operations))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for w := range r.cfg.Workers {
		n := r.cfg.Items / r.cfg.Workers
		if w < r.cfg.Items%r.cfg.Workers {
			n++
		}
		g.Go(func() error {
			wr := newWorker(r, w, tree)
			err := wr.run(gctx, n)
			mu.Lock()
			for op, c := range wr.ops {
				res.Ops[op] += c
			}
			res.Rejected += wr.rejected
			mu.Unlock()
			return err
		})
	}
	err := g.Wait()

	res.Final = tree.Stats()
	res.Elapsed = time.Since(start)
	if err != nil {
		return res, err
	}
	var verr error
	tree.View(func(t *vectree.Tree[int]) { verr = t.Validate() })
	if verr != nil {
		return res, fmt.Errorf("tree corrupt after run: %w", verr)
	}
	r.log.Info().
		Int("ops", r.cfg.Items).
		Int("rejected", res.Rejected).
		Int("len", res.Final.Len).
		Int("capacity", res.Final.Capacity).
		Int("grows", res.Final.Grows).
		Dur("elapsed", res.Elapsed).
		Msg("workload finished")
	return res, nil
}

// worker owns a random stream and a bounded set of Indexes it has seen.
type worker struct {
	r        *Runner
	id       int
	tree     *vectree.Synced[int]
	rng      *rand.Rand
	handles  []vectree.Index
	ops      map[string]int
	rejected int
	next     int
}

func newWorker(r *Runner, id int, tree *vectree.Synced[int]) *worker {
	return &worker{
		r:    r,
		id:   id,
		tree: tree,
		rng:  rand.New(rand.NewPCG(r.cfg.Seed, uint64(id))),
		ops:  make(map[string]int, len(Operations)),
		next: id << 40,
	}
}

func (w *worker) run(ctx context.Context, n int) error {
	log := w.r.log.With().Int("worker", w.id).Logger()
	log.Debug().Int("ops", n).Msg("worker started")
	for k := 1; k <= n; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		op := w.pick()
		ok, err := w.do(op)
		if err != nil {
			return fmt.Errorf("worker %d, %s: %w", w.id, op, err)
		}
		w.ops[op]++
		if !ok {
			w.rejected++
		}
		if w.r.observer != nil {
			w.r.observer.ObserveOp(op, ok)
		}

		if every := w.r.cfg.ValidateEvery; every > 0 && k%every == 0 {
			var verr error
			w.tree.View(func(t *vectree.Tree[int]) { verr = t.Validate() })
			if verr != nil {
				return fmt.Errorf("worker %d after %d ops: %w", w.id, k, verr)
			}
		}
		if k%progressEvery == 0 {
			log.Debug().Int("done", k).Int("len", w.tree.Len()).Msg("progress")
		}
	}
	return nil
}

func (w *worker) pick() string {
	x := w.rng.IntN(w.r.total)
	for _, c := range w.r.weights {
		if x < c.weight {
			return c.op
		}
		x -= c.weight
	}
	return w.r.weights[len(w.r.weights)-1].op
}

// handle returns a remembered Index, possibly stale, or the zero Index.
func (w *worker) handle() vectree.Index {
	if len(w.handles) == 0 {
		return vectree.Index{}
	}
	return w.handles[w.rng.IntN(len(w.handles))]
}

func (w *worker) remember(i vectree.Index) {
	if len(w.handles) < w.r.cfg.Handles {
		w.handles = append(w.handles, i)
		return
	}
	w.handles[w.rng.IntN(len(w.handles))] = i
}

func (w *worker) value() int {
	w.next++
	return w.next
}

// do issues one operation. It reports whether the tree applied it; the error is
// reserved for failures that must stop the run.
func (w *worker) do(op string) (bool, error) {
	switch op {
	case OpInsert:
		return w.insert()
	case OpRemove:
		var ok bool
		_ = w.tree.Update(func(t *vectree.Tree[int]) error {
			_, ok = t.Remove(w.handle())
			return nil
		})
		return ok, nil
	case OpFork:
		var (
			sibling vectree.Index
			ok      bool
		)
		_ = w.tree.Update(func(t *vectree.Tree[int]) error {
			sibling, ok = t.Fork(w.handle(), w.value(), w.value())
			return nil
		})
		if ok {
			w.remember(sibling)
		}
		return ok, nil
	case OpMerge:
		return w.merge(), nil
	case OpMove:
		err := w.tree.Update(func(t *vectree.Tree[int]) error {
			return t.AppendChild(w.handle(), w.handle())
		})
		if errors.Is(err, vectree.ErrCycle) || errors.Is(err, vectree.ErrInvalidIndex) {
			return false, nil
		}
		return err == nil, err
	case OpTraverse:
		var visited int
		w.tree.View(func(t *vectree.Tree[int]) {
			for range t.Descendants(w.handle()) {
				if visited++; visited == traverseLimit {
					return
				}
			}
		})
		return visited > 0, nil
	}
	return false, fmt.Errorf("unknown operation %q", op)
}

// insert hangs a new node under a remembered node, under the root when that node is
// gone, or starts a new root in an empty tree.
func (w *worker) insert() (bool, error) {
	var i vectree.Index
	err := w.tree.Update(func(t *vectree.Tree[int]) error {
		parent := w.handle()
		if !t.Contains(parent) {
			root, ok := t.Root()
			if !ok {
				i = t.InsertRoot(w.value())
				return nil
			}
			parent = root
		}
		var err error
		i, err = t.Insert(w.value(), parent)
		return err
	})
	if err != nil {
		return false, err
	}
	w.remember(i)
	return true, nil
}

// merge fuses a remembered node into its next sibling, if it has one.
func (w *worker) merge() bool {
	var merged bool
	_ = w.tree.Update(func(t *vectree.Tree[int]) error {
		a := w.handle()
		for b := range t.FollowingSiblings(a) {
			if b == a {
				continue
			}
			t.Merge(a, b)
			merged = !t.Contains(a)
			break
		}
		return nil
	})
	return merged
}
