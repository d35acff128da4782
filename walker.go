package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc"
)

// Pool sizing: never more than maxWalkWorkers, never more than
// NumCPU/coreShareDivisor. Traversal is dominated by I/O wait, so more
// goroutines than that only add contention.
const (
	maxWalkWorkers   = 4
	coreShareDivisor = 2
)

// threadCoreMultiple bounds an explicit --threads value to a multiple of NumCPU.
const threadCoreMultiple = 4

// maxThreads returns the largest pool size accepted from configuration.
func maxThreads() int {
	return threadCoreMultiple * runtime.NumCPU()
}

// defaultWorkers returns the pool size used when none is configured.
func defaultWorkers() int {
	n := runtime.NumCPU() / coreShareDivisor
	if n > maxWalkWorkers {
		n = maxWalkWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// RuleLoader yields the ignore rules in effect in each directory.
type RuleLoader interface {
	RootRules() *DirRules
	Enter(parent *DirRules, rel []string) *DirRules
}

// Walker traverses a directory tree with a fixed number of goroutines.
type Walker struct {
	cfg   WalkConfig
	pred  *Predicate
	rules RuleLoader
	log   *Logger
}

// NewWalker creates a Walker. rules may be nil, in which case no ignore files
// are consulted.
func NewWalker(cfg WalkConfig, pred *Predicate, rules RuleLoader, log *Logger) *Walker {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers()
	}
	return &Walker{cfg: cfg, pred: pred, rules: rules, log: log}
}

// dirTask is a directory whose children still have to be read.
type dirTask struct {
	path    string
	rel     []string
	depth   int
	rules   *DirRules
	entered bool // rules already include this directory's own ignore files
}

// Walk visits every accepted entry exactly once. visit is called from
// several goroutines at the same time and must be safe for that. Unreadable
// directories are skipped; Walk itself never fails.
func (w *Walker) Walk(visit func(Entry)) {
	root := w.cfg.Root
	info, err := os.Stat(root)
	if err != nil {
		w.log.Debugf("skipping walk root %s: %v", root, err)
		return
	}

	var rules *DirRules
	if w.rules != nil {
		rules = w.rules.RootRules()
	}

	rootCand := Candidate{
		Path:  root,
		Name:  filepath.Base(root),
		Type:  fileTypeFromMode(info.Mode()),
		Depth: 0,
	}
	w.log.Tracef("walking %s %s with %d workers", rootCand.Type, root, w.cfg.Workers)
	if w.pred.Accept(rules, rootCand) {
		visit(Entry{Path: root, Type: rootCand.Type, Depth: 0})
	}
	if !w.pred.Descend(rules, rootCand) {
		return
	}

	q := newWorkQueue()
	q.push(dirTask{path: root, rules: rules, entered: true})

	var wg conc.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Go(func() {
			for {
				task, ok := q.pop()
				if !ok {
					return
				}
				w.readDir(q, task, visit)
				q.finish()
			}
		})
	}
	wg.Wait()
}

// readDir evaluates the children of one directory and queues the
// subdirectories that should be descended.
func (w *Walker) readDir(q *workQueue, task dirTask, visit func(Entry)) {
	rules := task.rules
	if !task.entered && w.rules != nil {
		rules = w.rules.Enter(task.rules, task.rel)
	}

	// os.ReadDir returns what it read before failing, so partial listings
	// still get processed.
	children, err := os.ReadDir(task.path)
	if err != nil {
		w.log.Debugf("skipping unreadable directory %s: %v", task.path, err)
	}

	for _, child := range children {
		name := child.Name()
		rel := make([]string, len(task.rel)+1)
		copy(rel, task.rel)
		rel[len(task.rel)] = name

		cand := Candidate{
			Path:  joinPath(task.path, name),
			Rel:   rel,
			Name:  name,
			Depth: task.depth + 1,
		}
		cand.Type = w.resolveType(child, cand.Path)

		if w.pred.Accept(rules, cand) {
			visit(Entry{
				Path:    cand.Path,
				Type:    cand.Type,
				Depth:   cand.Depth,
				LinkDir: cand.Type == FileTypeSymlink && targetIsDir(cand.Path),
			})
		}
		if w.pred.Descend(rules, cand) {
			q.push(dirTask{path: cand.Path, rel: rel, depth: cand.Depth, rules: rules})
		}
	}
}

// resolveType returns the entry's type, following symlinks when configured.
// A dangling link stays a symlink.
func (w *Walker) resolveType(d fs.DirEntry, path string) FileType {
	mode := d.Type()
	if mode&fs.ModeSymlink != 0 && w.cfg.FollowSymlinks {
		info, err := os.Stat(path)
		if err != nil {
			w.log.Debugf("dangling symlink %s: %v", path, err)
			return FileTypeSymlink
		}
		return fileTypeFromMode(info.Mode())
	}
	return fileTypeFromMode(mode)
}

// targetIsDir reports whether the symlink at path resolves to a directory.
func targetIsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// workQueue is an unbounded LIFO of directory tasks. pending counts tasks
// pushed but not yet finished; the walk is over when it drops to zero.
type workQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []dirTask
	pending int
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *workQueue) push(t dirTask) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.pending++
	q.mu.Unlock()
	q.cond.Signal()
}

// pop blocks until a task is available or all work is done.
func (q *workQueue) pop() (dirTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.tasks) == 0 && q.pending > 0 {
		q.cond.Wait()
	}
	if len(q.tasks) == 0 {
		return dirTask{}, false
	}
	last := len(q.tasks) - 1
	t := q.tasks[last]
	q.tasks[last] = dirTask{}
	q.tasks = q.tasks[:last]
	return t, true
}

func (q *workQueue) finish() {
	q.mu.Lock()
	q.pending--
	done := q.pending == 0
	q.mu.Unlock()
	if done {
		q.cond.Broadcast()
	}
}
