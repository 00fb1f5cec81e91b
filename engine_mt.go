package rasterpaint

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/rasterpaint/internal/parallel"
)

// mtEngine is the multithreaded rendering backend: a single-producer
// multi-consumer command ring drained by band-interleaved workers.
//
// Publication protocol (producer): fill a record, store it into
// commands[pos], then advance pos with a release store. Workers load pos
// with acquire semantics, so a worker that observes index k sees every
// field of commands[0..k].
//
// Wake protocol: the post path never takes the lock or wakes anybody —
// commands batch until the next Flush, which broadcasts commandsReady.
// Workers that have drained everything published increment
// completedThreads and block on commandsReady; the last one to go idle
// signals commandsComplete to wake a pending Flush.
type mtEngine struct {
	commands []*command
	pos      atomic.Int64 // number of published commands

	mu               sync.Mutex
	commandsReady    *sync.Cond // workers wait here when idle
	commandsComplete *sync.Cond // flush waits here
	completedThreads int        // workers currently idle, guarded by mu
	shouldQuit       bool       // guarded by mu

	workers []*workerCtx
	threads []*parallel.Thread
	release sync.WaitGroup // signaled by each exiting worker
}

// workerCount resolves the MT thread count for the painter's tunables.
func (p *Painter) workerCount() int {
	n := runtime.GOMAXPROCS(0)
	if n > p.tun.MaxThreads {
		n = p.tun.MaxThreads
	}
	if n < 1 {
		n = 1
	}
	return n
}

// startMT acquires pool threads and starts the long-running worker
// tasks. Caller guarantees MT is currently off.
func (p *Painter) startMT() {
	n := p.workerCount()
	e := &mtEngine{
		commands: make([]*command, p.tun.MaxCommands),
		threads:  parallel.Default().Acquire(n),
	}
	e.commandsReady = sync.NewCond(&e.mu)
	e.commandsComplete = sync.NewCond(&e.mu)
	e.workers = make([]*workerCtx, n)
	for i := 0; i < n; i++ {
		e.workers[i] = newWorkerCtx(i, n, p.surf.Width, p.tun.ScratchSize)
	}
	e.release.Add(n)
	p.mt = e
	for i, t := range e.threads {
		w := e.workers[i]
		t.Do(func() { p.workerLoop(w) })
	}
	Logger().Debug("rasterpaint: multithreading enabled", "workers", n)
}

// stopMT flushes, tells every worker to quit, waits for the release
// event and returns the threads to the shared pool.
func (p *Painter) stopMT() {
	e := p.mt
	if e == nil {
		return
	}
	p.Flush()

	e.mu.Lock()
	e.shouldQuit = true
	e.commandsReady.Broadcast()
	e.mu.Unlock()

	e.release.Wait()
	parallel.Default().Release(e.threads)
	p.mt = nil
	Logger().Debug("rasterpaint: multithreading disabled")
}

// workerLoop is the long-running task of one worker thread.
//
// State machine: Running (drain published commands) -> Idle (wait on
// commandsReady) -> Running -> ... -> Quitting (shouldQuit observed with
// an empty ring) -> Dead (release signaled).
func (p *Painter) workerLoop(w *workerCtx) {
	e := p.mt
	defer e.release.Done()
	for {
		pos := e.pos.Load()
		for w.current.Load() < pos {
			cmd := e.commands[w.current.Load()]
			p.render(cmd, w)
			cmd.release()
			w.current.Add(1)
			pos = e.pos.Load()
		}

		e.mu.Lock()
		if w.current.Load() == e.pos.Load() {
			if e.shouldQuit {
				e.mu.Unlock()
				return
			}
			e.completedThreads++
			if e.completedThreads == len(e.workers) {
				e.commandsComplete.Broadcast()
			}
			e.commandsReady.Wait()
			e.completedThreads--
		}
		e.mu.Unlock()
	}
}

// postCommand publishes a record into the ring, flushing first when the
// ring is full.
func (p *Painter) postCommand(cmd *command) {
	e := p.mt
	pos := e.pos.Load()
	if pos == int64(len(e.commands)) {
		p.Flush()
		pos = 0
	}
	cmd.refs.Store(int32(len(e.workers)))
	e.commands[pos] = cmd
	e.pos.Store(pos + 1)
}

// flushMT drains the ring and resets it to slot zero. Producer only.
func (p *Painter) flushMT() {
	e := p.mt
	e.mu.Lock()
	for !e.drained() {
		e.commandsReady.Broadcast()
		e.commandsComplete.Wait()
	}
	// All workers idle with everything rendered: restart the ring.
	pos := e.pos.Load()
	for i := int64(0); i < pos; i++ {
		e.commands[i] = nil
	}
	e.pos.Store(0)
	for _, w := range e.workers {
		w.current.Store(0)
	}
	e.mu.Unlock()
}

// drained reports whether every worker is idle with no unprocessed
// commands. Caller holds e.mu.
func (e *mtEngine) drained() bool {
	if e.completedThreads != len(e.workers) {
		return false
	}
	pos := e.pos.Load()
	for _, w := range e.workers {
		if w.current.Load() != pos {
			return false
		}
	}
	return true
}
