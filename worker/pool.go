package worker // import "github.com/the-web-girl/My-Library-App/worker"

import (
	"github.com/the-web-girl/My-Library-App/model"
	"github.com/the-web-girl/My-Library-App/store"
)

// Pool runs background mirror jobs so API mutations never wait on the
// snapshot file.
type Pool struct {
	queue chan model.Job
}

// NewPool creates a pool of background workers mirroring the primary
// store into the JSON snapshot.
func NewPool(primary store.Store, mirror *store.SnapshotStore, size int) *Pool {
	pool := &Pool{
		queue: make(chan model.Job, size*4),
	}

	for i := 0; i < size; i++ {
		worker := &MirrorWorker{id: i, primary: primary, mirror: mirror}
		go worker.Run(pool.queue)
	}

	return pool
}

func (p *Pool) GetQueue() chan model.Job {
	return p.queue
}

// Push enqueues a job without blocking the caller, a full queue drops
// the job since the next mutation schedules a fresh mirror anyway.
func (p *Pool) Push(job model.Job) {
	select {
	case p.queue <- job:
	default:
	}
}
