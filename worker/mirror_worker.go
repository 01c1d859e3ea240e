package worker

import (
	"go.uber.org/zap"

	"github.com/the-web-girl/My-Library-App/log"
	"github.com/the-web-girl/My-Library-App/model"
	"github.com/the-web-girl/My-Library-App/store"
)

// MirrorWorker rewrites the JSON snapshot from the primary store after
// a mutation. The snapshot is a whole-collection replace, so a failed
// run leaves the previous snapshot intact.
type MirrorWorker struct {
	id      int
	primary store.Store
	mirror  *store.SnapshotStore
}

func (w *MirrorWorker) Run(c <-chan model.Job) {
	log.Debug("MirrorWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		if job.Type != model.JobTypeMirror {
			log.Warn("Skipping job of unknown type",
				zap.Int("worker_id", w.id),
				zap.String("job_type", job.Type))
			continue
		}

		books, err := w.primary.ListBooks(&model.FindBook{})
		if err != nil {
			log.Error("Mirror job failed to read primary store",
				zap.Int("worker_id", w.id),
				zap.String("reason", job.Reason),
				zap.Error(err))
			continue
		}
		if err := w.mirror.ReplaceAll(books); err != nil {
			log.Error("Mirror job failed to write snapshot",
				zap.Int("worker_id", w.id),
				zap.String("reason", job.Reason),
				zap.Error(err))
			continue
		}

		log.Debug("Snapshot mirrored",
			zap.Int("worker_id", w.id),
			zap.String("reason", job.Reason),
			zap.Int("books", len(books)))
	}
}
