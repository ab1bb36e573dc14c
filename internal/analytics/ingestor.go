package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kestrelhq/model-registry/internal/store"
	"github.com/kestrelhq/model-registry/internal/store/model"
)

// Ingestor persists request logs asynchronously so the serving path never
// waits on the database.
type Ingestor interface {
	Log(log *model.RequestLog)
	Start()
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	logChan   chan *model.RequestLog
	batchSize int
	flushTime time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ingestor{
		logger:    logger,
		repo:      repo,
		logChan:   make(chan *model.RequestLog, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
		done:      make(chan struct{}),
	}
}

// Log enqueues without blocking; a full buffer drops the entry. A stopped
// ingestor drops silently instead of panicking on the closed channel.
func (i *ingestor) Log(log *model.RequestLog) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return
	}
	select {
	case i.logChan <- log:
	default:
		i.logger.Warn("analytics buffer full, dropping log", zap.String("request_id", log.ID))
	}
}

// Start launches the worker. Its lifecycle is owned by Stop, not by any
// request or signal context, so entries logged while the server drains
// in-flight requests are still persisted.
func (i *ingestor) Start() {
	go i.worker()
}

// Stop closes intake and blocks until the final flush has run. Idempotent.
func (i *ingestor) Stop() {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return
	}
	i.closed = true
	close(i.logChan)
	i.mu.Unlock()
	<-i.done
}

func (i *ingestor) worker() {
	defer close(i.done)

	batch := make([]*model.RequestLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// One transaction per batch; a failed batch is logged and dropped
		// rather than retried, so the channel never backs up.
		err := i.repo.WithTx(context.Background(), func(repo store.Repository) error {
			for _, entry := range batch {
				if err := repo.Requests().Log(context.Background(), entry); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			i.logger.Error("failed to persist request log batch",
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-i.logChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
