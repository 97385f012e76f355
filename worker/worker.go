package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"
	"go.uber.org/zap"

	"goalwise/api/db"
	"goalwise/api/logger"
	"goalwise/api/models"
)

// PlaidClient is set once at startup, before the pool starts.
var PlaidClient *plaid.APIClient

type WorkerPool struct {
	workers    int
	partitions []chan []byte
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	// Metrics
	mu                 sync.RWMutex
	jobsProcessed      uint64
	jobsFailed         uint64
	processingDuration uint64
	bufferFillLevels   []uint64
	jobsDropped        uint64
}

func NewWorkerPool(workers int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	partitions := make([]chan []byte, workers)
	bufferLevels := make([]uint64, workers)
	for i := range partitions {
		partitions[i] = make(chan []byte, 100) // Buffer size of 100 per partition
	}
	return &WorkerPool{
		workers:          workers,
		partitions:       partitions,
		ctx:              ctx,
		cancelFunc:       cancel,
		bufferFillLevels: bufferLevels,
	}
}

func (wp *WorkerPool) Start() {
	logger.Get().Info("Starting worker pool", zap.Int("workers", wp.workers))
	for i := range wp.partitions {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) Stop() {
	logger.Get().Info("Stopping worker pool")
	wp.cancelFunc()
	for _, ch := range wp.partitions {
		close(ch)
	}
	wp.wg.Wait()
}

// Submit routes a job to the worker owning the Kafka partition it came
// from, so syncs for the same item never run concurrently.
func (wp *WorkerPool) Submit(job []byte, partition int32) {
	idx := int(partition) % len(wp.partitions)
	if idx < 0 {
		wp.mu.Lock()
		wp.jobsDropped++
		wp.mu.Unlock()
		logger.Get().Error("Invalid partition number",
			zap.Int32("partition", partition))
		return
	}

	wp.mu.Lock()
	wp.bufferFillLevels[idx]++
	wp.mu.Unlock()

	select {
	case wp.partitions[idx] <- job:
		logger.Get().Debug("Job submitted to worker pool",
			zap.Int32("partition", partition))
	case <-wp.ctx.Done():
		wp.mu.Lock()
		wp.jobsDropped++
		wp.mu.Unlock()
		logger.Get().Warn("Worker pool is stopped, job not submitted")
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	logger.Get().Info("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case job, ok := <-wp.partitions[id]:
			if !ok {
				logger.Get().Info("Worker stopping", zap.Int("worker_id", id))
				return
			}

			wp.mu.Lock()
			wp.bufferFillLevels[id]--
			wp.mu.Unlock()

			startTime := time.Now()
			wp.processJob(id, job)

			wp.mu.Lock()
			wp.jobsProcessed++
			wp.processingDuration += uint64(time.Since(startTime).Milliseconds())
			wp.mu.Unlock()

		case <-wp.ctx.Done():
			logger.Get().Info("Worker stopping due to context cancellation",
				zap.Int("worker_id", id))
			return
		}
	}
}

func (wp *WorkerPool) processJob(id int, payload []byte) {
	var job models.TransactionsJob
	if err := json.Unmarshal(payload, &job); err != nil {
		wp.mu.Lock()
		wp.jobsDropped++
		wp.mu.Unlock()
		logger.Get().Error("Failed to unmarshal sync job",
			zap.Int("worker_id", id),
			zap.Error(err))
		return
	}

	logger.Get().Debug("Processing sync job",
		zap.Int("worker_id", id),
		zap.String("job_id", job.JobID),
		zap.String("item_id", job.ItemID))

	if err := db.UpdatePlaidItemSyncState(job.ItemID, nil, models.TransactionsJobInProgress); err != nil {
		logger.Get().Warn("Failed to mark item in progress",
			zap.String("item_id", job.ItemID),
			zap.Error(err))
	}

	cursor, err := wp.syncItem(job)
	if err != nil {
		wp.mu.Lock()
		wp.jobsFailed++
		wp.mu.Unlock()
		logger.Get().Error("Transactions sync failed",
			zap.Int("worker_id", id),
			zap.String("item_id", job.ItemID),
			zap.Error(err))
		if err := db.UpdatePlaidItemSyncState(job.ItemID, cursor, models.TransactionsJobFailed); err != nil {
			logger.Get().Error("Failed to mark item failed",
				zap.String("item_id", job.ItemID),
				zap.Error(err))
		}
		return
	}

	if err := db.UpdatePlaidItemSyncState(job.ItemID, cursor, models.TransactionsJobIdle); err != nil {
		logger.Get().Error("Failed to record sync cursor",
			zap.String("item_id", job.ItemID),
			zap.Error(err))
	}
	if err := db.UpdateLastSynced(job.UserID, time.Now()); err != nil {
		logger.Get().Warn("Failed to update last synced timestamp",
			zap.String("user_id", job.UserID),
			zap.Error(err))
	}

	logger.Get().Info("Transactions sync complete",
		zap.Int("worker_id", id),
		zap.String("job_id", job.JobID),
		zap.String("item_id", job.ItemID))
}

// syncItem walks the TransactionsSync cursor until Plaid reports no more
// pages, applying added, modified and removed transactions along the way.
// The last cursor that made it to Postgres is returned even on failure so
// a retry resumes instead of starting over.
func (wp *WorkerPool) syncItem(job models.TransactionsJob) (*string, error) {
	cursor := job.Cursor
	hasMore := true

	for hasMore {
		request := plaid.NewTransactionsSyncRequest(job.AccessToken)
		if cursor != nil && *cursor != "" {
			request.SetCursor(*cursor)
		}

		resp, _, err := PlaidClient.PlaidApi.TransactionsSync(wp.ctx).
			TransactionsSyncRequest(*request).Execute()
		if err != nil {
			return cursor, err
		}

		for _, txn := range resp.GetAdded() {
			if err := db.UpsertTransaction(job.UserID, convertTransaction(txn)); err != nil {
				return cursor, err
			}
		}
		for _, txn := range resp.GetModified() {
			if err := db.UpsertTransaction(job.UserID, convertTransaction(txn)); err != nil {
				return cursor, err
			}
		}

		removed := make([]string, 0, len(resp.GetRemoved()))
		for _, r := range resp.GetRemoved() {
			removed = append(removed, r.GetTransactionId())
		}
		if err := db.DeleteTransactionsByPlaidIDs(removed); err != nil {
			return cursor, err
		}

		next := resp.GetNextCursor()
		cursor = &next
		hasMore = resp.GetHasMore()
	}

	return cursor, nil
}

func convertTransaction(txn plaid.Transaction) models.Transaction {
	category := ""
	if cats := txn.GetCategory(); len(cats) > 0 {
		category = cats[0]
	}

	return models.Transaction{
		TransactionID: txn.GetTransactionId(),
		Date:          txn.GetDate(),
		Amount:        txn.GetAmount(),
		Name:          txn.GetName(),
		MerchantName:  txn.GetMerchantName(),
		Category:      category,
		Pending:       txn.GetPending(),
	}
}

// MetricsHandler returns the current metrics as JSON
func (wp *WorkerPool) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	var avgProcessingTime float64
	if wp.jobsProcessed > 0 {
		avgProcessingTime = float64(wp.processingDuration) / float64(wp.jobsProcessed)
	}

	metrics := map[string]any{
		"jobs_processed":    wp.jobsProcessed,
		"jobs_failed":       wp.jobsFailed,
		"jobs_dropped":      wp.jobsDropped,
		"avg_processing_ms": avgProcessingTime,
		"buffer_levels":     wp.bufferFillLevels,
		"active_workers":    wp.workers,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}
