package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tenanthub/internal/database"
	"tenanthub/internal/export"
	"tenanthub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func TestEnqueueExport(t *testing.T) {
	db := newTestDB(t)
	worker := newTestWorker(t, db, nil)
	ctx := context.Background()

	t.Run("Bookings", func(t *testing.T) {
		if err := worker.EnqueueExport(ctx, models.ExportTypeBookings); err != nil {
			t.Fatalf("enqueue: %v", err)
		}

		task, ok := worker.tryLocalQueue()
		if !ok {
			t.Fatalf("expected task in local queue")
		}
		if task.TaskType != models.ExportTypeBookings {
			t.Fatalf("expected bookings task, got %s", task.TaskType)
		}

		var payload exportPayload
		if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		start, err := time.Parse("2006-01-02", payload.StartDate)
		if err != nil {
			t.Fatalf("bad start date %q: %v", payload.StartDate, err)
		}
		end, err := time.Parse("2006-01-02", payload.EndDate)
		if err != nil {
			t.Fatalf("bad end date %q: %v", payload.EndDate, err)
		}
		if got := int(end.Sub(start).Hours() / 24); got != 30 {
			t.Fatalf("expected 30-day default window, got %d days", got)
		}
	})

	t.Run("Payments", func(t *testing.T) {
		if err := worker.EnqueueExport(ctx, models.ExportTypePayments); err != nil {
			t.Fatalf("enqueue: %v", err)
		}

		task, ok := worker.tryLocalQueue()
		if !ok {
			t.Fatalf("expected task in local queue")
		}
		var payload exportPayload
		if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.StartDate != "" || payload.EndDate != "" {
			t.Fatalf("payments payload should carry no window, got %+v", payload)
		}
	})

	t.Run("UnknownType", func(t *testing.T) {
		if err := worker.EnqueueExport(ctx, "bogus"); err == nil {
			t.Fatalf("expected error for unknown export type")
		}
	})

	t.Run("Persisted", func(t *testing.T) {
		tasks, err := db.GetPendingExportTasks(ctx, 10)
		if err != nil {
			t.Fatalf("pending tasks: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 persisted tasks, got %d", len(tasks))
		}
	})
}

func TestEnqueueExport_RedisWakeup(t *testing.T) {
	db := newTestDB(t)
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	worker := newTestWorker(t, db, client)
	ctx := context.Background()

	if err := worker.EnqueueExport(ctx, models.ExportTypePayments); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// Задача ушла в redis, локальная очередь пуста
	if _, ok := worker.tryLocalQueue(); ok {
		t.Fatalf("task should go to redis, not the local queue")
	}

	raw, err := s.Lpop(worker.redisQueueKey)
	if err != nil {
		t.Fatalf("lpop: %v", err)
	}
	var task models.ExportTask
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.ID == 0 || task.TaskType != models.ExportTypePayments {
		t.Fatalf("unexpected redis task: %+v", task)
	}
}

func TestProcessTaskSuccess(t *testing.T) {
	db := newTestDB(t)
	logger := zerolog.Nop()
	exportDir := t.TempDir()
	exporter := export.NewExporter(db, db, exportDir, &logger)
	worker := NewExportWorker(db, exporter, nil, RetryPolicy{}, &logger)
	ctx := context.Background()

	if err := worker.EnqueueExport(ctx, models.ExportTypeBookings); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	task, ok := worker.tryLocalQueue()
	if !ok {
		t.Fatalf("expected task in local queue")
	}

	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusCompleted {
		t.Fatalf("expected status=completed, got %s", status)
	}
	if retryCount != 0 {
		t.Fatalf("expected retry_count=0, got %d", retryCount)
	}
	if nextRetry.Valid {
		t.Fatalf("expected next_retry_at NULL on success")
	}

	entries, err := os.ReadDir(exportDir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".xlsx") {
		t.Fatalf("expected one xlsx report, got %v", entries)
	}
}

func TestProcessTaskRetry(t *testing.T) {
	db := newTestDB(t)
	worker := newBrokenWorker(t, db, nil, RetryPolicy{MaxRetries: 3, InitialDelay: time.Second})
	ctx := context.Background()

	if err := worker.EnqueueExport(ctx, models.ExportTypePayments); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	task, _ := worker.tryLocalQueue()
	worker.processTask(ctx, &task)

	status, retryCount, nextRetry := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusRetry {
		t.Fatalf("expected status=retry, got %s", status)
	}
	if retryCount != 1 {
		t.Fatalf("expected retry_count=1, got %d", retryCount)
	}
	if !nextRetry.Valid || nextRetry.Time.Before(time.Now()) {
		t.Fatalf("expected next_retry_at in future, got %v", nextRetry)
	}
}

func TestProcessTaskFail(t *testing.T) {
	db := newTestDB(t)
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	worker := newBrokenWorker(t, db, client, RetryPolicy{MaxRetries: 1, InitialDelay: time.Second})
	ctx := context.Background()

	if err := worker.EnqueueExport(ctx, models.ExportTypePayments); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	// Достаём задачу из redis, как это сделал бы основной цикл
	task, ok := worker.tryRedis(ctx)
	if !ok {
		t.Fatalf("expected task in redis queue")
	}
	worker.processTask(ctx, &task)

	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusFailed {
		t.Fatalf("expected status=failed, got %s", status)
	}

	failed, err := db.GetFailedExportTasks(ctx)
	if err != nil {
		t.Fatalf("failed tasks: %v", err)
	}
	if len(failed) != 1 || failed[0].LastError == nil || *failed[0].LastError == "" {
		t.Fatalf("expected one failed task with last_error, got %+v", failed)
	}

	dead, err := s.Lpop(worker.deadLetterKey)
	if err != nil {
		t.Fatalf("expected deadletter entry: %v", err)
	}
	var deadTask models.ExportTask
	if err := json.Unmarshal([]byte(dead), &deadTask); err != nil {
		t.Fatalf("decode deadletter: %v", err)
	}
	if deadTask.ID != task.ID {
		t.Fatalf("expected task %d in deadletter, got %d", task.ID, deadTask.ID)
	}
}

func TestProcessTask_BadPayload(t *testing.T) {
	db := newTestDB(t)
	worker := newTestWorker(t, db, nil)
	ctx := context.Background()

	task := models.ExportTask{
		TaskType: models.ExportTypeBookings,
		Payload:  `not json`,
		Status:   models.TaskStatusPending,
	}
	if err := db.CreateExportTask(ctx, &task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	worker.processTask(ctx, &task)

	// Нечитаемый payload не имеет смысла ретраить
	status, _, _ := loadTaskStatus(t, db, task.ID)
	if status != models.TaskStatusFailed {
		t.Fatalf("expected status=failed, got %s", status)
	}
}

func TestTryRedis_EmptyQueue(t *testing.T) {
	db := newTestDB(t)
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	worker := newTestWorker(t, db, client)
	if _, ok := worker.tryRedis(context.Background()); ok {
		t.Fatalf("expected no task from empty redis queue")
	}
}

// Helpers

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.db")
	logger := zerolog.Nop()
	db, err := database.NewDB(path, &logger)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestWorker(t *testing.T, db *database.DB, client *redis.Client) *ExportWorker {
	t.Helper()
	logger := zerolog.Nop()
	exporter := export.NewExporter(db, db, t.TempDir(), &logger)
	return NewExportWorker(db, exporter, client, RetryPolicy{}, &logger)
}

// newBrokenWorker points the exporter at a path occupied by a regular file,
// so every export attempt fails on MkdirAll.
func newBrokenWorker(t *testing.T, db *database.DB, client *redis.Client, retry RetryPolicy) *ExportWorker {
	t.Helper()
	logger := zerolog.Nop()
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	exporter := export.NewExporter(db, db, filepath.Join(blocked, "exports"), &logger)
	return NewExportWorker(db, exporter, client, retry, &logger)
}

func loadTaskStatus(t *testing.T, db *database.DB, id int64) (status string, retryCount int, nextRetry sql.NullTime) {
	t.Helper()
	row := db.QueryRowContext(context.Background(), `SELECT status, retry_count, next_retry_at FROM export_queue WHERE id = ?`, id)
	if err := row.Scan(&status, &retryCount, &nextRetry); err != nil {
		t.Fatalf("scan task: %v", err)
	}
	return status, retryCount, nextRetry
}
