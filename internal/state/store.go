package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/castorlabs/crew/internal/orchestrator"
	"github.com/castorlabs/crew/pkg/models"
)

// SaveSnapshot replaces the stored scheduling state with the snapshot's
// contents. The write is transactional: either the whole snapshot lands
// or nothing changes.
func (db *DB) SaveSnapshot(s *orchestrator.Snapshot) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"workflow_tasks", "workflows", "queued", "completed", "tasks"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	// A task can appear both on the queue and inside a workflow; write
	// each distinct id once.
	written := make(map[string]bool)
	insertTask := func(t *models.Task) error {
		if written[t.ID] {
			return nil
		}
		written[t.ID] = true

		meta, err := json.Marshal(t.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", t.ID, err)
		}
		deps, err := json.Marshal(t.DependsOn)
		if err != nil {
			return fmt.Errorf("marshal depends_on for %s: %w", t.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO tasks (id, kind, content, sender, recipient, priority, metadata, depends_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, string(t.Kind), t.Content, t.Sender, t.Recipient, t.Priority, string(meta), string(deps))
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
		return nil
	}

	for i, t := range s.Queued {
		if err := insertTask(t); err != nil {
			return err
		}
		if _, err := tx.Exec("INSERT INTO queued (position, task_id) VALUES (?, ?)", i, t.ID); err != nil {
			return fmt.Errorf("insert queued %s: %w", t.ID, err)
		}
	}

	for i, id := range s.Completed {
		if _, err := tx.Exec("INSERT INTO completed (position, task_id) VALUES (?, ?)", i, id); err != nil {
			return fmt.Errorf("insert completed %s: %w", id, err)
		}
	}

	for wi, wf := range s.Workflows {
		if _, err := tx.Exec("INSERT INTO workflows (id, position) VALUES (?, ?)", wf.ID, wi); err != nil {
			return fmt.Errorf("insert workflow %s: %w", wf.ID, err)
		}
		for ti, t := range wf.Tasks {
			if err := insertTask(t); err != nil {
				return err
			}
			_, err := tx.Exec("INSERT INTO workflow_tasks (workflow_id, task_id, position) VALUES (?, ?, ?)",
				wf.ID, t.ID, ti)
			if err != nil {
				return fmt.Errorf("insert workflow task %s: %w", t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored scheduling state. An empty database
// yields an empty snapshot, not an error.
func (db *DB) LoadSnapshot() (*orchestrator.Snapshot, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tasks := make(map[string]*models.Task)
	rows, err := db.conn.Query("SELECT id, kind, content, sender, recipient, priority, metadata, depends_on FROM tasks")
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t models.Task
		var kind, meta, deps string
		if err := rows.Scan(&t.ID, &kind, &t.Content, &t.Sender, &t.Recipient, &t.Priority, &meta, &deps); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Kind = models.Kind(kind)
		if meta != "" && meta != "null" {
			if err := json.Unmarshal([]byte(meta), &t.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata for %s: %w", t.ID, err)
			}
		}
		if deps != "" && deps != "null" {
			if err := json.Unmarshal([]byte(deps), &t.DependsOn); err != nil {
				return nil, fmt.Errorf("unmarshal depends_on for %s: %w", t.ID, err)
			}
		}
		tasks[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	s := &orchestrator.Snapshot{}

	ids, err := db.orderedIDs("SELECT task_id FROM queued ORDER BY position")
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		t, ok := tasks[id]
		if !ok {
			return nil, fmt.Errorf("queued task %s missing from tasks table", id)
		}
		s.Queued = append(s.Queued, t)
	}

	s.Completed, err = db.orderedIDs("SELECT task_id FROM completed ORDER BY position")
	if err != nil {
		return nil, err
	}

	wfIDs, err := db.orderedIDs("SELECT id FROM workflows ORDER BY position")
	if err != nil {
		return nil, err
	}
	for _, wid := range wfIDs {
		taskIDs, err := db.orderedIDs(
			"SELECT task_id FROM workflow_tasks WHERE workflow_id = ? ORDER BY position", wid)
		if err != nil {
			return nil, err
		}
		wf := &models.Workflow{ID: wid}
		for _, id := range taskIDs {
			t, ok := tasks[id]
			if !ok {
				return nil, fmt.Errorf("workflow %s task %s missing from tasks table", wid, id)
			}
			wf.Tasks = append(wf.Tasks, t)
		}
		s.Workflows = append(s.Workflows, wf)
	}

	return s, nil
}

func (db *DB) orderedIDs(query string, args ...any) ([]string, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// RunRecord is a persisted team run outcome.
type RunRecord struct {
	ID         string    `json:"id"`
	Outcome    string    `json:"outcome"`
	RoundsRun  int       `json:"rounds_run"`
	Investment float64   `json:"investment"`
	TotalCost  float64   `json:"total_cost"`
	History    []string  `json:"history"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveRun records a finished team run.
func (db *DB) SaveRun(rec RunRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	history, err := json.Marshal(rec.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err = db.conn.Exec(`
		INSERT INTO runs (id, outcome, rounds_run, investment, total_cost, history, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Outcome, rec.RoundsRun, rec.Investment, rec.TotalCost,
		string(history), formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	return nil
}

// ListRuns returns stored runs, most recent first, capped at limit.
// A limit of 0 or less means no cap.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	query := "SELECT id, outcome, rounds_run, investment, total_cost, history, created_at FROM runs ORDER BY created_at DESC"
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.conn.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.conn.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var history, created string
		if err := rows.Scan(&rec.ID, &rec.Outcome, &rec.RoundsRun, &rec.Investment,
			&rec.TotalCost, &history, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if history != "" && history != "null" {
			if err := json.Unmarshal([]byte(history), &rec.History); err != nil {
				return nil, fmt.Errorf("unmarshal history for %s: %w", rec.ID, err)
			}
		}
		rec.CreatedAt, err = parseTime(created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
