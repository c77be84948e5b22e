package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
	"github.com/oklog/ulid/v2"
)

// Table names for the run ledger.
const (
	runsTable         = "pathways_runs"
	actionScoresTable = "pathways_action_scores"
)

// RunStoreImpl records every command run and the actions it ranked.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore opens the backend and makes sure the ledger tables exist.
// The none backend yields a store that records nothing.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetRunsDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{actionScoresTable, getCreateActionScoresQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for pathways_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_key CHAR(26) NOT NULL,
				command VARCHAR(32) NOT NULL,
				dataset_digest VARCHAR(64) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_rows INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_key TEXT NOT NULL,
				command TEXT NOT NULL,
				dataset_digest TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_rows INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_key TEXT NOT NULL,
				command TEXT NOT NULL,
				dataset_digest TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_rows INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateActionScoresQuery returns the CREATE TABLE query for pathways_action_scores.
func getCreateActionScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(actionScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				action_rank INT NOT NULL,
				action_id VARCHAR(255) NOT NULL,
				action_name VARCHAR(512) NOT NULL,
				group_id VARCHAR(255) NOT NULL,
				start_year INT NOT NULL,
				end_year INT NOT NULL,
				impact DOUBLE NOT NULL,
				cost DOUBLE NOT NULL,
				efficiency DOUBLE NOT NULL,
				record_time DATETIME(6) NOT NULL,
				PRIMARY KEY (run_id, action_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				action_rank INT NOT NULL,
				action_id TEXT NOT NULL,
				action_name TEXT NOT NULL,
				group_id TEXT NOT NULL,
				start_year INT NOT NULL,
				end_year INT NOT NULL,
				impact DOUBLE PRECISION NOT NULL,
				cost DOUBLE PRECISION NOT NULL,
				efficiency DOUBLE PRECISION NOT NULL,
				record_time TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (run_id, action_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				action_rank INTEGER NOT NULL,
				action_id TEXT NOT NULL,
				action_name TEXT NOT NULL,
				group_id TEXT NOT NULL,
				start_year INTEGER NOT NULL,
				end_year INTEGER NOT NULL,
				impact REAL NOT NULL,
				cost REAL NOT NULL,
				efficiency REAL NOT NULL,
				record_time TEXT NOT NULL,
				PRIMARY KEY (run_id, action_id)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID. Every run also gets
// a sortable ULID key so ledgers from several machines can be merged.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, command, datasetDigest string, params schema.RunParams) (int64, error) {
	if rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	runKey := ulid.MustNew(ulid.Timestamp(startTime), ulid.DefaultEntropy()).String()
	args := []any{runKey, command, datasetDigest, formatTime(startTime, rs.backend), string(configJSON)}
	values := strings.Join(placeholders(rs.backend, len(args)), ", ")
	query := fmt.Sprintf(`INSERT INTO %s (run_key, command, dataset_digest, start_time, config_params) VALUES (%s)`,
		quoteTableName(runsTable, rs.backend), values)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		err = rs.db.QueryRow(query+" RETURNING run_id", args...).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with its end time, duration and row count.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalRows int) error {
	if rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	ph := placeholders(rs.backend, 4)

	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, ph[0])
	startTime, err := rs.scanTime(rs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_rows = %s WHERE run_id = %s`,
		quotedTableName, ph[0], ph[1], ph[2], ph[3])
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs, totalRows, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

// RecordActionScore stores one ranked action of a run.
func (rs *RunStoreImpl) RecordActionScore(runID int64, record schema.ActionScoreRecord) error {
	if rs.db == nil {
		return nil
	}

	recordTime := record.RecordTime
	if recordTime.IsZero() {
		recordTime = time.Now()
	}

	args := []any{
		runID, record.Rank, record.ActionID, record.ActionName, record.GroupID,
		record.StartYear, record.EndYear, record.Impact, record.Cost, record.Efficiency,
		formatTime(recordTime, rs.backend),
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, action_rank, action_id, action_name, group_id,
		                start_year, end_year, impact, cost, efficiency, record_time)
		VALUES (%s)
	`, quoteTableName(actionScoresTable, rs.backend), strings.Join(placeholders(rs.backend, len(args)), ", "))

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert action score: %w", err)
	}
	return nil
}

// scanTime reads a timestamp column, which SQLite keeps as text.
func (rs *RunStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if rs.backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var s string
	if err := row.Scan(&s); err != nil {
		return time.Time{}, err
	}
	return parseTime(s)
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, rs.backend)

	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT MAX(run_id) FROM %s", quotedRuns)).Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}

		lastQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		last, err := rs.scanTime(rs.db.QueryRow(lastQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = last

		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		oldest, err := rs.scanTime(rs.db.QueryRow(oldestQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest

		rowsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_rows), 0) FROM %s", quotedRuns)
		if err := rs.db.QueryRow(rowsQuery).Scan(&status.TotalScoredItems); err != nil {
			return status, fmt.Errorf("failed to get total scored items: %w", err)
		}
	}

	for _, table := range []string{runsTable, actionScoresTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all runs ordered by id.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_key, command, dataset_digest, start_time, end_time,
		run_duration_ms, total_rows, config_params FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		switch rs.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(&r.RunID, &r.RunKey, &r.Command, &r.DatasetDigest, &startStr, &endStr,
				&r.RunDurationMs, &r.TotalRows, &r.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if r.StartTime, err = parseTime(startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				end, err := parseTime(*endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				r.EndTime = &end
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&r.RunID, &r.RunKey, &r.Command, &r.DatasetDigest, &r.StartTime, &r.EndTime,
				&r.RunDurationMs, &r.TotalRows, &r.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllActionScores retrieves all action scores ordered by run and rank.
func (rs *RunStoreImpl) GetAllActionScores() ([]schema.ActionScoreRecord, error) {
	if rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, action_rank, action_id, action_name, group_id,
		start_year, end_year, impact, cost, efficiency, record_time
		FROM %s ORDER BY run_id, action_rank`, quoteTableName(actionScoresTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query action scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ActionScoreRecord
	for rows.Next() {
		var r schema.ActionScoreRecord
		dest := []any{&r.RunID, &r.Rank, &r.ActionID, &r.ActionName, &r.GroupID,
			&r.StartYear, &r.EndYear, &r.Impact, &r.Cost, &r.Efficiency}
		if rs.backend == schema.SQLiteBackend {
			var recordStr string
			if err := rows.Scan(append(dest, &recordStr)...); err != nil {
				return nil, fmt.Errorf("failed to scan action score: %w", err)
			}
			if r.RecordTime, err = parseTime(recordStr); err != nil {
				return nil, fmt.Errorf("failed to parse record_time: %w", err)
			}
		} else if err := rows.Scan(append(dest, &r.RecordTime)...); err != nil {
			return nil, fmt.Errorf("failed to scan action score: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action scores: %w", err)
	}
	return results, nil
}
