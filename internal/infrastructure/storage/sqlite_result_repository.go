package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"vision-measure/internal/domain/entity"
	"vision-measure/internal/domain/port"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS measurements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	step INTEGER NOT NULL,
	path_a TEXT NOT NULL,
	path_b TEXT NOT NULL,
	psnr REAL,
	ssim REAL,
	lpips REAL,
	created_at TEXT,
	UNIQUE(run_id, step)
);
CREATE INDEX IF NOT EXISTS idx_measurements_run ON measurements(run_id);
CREATE TABLE IF NOT EXISTS summaries (
	run_id TEXT PRIMARY KEY,
	pairs INTEGER NOT NULL,
	avg_psnr REAL,
	avg_ssim REAL,
	avg_lpips REAL,
	elapsed_seconds REAL,
	created_at TEXT
);`

// SQLiteResultRepository локальный архив результатов в SQLite
type SQLiteResultRepository struct {
	db *sql.DB
}

// NewSQLiteResultRepository открывает базу и создаёт таблицы, если их нет
func NewSQLiteResultRepository(dbPath string) (*SQLiteResultRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create results schema: %w", err)
	}

	return &SQLiteResultRepository{db: db}, nil
}

// SavePair сохраняет метрики пары; повторный шаг прогона перезаписывается
func (r *SQLiteResultRepository) SavePair(ctx context.Context, runID string, pair entity.ImagePair, result entity.MetricResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO measurements (
			run_id, step, path_a, path_b, psnr, ssim, lpips, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, pair.Index, pair.PathA, pair.PathB,
		result.PSNR, result.SSIM, result.LPIPS,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cannot insert measurement %d for run %s: %w", pair.Index, runID, err)
	}
	return nil
}

// SaveSummary сохраняет итог прогона
func (r *SQLiteResultRepository) SaveSummary(ctx context.Context, runID string, summary entity.RunSummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO summaries (
			run_id, pairs, avg_psnr, avg_ssim, avg_lpips, elapsed_seconds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, summary.Pairs, summary.PSNR, summary.SSIM, summary.LPIPS,
		summary.Elapsed.Seconds(), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("cannot insert summary for run %s: %w", runID, err)
	}
	return nil
}

// PairResults возвращает метрики прогона в порядке шагов
func (r *SQLiteResultRepository) PairResults(ctx context.Context, runID string) ([]entity.MetricResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT psnr, ssim, lpips FROM measurements WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []entity.MetricResult
	for rows.Next() {
		var psnr, ssim, lpips sql.NullFloat64
		if err := rows.Scan(&psnr, &ssim, &lpips); err != nil {
			return nil, err
		}
		results = append(results, entity.MetricResult{
			PSNR:  floatOrNaN(psnr),
			SSIM:  floatOrNaN(ssim),
			LPIPS: floatOrNaN(lpips),
		})
	}
	return results, rows.Err()
}

// LoadSummary возвращает сохранённый итог прогона
func (r *SQLiteResultRepository) LoadSummary(ctx context.Context, runID string) (entity.RunSummary, error) {
	var (
		summary           entity.RunSummary
		psnr, ssim, lpips sql.NullFloat64
		elapsed           float64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT pairs, avg_psnr, avg_ssim, avg_lpips, elapsed_seconds FROM summaries WHERE run_id = ?`, runID,
	).Scan(&summary.Pairs, &psnr, &ssim, &lpips, &elapsed)
	if err != nil {
		return entity.RunSummary{}, fmt.Errorf("failed to get summary for run %s: %w", runID, err)
	}
	summary.PSNR, summary.SSIM, summary.LPIPS = floatOrNaN(psnr), floatOrNaN(ssim), floatOrNaN(lpips)
	summary.Elapsed = time.Duration(elapsed * float64(time.Second))
	return summary, nil
}

// floatOrNaN SQLite хранит NaN как NULL
func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Close закрывает соединение с базой
func (r *SQLiteResultRepository) Close() error {
	return r.db.Close()
}

// Проверка реализации интерфейса
var _ port.ResultRepository = (*SQLiteResultRepository)(nil)
