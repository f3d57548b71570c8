package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/rcliao/qa-keywords/internal/model"
)

// timeLayout matches STRFTIME('%Y-%m-%d %H:%M:%f') so stored timestamps
// compare lexically.
const timeLayout = "2006-01-02 15:04:05.000"

const (
	defaultMaxOpenConns  = 1
	defaultBusyTimeoutMs = 5000
)

var validate = validator.New()

// Options configures a SQLiteStore.
type Options struct {
	Logger        *zap.Logger
	MaxOpenConns  int
	BusyTimeoutMs int
	// Now overrides the clock used for created_at/updated_at.
	Now func() time.Time
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	mu  sync.RWMutex
	db  *sql.DB
	log *zap.Logger
	now func() time.Time

	idMu    sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path and
// applies the schema. A failure to create the parent directory is logged and
// opening is attempted anyway.
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	maxOpen := opts.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	busy := opts.BusyTimeoutMs
	if busy <= 0 {
		busy = defaultBusyTimeoutMs
	}

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if _, err := os.Stat(dir); err != nil {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Error("Failed to create db directory", zap.String("dir", dir), zap.Error(err))
			} else {
				log.Info("Created db directory", zap.String("dir", dir))
			}
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(%d)", dbPath, busy)

	if err := runMigrations(dsn, log); err != nil {
		log.Error("Failed to prepare database", zap.String("path", dbPath), zap.Error(err))
		return nil, fmt.Errorf("migrate: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	if err := db.Ping(); err != nil {
		db.Close()
		log.Error("Failed to connect to database", zap.String("path", dbPath), zap.Error(err))
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Debug("Connected to database", zap.String("path", dbPath))

	return &SQLiteStore{
		db:      db,
		log:     log,
		now:     now,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}, nil
}

func (s *SQLiteStore) newID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) timestamp() string {
	return s.now().Local().Format(timeLayout)
}

// fail logs a storage error and wraps it as a persistence failure.
func (s *SQLiteStore) fail(op string, err error, fields ...zap.Field) error {
	s.log.Error("Store operation failed", append(fields, zap.String("op", op), zap.Error(err))...)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func (s *SQLiteStore) Add(ctx context.Context, p AddParams) (id string, err error) {
	defer observe("add", time.Now(), &err)

	fields := []zap.Field{zap.String("scope", p.Scope), zap.String("keyword", p.Keyword)}
	if err := validate.Struct(p); err != nil {
		s.log.Error("Rejected entry", append(fields, zap.Error(err))...)
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	matchType := p.MatchType
	if matchType == "" {
		matchType = model.MatchExact
	}
	status := p.Status
	if status == "" {
		status = model.StatusActive
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return "", ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", s.fail("begin add", err, fields...)
	}
	defer tx.Rollback()

	now := s.timestamp()
	id = s.newID()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO qa_entries (entry_id, group_identifier, keyword, match_type, status, priority, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Scope, p.Keyword, string(matchType), string(status), p.Priority, now, now)
	if err != nil {
		return "", s.fail("insert entry", err, fields...)
	}

	for i, v := range p.Values {
		valueType := v.Type
		if valueType == "" {
			valueType = model.ValueText
		}
		order := i
		if v.Order != nil {
			order = *v.Order
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO qa_values (value_id, entry_id, value_type, value_content, order_num, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), id, string(valueType), v.Content, order, now, now)
		if err != nil {
			return "", s.fail("insert value", err, append(fields, zap.Int("index", i))...)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", s.fail("commit add", err, fields...)
	}

	s.log.Info("Added entry", append(fields, zap.String("entry_id", id), zap.Int("values", len(p.Values)))...)
	return id, nil
}

// activeValuesQuery selects the values of the top-priority active entries of
// each keyword in a scope, optionally narrowed to one keyword.
func activeValuesQuery(oneKeyword bool) string {
	filter := ""
	if oneKeyword {
		filter = " AND keyword = ?"
	}
	return `
		SELECT e.keyword, e.entry_id, e.priority, v.value_id, v.value_type, v.value_content, v.order_num
		FROM qa_entries e
		INNER JOIN (
			SELECT keyword, MAX(priority) AS top
			FROM qa_entries
			WHERE group_identifier = ? AND status = 'ACTIVE'` + filter + `
			GROUP BY keyword
		) best ON e.keyword = best.keyword AND e.priority = best.top
		INNER JOIN qa_values v ON v.entry_id = e.entry_id
		WHERE e.group_identifier = ? AND e.status = 'ACTIVE'
		ORDER BY e.keyword, v.order_num, e.entry_id, v.value_id`
}

func (s *SQLiteStore) queryActive(ctx context.Context, query string, args ...interface{}) ([]valueRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []valueRow
	for rows.Next() {
		var r valueRow
		var valueType string
		if err := rows.Scan(&r.Keyword, &r.EntryID, &r.Priority, &r.ValueID,
			&valueType, &r.Value.Content, &r.Value.Order); err != nil {
			return nil, err
		}
		r.Value.Type = model.ValueType(valueType)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, scope, keyword string) (values []model.ResolvedValue, err error) {
	defer observe("get", time.Now(), &err)

	rows, err := s.queryActive(ctx, activeValuesQuery(true), scope, keyword, scope)
	if err == ErrClosed {
		return []model.ResolvedValue{}, err
	}
	if err != nil {
		return []model.ResolvedValue{}, s.fail("get", err, zap.String("scope", scope), zap.String("keyword", keyword))
	}

	values = resolve(rows)
	if len(values) == 0 {
		s.log.Debug("No active entry", zap.String("scope", scope), zap.String("keyword", keyword))
	} else {
		s.log.Debug("Resolved keyword", zap.String("scope", scope), zap.String("keyword", keyword),
			zap.Int("values", len(values)))
	}
	return values, nil
}

func (s *SQLiteStore) ListScope(ctx context.Context, scope string) (idx model.ScopeIndex, err error) {
	defer observe("list_scope", time.Now(), &err)

	rows, err := s.queryActive(ctx, activeValuesQuery(false), scope, scope)
	if err == ErrClosed {
		return model.ScopeIndex{}, err
	}
	if err != nil {
		return model.ScopeIndex{}, s.fail("list scope", err, zap.String("scope", scope))
	}

	idx = resolveIndex(rows)
	s.log.Debug("Loaded scope index", zap.String("scope", scope), zap.Int("keywords", len(idx)))
	return idx, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, scope, keyword string) (res DeleteResult, err error) {
	defer observe("delete", time.Now(), &err)

	fields := []zap.Field{zap.String("scope", scope), zap.String("keyword", keyword)}
	res = DeleteResult{Outcome: Failed}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return res, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, s.fail("begin delete", err, fields...)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM qa_entries WHERE group_identifier = ? AND keyword = ?`, scope, keyword)
	if err != nil {
		return res, s.fail("delete entries", err, fields...)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return res, s.fail("delete entries", err, fields...)
	}
	if err := tx.Commit(); err != nil {
		return res, s.fail("commit delete", err, fields...)
	}

	res.Affected = n
	if n == 0 {
		res.Outcome = NotFound
		s.log.Info("No entry to delete", fields...)
		return res, nil
	}
	res.Outcome = Deleted
	s.log.Info("Deleted entries", append(fields, zap.Int64("affected", n))...)
	return res, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		s.log.Error("Failed to close database connection", zap.Error(err))
		return fmt.Errorf("close db: %w", err)
	}
	s.log.Info("Database connection closed")
	return nil
}

func parseTimestamp(v string) time.Time {
	t, _ := time.ParseInLocation(timeLayout, v, time.Local)
	return t
}
