package store

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string         `json:"db_path" yaml:"db_path"`
	DBSizeBytes   int64          `json:"db_size_bytes" yaml:"db_size_bytes"`
	TotalEntries  int            `json:"total_entries" yaml:"total_entries"`
	ActiveEntries int            `json:"active_entries" yaml:"active_entries"`
	TotalValues   int            `json:"total_values" yaml:"total_values"`
	Scopes        []ScopeSummary `json:"scopes" yaml:"scopes"`
}

// ScopeSummary holds per-scope counts of active entries.
type ScopeSummary struct {
	Scope    string `json:"scope" yaml:"scope"`
	Entries  int    `json:"entries" yaml:"entries"`
	Keywords int    `json:"keywords" yaml:"keywords"`
}

// Stats returns database statistics. A non-empty scope narrows the counts
// and the scope summary to that scope.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath, scope string) (st *Stats, err error) {
	defer observe("stats", time.Now(), &err)

	st = &Stats{DBPath: dbPath, Scopes: []ScopeSummary{}}
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.countAll(ctx, st, scope); err != nil {
		return st, err
	}

	scopes, err := s.ListScopes(ctx)
	if err != nil {
		return st, err
	}
	for _, sc := range scopes {
		if scope == "" || sc.Scope == scope {
			st.Scopes = append(st.Scopes, sc)
		}
	}
	return st, nil
}

func (s *SQLiteStore) countAll(ctx context.Context, st *Stats, scope string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}

	filter, args := "", []interface{}{}
	if scope != "" {
		filter = " AND e.group_identifier = ?"
		args = append(args, scope)
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM qa_entries e WHERE 1 = 1` + filter, &st.TotalEntries},
		{`SELECT COUNT(*) FROM qa_entries e WHERE e.status = 'ACTIVE'` + filter, &st.ActiveEntries},
		{`SELECT COUNT(*) FROM qa_values v INNER JOIN qa_entries e ON e.entry_id = v.entry_id WHERE 1 = 1` + filter, &st.TotalValues},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, args...).Scan(c.dest); err != nil {
			return s.fail("stats", err, zap.String("scope", scope))
		}
	}
	return nil
}

// ListScopes returns every scope with active entries, largest first.
func (s *SQLiteStore) ListScopes(ctx context.Context) (scopes []ScopeSummary, err error) {
	defer observe("list_scopes", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT group_identifier, COUNT(*) AS cnt, COUNT(DISTINCT keyword) AS keywords
		FROM qa_entries WHERE status = 'ACTIVE'
		GROUP BY group_identifier ORDER BY cnt DESC, group_identifier`)
	if err != nil {
		return nil, s.fail("list scopes", err)
	}
	defer rows.Close()

	scopes = []ScopeSummary{}
	for rows.Next() {
		var sc ScopeSummary
		if err := rows.Scan(&sc.Scope, &sc.Entries, &sc.Keywords); err != nil {
			return nil, s.fail("list scopes", err)
		}
		scopes = append(scopes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list scopes", err)
	}
	return scopes, nil
}
