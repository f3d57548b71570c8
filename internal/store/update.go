package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/qa-keywords/internal/model"
)

// touchUpdate builds an UPDATE statement for table that also refreshes
// updated_at. Every UPDATE the store issues goes through here; now is bound
// after the assignment args and updated_at never moves backwards.
func touchUpdate(table string, assignments []string, where string) string {
	sets := append(append([]string{}, assignments...), "updated_at = MAX(updated_at, ?)")
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where)
}

// Update sets status and/or priority on every entry for (scope, keyword).
// It returns the number of entries changed; zero is not an error.
func (s *SQLiteStore) Update(ctx context.Context, p UpdateParams) (n int64, err error) {
	defer observe("update", time.Now(), &err)

	fields := []zap.Field{zap.String("scope", p.Scope), zap.String("keyword", p.Keyword)}

	var assignments []string
	var args []interface{}
	if p.Status != nil {
		if !model.ValidStatuses[*p.Status] {
			return 0, fmt.Errorf("%w: invalid status %q", ErrValidation, *p.Status)
		}
		assignments = append(assignments, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.Priority != nil {
		assignments = append(assignments, "priority = ?")
		args = append(args, *p.Priority)
	}
	if len(assignments) == 0 {
		return 0, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return 0, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.fail("begin update", err, fields...)
	}
	defer tx.Rollback()

	args = append(args, s.timestamp(), p.Scope, p.Keyword)
	res, err := tx.ExecContext(ctx,
		touchUpdate("qa_entries", assignments, "group_identifier = ? AND keyword = ?"), args...)
	if err != nil {
		return 0, s.fail("update entries", err, fields...)
	}
	n, err = res.RowsAffected()
	if err != nil {
		return 0, s.fail("update entries", err, fields...)
	}
	if err := tx.Commit(); err != nil {
		return 0, s.fail("commit update", err, fields...)
	}

	s.log.Info("Updated entries", append(fields, zap.Int64("affected", n))...)
	return n, nil
}
