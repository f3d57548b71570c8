package store

import (
	"context"
	"strings"

	"github.com/rcliao/qa-keywords/internal/model"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var matchType, status, createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.Scope, &e.Keyword, &matchType, &status, &e.Priority, &createdAt, &updatedAt)
	if err != nil {
		return e, err
	}
	e.MatchType = model.MatchType(matchType)
	e.Status = model.Status(status)
	e.CreatedAt = parseTimestamp(createdAt)
	e.UpdatedAt = parseTimestamp(updatedAt)
	return e, nil
}

func scanValue(row scanner) (model.Value, error) {
	var v model.Value
	var valueType, createdAt, updatedAt string
	err := row.Scan(&v.ID, &v.EntryID, &valueType, &v.Content, &v.Order, &createdAt, &updatedAt)
	if err != nil {
		return v, err
	}
	v.Type = model.ValueType(valueType)
	v.CreatedAt = parseTimestamp(createdAt)
	v.UpdatedAt = parseTimestamp(updatedAt)
	return v, nil
}

// ExportAll returns every entry of any status with its values, optionally
// filtered by scope.
func (s *SQLiteStore) ExportAll(ctx context.Context, scope string) ([]model.EntryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrClosed
	}

	where := []string{"1 = 1"}
	args := []interface{}{}
	if scope != "" {
		where = append(where, "e.group_identifier = ?")
		args = append(args, scope)
	}
	cond := strings.Join(where, " AND ")

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.entry_id, e.group_identifier, e.keyword, e.match_type, e.status, e.priority, e.created_at, e.updated_at
		FROM qa_entries e WHERE `+cond+`
		ORDER BY e.group_identifier, e.keyword, e.entry_id`, args...)
	if err != nil {
		return nil, s.fail("export entries", err)
	}
	records := []model.EntryRecord{}
	pos := map[string]int{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, s.fail("export entries", err)
		}
		pos[e.ID] = len(records)
		records = append(records, model.EntryRecord{Entry: e})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, s.fail("export entries", err)
	}

	vrows, err := s.db.QueryContext(ctx, `
		SELECT v.value_id, v.entry_id, v.value_type, v.value_content, v.order_num, v.created_at, v.updated_at
		FROM qa_values v INNER JOIN qa_entries e ON e.entry_id = v.entry_id
		WHERE `+cond+`
		ORDER BY v.entry_id, v.order_num, v.value_id`, args...)
	if err != nil {
		return nil, s.fail("export values", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		v, err := scanValue(vrows)
		if err != nil {
			return nil, s.fail("export values", err)
		}
		if i, ok := pos[v.EntryID]; ok {
			records[i].Values = append(records[i].Values, v)
		}
	}
	if err := vrows.Err(); err != nil {
		return nil, s.fail("export values", err)
	}
	return records, nil
}

// Import stores exported records as new entries, keeping status, priority and
// value order. It stops at the first failure and returns how many were stored.
func (s *SQLiteStore) Import(ctx context.Context, records []model.EntryRecord) (int, error) {
	imported := 0
	for _, r := range records {
		values := make([]ValueInput, 0, len(r.Values))
		for _, v := range r.Values {
			order := v.Order
			values = append(values, ValueInput{Type: v.Type, Content: v.Content, Order: &order})
		}
		_, err := s.Add(ctx, AddParams{
			Scope:     r.Scope,
			Keyword:   r.Keyword,
			Values:    values,
			MatchType: r.MatchType,
			Status:    r.Status,
			Priority:  r.Priority,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
