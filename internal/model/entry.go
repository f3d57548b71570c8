// Package model defines the keyword entry and reply value types.
package model

import "time"

// MatchType is how an entry keyword is compared against incoming text.
type MatchType string

const (
	MatchExact MatchType = "EXACT"
	MatchFuzzy MatchType = "FUZZY"
	MatchRegex MatchType = "REGEX"
)

// Status controls whether an entry takes part in retrieval.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusArchived Status = "ARCHIVED"
)

// ValueType is the kind of reply content a value carries.
type ValueType string

const (
	ValueText     ValueType = "TEXT"
	ValueImageURL ValueType = "IMAGE_URL"
	ValueFileURL  ValueType = "FILE_URL"
	ValueMarkdown ValueType = "MARKDOWN"
)

// ValidMatchTypes are the allowed match types.
var ValidMatchTypes = map[MatchType]bool{
	MatchExact: true,
	MatchFuzzy: true,
	MatchRegex: true,
}

// ValidStatuses are the allowed entry statuses.
var ValidStatuses = map[Status]bool{
	StatusActive:   true,
	StatusInactive: true,
	StatusArchived: true,
}

// ValidValueTypes are the allowed value types.
var ValidValueTypes = map[ValueType]bool{
	ValueText:     true,
	ValueImageURL: true,
	ValueFileURL:  true,
	ValueMarkdown: true,
}

// Entry is a keyword trigger within a scope.
type Entry struct {
	ID        string    `json:"entry_id" yaml:"entry_id"`
	Scope     string    `json:"scope" yaml:"scope"`
	Keyword   string    `json:"keyword" yaml:"keyword"`
	MatchType MatchType `json:"match_type" yaml:"match_type"`
	Status    Status    `json:"status" yaml:"status"`
	Priority  int       `json:"priority" yaml:"priority"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Value is one ordered piece of reply content owned by an Entry.
type Value struct {
	ID        string    `json:"value_id" yaml:"value_id"`
	EntryID   string    `json:"entry_id" yaml:"entry_id"`
	Type      ValueType `json:"type" yaml:"type"`
	Content   string    `json:"content" yaml:"content"`
	Order     int       `json:"order" yaml:"order"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// EntryRecord is an entry together with all of its values, as exported.
type EntryRecord struct {
	Entry  `yaml:",inline"`
	Values []Value `json:"values" yaml:"values"`
}

// ResolvedValue is the read shape of a value after priority resolution.
type ResolvedValue struct {
	Type    ValueType `json:"type" yaml:"type"`
	Content string    `json:"content" yaml:"content"`
	Order   int       `json:"order" yaml:"order"`
}

// ScopeIndex maps every active keyword of a scope to its resolved values.
type ScopeIndex map[string][]ResolvedValue
