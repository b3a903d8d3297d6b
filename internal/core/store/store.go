// Package store persists mapping templates.
//
// Templates are written once by an operator and read once per job
// (construct-once read-many); the store keeps the whole document as JSON
// rather than normalizing mappings into rows, since the engine only ever
// loads a template wholesale.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pkanduri1/fabric-transform/internal/core/db"
	"github.com/pkanduri1/fabric-transform/internal/types"
)

// Store provides template persistence over named queries.
type Store struct {
	q *db.Queries
}

// New creates a Store over loaded queries.
func New(q *db.Queries) *Store {
	return &Store{q: q}
}

// TemplateInfo is one row of a template listing.
type TemplateInfo struct {
	TemplateID string `db:"template_id"`
	Name       string `db:"name"`
	CreatedAt  string `db:"created_at"`
}

type templateRow struct {
	TemplateID string `db:"template_id"`
	Name       string `db:"name"`
	Document   string `db:"document"`
	CreatedAt  string `db:"created_at"`
}

// Save stores a template document. Assigns a fresh TemplateID when the
// template has none and returns the ID in use.
func (s *Store) Save(tmpl *types.Template) (types.TemplateID, error) {
	if tmpl.TemplateID == "" {
		tmpl.TemplateID = types.NewTemplateID()
	}
	doc, err := json.Marshal(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to encode template: %w", err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.q.Exec("create-template", string(tmpl.TemplateID), tmpl.Name, string(doc), createdAt); err != nil {
		return "", fmt.Errorf("failed to store template: %w", err)
	}
	return tmpl.TemplateID, nil
}

// Get loads a template by ID.
func (s *Store) Get(id types.TemplateID) (*types.Template, error) {
	var row templateRow
	if err := s.q.Get("get-template", &row, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return decodeRow(&row)
}

// GetByName loads the most recently stored template with the given name.
func (s *Store) GetByName(name string) (*types.Template, error) {
	var row templateRow
	if err := s.q.Get("get-template-by-name", &row, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return decodeRow(&row)
}

// List returns all stored templates in creation order.
func (s *Store) List() ([]TemplateInfo, error) {
	var infos []TemplateInfo
	if err := s.q.Select("list-templates", &infos); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return infos, nil
}

// Delete removes a stored template.
func (s *Store) Delete(id types.TemplateID) error {
	res, err := s.q.Exec("delete-template", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return types.ErrTemplateNotFound
	}
	return nil
}

func decodeRow(row *templateRow) (*types.Template, error) {
	var tmpl types.Template
	if err := json.Unmarshal([]byte(row.Document), &tmpl); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", row.TemplateID, err)
	}
	return &tmpl, nil
}
