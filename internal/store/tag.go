// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// TagStore manages the tag index: the many-to-many relation between
// articles and free-form tag strings.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// TagsOf returns the tag names currently attached to an article, sorted
// alphabetically. An article with no tags yields an empty slice.
func (s *TagStore) TagsOf(articleID uuid.UUID) ([]string, error) {
	return tagsOf(s.db, articleID)
}

// tagsOf is the querier-generic implementation of TagsOf, usable inside a
// transaction.
func tagsOf(q querier, articleID uuid.UUID) ([]string, error) {
	rows, err := q.Query(`
		SELECT t.name
		FROM tags t
		JOIN taggings tg ON tg.tag_id = t.id
		WHERE tg.article_id = $1
		ORDER BY t.name
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("tags of article: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SetTags replaces the full tag set for an article. Tags in the new list
// but not the old are created and attached; taggings absent from the new
// list are removed, but the tag rows themselves are kept — stale tags are
// tolerated, not garbage-collected.
//
// Tag names are used exactly as given: no case folding, no whitespace
// trimming. "Ruby" and "ruby" are two different tags. Empty strings and
// duplicates in the input are skipped.
//
// The querier may be a transaction, so tag replacement commits or rolls
// back together with the article write that triggered it.
func (s *TagStore) SetTags(q querier, articleID uuid.UUID, tagList []string) error {
	want := make(map[string]bool, len(tagList))
	for _, name := range tagList {
		if name != "" {
			want[name] = true
		}
	}

	current, err := tagsOf(q, articleID)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(current))
	for _, name := range current {
		have[name] = true
	}

	// Attach new tags, creating tag rows as needed.
	for name := range want {
		if have[name] {
			continue
		}
		if _, err := q.Exec(`
			INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("insert tag %q: %w", name, err)
		}
		if _, err := q.Exec(`
			INSERT INTO taggings (article_id, tag_id)
			SELECT $1, id FROM tags WHERE name = $2
			ON CONFLICT (article_id, tag_id) DO NOTHING
		`, articleID, name); err != nil {
			return fmt.Errorf("attach tag %q: %w", name, err)
		}
	}

	// Detach removed tags. Only the tagging goes; the tag row stays.
	for _, name := range current {
		if want[name] {
			continue
		}
		if _, err := q.Exec(`
			DELETE FROM taggings tg
			USING tags t
			WHERE tg.tag_id = t.id AND tg.article_id = $1 AND t.name = $2
		`, articleID, name); err != nil {
			return fmt.Errorf("detach tag %q: %w", name, err)
		}
	}

	return nil
}

// List returns all tag names attached to at least one article, most used
// first, ties broken alphabetically.
func (s *TagStore) List() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT t.name
		FROM tags t
		JOIN taggings tg ON tg.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY COUNT(*) DESC, t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
