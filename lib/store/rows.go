// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/CruzerUzer/potterytracker/lib/schema"
)

// --- Potters ---

// CreatePotter inserts a new potter and returns the completed row.
// Fails with a constraint violation (see IsConstraint) if the name is
// taken.
func (s *Store) CreatePotter(ctx context.Context, name string) (schema.Potter, error) {
	potter := schema.Potter{
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, "INSERT INTO potters (name, created_at) VALUES (?, ?)", &sqlitex.ExecOptions{
			Args: []any{potter.Name, potter.CreatedAt},
		})
		if err != nil {
			return fmt.Errorf("store: inserting potter: %w", err)
		}
		potter.ID = conn.LastInsertRowID()
		return nil
	})
	if err != nil {
		return schema.Potter{}, err
	}
	return potter, nil
}

// GetPotter fetches a potter by id. Returns ErrNotFound if absent.
func (s *Store) GetPotter(ctx context.Context, id int64) (schema.Potter, error) {
	var potter schema.Potter
	found := false
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT id, name, created_at FROM potters WHERE id = ?", &sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				potter = schema.Potter{
					ID:        stmt.ColumnInt64(0),
					Name:      stmt.ColumnText(1),
					CreatedAt: stmt.ColumnText(2),
				}
				return nil
			},
		})
	})
	if err != nil {
		return schema.Potter{}, fmt.Errorf("store: getting potter %d: %w", id, err)
	}
	if !found {
		return schema.Potter{}, ErrNotFound
	}
	return potter, nil
}

// PotterByName fetches a potter by display name. Returns ErrNotFound
// if absent.
func (s *Store) PotterByName(ctx context.Context, name string) (schema.Potter, error) {
	var potter schema.Potter
	found := false
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, "SELECT id, name, created_at FROM potters WHERE name = ?", &sqlitex.ExecOptions{
			Args: []any{name},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				potter = schema.Potter{
					ID:        stmt.ColumnInt64(0),
					Name:      stmt.ColumnText(1),
					CreatedAt: stmt.ColumnText(2),
				}
				return nil
			},
		})
	})
	if err != nil {
		return schema.Potter{}, fmt.Errorf("store: getting potter %q: %w", name, err)
	}
	if !found {
		return schema.Potter{}, ErrNotFound
	}
	return potter, nil
}

// --- Stages ---

// InsertStage inserts a stage row and fills in its new id.
func (s *Store) InsertStage(ctx context.Context, stage *schema.Stage) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, "INSERT INTO stages (potter_id, name, position) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{stage.PotterID, stage.Name, stage.Position},
		})
		if err != nil {
			return fmt.Errorf("store: inserting stage %q: %w", stage.Name, err)
		}
		stage.ID = conn.LastInsertRowID()
		return nil
	})
}

// ListStages returns all stages for a potter ordered by position then
// id.
func (s *Store) ListStages(ctx context.Context, potterID int64) ([]schema.Stage, error) {
	var stages []schema.Stage
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, potter_id, name, position FROM stages WHERE potter_id = ? ORDER BY position, id",
			&sqlitex.ExecOptions{
				Args: []any{potterID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					stages = append(stages, schema.Stage{
						ID:       stmt.ColumnInt64(0),
						PotterID: stmt.ColumnInt64(1),
						Name:     stmt.ColumnText(2),
						Position: stmt.ColumnInt64(3),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing stages: %w", err)
	}
	return stages, nil
}

// StageByName fetches a stage by its natural key (potter, name).
// Returns ErrNotFound if absent.
func (s *Store) StageByName(ctx context.Context, potterID int64, name string) (schema.Stage, error) {
	var stage schema.Stage
	found := false
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, potter_id, name, position FROM stages WHERE potter_id = ? AND name = ?",
			&sqlitex.ExecOptions{
				Args: []any{potterID, name},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					found = true
					stage = schema.Stage{
						ID:       stmt.ColumnInt64(0),
						PotterID: stmt.ColumnInt64(1),
						Name:     stmt.ColumnText(2),
						Position: stmt.ColumnInt64(3),
					}
					return nil
				},
			})
	})
	if err != nil {
		return schema.Stage{}, fmt.Errorf("store: getting stage %q: %w", name, err)
	}
	if !found {
		return schema.Stage{}, ErrNotFound
	}
	return stage, nil
}

// --- Materials ---

// InsertMaterial inserts a material row and fills in its new id.
func (s *Store) InsertMaterial(ctx context.Context, material *schema.Material) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			"INSERT INTO materials (potter_id, name, kind, notes) VALUES (?, ?, ?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{material.PotterID, material.Name, material.Kind, material.Notes},
			})
		if err != nil {
			return fmt.Errorf("store: inserting material %q: %w", material.Name, err)
		}
		material.ID = conn.LastInsertRowID()
		return nil
	})
}

// ListMaterials returns all materials for a potter ordered by id.
func (s *Store) ListMaterials(ctx context.Context, potterID int64) ([]schema.Material, error) {
	var materials []schema.Material
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, potter_id, name, kind, notes FROM materials WHERE potter_id = ? ORDER BY id",
			&sqlitex.ExecOptions{
				Args: []any{potterID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					materials = append(materials, schema.Material{
						ID:       stmt.ColumnInt64(0),
						PotterID: stmt.ColumnInt64(1),
						Name:     stmt.ColumnText(2),
						Kind:     stmt.ColumnText(3),
						Notes:    stmt.ColumnText(4),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing materials: %w", err)
	}
	return materials, nil
}

// MaterialByNameKind fetches a material by its natural key (potter,
// name, kind). Returns ErrNotFound if absent.
func (s *Store) MaterialByNameKind(ctx context.Context, potterID int64, name, kind string) (schema.Material, error) {
	var material schema.Material
	found := false
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, potter_id, name, kind, notes FROM materials WHERE potter_id = ? AND name = ? AND kind = ?",
			&sqlitex.ExecOptions{
				Args: []any{potterID, name, kind},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					found = true
					material = schema.Material{
						ID:       stmt.ColumnInt64(0),
						PotterID: stmt.ColumnInt64(1),
						Name:     stmt.ColumnText(2),
						Kind:     stmt.ColumnText(3),
						Notes:    stmt.ColumnText(4),
					}
					return nil
				},
			})
	})
	if err != nil {
		return schema.Material{}, fmt.Errorf("store: getting material %q/%q: %w", name, kind, err)
	}
	if !found {
		return schema.Material{}, ErrNotFound
	}
	return material, nil
}

// --- Items ---

// InsertItem inserts an item row and fills in its new id. A non-nil
// StageID must reference an existing stage or the foreign key
// constraint rejects the row.
func (s *Store) InsertItem(ctx context.Context, item *schema.Item) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			"INSERT INTO items (potter_id, stage_id, name, notes, created_at) VALUES (?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{item.PotterID, nullableID(item.StageID), item.Name, item.Notes, item.CreatedAt},
			})
		if err != nil {
			return fmt.Errorf("store: inserting item %q: %w", item.Name, err)
		}
		item.ID = conn.LastInsertRowID()
		return nil
	})
}

// ListItems returns all items for a potter ordered by id.
func (s *Store) ListItems(ctx context.Context, potterID int64) ([]schema.Item, error) {
	var items []schema.Item
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, potter_id, stage_id, name, notes, created_at FROM items WHERE potter_id = ? ORDER BY id",
			&sqlitex.ExecOptions{
				Args: []any{potterID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					items = append(items, schema.Item{
						ID:        stmt.ColumnInt64(0),
						PotterID:  stmt.ColumnInt64(1),
						StageID:   columnNullableID(stmt, 2),
						Name:      stmt.ColumnText(3),
						Notes:     stmt.ColumnText(4),
						CreatedAt: stmt.ColumnText(5),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing items: %w", err)
	}
	return items, nil
}

// --- Item material links ---

// InsertLink records that an item was made with a material. Fails
// with a constraint violation if the pair already exists or either
// endpoint is missing.
func (s *Store) InsertLink(ctx context.Context, link schema.ItemMaterial) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			"INSERT INTO item_materials (item_id, material_id) VALUES (?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{link.ItemID, link.MaterialID},
			})
		if err != nil {
			return fmt.Errorf("store: inserting link %d->%d: %w", link.ItemID, link.MaterialID, err)
		}
		return nil
	})
}

// ListLinks returns all item material links for a potter's items,
// ordered by item id then material id.
func (s *Store) ListLinks(ctx context.Context, potterID int64) ([]schema.ItemMaterial, error) {
	var links []schema.ItemMaterial
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `
			SELECT im.item_id, im.material_id
			FROM item_materials im
			JOIN items i ON i.id = im.item_id
			WHERE i.potter_id = ?
			ORDER BY im.item_id, im.material_id`,
			&sqlitex.ExecOptions{
				Args: []any{potterID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					links = append(links, schema.ItemMaterial{
						ItemID:     stmt.ColumnInt64(0),
						MaterialID: stmt.ColumnInt64(1),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing links: %w", err)
	}
	return links, nil
}

// --- Photos ---

// InsertPhoto inserts a photo row and fills in its new id.
func (s *Store) InsertPhoto(ctx context.Context, photo *schema.Photo) error {
	return s.withConn(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn,
			"INSERT INTO photos (potter_id, item_id, filename, caption, uploaded_at) VALUES (?, ?, ?, ?, ?)",
			&sqlitex.ExecOptions{
				Args: []any{photo.PotterID, nullableID(photo.ItemID), photo.Filename, photo.Caption, photo.UploadedAt},
			})
		if err != nil {
			return fmt.Errorf("store: inserting photo %q: %w", photo.Filename, err)
		}
		photo.ID = conn.LastInsertRowID()
		return nil
	})
}

// ListPhotos returns all photo rows for a potter ordered by id.
func (s *Store) ListPhotos(ctx context.Context, potterID int64) ([]schema.Photo, error) {
	var photos []schema.Photo
	err := s.withConn(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			"SELECT id, potter_id, item_id, filename, caption, uploaded_at FROM photos WHERE potter_id = ? ORDER BY id",
			&sqlitex.ExecOptions{
				Args: []any{potterID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					photos = append(photos, schema.Photo{
						ID:         stmt.ColumnInt64(0),
						PotterID:   stmt.ColumnInt64(1),
						ItemID:     columnNullableID(stmt, 2),
						Filename:   stmt.ColumnText(3),
						Caption:    stmt.ColumnText(4),
						UploadedAt: stmt.ColumnText(5),
					})
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("store: listing photos: %w", err)
	}
	return photos, nil
}
