// Package sqlite provides a SQLite-backed encounter storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/storage"
	"github.com/mcoot/encounterlog/internal/storage/sqlite/migrations"
)

// Store persists encounters in SQLite
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) SaveEncounter(ctx context.Context, e *model.Encounter) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save encounter: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	args := []any{
		toMillis(e.LastCombatPacket),
		toMillis(e.FightStart),
		e.LocalPlayer,
		e.CurrentBoss,
		e.Duration.Milliseconds(),
		e.TotalDamageDealt,
		e.TopDamageDealt,
		e.Difficulty,
		e.Cleared,
		e.Favorite,
		strings.Join(storage.PlayerNames(e), "\n"),
	}

	if e.ID == 0 {
		res, err := tx.ExecContext(ctx, `
INSERT INTO encounter (
    last_combat_packet, fight_start, local_player, current_boss, duration,
    total_damage_dealt, top_damage_dealt, difficulty, cleared, favorite, players
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return fmt.Errorf("insert encounter: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("encounter id: %w", err)
		}
		e.ID = model.EncounterID(id)
	} else {
		_, err := tx.ExecContext(ctx, `
INSERT INTO encounter (
    id, last_combat_packet, fight_start, local_player, current_boss, duration,
    total_damage_dealt, top_damage_dealt, difficulty, cleared, favorite, players
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    last_combat_packet = excluded.last_combat_packet,
    fight_start = excluded.fight_start,
    local_player = excluded.local_player,
    current_boss = excluded.current_boss,
    duration = excluded.duration,
    total_damage_dealt = excluded.total_damage_dealt,
    top_damage_dealt = excluded.top_damage_dealt,
    difficulty = excluded.difficulty,
    cleared = excluded.cleared,
    favorite = excluded.favorite,
    players = excluded.players`, append([]any{int64(e.ID)}, args...)...)
		if err != nil {
			return fmt.Errorf("upsert encounter %d: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entity WHERE encounter_id = ?`, int64(e.ID)); err != nil {
			return fmt.Errorf("clear entities of encounter %d: %w", e.ID, err)
		}
	}

	for i, ent := range e.Entities {
		if err := insertEntity(ctx, tx, e.ID, i, ent); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save encounter: %w", err)
	}
	return nil
}

func insertEntity(ctx context.Context, tx *sql.Tx, id model.EncounterID, position int, ent model.Entity) error {
	skills, err := encodeSkills(ent.Skills)
	if err != nil {
		return fmt.Errorf("entity %q: %w", ent.Name, err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO entity (
    name, encounter_id, position, npc_id, entity_type, class_id, class, gear_score,
    current_hp, max_hp, is_dead, damage_dealt, damage_taken, dps, skills
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ent.Name, int64(id), position, ent.NpcID, string(ent.EntityType), ent.ClassID, ent.Class, ent.GearScore,
		ent.CurrentHP, ent.MaxHP, ent.IsDead, ent.DamageDealt, ent.DamageTaken, ent.Dps, skills,
	)
	if err != nil {
		return fmt.Errorf("insert entity %q: %w", ent.Name, err)
	}
	return nil
}

const encounterColumns = `id, last_combat_packet, fight_start, local_player, current_boss, duration,
    total_damage_dealt, top_damage_dealt, difficulty, cleared, favorite`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEncounter(row rowScanner) (*model.Encounter, error) {
	var (
		e                model.Encounter
		id               int64
		lastCombatPacket sql.NullInt64
		fightStart       int64
		localPlayer      sql.NullString
		durationMillis   int64
		difficulty       sql.NullString
	)
	if err := row.Scan(
		&id, &lastCombatPacket, &fightStart, &localPlayer, &e.CurrentBoss, &durationMillis,
		&e.TotalDamageDealt, &e.TopDamageDealt, &difficulty, &e.Cleared, &e.Favorite,
	); err != nil {
		return nil, err
	}

	e.ID = model.EncounterID(id)
	e.LastCombatPacket = fromMillis(lastCombatPacket.Int64)
	e.FightStart = fromMillis(fightStart)
	e.LocalPlayer = localPlayer.String
	e.Duration = time.Duration(durationMillis) * time.Millisecond
	e.Difficulty = difficulty.String
	return &e, nil
}

func (s *Store) GetEncounter(ctx context.Context, id model.EncounterID) (*model.Encounter, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+encounterColumns+` FROM encounter WHERE id = ?`, int64(id))
	e, err := scanEncounter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEncounterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get encounter %d: %w", id, err)
	}

	if err := s.loadEntities(ctx, []*model.Encounter{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) DeleteEncounter(ctx context.Context, id model.EncounterID) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete encounter: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entity WHERE encounter_id = ?`, int64(id)); err != nil {
		return fmt.Errorf("delete entities of encounter %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM encounter WHERE id = ?`, int64(id)); err != nil {
		return fmt.Errorf("delete encounter %d: %w", id, err)
	}
	return tx.Commit()
}

func (s *Store) ListEncounters(ctx context.Context, filter storage.ListFilter) ([]*model.Encounter, error) {
	var (
		where []string
		args  []any
	)
	if filter.Boss != "" {
		where = append(where, "current_boss = ?")
		args = append(args, filter.Boss)
	}
	if filter.FavoritesOnly {
		where = append(where, "favorite = 1")
	}
	if filter.Search != "" {
		clause, arg := searchClause(filter.Search)
		where = append(where, clause)
		args = append(args, arg...)
	}

	query := `SELECT ` + encounterColumns + ` FROM encounter`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY fight_start DESC, id DESC`

	// SQLite needs a LIMIT to accept an OFFSET; -1 means unbounded
	limit := -1
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}
	defer rows.Close()

	encounters := []*model.Encounter{}
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan encounter: %w", err)
		}
		encounters = append(encounters, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list encounters: %w", err)
	}

	if err := s.loadEntities(ctx, encounters); err != nil {
		return nil, err
	}
	return encounters, nil
}

// searchClause matches term against the encounter_search index. The trigram
// tokenizer needs at least three characters, shorter terms fall back to LIKE.
func searchClause(term string) (string, []any) {
	if utf8.RuneCountInString(term) >= 3 {
		phrase := `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
		return `id IN (SELECT rowid FROM encounter_search WHERE encounter_search MATCH ?)`, []any{phrase}
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return `(current_boss LIKE ? ESCAPE '\' OR players LIKE ? ESCAPE '\')`, []any{pattern, pattern}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) SetFavorite(ctx context.Context, id model.EncounterID, favorite bool) error {
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE encounter SET favorite = ? WHERE id = ?`, favorite, int64(id))
	if err != nil {
		return fmt.Errorf("set favorite on encounter %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set favorite on encounter %d: %w", id, err)
	}
	if n == 0 {
		return model.ErrEncounterNotFound
	}
	return nil
}

// loadEntities fills Entities for each encounter with one query
func (s *Store) loadEntities(ctx context.Context, encounters []*model.Encounter) error {
	if len(encounters) == 0 {
		return nil
	}

	byID := make(map[model.EncounterID]*model.Encounter, len(encounters))
	placeholders := make([]string, len(encounters))
	args := make([]any, len(encounters))
	for i, e := range encounters {
		byID[e.ID] = e
		e.Entities = []model.Entity{}
		placeholders[i] = "?"
		args[i] = int64(e.ID)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT encounter_id, name, npc_id, entity_type, class_id, class, gear_score,
    current_hp, max_hp, is_dead, damage_dealt, damage_taken, dps, skills
FROM entity
WHERE encounter_id IN (`+strings.Join(placeholders, ", ")+`)
ORDER BY encounter_id, position`, args...)
	if err != nil {
		return fmt.Errorf("load entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			encounterID int64
			ent         model.Entity
			npcID       sql.NullInt64
			entityType  sql.NullString
			classID     sql.NullInt64
			class       sql.NullString
			gearScore   sql.NullFloat64
			currentHP   sql.NullInt64
			maxHP       sql.NullInt64
			skills      sql.NullString
		)
		if err := rows.Scan(
			&encounterID, &ent.Name, &npcID, &entityType, &classID, &class, &gearScore,
			&currentHP, &maxHP, &ent.IsDead, &ent.DamageDealt, &ent.DamageTaken, &ent.Dps, &skills,
		); err != nil {
			return fmt.Errorf("scan entity: %w", err)
		}

		ent.NpcID = npcID.Int64
		ent.EntityType = model.ParseEntityType(entityType.String)
		ent.ClassID = classID.Int64
		ent.Class = class.String
		ent.GearScore = gearScore.Float64
		ent.CurrentHP = currentHP.Int64
		ent.MaxHP = maxHP.Int64
		ent.Skills, err = decodeSkills(skills.String)
		if err != nil {
			return fmt.Errorf("entity %q: %w", ent.Name, err)
		}

		if e, ok := byID[model.EncounterID(encounterID)]; ok {
			e.Entities = append(e.Entities, ent)
		}
	}
	return rows.Err()
}

func encodeSkills(skills []model.Skill) (string, error) {
	if len(skills) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("marshal skills: %w", err)
	}
	return string(encoded), nil
}

func decodeSkills(value string) ([]model.Skill, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var skills []model.Skill
	if err := json.Unmarshal([]byte(value), &skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	return skills, nil
}
