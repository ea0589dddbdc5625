package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/okian/cancha/internal/domain/model"
	"github.com/okian/cancha/internal/domain/types"
	"github.com/okian/cancha/pkg/metrics"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const playerColumns = `id, name, position, pac, sho, pas, dri, def, phy, ovr, evaluated, original_ovr, created_at, updated_at`

// SQLiteStore persists players and matches in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		path = filepath.Clean(path)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection: SQLite serializes writers anyway and ":memory:" is
	// per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(v int64) time.Time { return time.Unix(0, v).UTC() }

func observe(write bool, op string, start time.Time) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	if write {
		metrics.RecordRepositoryWriteLatency(KindSQLite, op, ms)
		return
	}
	metrics.RecordRepositoryQueryLatency(KindSQLite, op, ms)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertPlayer(ctx context.Context, ex execer, p *model.Player) error {
	a := p.Attributes
	_, err := ex.ExecContext(ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   position = excluded.position,
		   pac = excluded.pac, sho = excluded.sho, pas = excluded.pas,
		   dri = excluded.dri, def = excluded.def, phy = excluded.phy,
		   ovr = excluded.ovr,
		   evaluated = excluded.evaluated,
		   original_ovr = excluded.original_ovr,
		   updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Position.Code(),
		a.Pac, a.Sho, a.Pas, a.Dri, a.Def, a.Phy,
		p.Ovr, p.HasBeenEvaluated, p.OriginalOvr,
		toNanos(p.CreatedAt), toNanos(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", p.ID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		p                model.Player
		pos              string
		created, updated int64
		evaluated        bool
	)
	a := &p.Attributes
	if err := row.Scan(&p.ID, &p.Name, &pos, &a.Pac, &a.Sho, &a.Pas, &a.Dri, &a.Def, &a.Phy,
		&p.Ovr, &evaluated, &p.OriginalOvr, &created, &updated); err != nil {
		return nil, err
	}
	p.Position = model.ParsePosition(pos)
	p.HasBeenEvaluated = evaluated
	p.CreatedAt = fromNanos(created)
	p.UpdatedAt = fromNanos(updated)
	return &p, nil
}

func (s *SQLiteStore) PutPlayer(ctx context.Context, p *model.Player) error {
	defer observe(true, "put_player", time.Now())
	return upsertPlayer(ctx, s.db, p)
}

func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	defer observe(false, "get_player", time.Now())
	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) queryPlayers(ctx context.Context, query string, args ...any) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []*model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	defer observe(false, "list_players", time.Now())
	return s.queryPlayers(ctx, `SELECT `+playerColumns+` FROM players ORDER BY created_at, id`)
}

func (s *SQLiteStore) TopPlayers(ctx context.Context, n int) ([]*model.Player, error) {
	defer observe(false, "top_players", time.Now())
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	// NOCASE only folds ASCII, so SQL picks the OVR cut and Go orders the
	// ties the same way MemoryStore does.
	out, err := s.queryPlayers(ctx,
		`SELECT `+playerColumns+` FROM players
		 WHERE ovr >= COALESCE((SELECT ovr FROM players ORDER BY ovr DESC LIMIT 1 OFFSET ?), 0)`, n-1)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, types.ComparePlayers)
	return out[:min(n, len(out))], nil
}

func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		metrics.RecordErrorByComponent("repository", "count_failed")
		return 0
	}
	return n
}

func (s *SQLiteStore) PutMatch(ctx context.Context, m *model.Match) error {
	defer observe(true, "put_match", time.Now())
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode match %s: %w", m.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO matches (id, status, created_at, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, payload = excluded.payload`,
		m.ID, m.Status, toNanos(m.CreatedAt), string(payload))
	if err != nil {
		return fmt.Errorf("put match %s: %w", m.ID, err)
	}
	return nil
}

func decodeMatch(payload string) (*model.Match, error) {
	var m model.Match
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	return &m, nil
}

func (s *SQLiteStore) GetMatch(ctx context.Context, id string) (*model.Match, error) {
	defer observe(false, "get_match", time.Now())
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM matches WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	return decodeMatch(payload)
}

func (s *SQLiteStore) ListMatches(ctx context.Context) ([]*model.Match, error) {
	defer observe(false, "list_matches", time.Now())
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM matches ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []*model.Match
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m, err := decodeMatch(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveEvaluation(ctx context.Context, m *model.Match, players []*model.Player) (err error) {
	defer observe(true, "save_evaluation", time.Now())
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode match %s: %w", m.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin evaluation tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE matches SET status = ?, payload = ? WHERE id = ? AND status = ?`,
		m.Status, string(payload), m.ID, model.MatchGenerated)
	if err != nil {
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if qerr := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE id = ?`, m.ID).Scan(&exists); qerr == nil && exists == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}

	for _, p := range players {
		a := p.Attributes
		res, err := tx.ExecContext(ctx,
			`UPDATE players SET pac = ?, sho = ?, pas = ?, dri = ?, def = ?, phy = ?,
			   ovr = ?, evaluated = ?, original_ovr = ?, updated_at = ?
			 WHERE id = ?`,
			a.Pac, a.Sho, a.Pas, a.Dri, a.Def, a.Phy,
			p.Ovr, p.HasBeenEvaluated, p.OriginalOvr, toNanos(p.UpdatedAt), p.ID)
		if err != nil {
			return fmt.Errorf("update player %s: %w", p.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit evaluation: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
