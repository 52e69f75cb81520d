// Package store persists card records in SQLite, keyed by card ID.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"knagahashi/cardharvester/internal/crawler"
	apperr "knagahashi/cardharvester/pkg/errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	card_id      TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	image_url    TEXT NOT NULL,
	page_url     TEXT NOT NULL,
	expansion    TEXT,
	rarity       TEXT,
	card_type    TEXT,
	hp           INTEGER,
	attack1      TEXT,
	attack2      TEXT,
	ability      TEXT,
	weakness     TEXT,
	resistance   TEXT,
	retreat_cost INTEGER,
	timestamp    INTEGER NOT NULL
);
`

// StoredCard is one persisted card row
type StoredCard struct {
	crawler.CardRecord
	Timestamp time.Time
}

// CardStore persists card records in SQLite
type CardStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the card store at path and ensures the schema exists
func Open(path string) (*CardStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, apperr.NewConfiguration("store path is required", nil)
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperr.NewPersistence("open sqlite db", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperr.NewPersistence("ping sqlite db", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, apperr.NewPersistence("create schema", err)
	}

	return &CardStore{db: db, now: time.Now}, nil
}

// Close closes the SQLite handle
func (s *CardStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// MergeBatch reconciles a batch of fetched records against the store:
// update-if-exists-else-insert keyed by card ID, every field overwritten on
// update, timestamp stamped at merge time. The batch is one transaction;
// a commit failure leaves no partial rows. Records without a card ID are
// skipped.
func (s *CardStore) MergeBatch(ctx context.Context, records []crawler.CardRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.NewPersistence("begin batch transaction", err)
	}

	stamp := s.now().UTC().UnixMilli()
	for _, record := range records {
		if record.CardID == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cards (
				card_id, name, image_url, page_url, expansion, rarity,
				card_type, hp, attack1, attack2, ability, weakness,
				resistance, retreat_cost, timestamp
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(card_id) DO UPDATE SET
				name         = excluded.name,
				image_url    = excluded.image_url,
				page_url     = excluded.page_url,
				expansion    = excluded.expansion,
				rarity       = excluded.rarity,
				card_type    = excluded.card_type,
				hp           = excluded.hp,
				attack1      = excluded.attack1,
				attack2      = excluded.attack2,
				ability      = excluded.ability,
				weakness     = excluded.weakness,
				resistance   = excluded.resistance,
				retreat_cost = excluded.retreat_cost,
				timestamp    = excluded.timestamp`,
			record.CardID, record.Name, record.ImageURL, record.PageURL,
			nullString(record.Expansion), nullString(record.Rarity),
			nullString(record.CardType), nullInt(record.HP),
			nullString(record.Attack1), nullString(record.Attack2),
			nullString(record.Ability), nullString(record.Weakness),
			nullString(record.Resistance), nullInt(record.RetreatCost),
			stamp,
		)
		if err != nil {
			_ = tx.Rollback()
			return apperr.NewPersistence(fmt.Sprintf("upsert card %s", record.CardID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.NewPersistence("commit batch", err)
	}
	return nil
}

// FindByID returns the stored card with the given ID, or nil when absent
func (s *CardStore) FindByID(ctx context.Context, cardID string) (*StoredCard, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM cards WHERE card_id = ?`, cardID)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.NewPersistence("query card", err)
	}
	return card, nil
}

// ResolveDeck looks up the given card IDs and returns the matching rows in
// the order the IDs were given, duplicates resolved per occurrence. IDs with
// no stored row are reported separately, first occurrence order, deduplicated.
func (s *CardStore) ResolveDeck(ctx context.Context, cardIDs []string) ([]StoredCard, []string, error) {
	if len(cardIDs) == 0 {
		return nil, nil, nil
	}

	unique := make([]string, 0, len(cardIDs))
	seen := make(map[string]bool, len(cardIDs))
	for _, id := range cardIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	placeholders := strings.Repeat("?,", len(unique))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(unique))
	for i, id := range unique {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+` FROM cards WHERE card_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, nil, apperr.NewPersistence("query deck cards", err)
	}
	defer rows.Close()

	byID := make(map[string]StoredCard, len(unique))
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, nil, apperr.NewPersistence("scan deck card", err)
		}
		byID[card.CardID] = *card
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperr.NewPersistence("iterate deck cards", err)
	}

	// The store lookup is unordered; deck order comes from the ID list
	var resolved []StoredCard
	var missing []string
	reported := make(map[string]bool)
	for _, id := range cardIDs {
		if card, ok := byID[id]; ok {
			resolved = append(resolved, card)
		} else if !reported[id] {
			reported[id] = true
			missing = append(missing, id)
		}
	}
	return resolved, missing, nil
}

// Count returns the number of stored cards
func (s *CardStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count); err != nil {
		return 0, apperr.NewPersistence("count cards", err)
	}
	return count, nil
}

const selectColumns = `SELECT card_id, name, image_url, page_url, expansion,
	rarity, card_type, hp, attack1, attack2, ability, weakness, resistance,
	retreat_cost, timestamp`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*StoredCard, error) {
	var card StoredCard
	var expansion, rarity, cardType, attack1, attack2 sql.NullString
	var ability, weakness, resistance sql.NullString
	var hp, retreatCost sql.NullInt64
	var stamp int64

	err := row.Scan(
		&card.CardID, &card.Name, &card.ImageURL, &card.PageURL,
		&expansion, &rarity, &cardType, &hp,
		&attack1, &attack2, &ability, &weakness, &resistance,
		&retreatCost, &stamp,
	)
	if err != nil {
		return nil, err
	}

	card.Expansion = expansion.String
	card.Rarity = rarity.String
	card.CardType = cardType.String
	card.Attack1 = attack1.String
	card.Attack2 = attack2.String
	card.Ability = ability.String
	card.Weakness = weakness.String
	card.Resistance = resistance.String
	if hp.Valid {
		v := int(hp.Int64)
		card.HP = &v
	}
	if retreatCost.Valid {
		v := int(retreatCost.Int64)
		card.RetreatCost = &v
	}
	card.Timestamp = time.UnixMilli(stamp).UTC()

	return &card, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
