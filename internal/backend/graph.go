// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-orchestrator/internal/intent"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

const graphDBFile = "graph.db"

// GraphStore is a SQLite-backed relationship graph implementing
// GraphQuerier and PaperFetcher (R2.2). Papers, authors, citations and
// concepts are normalized tables; titles and abstracts are FTS5-indexed
// for the text-driven strategies.
type GraphStore struct {
	db *sql.DB
}

// NewGraphStore opens or creates the graph database under cfg.IndexDir
// and creates the schema if it does not exist.
func NewGraphStore(cfg types.GraphConfig) (*GraphStore, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, graphDBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening graph database: %w", err)
	}

	s := &GraphStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *GraphStore) Close() error {
	return s.db.Close()
}

func (s *GraphStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			abstract TEXT,
			year INTEGER,
			venue TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS authorship (
			paper_id TEXT NOT NULL,
			author_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			UNIQUE(paper_id, author_id)
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			citing TEXT NOT NULL,
			cited TEXT NOT NULL,
			UNIQUE(citing, cited)
		)`,
		`CREATE TABLE IF NOT EXISTS concepts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS paper_concepts (
			paper_id TEXT NOT NULL,
			concept_id INTEGER NOT NULL,
			UNIQUE(paper_id, concept_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authorship_author ON authorship(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_cited ON citations(cited)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_concepts_concept ON paper_concepts(concept_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
				INSERT INTO papers_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// AddPaper inserts or replaces a paper with its authors, concepts and
// outgoing citations.
func (s *GraphStore) AddPaper(ctx context.Context, p Paper) error {
	if p.ID == "" || p.Title == "" {
		return fmt.Errorf("paper needs an id and a title")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, abstract, year, venue) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title=excluded.title, abstract=excluded.abstract,
			year=excluded.year, venue=excluded.venue`,
		p.ID, p.Title, p.Abstract, p.Year, p.Venue); err != nil {
		return fmt.Errorf("inserting paper %s: %w", p.ID, err)
	}

	for i, name := range p.Authors {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO authors (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("inserting author %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO authorship (paper_id, author_id, position)
			 SELECT ?, id, ? FROM authors WHERE name = ?`, p.ID, i, name); err != nil {
			return fmt.Errorf("linking author %s: %w", name, err)
		}
	}

	for _, name := range p.Concepts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO concepts (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("inserting concept %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO paper_concepts (paper_id, concept_id)
			 SELECT ?, id FROM concepts WHERE name = ?`, p.ID, name); err != nil {
			return fmt.Errorf("linking concept %s: %w", name, err)
		}
	}

	for _, cited := range p.Cites {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO citations (citing, cited) VALUES (?, ?)`, p.ID, cited); err != nil {
			return fmt.Errorf("inserting citation %s -> %s: %w", p.ID, cited, err)
		}
	}

	return tx.Commit()
}

// Explore executes one exploration strategy. Missing parameters degrade
// to the broadest sensible interpretation rather than erroring: the
// orchestration layer treats parameter problems as absent fields (R3.1).
func (s *GraphStore) Explore(ctx context.Context, strategy intent.Strategy, params intent.Params, limit int) ([]types.Item, error) {
	if limit <= 0 {
		limit = 10
	}

	switch strategy {
	case intent.StrategyCitationChain:
		return s.citationChain(ctx, params.Paper, limit)
	case intent.StrategyInfluence:
		return s.influence(ctx, params.Concept, limit)
	case intent.StrategyContentSimilarity:
		return s.contentSimilarity(ctx, params.Paper, limit)
	case intent.StrategyRelated:
		return s.related(ctx, params.Paper, limit)
	case intent.StrategyCollaboration:
		return s.collaboration(ctx, params.Author, limit)
	case intent.StrategyConceptNetwork:
		return s.conceptNetwork(ctx, params.Concept, limit)
	case intent.StrategyTemporal:
		return s.temporal(ctx, params, limit)
	case intent.StrategyVenue:
		return s.venues(ctx, params.Concept, limit)
	case intent.StrategyComprehensive:
		return s.comprehensive(ctx, params, limit)
	}
	return nil, fmt.Errorf("unknown exploration strategy %q", strategy)
}

// citationChain walks outgoing citations transitively from the paper, up
// to three hops. Closer hops score higher.
func (s *GraphStore) citationChain(ctx context.Context, paperID string, limit int) ([]types.Item, error) {
	if paperID == "" {
		return []types.Item{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE chain(id, depth) AS (
			SELECT cited, 1 FROM citations WHERE citing = ?
			UNION
			SELECT c.cited, chain.depth + 1
			FROM citations c JOIN chain ON c.citing = chain.id
			WHERE chain.depth < 3
		)
		SELECT p.id, p.title, p.abstract, p.year, p.venue, MIN(chain.depth)
		FROM chain JOIN papers p ON p.id = chain.id
		GROUP BY p.id
		ORDER BY MIN(chain.depth), p.id
		LIMIT ?`, paperID, limit)
	if err != nil {
		return nil, fmt.Errorf("citation chain query: %w", err)
	}
	return s.scanPapers(rows, func(aux float64) float64 { return 1.0 / aux })
}

// influence ranks papers by incoming citation count, optionally filtered
// to a concept's papers.
func (s *GraphStore) influence(ctx context.Context, concept string, limit int) ([]types.Item, error) {
	query := `
		SELECT p.id, p.title, p.abstract, p.year, p.venue, COUNT(c.citing)
		FROM papers p JOIN citations c ON c.cited = p.id`
	args := []any{}
	if concept != "" {
		query += `
		JOIN paper_concepts pc ON pc.paper_id = p.id
		JOIN concepts co ON co.id = pc.concept_id AND co.name LIKE ?`
		args = append(args, "%"+concept+"%")
	}
	query += `
		GROUP BY p.id
		ORDER BY COUNT(c.citing) DESC, p.id
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("influence query: %w", err)
	}
	return s.scanPapers(rows, func(aux float64) float64 { return aux })
}

// contentSimilarity finds papers whose indexed text matches the reference
// paper's title terms. The vector backend is the primary home for this
// strategy; the graph variant is the structure-store fallback.
func (s *GraphStore) contentSimilarity(ctx context.Context, paperID string, limit int) ([]types.Item, error) {
	if paperID == "" {
		return []types.Item{}, nil
	}
	var title string
	err := s.db.QueryRowContext(ctx, `SELECT title FROM papers WHERE id = ?`, paperID).Scan(&title)
	if err == sql.ErrNoRows {
		return []types.Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading reference paper: %w", err)
	}

	match := ftsQuery(title)
	if match == "" {
		return []types.Item{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.abstract, p.year, p.venue, -papers_fts.rank
		FROM papers_fts JOIN papers p ON p.rowid = papers_fts.rowid
		WHERE papers_fts MATCH ? AND p.id != ?
		ORDER BY papers_fts.rank
		LIMIT ?`, match, paperID, limit)
	if err != nil {
		return nil, fmt.Errorf("content similarity query: %w", err)
	}
	return s.scanPapers(rows, func(aux float64) float64 { return aux })
}

// related finds papers sharing authors or concepts with the reference
// paper, ranked by how much they share.
func (s *GraphStore) related(ctx context.Context, paperID string, limit int) ([]types.Item, error) {
	if paperID == "" {
		return []types.Item{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.abstract, p.year, p.venue, COUNT(*) AS shared
		FROM papers p
		WHERE p.id != ? AND p.id IN (
			SELECT a2.paper_id FROM authorship a1
			JOIN authorship a2 ON a1.author_id = a2.author_id
			WHERE a1.paper_id = ?
			UNION ALL
			SELECT c2.paper_id FROM paper_concepts c1
			JOIN paper_concepts c2 ON c1.concept_id = c2.concept_id
			WHERE c1.paper_id = ?
		)
		GROUP BY p.id
		ORDER BY shared DESC, p.id
		LIMIT ?`, paperID, paperID, paperID, limit)
	if err != nil {
		return nil, fmt.Errorf("related query: %w", err)
	}
	return s.scanPapers(rows, func(aux float64) float64 { return aux })
}

// collaboration returns co-author entities for the author, ranked by
// joint paper count. Entities use the "author:" identifier prefix so they
// never collide with paper identifiers during fusion.
func (s *GraphStore) collaboration(ctx context.Context, author string, limit int) ([]types.Item, error) {
	if author == "" {
		return []types.Item{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT co.name, COUNT(DISTINCT a2.paper_id) AS joint
		FROM authors a
		JOIN authorship a1 ON a1.author_id = a.id
		JOIN authorship a2 ON a2.paper_id = a1.paper_id
		JOIN authors co ON co.id = a2.author_id AND co.id != a.id
		WHERE a.name LIKE ?
		GROUP BY co.name
		ORDER BY joint DESC, co.name
		LIMIT ?`, "%"+author+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("collaboration query: %w", err)
	}
	defer rows.Close()

	var items []types.Item
	for rows.Next() {
		var name string
		var joint int
		if err := rows.Scan(&name, &joint); err != nil {
			return nil, fmt.Errorf("scanning collaborator: %w", err)
		}
		items = append(items, types.Item{
			ID:      "author:" + name,
			Title:   name,
			Snippet: fmt.Sprintf("%d joint paper(s) with %s", joint, author),
			Score:   float64(joint),
			Source:  types.BackendGraph,
		})
	}
	return items, rows.Err()
}

// conceptNetwork returns papers attached to the concept, ranked by how
// many of their concepts co-occur with it.
func (s *GraphStore) conceptNetwork(ctx context.Context, concept string, limit int) ([]types.Item, error) {
	if concept == "" {
		return []types.Item{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.abstract, p.year, p.venue, COUNT(pc2.concept_id)
		FROM concepts c
		JOIN paper_concepts pc ON pc.concept_id = c.id
		JOIN papers p ON p.id = pc.paper_id
		LEFT JOIN paper_concepts pc2 ON pc2.paper_id = p.id
		WHERE c.name LIKE ?
		GROUP BY p.id
		ORDER BY COUNT(pc2.concept_id) DESC, p.id
		LIMIT ?`, "%"+concept+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("concept network query: %w", err)
	}
	return s.scanPapers(rows, func(aux float64) float64 { return aux })
}

// temporal returns concept-matching papers inside the year range, oldest
// first, so the caller sees the topic's development in order.
func (s *GraphStore) temporal(ctx context.Context, params intent.Params, limit int) ([]types.Item, error) {
	query := `
		SELECT p.id, p.title, p.abstract, p.year, p.venue, p.year
		FROM papers p WHERE p.year > 0`
	args := []any{}
	if params.Concept != "" {
		query += ` AND p.rowid IN (SELECT rowid FROM papers_fts WHERE papers_fts MATCH ?)`
		args = append(args, ftsQuery(params.Concept))
	}
	if params.YearFrom > 0 {
		query += ` AND p.year >= ?`
		args = append(args, params.YearFrom)
	}
	if params.YearTo > 0 {
		query += ` AND p.year <= ?`
		args = append(args, params.YearTo)
	}
	query += ` ORDER BY p.year, p.id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("temporal query: %w", err)
	}
	return s.scanPapers(rows, func(aux float64) float64 { return aux })
}

// venues returns venue entities ranked by paper count, optionally scoped
// to a concept.
func (s *GraphStore) venues(ctx context.Context, concept string, limit int) ([]types.Item, error) {
	query := `
		SELECT p.venue, COUNT(*) AS n
		FROM papers p`
	args := []any{}
	if concept != "" {
		query += `
		JOIN paper_concepts pc ON pc.paper_id = p.id
		JOIN concepts c ON c.id = pc.concept_id AND c.name LIKE ?`
		args = append(args, "%"+concept+"%")
	}
	query += `
		WHERE p.venue != ''
		GROUP BY p.venue
		ORDER BY n DESC, p.venue
		LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("venue query: %w", err)
	}
	defer rows.Close()

	var items []types.Item
	for rows.Next() {
		var venue string
		var n int
		if err := rows.Scan(&venue, &n); err != nil {
			return nil, fmt.Errorf("scanning venue: %w", err)
		}
		items = append(items, types.Item{
			ID:      "venue:" + venue,
			Title:   venue,
			Snippet: fmt.Sprintf("%d paper(s)", n),
			Venue:   venue,
			Score:   float64(n),
			Source:  types.BackendGraph,
		})
	}
	return items, rows.Err()
}

// comprehensive is the broadest strategy: full-text match over titles and
// abstracts using whatever parameter text is available.
func (s *GraphStore) comprehensive(ctx context.Context, params intent.Params, limit int) ([]types.Item, error) {
	text := params.Concept
	if text == "" {
		text = params.Author
	}
	match := ftsQuery(text)
	if match == "" {
		return []types.Item{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.abstract, p.year, p.venue, -papers_fts.rank
		FROM papers_fts JOIN papers p ON p.rowid = papers_fts.rowid
		WHERE papers_fts MATCH ?
		ORDER BY papers_fts.rank
		LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("comprehensive query: %w", err)
	}
	return s.scanPapers(rows, func(aux float64) float64 { return aux })
}

// GetPaper retrieves one paper's full record, including authors,
// concepts and citation links. It returns nil without error when the
// paper is unknown.
func (s *GraphStore) GetPaper(ctx context.Context, id string) (*Paper, error) {
	p := Paper{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT title, COALESCE(abstract, ''), COALESCE(year, 0), COALESCE(venue, '')
		 FROM papers WHERE id = ?`, id).
		Scan(&p.Title, &p.Abstract, &p.Year, &p.Venue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading paper %s: %w", id, err)
	}

	collect := func(query string, dst *[]string, args ...any) error {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return err
			}
			*dst = append(*dst, v)
		}
		return rows.Err()
	}

	if err := collect(`SELECT a.name FROM authorship ap JOIN authors a ON a.id = ap.author_id
		WHERE ap.paper_id = ? ORDER BY ap.position`, &p.Authors, id); err != nil {
		return nil, fmt.Errorf("loading authors: %w", err)
	}
	if err := collect(`SELECT c.name FROM paper_concepts pc JOIN concepts c ON c.id = pc.concept_id
		WHERE pc.paper_id = ? ORDER BY c.name`, &p.Concepts, id); err != nil {
		return nil, fmt.Errorf("loading concepts: %w", err)
	}
	if err := collect(`SELECT cited FROM citations WHERE citing = ? ORDER BY cited`, &p.Cites, id); err != nil {
		return nil, fmt.Errorf("loading citations: %w", err)
	}
	if err := collect(`SELECT citing FROM citations WHERE cited = ? ORDER BY citing`, &p.CitedBy, id); err != nil {
		return nil, fmt.Errorf("loading citing papers: %w", err)
	}

	return &p, nil
}

// scanPapers reads (id, title, abstract, year, venue, aux) rows into
// items, mapping the aux column through score.
func (s *GraphStore) scanPapers(rows *sql.Rows, score func(aux float64) float64) ([]types.Item, error) {
	defer rows.Close()

	var items []types.Item
	for rows.Next() {
		var (
			it       types.Item
			abstract sql.NullString
			year     sql.NullInt64
			venue    sql.NullString
			aux      float64
		)
		if err := rows.Scan(&it.ID, &it.Title, &abstract, &year, &venue, &aux); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		it.Snippet = snippet(abstract.String)
		it.Year = int(year.Int64)
		it.Venue = venue.String
		it.Score = score(aux)
		it.Source = types.BackendGraph
		items = append(items, it)
	}
	return items, rows.Err()
}

// ftsQuery turns free text into a safe FTS5 match expression: each term
// quoted, joined with OR so partial matches still rank.
func ftsQuery(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'`)
		if f == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, ``)+`"`)
	}
	return strings.Join(quoted, " OR ")
}
