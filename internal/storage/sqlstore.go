package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huandu/go-sqlbuilder"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/martinsuchenak/topogen/internal/log"
	"github.com/martinsuchenak/topogen/internal/model"
)

//go:embed schema.sql
var schema string

// Supported driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	tableNodes    = "node"
	tableElements = "cdpelement"
	tableLinks    = "cdplink"
)

// SQLStore implements Persister on SQLite or PostgreSQL
type SQLStore struct {
	db     *sqlx.DB
	flavor sqlbuilder.Flavor
	driver string
	opts   Options
}

// SQLiteDSN returns the DSN of the topology database inside dataDir
func SQLiteDSN(dataDir string) string {
	dbPath := filepath.Join(dataDir, "topology.db")
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
}

// NewSQLiteStore opens (or creates) the topology database in dataDir
func NewSQLiteStore(ctx context.Context, dataDir string, opts Options) (*SQLStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return Open(ctx, DriverSQLite, SQLiteDSN(dataDir), opts)
}

// Open connects to the store and makes sure the topology tables exist
func Open(ctx context.Context, driver, dsn string, opts Options) (*SQLStore, error) {
	var (
		sqlDriver string
		flavor    sqlbuilder.Flavor
	)
	switch driver {
	case DriverSQLite:
		sqlDriver, flavor = "sqlite", sqlbuilder.SQLite
	case DriverPostgres:
		sqlDriver, flavor = "pgx", sqlbuilder.PostgreSQL
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sqlx.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite works best with single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLStore{
		db:     db,
		flavor: flavor,
		driver: driver,
		opts:   opts.withDefaults(),
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Driver returns the driver name the store was opened with
func (s *SQLStore) Driver() string {
	return s.driver
}

// PersistNodes inserts nodes in batches
func (s *SQLStore) PersistNodes(ctx context.Context, nodes []*model.Node) error {
	query := s.insertQuery(tableNodes, "nodeid", "nodelabel", "location")
	return s.batchInsert(ctx, "node", query, len(nodes), func(i int) []any {
		n := nodes[i]
		return []any{n.ID, n.Label, n.Location.Name}
	})
}

// PersistElements inserts elements in batches. Their nodes must already exist.
func (s *SQLStore) PersistElements(ctx context.Context, elements []*model.Element) error {
	query := s.insertQuery(tableElements, "id", "nodeid", "cdpglobalrun", "cdpglobaldeviceid", "cdpnodelastpolltime")
	return s.batchInsert(ctx, "element", query, len(elements), func(i int) []any {
		e := elements[i]
		return []any{e.ID, e.NodeID(), int(e.GlobalRun), e.GlobalDeviceID, e.LastPollTime}
	})
}

// PersistLinks inserts two mirrored rows per link in batches
func (s *SQLStore) PersistLinks(ctx context.Context, links []model.Link) error {
	rows := make([]model.LinkRow, 0, 2*len(links))
	for i := range links {
		pair := links[i].Rows()
		rows = append(rows, pair[0], pair[1])
	}

	query := s.insertQuery(tableLinks,
		"id", "nodeid", "cdpcacheifindex", "cdpinterfacename", "cdpcacheaddresstype",
		"cdpcacheaddress", "cdpcacheversion", "cdpcachedeviceid", "cdpcachedeviceport",
		"cdpcachedeviceplatform", "cdplinklastpolltime", "cdpcachedeviceindex")

	return s.batchInsert(ctx, "link", query, len(rows), func(i int) []any {
		r := rows[i]
		port := r.DevicePort
		if s.opts.LegacyLinkColumns {
			port = r.DeviceID
		}
		return []any{
			r.ID, r.NodeID, r.IfIndex, r.InterfaceName, int(r.AddressType),
			r.Address, r.Version, r.DeviceID, port,
			r.Platform, r.LastPollTime, r.DeviceIndex,
		}
	})
}

// DeleteTopology removes every generated row above the watermark. The three
// deletes share one connection and run in order; the first failure stops the rest.
func (s *SQLStore) DeleteTopology(ctx context.Context) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return &PersistenceError{Op: "delete topology", Err: fmt.Errorf("acquiring connection: %w", err)}
	}
	defer conn.Close()

	// Links and elements reference nodes, so nodes go last.
	for _, table := range []string{tableLinks, tableElements, tableNodes} {
		del := s.flavor.NewDeleteBuilder()
		del.DeleteFrom(table)
		del.Where(del.GreaterThan("nodeid", s.opts.Watermark))
		query, args := del.Build()

		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return &PersistenceError{Op: "delete topology", Err: fmt.Errorf("deleting from %s: %w", table, err)}
		}

		n, err := res.RowsAffected()
		if err == nil {
			s.opts.Metrics.ObserveDelete(table, n)
		}
		log.Debug("Deleted generated rows", "table", table, "rows", n, "watermark", s.opts.Watermark)
	}

	return nil
}

// Counts returns the number of rows in each topology table
func (s *SQLStore) Counts(ctx context.Context) (TableCounts, error) {
	var counts TableCounts
	targets := []struct {
		table string
		dest  *int64
	}{
		{tableNodes, &counts.Nodes},
		{tableElements, &counts.Elements},
		{tableLinks, &counts.Links},
	}

	for _, t := range targets {
		sb := s.flavor.NewSelectBuilder()
		sb.Select("COUNT(*)").From(t.table)
		query, args := sb.Build()
		if err := s.db.GetContext(ctx, t.dest, query, args...); err != nil {
			return TableCounts{}, fmt.Errorf("counting %s: %w", t.table, err)
		}
	}

	return counts, nil
}

// insertQuery builds a single-row INSERT with one placeholder per column and
// the create time set by the database.
func (s *SQLStore) insertQuery(table string, cols ...string) string {
	createCol := map[string]string{
		tableNodes:    "nodecreatetime",
		tableElements: "cdpnodecreatetime",
		tableLinks:    "cdplinkcreatetime",
	}[table]

	values := make([]any, len(cols), len(cols)+1)
	values = append(values, sqlbuilder.Raw("CURRENT_TIMESTAMP"))

	ib := s.flavor.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols(append(cols, createCol)...)
	ib.Values(values...)

	query, _ := ib.Build()
	return query
}

// batchInsert writes n rows on one connection through a statement prepared
// once for the whole operation, committing a transaction per batch.
func (s *SQLStore) batchInsert(ctx context.Context, kind, query string, n int, bind func(i int) []any) error {
	op := "persist " + kind + "s"
	start := time.Now()

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return &PersistenceError{Op: op, Err: fmt.Errorf("acquiring connection: %w", err)}
	}
	defer conn.Close()

	stmt, err := conn.PrepareContext(ctx, query)
	if err != nil {
		return &PersistenceError{Op: op, Err: fmt.Errorf("preparing insert: %w", err)}
	}
	defer stmt.Close()

	batches := 0
	err = forEachBatch(n, s.opts.BatchSize, func(lo, hi int) error {
		if err := s.flush(ctx, conn, stmt, kind, lo, hi, bind); err != nil {
			return &PersistenceError{Op: op, Err: err}
		}
		batches++
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug("Bulk insert complete", "kind", kind, "rows", n, "batches", batches, "duration", time.Since(start))
	return nil
}

func (s *SQLStore) flush(ctx context.Context, conn *sqlx.Conn, stmt *sql.Stmt, kind string, lo, hi int, bind func(i int) []any) error {
	start := time.Now()

	// The transaction is driven on conn itself so stmt, prepared on the same
	// connection, runs without being re-prepared for every batch.
	if _, err := conn.ExecContext(ctx, "BEGIN"); err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK")
		}
	}()

	for i := lo; i < hi; i++ {
		if _, err := stmt.ExecContext(ctx, bind(i)...); err != nil {
			return fmt.Errorf("writing %s %d: %w", kind, i, err)
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	committed = true

	s.opts.Metrics.ObserveBatch(kind, hi-lo, time.Since(start))
	return nil
}
