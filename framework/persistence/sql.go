package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/km-arc/go-force/framework/config"
)

// Open connects to the database configured under db.*.
func Open(cfg config.DBConfig) (*sqlx.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("persistence: db.dsn is required for driver %q", cfg.Driver)
	}
	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("persistence: opening %s: %w", cfg.Driver, err)
	}
	if cfg.MaxPoolSize > 0 {
		db.SetMaxOpenConns(cfg.MaxPoolSize)
		db.SetMaxIdleConns(cfg.MaxPoolSize)
	}
	return db, nil
}

// Table describes how entities map to one SQL table. Columns excludes the id
// column, which the database assigns on insert.
type Table struct {
	Name     string
	IDColumn string
	Columns  []string
}

// SQL is a Repository backed by sqlx. Entities are mapped through their db
// struct tags.
type SQL[E any, K comparable] struct {
	db       *sqlx.DB
	table    Table
	identity Identity[E, K]

	selectAll  string
	selectByID string
	insert     string
	update     string
	remove     string
	count      string
}

// NewSQL prepares the statements for table.
func NewSQL[E any, K comparable](db *sqlx.DB, table Table, identity Identity[E, K]) *SQL[E, K] {
	if table.IDColumn == "" {
		table.IDColumn = "id"
	}
	named := make([]string, len(table.Columns))
	sets := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		named[i] = ":" + c
		sets[i] = c + " = :" + c
	}
	all := table.IDColumn + ", " + strings.Join(table.Columns, ", ")

	return &SQL[E, K]{
		db:       db,
		table:    table,
		identity: identity,

		selectAll:  fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", all, table.Name, table.IDColumn),
		selectByID: db.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", all, table.Name, table.IDColumn)),
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			table.Name, strings.Join(table.Columns, ", "), strings.Join(named, ", "), table.IDColumn),
		update: fmt.Sprintf("UPDATE %s SET %s WHERE %s = :%s",
			table.Name, strings.Join(sets, ", "), table.IDColumn, table.IDColumn),
		remove: db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table.Name, table.IDColumn)),
		count:  fmt.Sprintf("SELECT COUNT(*) FROM %s", table.Name),
	}
}

func (r *SQL[E, K]) notFound(id K) error {
	return fmt.Errorf("%w: %s id %v", ErrNotFound, r.table.Name, id)
}

func (r *SQL[E, K]) FindByID(ctx context.Context, id K) (E, error) {
	var e E
	err := r.db.GetContext(ctx, &e, r.selectByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return e, r.notFound(id)
	}
	if err != nil {
		return e, fmt.Errorf("persistence: find %s: %w", r.table.Name, err)
	}
	return e, nil
}

func (r *SQL[E, K]) FindAll(ctx context.Context) ([]E, error) {
	out := []E{}
	if err := r.db.SelectContext(ctx, &out, r.selectAll); err != nil {
		return nil, fmt.Errorf("persistence: list %s: %w", r.table.Name, err)
	}
	return out, nil
}

func (r *SQL[E, K]) Save(ctx context.Context, e E) (E, error) {
	query, args, err := sqlx.Named(r.insert, e)
	if err != nil {
		return e, fmt.Errorf("persistence: binding %s insert: %w", r.table.Name, err)
	}
	var id K
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&id); err != nil {
		return e, fmt.Errorf("persistence: insert %s: %w", r.table.Name, err)
	}
	return r.identity.Set(e, id), nil
}

func (r *SQL[E, K]) Update(ctx context.Context, id K, e E) (E, error) {
	e = r.identity.Set(e, id)
	res, err := r.db.NamedExecContext(ctx, r.update, e)
	if err != nil {
		return e, fmt.Errorf("persistence: update %s: %w", r.table.Name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return e, r.notFound(id)
	}
	return e, nil
}

func (r *SQL[E, K]) Delete(ctx context.Context, id K) error {
	res, err := r.db.ExecContext(ctx, r.remove, id)
	if err != nil {
		return fmt.Errorf("persistence: delete %s: %w", r.table.Name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return r.notFound(id)
	}
	return nil
}

func (r *SQL[E, K]) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.count); err != nil {
		return 0, fmt.Errorf("persistence: count %s: %w", r.table.Name, err)
	}
	return n, nil
}
