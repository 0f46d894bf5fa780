package tablegate

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// primaryKeyColumn is the column every table is keyed by.
const primaryKeyColumn = "id"

// Record is one schema-less row: a mapping from column name to value.
// The gateway never interprets fields; they pass through as the database
// reports them.
type Record map[string]any

// Client is the process-wide handle to the configured database service.
// It is read-only after construction and safe for concurrent use.
type Client struct {
	db     *gorm.DB
	driver string
}

// NewClient wraps an open GORM handle for the given driver.
func NewClient(db *gorm.DB, driver string) *Client {
	return &Client{db: db, driver: normalizeDriver(driver)}
}

// Table starts a query against the named table.
func (c *Client) Table(name string) *Query {
	return &Query{client: c, table: name}
}

// Ping verifies the underlying connection is alive.
func (c *Client) Ping() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

type condition struct {
	column string
	value  any
}

// Query is a chainable single-table query. Each terminal method performs
// exactly one logical operation against the database service.
type Query struct {
	client  *Client
	table   string
	columns []string
	conds   []condition
}

// Select sets the projection. The default is all columns.
func (q *Query) Select(columns ...string) *Query {
	q.columns = columns
	return q
}

// Eq adds an equality condition. Conditions are AND-combined.
// A nil value compares IS NULL.
func (q *Query) Eq(column string, value any) *Query {
	q.conds = append(q.conds, condition{column: column, value: value})
	return q
}

// validate rejects unsafe identifiers before they reach SQL.
func (q *Query) validate() error {
	if !sanitizeIdent(q.table) {
		return NewE(KindValidation, "invalid table name")
	}
	for _, col := range q.columns {
		if col != "*" && !sanitizeIdent(col) {
			return NewE(KindValidation, "invalid column name")
		}
	}
	for _, c := range q.conds {
		if !sanitizeIdent(c.column) {
			return NewE(KindValidation, "invalid filter column")
		}
	}
	return nil
}

func (q *Query) quotedTable() string {
	return quoteIdent(q.client.driver, q.table)
}

func (q *Query) projection() string {
	if len(q.columns) == 0 {
		return "*"
	}
	cols := make([]string, len(q.columns))
	for i, c := range q.columns {
		if c == "*" {
			cols[i] = "*"
			continue
		}
		cols[i] = quoteIdent(q.client.driver, c)
	}
	return strings.Join(cols, ", ")
}

// whereClause renders the AND-combined conditions with bind parameters.
func (q *Query) whereClause() (string, []any) {
	if len(q.conds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(q.conds))
	args := make([]any, 0, len(q.conds))
	for _, c := range q.conds {
		qcol := quoteIdent(q.client.driver, c.column)
		if c.value == nil {
			parts = append(parts, qcol+" IS NULL")
			continue
		}
		parts = append(parts, qcol+" = ?")
		args = append(args, c.value)
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func (q *Query) selectSQL(limitOne bool) (string, []any) {
	where, args := q.whereClause()
	if limitOne && q.client.driver == "sqlserver" {
		return "SELECT TOP (1) " + q.projection() + " FROM " + q.quotedTable() + where, args
	}
	sqlStr := "SELECT " + q.projection() + " FROM " + q.quotedTable() + where
	if limitOne {
		sqlStr += " LIMIT 1"
	}
	return sqlStr, args
}

// Find runs the select and returns all matching records.
// No match is an empty slice, not an error.
func (q *Query) Find() ([]Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	sqlStr, args := q.selectSQL(false)
	rows, err := q.client.db.Raw(sqlStr, args...).Rows()
	if err != nil {
		return nil, Wrap(KindRemote, "select from "+q.table+" failed", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// First runs the select limited to one row.
// Zero rows is a not-found error.
func (q *Query) First() (Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	sqlStr, args := q.selectSQL(true)
	rows, err := q.client.db.Raw(sqlStr, args...).Rows()
	if err != nil {
		return nil, Wrap(KindRemote, "select from "+q.table+" failed", err)
	}
	defer rows.Close()
	rec, ok, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewE(KindNotFound, "record not found")
	}
	return rec, nil
}

// Insert stores rec as a new row and returns the row as the database stores
// it. Drivers with RETURNING (or OUTPUT) read it back in the same statement;
// mysql re-selects inside the same transaction.
func (q *Query) Insert(rec Record) (Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, NewE(KindValidation, "record data required")
	}
	cols, args, err := q.recordColumns(rec)
	if err != nil {
		return nil, err
	}
	qcols := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		qcols[i] = quoteIdent(q.client.driver, c)
		ph[i] = "?"
	}
	colList := strings.Join(qcols, ", ")
	phList := strings.Join(ph, ", ")

	var created Record
	err = q.client.db.Transaction(func(tx *gorm.DB) error {
		switch q.client.driver {
		case "postgres", "sqlite":
			sqlStr := "INSERT INTO " + q.quotedTable() + " (" + colList + ") VALUES (" + phList + ") RETURNING *"
			var innerErr error
			created, innerErr = queryOne(tx, sqlStr, args...)
			return innerErr
		case "sqlserver":
			sqlStr := "INSERT INTO " + q.quotedTable() + " (" + colList + ") OUTPUT INSERTED.* VALUES (" + phList + ")"
			var innerErr error
			created, innerErr = queryOne(tx, sqlStr, args...)
			return innerErr
		default: // mysql
			sqlStr := "INSERT INTO " + q.quotedTable() + " (" + colList + ") VALUES (" + phList + ")"
			if err := tx.Exec(sqlStr, args...).Error; err != nil {
				return err
			}
			qkey := quoteIdent(q.client.driver, primaryKeyColumn)
			if id, ok := rec[primaryKeyColumn]; ok {
				var innerErr error
				created, innerErr = queryOne(tx, "SELECT * FROM "+q.quotedTable()+" WHERE "+qkey+" = ? LIMIT 1", id)
				return innerErr
			}
			var innerErr error
			created, innerErr = queryOne(tx, "SELECT * FROM "+q.quotedTable()+" WHERE "+qkey+" = LAST_INSERT_ID() LIMIT 1")
			return innerErr
		}
	})
	if err != nil {
		return nil, wrapRemote("insert into "+q.table+" failed", err)
	}
	return created, nil
}

// Update sets rec's columns on the rows matching the conditions and returns
// the stored row. Zero matches is a not-found error; an update must be
// filtered and must match a single row.
func (q *Query) Update(rec Record) (Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if len(rec) == 0 {
		return nil, NewE(KindValidation, "record data required")
	}
	if len(q.conds) == 0 {
		return nil, NewE(KindValidation, "update requires a filter")
	}
	cols, setArgs, err := q.recordColumns(rec)
	if err != nil {
		return nil, err
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = quoteIdent(q.client.driver, c) + " = ?"
	}
	where, whereArgs := q.whereClause()

	var updated Record
	err = q.client.db.Transaction(func(tx *gorm.DB) error {
		if err := q.mustMatchOne(tx, where, whereArgs); err != nil {
			return err
		}
		sqlStr := "UPDATE " + q.quotedTable() + " SET " + strings.Join(sets, ", ") + where
		args := append(append([]any{}, setArgs...), whereArgs...)
		if err := tx.Exec(sqlStr, args...).Error; err != nil {
			return err
		}
		selSQL, selArgs := q.Select().selectSQL(true)
		var innerErr error
		updated, innerErr = queryOne(tx, selSQL, selArgs...)
		return innerErr
	})
	if err != nil {
		return nil, wrapRemote("update "+q.table+" failed", err)
	}
	return updated, nil
}

// Delete removes the row matching the conditions. Zero matches is a
// not-found error; a delete must be filtered and must match a single row.
func (q *Query) Delete() error {
	if err := q.validate(); err != nil {
		return err
	}
	if len(q.conds) == 0 {
		return NewE(KindValidation, "delete requires a filter")
	}
	where, whereArgs := q.whereClause()

	err := q.client.db.Transaction(func(tx *gorm.DB) error {
		if err := q.mustMatchOne(tx, where, whereArgs); err != nil {
			return err
		}
		var delSQL string
		switch q.client.driver {
		case "mysql":
			delSQL = "DELETE FROM " + q.quotedTable() + where + " LIMIT 1"
		case "sqlserver":
			delSQL = "DELETE TOP (1) FROM " + q.quotedTable() + where
		default:
			delSQL = "DELETE FROM " + q.quotedTable() + where
		}
		return tx.Exec(delSQL, whereArgs...).Error
	})
	if err != nil {
		return wrapRemote("delete from "+q.table+" failed", err)
	}
	return nil
}

// mustMatchOne verifies the conditions match exactly one row.
func (q *Query) mustMatchOne(tx *gorm.DB, where string, args []any) error {
	var cnt int64
	countSQL := "SELECT COUNT(*) FROM " + q.quotedTable() + where
	if err := tx.Raw(countSQL, args...).Scan(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return NewE(KindNotFound, "record not found")
	}
	if cnt > 1 {
		return fmt.Errorf("refusing to modify: match count != 1")
	}
	return nil
}

// recordColumns returns rec's columns in a stable order plus their values.
func (q *Query) recordColumns(rec Record) ([]string, []any, error) {
	cols := make([]string, 0, len(rec))
	for c := range rec {
		if !sanitizeIdent(c) {
			return nil, nil, NewE(KindValidation, "invalid column name")
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = rec[c]
	}
	return cols, args, nil
}

// wrapRemote keeps typed errors as-is and tags everything else as remote.
func wrapRemote(msg string, err error) error {
	var e *E
	if errors.As(err, &e) {
		return err
	}
	return Wrap(KindRemote, msg, err)
}

func queryOne(tx *gorm.DB, sqlStr string, args ...any) (Record, error) {
	rows, err := tx.Raw(sqlStr, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rec, ok, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewE(KindNotFound, "record not found")
	}
	return rec, nil
}

// scanRecords materializes all rows into schema-less records.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, Wrap(KindRemote, "read columns failed", err)
	}
	out := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRow(rows, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, Wrap(KindRemote, "read rows failed", err)
	}
	return out, nil
}

// scanRecord materializes at most one row.
func scanRecord(rows *sql.Rows) (Record, bool, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, false, Wrap(KindRemote, "read columns failed", err)
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, Wrap(KindRemote, "read rows failed", err)
		}
		return nil, false, nil
	}
	rec, err := scanRow(rows, cols)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func scanRow(rows *sql.Rows, cols []string) (Record, error) {
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, Wrap(KindRemote, "scan row failed", err)
	}
	rec := make(Record, len(cols))
	for i, c := range cols {
		v := vals[i]
		// []byte values serialize poorly as JSON; present them as strings
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		rec[c] = v
	}
	return rec, nil
}
