package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// QueryParams encapsulates all query parameters.
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword.
	// Example: "Tick > ? AND Ability = ?"
	Where string

	// Args holds the arguments for the placeholders in Where.
	Args []any

	// Limit is the maximum number of records to return. 0 means no limit.
	Limit int

	// Offset is the number of records to skip.
	Offset int

	// OrderBy specifies sorting, without the "ORDER BY" keywords.
	OrderBy string
}

// DataReader reads tables written by a DataRecorder.
type DataReader interface {
	// MapTable establishes a mapping between a database table and a Go struct
	// type. This mapping is required before querying a table.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns a list of all tables that have been mapped.
	ListTables() []string

	// Query executes a query on a table and returns pointers to the decoded
	// structs and the total number of matching rows ignoring Limit.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the reader.
	Close() error
}

type sqliteReader struct {
	*sql.DB

	typeMap map[string]reflect.Type
}

// NewReader opens a SQLite file for reading.
func NewReader(dbFilename string) (DataReader, error) {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbFilename, err)
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a new DataReader with a given database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		DB:      db,
		typeMap: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.typeMap[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	tables := make([]string, 0, len(r.typeMap))
	for table := range r.typeMap {
		tables = append(tables, table)
	}
	slices.Sort(tables)

	return tables
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	structType, ok := r.typeMap[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("no mapping found for table: %s", tableName)
	}

	var total int
	err := r.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+params.where(),
		params.Args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", tableName, err)
	}

	rows, err := r.QueryContext(ctx,
		"SELECT * FROM "+tableName+params.where()+params.page(),
		params.Args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", tableName, err)
	}
	defer rows.Close()

	results, err := r.scanRowsToSlice(rows, structType)
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", tableName, err)
	}

	return results, total, nil
}

func (p QueryParams) where() string {
	if p.Where == "" {
		return ""
	}

	return " WHERE " + p.Where
}

func (p QueryParams) page() string {
	var b strings.Builder

	if p.OrderBy != "" {
		b.WriteString(" ORDER BY " + p.OrderBy)
	}

	if p.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", p.Limit)

		if p.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", p.Offset)
		}
	}

	return b.String()
}

func (r *sqliteReader) scanRowsToSlice(
	rows *sql.Rows,
	structType reflect.Type,
) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	// Column i is written into field fieldOf[i]; -1 discards the column.
	fieldOf := make([]int, len(columns))
	for i, col := range columns {
		fieldOf[i] = -1
		if f, ok := structType.FieldByName(col); ok && len(f.Index) == 1 {
			fieldOf[i] = f.Index[0]
		}
	}

	var results []any
	for rows.Next() {
		entry := reflect.New(structType)
		targets := make([]any, len(columns))

		for i, field := range fieldOf {
			if field < 0 {
				targets[i] = new(any)
				continue
			}

			targets[i] = entry.Elem().Field(field).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.DB.Close()
}
