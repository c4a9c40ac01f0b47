package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DBExecutor общий интерфейс для *sql.DB и обёртки с метриками
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Observer принимает длительность выполнения запроса
type Observer interface {
	ObserveDBQuery(operation string, d time.Duration)
}

// DB обёртка над DBExecutor, измеряющая длительность запросов
type DB struct {
	db       DBExecutor
	observer Observer
}

// Wrap оборачивает соединение с БД сбором метрик
func Wrap(db DBExecutor, observer Observer) *DB {
	return &DB{db: db, observer: observer}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe(query, time.Now())
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe(query, time.Now())
	return d.db.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer d.observe(query, time.Now())
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *DB) observe(query string, start time.Time) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveDBQuery(Operation(query), time.Since(start))
}

// Operation возвращает тип SQL-операции по первому слову запроса (select, insert, ...)
func Operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
