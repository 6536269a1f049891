package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInTx_Commit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vacuna").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tr := NewTransactor(db)
	err = tr.InTx(context.Background(), "add_vaccine", &sql.TxOptions{Isolation: sql.LevelSerializable}, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "INSERT INTO vacuna (cod_vacuna, nombre_vacuna) VALUES ($1, $2)", 1, "X")
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	tr := NewTransactor(db)
	err = tr.InTx(context.Background(), "add_vaccine", nil, func(*sql.Tx) error { return boom })

	// f's error is returned unchanged
	assert.Same(t, boom, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollbackOnPanic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tr := NewTransactor(db)
	assert.Panics(t, func() {
		_ = tr.InTx(context.Background(), "panicky", nil, func(*sql.Tx) error { panic("input loop") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	called := false
	tr := NewTransactor(db)
	err = tr.InTx(context.Background(), "x", nil, func(*sql.Tx) error { called = true; return nil })

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_CommitError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("could not serialize access"))

	tr := NewTransactor(db)
	err = tr.InTx(context.Background(), "x", nil, func(*sql.Tx) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit x")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RecordsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(sdktrace.NewTracerProvider())

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tr := NewTransactor(db)
	_ = tr.InTx(context.Background(), "insert_article", &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(*sql.Tx) error {
		return errors.New("duplicate key")
	})
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tx.insert_article", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestTransactor_DB(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Same(t, db, NewTransactor(db).DB())
}
