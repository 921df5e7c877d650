package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/models"
	"github.com/vytor/econgraph/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type recordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new RecordRepository implementation
func NewRecordRepository(db *sql.DB) repository.RecordRepository {
	return &recordRepository{db: sqlx.NewDb(db, "sqlite3")}
}

func (r *recordRepository) Get(ctx context.Context, name string) (*models.Record, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("getting record: name=%s", name)

	query, args, err := sqlBuilder.
		Select("name", "value", "updated_at").
		From("records").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var rec models.Record
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("record not found: name=%s", name)
			return nil, nil
		}
		log.Error("failed to get record: %v", err)
		return nil, err
	}
	log.Debug("record found: name=%s, bytes=%d", name, len(rec.Value))
	return &rec, nil
}

func (r *recordRepository) Put(ctx context.Context, name string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("putting record: name=%s, bytes=%d", name, len(value))

	query, args, err := sqlBuilder.
		Insert("records").
		Columns("name", "value", "updated_at").
		Values(name, value, squirrel.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	return tx(ctx, r.db.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to put record: %v", err)
			return err
		}
		return nil
	})
}

func (r *recordRepository) Delete(ctx context.Context, name string) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("deleting record: name=%s", name)

	query, args, err := sqlBuilder.Delete("records").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete record: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		log.Debug("records deleted: %d", n)
	}
	return nil
}
