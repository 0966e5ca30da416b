// Package pg manages the PostgreSQL connection pool, schema migrations and
// health checks.
//
// Connect builds a pgxpool.Pool from Config and pings it with exponential
// backoff between attempts:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//
// Migrate runs goose over a database/sql handle opened from the pool. The
// users schema is embedded in the package; set PG_MIGRATIONS_PATH to use a
// directory on disk instead.
//
// WithTx and TxFromContext carry a pgx.Tx through a context so repositories can
// join the caller's transaction. IsNotFoundError, IsDuplicateKeyError,
// IsForeignKeyViolationError and IsTxClosedError classify driver errors.
package pg
