// Package db provides PostgreSQL plumbing for the slug stores: a pgx pool with
// startup retries, goose migrations, transactions and a health check.
//
// # Usage
//
//	var cfg db.Config
//	config.MustLoad(&cfg)
//
//	pool, err := db.Open(ctx, cfg.URL, cfg.Options()...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	sub, _ := fs.Sub(migrations, "migrations")
//	if err := db.Migrate(ctx, pool, sub, cfg.MigrationsTable, logger); err != nil {
//		log.Fatal(err)
//	}
//
// [WithTx] wraps a function in a transaction so a record insert and its slug
// derivation see the same snapshot:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		return postgres.New(tx, "articles", slugger).Save(ctx, rec)
//	})
//
// Errors are package sentinels joined with the cause via [errors.Join].
package db
