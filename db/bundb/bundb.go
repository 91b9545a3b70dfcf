// Package bundb opens the shared Postgres connection pool and registers
// every module's models.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	lotterydb "github.com/cryptolotto/lotto-backend/app/modules/lottery/infrastructure/repositories"
	paymentdb "github.com/cryptolotto/lotto-backend/app/modules/payment/infrastructure/repositories"
	ticketdb "github.com/cryptolotto/lotto-backend/app/modules/ticket/infrastructure/repositories"
	userdb "github.com/cryptolotto/lotto-backend/app/modules/user/infrastructure/repositories"
	"github.com/cryptolotto/lotto-backend/config"
)

// New connects to Postgres and returns a bun.DB with all models registered.
func New(ctx context.Context, cfg config.PostgresConfig) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(
		(*lotterydb.Round)(nil),
		(*ticketdb.Ticket)(nil),
		(*paymentdb.Payment)(nil),
		(*userdb.User)(nil),
	)

	return db, nil
}
