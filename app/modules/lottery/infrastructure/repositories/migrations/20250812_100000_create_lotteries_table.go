package lotterymigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating lotteries table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS lotteries (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					round BIGINT NOT NULL UNIQUE,
					start_time TIMESTAMPTZ NOT NULL,
					end_time TIMESTAMPTZ NOT NULL,
					ticket_price NUMERIC(12,2) NOT NULL CHECK (ticket_price > 0),
					total_pool NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (total_pool >= 0),
					tickets_sold INT NOT NULL DEFAULT 0 CHECK (tickets_sold >= 0),
					max_tickets INT NOT NULL CHECK (max_tickets > 0),
					status VARCHAR(16) NOT NULL,
					winner_ticket INT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (tickets_sold <= max_tickets)
				);
			`); err != nil {
				return fmt.Errorf("failed to create lotteries table: %w", err)
			}

			// At most one Active round at a time.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_lotteries_single_active
				ON lotteries ((TRUE)) WHERE status = 'active';
			`); err != nil {
				return fmt.Errorf("failed to create single-active index: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_lotteries_status ON lotteries(status);
			`); err != nil {
				return fmt.Errorf("failed to create status index: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping lotteries table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS lotteries;`); err != nil {
			return fmt.Errorf("failed to drop lotteries table: %w", err)
		}
		return nil
	})
}
