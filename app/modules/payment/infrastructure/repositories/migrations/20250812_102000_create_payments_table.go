package paymentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating payments table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS payments (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id VARCHAR(64) NOT NULL,
					lottery_id UUID NOT NULL REFERENCES lotteries(id),
					quantity INT NOT NULL CHECK (quantity > 0),
					method VARCHAR(16) NOT NULL,
					transaction_ref VARCHAR(255) NOT NULL,
					amount NUMERIC(14,2) NOT NULL CHECK (amount >= 0),
					status VARCHAR(16) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create payments table: %w", err)
			}

			// One record per provider reference per rail.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_method_ref
				ON payments(method, transaction_ref);
			`); err != nil {
				return fmt.Errorf("failed to create method-ref index: %w", err)
			}

			// The pending sweep scans by status and age.
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_payments_status_created
				ON payments(status, created_at);
			`); err != nil {
				return fmt.Errorf("failed to create status-created index: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping payments table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS payments;`); err != nil {
			return fmt.Errorf("failed to drop payments table: %w", err)
		}
		return nil
	})
}
