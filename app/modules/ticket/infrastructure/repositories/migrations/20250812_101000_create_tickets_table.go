package ticketmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tickets table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tickets (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					lottery_id UUID NOT NULL REFERENCES lotteries(id),
					user_id VARCHAR(64) NOT NULL,
					ticket_number INT NOT NULL CHECK (ticket_number > 0),
					price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
					payment_method VARCHAR(16) NOT NULL,
					transaction_ref VARCHAR(255) NOT NULL,
					batch_seq INT NOT NULL DEFAULT 0 CHECK (batch_seq >= 0),
					is_winner BOOLEAN NOT NULL DEFAULT FALSE,
					purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create tickets table: %w", err)
			}

			// Ticket numbers are unique within a round.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_tickets_lottery_number
				ON tickets(lottery_id, ticket_number);
			`); err != nil {
				return fmt.Errorf("failed to create lottery-number index: %w", err)
			}

			// One ticket per confirmation reference and batch position;
			// replayed webhooks hit this index instead of minting twice.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_tickets_confirmation
				ON tickets(payment_method, transaction_ref, batch_seq);
			`); err != nil {
				return fmt.Errorf("failed to create confirmation index: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_tickets_user ON tickets(user_id);
			`); err != nil {
				return fmt.Errorf("failed to create user index: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tickets table...")
		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS tickets;`); err != nil {
			return fmt.Errorf("failed to drop tickets table: %w", err)
		}
		return nil
	})
}
