package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/admirror/internal/types"
)

// InsertCostLog appends one AI-call record to the cost ledger
func (db *DB) InsertCostLog(ctx context.Context, entry types.CostLogEntry) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO ai_cost_log (id, ad_id, model, input_tokens, output_tokens,
		                          estimated_cost_usd, duration_ms, success, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`,
		entry.ID, entry.AdID, entry.Model, entry.InputTokens, entry.OutputTokens,
		entry.EstimatedCostUSD, entry.DurationMs, entry.Success, entry.ErrorMessage, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cost log entry: %w", err)
	}
	return nil
}

// TotalSpendSince sums estimated spend across all AI calls after the cutoff,
// failed calls included since their tokens were still billed.
func (db *DB) TotalSpendSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := db.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(estimated_cost_usd), 0) FROM ai_cost_log WHERE created_at >= $1`,
		since,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum AI spend: %w", err)
	}
	return total, nil
}
