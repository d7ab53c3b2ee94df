// Package postgres persists scan history in Postgres.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devJaja/kivo-scanner/business/history/domain"
	"github.com/devJaja/kivo-scanner/internal/apperror"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id             BIGSERIAL PRIMARY KEY,
	opportunity_id TEXT NOT NULL,
	kind           TEXT NOT NULL,
	token          TEXT NOT NULL,
	from_chain_id  BIGINT NOT NULL,
	to_chain_id    BIGINT NOT NULL,
	spread_percent NUMERIC NOT NULL,
	net_usd        NUMERIC NOT NULL,
	risk           TEXT NOT NULL,
	found_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS executions (
	id             BIGSERIAL PRIMARY KEY,
	opportunity_id TEXT NOT NULL,
	success        BOOLEAN NOT NULL,
	detail         TEXT NOT NULL DEFAULT '',
	executed_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS opportunities_found_at_idx ON opportunities (found_at DESC);
CREATE INDEX IF NOT EXISTS executions_opportunity_idx ON executions (opportunity_id);
`

// Store provides Postgres persistence for scan history.
type Store struct {
	pool *pgxpool.Pool
	log  logger.LoggerInterface
}

// NewStore connects a pool against the DSN.
func NewStore(ctx context.Context, dsn string, log logger.LoggerInterface) (*Store, error) {
	if dsn == "" {
		return nil, apperror.New(apperror.CodeStoreUnavailable,
			apperror.WithContext("history dsn is required"))
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperror.External(apperror.CodeStoreUnavailable, "connect history store", err)
	}
	return &Store{pool: pool, log: log}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the history tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return apperror.External(apperror.CodeStoreUnavailable, "migrate history schema", err)
	}
	return nil
}

// SaveOpportunity inserts one scan finding.
func (s *Store) SaveOpportunity(ctx context.Context, rec domain.OpportunityRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO opportunities (
			opportunity_id, kind, token, from_chain_id, to_chain_id,
			spread_percent, net_usd, risk, found_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.OpportunityID,
		rec.Kind,
		rec.Token,
		int64(rec.FromChainID),
		int64(rec.ToChainID),
		rec.SpreadPercent,
		rec.NetUSD,
		rec.Risk,
		rec.FoundAt,
	)
	if err != nil {
		return apperror.External(apperror.CodeStoreQueryFailed, "insert opportunity", err)
	}
	return nil
}

// SaveExecution inserts one execution attempt.
func (s *Store) SaveExecution(ctx context.Context, rec domain.ExecutionRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO executions (opportunity_id, success, detail)
		VALUES ($1, $2, $3)`,
		rec.OpportunityID,
		rec.Success,
		rec.Detail,
	)
	if err != nil {
		return apperror.External(apperror.CodeStoreQueryFailed, "insert execution", err)
	}
	return nil
}

// RecentOpportunities returns the latest findings, newest first.
func (s *Store) RecentOpportunities(ctx context.Context, limit int) ([]domain.OpportunityRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, opportunity_id, kind, token, from_chain_id, to_chain_id,
		       spread_percent, net_usd, risk, found_at
		FROM opportunities
		ORDER BY found_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, apperror.External(apperror.CodeStoreQueryFailed, "query opportunities", err)
	}
	defer rows.Close()

	var out []domain.OpportunityRecord
	for rows.Next() {
		var rec domain.OpportunityRecord
		var fromChain, toChain int64
		if err := rows.Scan(
			&rec.ID, &rec.OpportunityID, &rec.Kind, &rec.Token,
			&fromChain, &toChain, &rec.SpreadPercent, &rec.NetUSD,
			&rec.Risk, &rec.FoundAt,
		); err != nil {
			return nil, apperror.External(apperror.CodeStoreQueryFailed, "scan opportunity row", err)
		}
		rec.FromChainID = uint64(fromChain)
		rec.ToChainID = uint64(toChain)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.External(apperror.CodeStoreQueryFailed, "iterate opportunity rows", err)
	}
	return out, nil
}

// Summary aggregates both tables in one round trip.
func (s *Store) Summary(ctx context.Context) (domain.Summary, error) {
	var sum domain.Summary
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM opportunities),
			(SELECT count(*) FROM executions),
			(SELECT count(*) FROM executions WHERE success),
			(SELECT COALESCE(max(net_usd), 0) FROM opportunities)`,
	).Scan(&sum.Opportunities, &sum.Executions, &sum.Successes, &sum.BestNetUSD)
	if err != nil {
		return domain.Summary{}, apperror.External(apperror.CodeStoreQueryFailed, "query summary", err)
	}
	return sum, nil
}
