package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	pkgch "TradePulse/pkg/clickhouse"
	applogger "TradePulse/pkg/logger"
)

// CHSignalStore implements SignalStore backed by ClickHouse. Scalar columns
// carry the queryable fields; the full envelope rides along as a JSON doc so
// diagnostics survive round-trips without a column per criterion.
type CHSignalStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.SignalStore = (*CHSignalStore)(nil)

func NewCHSignalStore(ch *pkgch.Client, table string) *CHSignalStore {
	if table == "" {
		table = "tradepulse.signals"
	}
	return &CHSignalStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSignalStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSignalStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE DATABASE IF NOT EXISTS tradepulse`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            ts            DateTime64(3),
            symbol        String,
            tier          String,
            emitted       UInt8,
            cause         String,
            direction     String,
            confidence    Float64,
            signal_weight Float64,
            passed        UInt16,
            total         UInt16,
            doc           String
        ) ENGINE = MergeTree()
        PARTITION BY toYYYYMM(ts)
        ORDER BY (symbol, tier, ts)`, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("signal store init: %w", err)
		}
	}
	return nil
}

func (s *CHSignalStore) Store(ctx context.Context, env *models.SignalEnvelope) error {
	start := time.Now()
	doc, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	emitted := uint8(0)
	if env.Emitted {
		emitted = 1
	}
	q := fmt.Sprintf(`INSERT INTO %s
        (ts, symbol, tier, emitted, cause, direction, confidence, signal_weight, passed, total, doc)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err = s.db.ExecContext(ctx, q,
		env.Timestamp,
		env.Symbol,
		env.TierID,
		emitted,
		env.NoSignalCause,
		string(env.Direction),
		env.Confidence,
		env.SignalWeight,
		uint16(env.Passed),
		uint16(env.Total),
		string(doc),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store signal error",
				applogger.String("symbol", env.Symbol),
				applogger.String("tier", env.TierID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store signal: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse store signal ok",
			applogger.String("symbol", env.Symbol),
			applogger.String("tier", env.TierID),
			applogger.Bool("emitted", env.Emitted),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSignalStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int, emittedOnly bool) ([]*models.SignalEnvelope, error) {
	start := time.Now()
	q := fmt.Sprintf("SELECT doc FROM %s WHERE ts >= ? AND ts <= ?", s.table)
	args := []interface{}{from, to}
	if symbol != "" {
		q += " AND symbol = ?"
		args = append(args, symbol)
	}
	if emittedOnly {
		q += " AND emitted = 1"
	}
	q += " ORDER BY ts DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse query signals error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := make([]*models.SignalEnvelope, 0, limit)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		var env models.SignalEnvelope
		if err := json.Unmarshal([]byte(doc), &env); err != nil {
			return nil, fmt.Errorf("unmarshal envelope: %w", err)
		}
		out = append(out, &env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse query signals ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHSignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHSignalStore) Close() error {
	return nil // Managed by pkg
}
