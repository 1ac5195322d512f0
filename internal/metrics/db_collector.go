package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// StartDBCollectors samples inquiry and outbox table counts into gauges.
func StartDBCollectors(ctx context.Context, db *pgxpool.Pool, interval time.Duration, logger *logrus.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		updateDBGauges(ctx, db, logger)
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				updateDBGauges(ctx, db, logger)
			}
		}
	}()
}

func updateDBGauges(ctx context.Context, db *pgxpool.Pool, logger *logrus.Logger) {
	// inquiry counts by status
	{
		rows, err := db.Query(ctx, `SELECT status, COUNT(*) FROM inquiries GROUP BY status`)
		if err != nil {
			logger.WithError(err).Warn("metrics db query inquiries")
		} else {
			for rows.Next() {
				var status string
				var cnt int64
				if err := rows.Scan(&status, &cnt); err != nil {
					logger.WithError(err).Warn("metrics db scan inquiries")
					continue
				}
				SetInquiryStatusCount(status, cnt)
			}
			rows.Close()
		}
	}

	// categorization backlog
	{
		var cnt int64
		err := db.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries WHERE ai_category IS NULL AND status <> 'closed'`).Scan(&cnt)
		if err != nil {
			logger.WithError(err).Warn("metrics db query backlog")
		} else {
			SetUncategorizedCount(cnt)
		}
	}

	// outbox counts by status (+ pending)
	{
		rows, err := db.Query(ctx, `SELECT status, COUNT(*) FROM outbox_messages GROUP BY status`)
		if err != nil {
			// table may not exist yet in a fresh environment
			return
		}
		defer rows.Close()

		var pending int64
		for rows.Next() {
			var status string
			var cnt int64
			if err := rows.Scan(&status, &cnt); err != nil {
				logger.WithError(err).Warn("metrics db scan outbox")
				continue
			}
			SetOutboxStatusCount(status, cnt)
			if status == "pending" {
				pending = cnt
			}
		}
		SetOutboxPendingCount(pending)
	}
}
