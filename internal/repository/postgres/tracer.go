package postgres

import (
	"context"
	"strings"
	"time"

	"glowify-backend/pkg/logger"
	"glowify-backend/pkg/metrics"

	"github.com/jackc/pgx/v5"
)

type traceKey struct{}

type traceStart struct {
	sql   string
	start time.Time
}

// queryTracer logs every query at debug level and records its duration.
type queryTracer struct{}

func (queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, start: time.Now()})
}

func (queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	ts, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	logger.DBQuery(ts.sql, time.Since(ts.start), data.Err)
	metrics.TrackDBOperation(operationType(ts.sql))(ts.start)
}

// operationType is the leading SQL keyword, lower-cased ("select", "update", ...).
func operationType(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
