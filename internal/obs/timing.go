package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const TraceIDKey ctxKey = "trace_id"

func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}

// Time logs the duration of an operation when the returned func runs.
// Pass a pointer to the named error return to log failures too.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()
	traceID := TraceID(ctx)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("trace_id=%s op=%s dur=%dms err=%v", traceID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("trace_id=%s op=%s dur=%dms", traceID, name, dur.Milliseconds())
	}
}
