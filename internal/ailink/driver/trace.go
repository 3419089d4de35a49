package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TraceEntry is one completion exchange written to the trace file.
type TraceEntry struct {
	Driver      string
	Endpoint    string
	Method      string
	Model       string
	RequestBody json.RawMessage
	StatusCode  int
	Response    json.RawMessage
	Error       string
	Duration    time.Duration
}

var tracer atomic.Pointer[zap.Logger]

// EnableTracing appends NDJSON completion traces to path until the returned
// cleanup runs. Enabling again replaces the previous sink.
func EnableTracing(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		MessageKey:     "event",
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	})
	logger := zap.New(zapcore.NewCore(encoder, zapcore.Lock(f), zapcore.DebugLevel))

	if prev := tracer.Swap(logger); prev != nil {
		_ = prev.Sync()
	}
	return func() {
		if tracer.CompareAndSwap(logger, nil) {
			_ = logger.Sync()
		}
		_ = f.Close()
	}, nil
}

// Trace records entry when tracing is enabled.
func Trace(entry TraceEntry) {
	logger := tracer.Load()
	if logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("driver", entry.Driver),
		zap.String("endpoint", entry.Endpoint),
		zap.String("method", entry.Method),
		zap.Duration("duration_ms", entry.Duration),
	}
	if entry.Model != "" {
		fields = append(fields, zap.String("model", entry.Model))
	}
	if entry.StatusCode != 0 {
		fields = append(fields, zap.Int("status_code", entry.StatusCode))
	}
	if len(entry.RequestBody) > 0 {
		fields = append(fields, zap.Any("request_body", entry.RequestBody))
	}
	if len(entry.Response) > 0 {
		fields = append(fields, zap.Any("response", entry.Response))
	}
	if entry.Error != "" {
		fields = append(fields, zap.String("error", entry.Error))
	}
	logger.Info("completion", fields...)
}
