package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/fulmenhq/gofulmen/foundry"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/ailink"
	"github.com/namelens/namesmith/internal/observability"
)

// ExitCodeFor maps a command error to a semantic foundry exit code.
func ExitCodeFor(err error) foundry.ExitCode {
	var retry *ailink.RetryError
	var envelope *errors.ErrorEnvelope
	switch {
	case err == nil:
		return 0
	case stderrors.As(err, &retry):
		return foundry.ExitExternalServiceUnavailable
	case stderrors.As(err, &envelope) && envelope.Code == "CONFIG_INVALID":
		return foundry.ExitConfigInvalid
	default:
		return foundry.ExitFailure
	}
}

// ExitWithCode logs err with the exit code's catalog metadata and exits.
// A nil logger falls back to stderr.
func ExitWithCode(logger observability.Logger, exitCode foundry.ExitCode, msg string, err error) {
	if logger == nil {
		ExitWithCodeStderr(exitCode, msg, err)
		return
	}

	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		ExitWithCodeStderr(exitCode, msg, err)
		return
	}

	fields := []zap.Field{
		zap.Int("exit_code", info.Code),
		zap.String("exit_name", info.Name),
		zap.String("exit_category", info.Category),
	}
	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) {
		fields = append(fields,
			zap.String("error_code", envelope.Code),
			zap.String("correlation_id", envelope.CorrelationID))
		if original, ok := envelope.Original.(error); ok {
			err = original
		}
	}
	fields = append(fields, zap.Error(err))
	logger.Error(msg, fields...)

	os.Exit(info.Code)
}

// ExitWithCodeStderr writes to stderr without a logger. Use it for failures
// before logger initialization.
func ExitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	}

	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		os.Exit(int(exitCode))
	}
	fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
	os.Exit(info.Code)
}
