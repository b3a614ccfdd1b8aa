package commands

import (
	"context"
	"log/slog"

	"shipping/internal/core/ports"
)

// discardImage removes an upload that ended up unreferenced. Failures are logged only.
func discardImage(ctx context.Context, storage ports.ImageStorage, logger *slog.Logger, ref string) {
	if ref == "" {
		return
	}
	if err := storage.Delete(ctx, ref); err != nil {
		logger.WarnContext(ctx, "failed to delete image", "ref", ref, "error", err)
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
