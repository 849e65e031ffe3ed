package offline

import (
	"context"
	"fmt"
	"time"

	"github.com/barisgit/fluxdocs/config"
	"github.com/barisgit/fluxdocs/internal/docgen"
)

// Generate opens the configured storage, regenerates every document for the
// routes of enumerator and closes the storage again
func Generate(ctx context.Context, settings config.Settings, enumerator Enumerator, opts ...Option) (*Result, error) {
	start := time.Now()

	b, err := Open(ctx, settings, enumerator, docgen.New(), opts...)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	result, err := b.GenerateAll(ctx)
	if err != nil {
		b.logger.Error(fmt.Sprintf("Failed to generate docs: %v", err))
		return nil, err
	}

	b.logger.Info(fmt.Sprintf("Generated %d files in %s", len(result.Files), time.Since(start).Round(time.Millisecond)))
	return result, nil
}
