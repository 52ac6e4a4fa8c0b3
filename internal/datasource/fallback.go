package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/lensquote/internal/logging"
)

// NamedSource labels a source for logging
type NamedSource struct {
	Name   string
	Source Source
}

// FallbackSource tries each source in order and returns the first success
type FallbackSource struct {
	Sources []NamedSource
	Logger  logging.Logger
}

// NewFallbackSource creates a fallback chain
func NewFallbackSource(logger logging.Logger, sources ...NamedSource) *FallbackSource {
	return &FallbackSource{Sources: sources, Logger: logging.OrNop(logger)}
}

// Fetch returns the first successful envelope, or every failure joined
func (f *FallbackSource) Fetch(ctx context.Context, sheetName string) (*Envelope, error) {
	log := logging.OrNop(f.Logger)
	var errs []error
	for i, ns := range f.Sources {
		env, err := ns.Source.Fetch(ctx, sheetName)
		if err == nil {
			if i > 0 {
				log.Infof("fetched %s from %s", sheetName, ns.Name)
			}
			return env, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", ns.Name, err))
		if i < len(f.Sources)-1 {
			log.Warnf("%s failed for %s, falling back to %s: %v", ns.Name, sheetName, f.Sources[i+1].Name, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no data source configured for %s", sheetName)
	}
	return nil, errors.Join(errs...)
}
