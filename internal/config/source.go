package config

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/lensquote/internal/datasource"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/rgehrsitz/lensquote/internal/store"
)

// DirectSource builds the upstream source chain named by Source, without caching
func (c *AppConfig) DirectSource(ctx context.Context, logger logging.Logger) (datasource.Source, error) {
	logger = logging.OrNop(logger)

	gviz := func() (datasource.NamedSource, error) {
		if c.SheetID == "" {
			return datasource.NamedSource{}, fmt.Errorf("gviz: sheet_id (SHEET_ID) not configured")
		}
		g := datasource.NewGvizClient(c.SheetID, c.APIKey)
		g.Logger = logger
		return datasource.NamedSource{Name: "gviz", Source: g}, nil
	}
	sheetsAPI := func() (datasource.NamedSource, error) {
		s, err := datasource.NewSheetsAPISource(ctx, c.SheetID, datasource.ClientOptions(c.APIKey, c.CredentialsFile)...)
		if err != nil {
			return datasource.NamedSource{}, err
		}
		s.Logger = logger
		return datasource.NamedSource{Name: "sheets-api", Source: s}, nil
	}

	switch c.Source {
	case SourceProxy:
		return datasource.NewProxyClient(c.ProxyURL), nil
	case SourceGviz:
		ns, err := gviz()
		if err != nil {
			return nil, err
		}
		return ns.Source, nil
	case SourceSheetsAPI:
		ns, err := sheetsAPI()
		if err != nil {
			return nil, err
		}
		return ns.Source, nil
	}

	var chain []datasource.NamedSource
	if c.ProxyURL != "" {
		chain = append(chain, datasource.NamedSource{Name: "proxy", Source: datasource.NewProxyClient(c.ProxyURL)})
	}
	if ns, err := gviz(); err == nil {
		chain = append(chain, ns)
	} else {
		logger.Debugf("skipping source: %v", err)
	}
	if c.APIKey != "" || c.CredentialsFile != "" {
		if ns, err := sheetsAPI(); err == nil {
			chain = append(chain, ns)
		} else {
			logger.Warnf("skipping source: %v", err)
		}
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("no data source configured: set proxy_url or sheet_id")
	}
	return datasource.NewFallbackSource(logger, chain...), nil
}

// BuildSource returns the configured source, wrapped in the snapshot cache when
// cache_dsn is set. The returned close func releases the cache database.
func (c *AppConfig) BuildSource(ctx context.Context, logger logging.Logger) (datasource.Source, func() error, error) {
	src, err := c.DirectSource(ctx, logger)
	if err != nil {
		return nil, nil, err
	}
	if c.CacheDSN == "" {
		return src, func() error { return nil }, nil
	}

	db, err := store.OpenAndMigrate(c.CacheDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return datasource.NewCachedSource(src, store.NewSnapshots(db), logger), db.Close, nil
}
