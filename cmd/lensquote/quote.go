package main

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/calculation"
	"github.com/rgehrsitz/lensquote/internal/config"
	"github.com/rgehrsitz/lensquote/internal/datasource"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/rgehrsitz/lensquote/internal/session"
)

// localIdentity names the operator of a CLI session
func localIdentity() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "local"
}

// loadTables fetches the tables through the configured sources
func loadTables(ctx context.Context, cmd *cobra.Command, logger logging.Logger) (*domain.Tables, error) {
	cfg, err := appConfig(cmd)
	if err != nil {
		return nil, err
	}
	src, closeSrc, err := cfg.BuildSource(ctx, logger)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	return datasource.NewLoader(src, logger).Load(ctx)
}

// quoteTables returns the quote file's inline tables, or fetches them
func quoteTables(ctx context.Context, cmd *cobra.Command, qf *config.QuoteFile, logger logging.Logger) (*domain.Tables, error) {
	if qf.Tables != nil {
		return qf.Tables.Build()
	}
	return loadTables(ctx, cmd, logger)
}

// quoteSession loads a quote file, installs its tables in a local session and
// applies the file's selections followed by any --set commands.
func quoteSession(ctx context.Context, cmd *cobra.Command, path string) (*session.Session, *config.QuoteFile, error) {
	logger := loggerFor(cmd)

	qf, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}

	cmds, err := qf.Commands()
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Lookup("set") != nil {
		specs, _ := cmd.Flags().GetStringArray("set")
		extra, err := session.NewRegistry().ParseCommandSpecs(specs)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --set: %w", err)
		}
		cmds = append(cmds, extra...)
	}

	tables, err := quoteTables(ctx, cmd, qf, logger)
	if err != nil {
		return nil, nil, err
	}

	engine := calculation.NewEngine()
	engine.SetLogger(logger)
	sess := session.New("cli", engine)
	sess.SetLogger(logger)
	if err := sess.SignIn(localIdentity(), true); err != nil {
		return nil, nil, err
	}
	if err := sess.LoadTables(tables); err != nil {
		return nil, nil, err
	}
	if _, err := sess.ExecuteAll(cmds); err != nil {
		return nil, nil, err
	}
	return sess, qf, nil
}

// buildQuote runs a quote file and returns the finished quote
func buildQuote(ctx context.Context, cmd *cobra.Command, path string) (*domain.Quote, error) {
	sess, qf, err := quoteSession(ctx, cmd, path)
	if err != nil {
		return nil, err
	}
	q := sess.Quote()
	q.Patient = qf.Patient
	return &q, nil
}
