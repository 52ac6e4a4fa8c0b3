package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/user"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/lensquote/internal/calculation"
	"github.com/rgehrsitz/lensquote/internal/config"
	"github.com/rgehrsitz/lensquote/internal/datasource"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/logging"
	"github.com/rgehrsitz/lensquote/internal/session"
	"github.com/rgehrsitz/lensquote/internal/tui"
)

// inlineTables serves the tables embedded in a quote file
type inlineTables struct {
	input *config.TablesInput
}

func (l inlineTables) Load(context.Context) (*domain.Tables, error) {
	return l.input.Build()
}

func main() {
	configPath := flag.String("config", "", "Path to the application config (YAML)")
	logPath := flag.String("log", "", "Write debug logs to this file")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: lensquote-tui [--config app.yaml] [--log debug.log] [quote-file]")
		flag.PrintDefaults()
	}
	flag.Parse()

	// The alternate screen owns stdout, so logs go to a file or nowhere
	var logger logging.Logger = logging.NopLogger{}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.NewStdLogger(f, "lensquote-tui ", true)
	}

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var quote *config.QuoteFile
	if flag.NArg() > 0 {
		quote, err = config.NewInputParser().LoadFromFile(flag.Arg(0))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	engine := calculation.NewEngine()
	engine.SetLogger(logger)
	sess := session.New("tui", engine)
	sess.SetLogger(logger)
	if err := sess.SignIn(operator(), true); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var loader session.TableLoader
	patient := ""
	if quote != nil && quote.Tables != nil {
		loader = inlineTables{input: quote.Tables}
	} else {
		src, closeSrc, err := cfg.BuildSource(context.Background(), logger)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeSrc()
		loader = datasource.NewLoader(src, logger)
	}
	if quote != nil {
		patient = quote.Patient
		cmds, err := quote.Commands()
		if err == nil {
			_, err = sess.ExecuteAll(cmds)
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(
		tui.NewModel(sess, loader, patient),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func operator() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
