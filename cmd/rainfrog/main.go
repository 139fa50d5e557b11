// Command rainfrog is the CLI entrypoint of SPEC_FULL.md §6.4: it resolves
// connection flags, opens the driver, and launches the bubbletea App Loop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rainfrog/rainfrog/internal/app"
	"github.com/rainfrog/rainfrog/internal/config"
	"github.com/rainfrog/rainfrog/internal/connurl"
	"github.com/rainfrog/rainfrog/internal/driver"
	"github.com/rainfrog/rainfrog/internal/favorites"
	"github.com/rainfrog/rainfrog/internal/logging"
	"github.com/rainfrog/rainfrog/internal/parser"
	"github.com/rainfrog/rainfrog/internal/secretstore"
)

func main() {
	cmd := &cli.Command{
		Name:  "rainfrog",
		Usage: "a terminal database client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "connection URL"},
			&cli.StringFlag{Name: "username"},
			&cli.StringFlag{Name: "password"},
			&cli.StringFlag{Name: "host"},
			&cli.StringFlag{Name: "port"},
			&cli.StringFlag{Name: "database"},
			&cli.StringFlag{Name: "connection", Usage: "named config.db entry to use as the secret-store connection name"},
			&cli.StringFlag{Name: "driver", Usage: "postgres|mysql|sqlite|oracle|duckdb"},
			&cli.BoolFlag{Name: "mouse", Aliases: []string{"M"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "edit",
				Usage: "open the configuration file in the system editor",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runEdit(ctx)
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rainfrog: %v\n", err)
		os.Exit(1)
	}
}

func runEdit(ctx context.Context) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	path := dir + "/config.toml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("# rainfrog configuration\n"), 0o644); err != nil {
			return fmt.Errorf("edit: create config file: %w", err)
		}
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.CommandContext(ctx, editor, path)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	return c.Run()
}

func run(ctx context.Context, cmd *cli.Command) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	log, err := logging.New(dir)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		logging.Fatal(log, err)
		return err
	}

	opts, connName, err := resolveConnOpts(cmd, cfg)
	if err != nil {
		logging.Fatal(log, err)
		return err
	}
	opts.Password = resolvePassword(log, opts, connName)

	drv, err := driver.New(ctx, opts)
	if err != nil {
		logging.Fatal(log, err)
		return err
	}
	defer drv.Close()

	favDir, err := config.FavoritesDir()
	if err != nil {
		logging.Fatal(log, err)
		return err
	}
	store := favorites.New(favDir, log)

	rawKeymap, err := config.BuildKeymap(cfg.Keybindings)
	if err != nil {
		logging.Fatal(log, err)
		return err
	}
	keymap := config.DefaultKeymap().Merge(rawKeymap)

	model := app.New(drv, store, keymap, log)

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cmd.Bool("mouse") || (cfg.Settings.MouseMode != nil && *cfg.Settings.MouseMode) {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, progOpts...)
	if _, err := p.Run(); err != nil {
		logging.Fatal(log, err)
		return err
	}
	return nil
}

// resolveConnOpts also returns the connection_name spec.md §6 keys the
// secret store on: the config.db entry name, not the database name —
// those are the same string only by coincidence for an ad hoc CLI
// connection with no named config entry behind it.
func resolveConnOpts(cmd *cli.Command, cfg config.Config) (driver.ConnOpts, string, error) {
	url := cmd.String("url")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}

	connName := cmd.String("connection")

	driverFlag := cmd.String("driver")
	var tag parser.DriverTag
	if driverFlag != "" {
		tag = parser.DriverTag(driverFlag)
	} else if url != "" {
		t, err := connurl.ExtractDriver(url)
		if err != nil {
			return driver.ConnOpts{}, "", err
		}
		tag = t
	} else if name, def := defaultDBConn(cfg); def != nil {
		tag = parser.DriverTag(def.Driver)
		if connName == "" {
			connName = name
		}
	} else {
		return driver.ConnOpts{}, "", fmt.Errorf("no connection specified: pass --url, --driver, or configure a default db")
	}

	conn := config.ApplyFlags(cfg, connName, tag, url, cmd.String("host"), cmd.String("port"), cmd.String("database"), cmd.String("username"))
	if connName == "" {
		connName = conn.Database
	}

	return driver.ConnOpts{
		Driver:   parser.DriverTag(conn.Driver),
		URL:      conn.ConnectionString,
		Host:     conn.Host,
		Port:     conn.Port,
		Database: conn.Database,
		Username: conn.Username,
		Password: cmd.String("password"),
	}, connName, nil
}

// resolvePassword implements spec.md §6's password source order: an
// explicit flag/URL always wins; otherwise try the secret store; failing
// that, prompt interactively with hidden echo and offer to persist it.
// connName is the secret store's "rainfrog:<connection_name>-<username>"
// key component (spec.md §6), resolved by the caller from the config.db
// entry name, not opts.Database.
func resolvePassword(log *logrus.Logger, opts driver.ConnOpts, connName string) string {
	if opts.Password != "" || opts.URL != "" {
		return opts.Password
	}

	bridge, err := secretstore.Open(log)
	if err != nil {
		log.WithError(err).Warn("main: secret store unavailable, will prompt every time")
	} else if pass, ok := bridge.Load(connName, opts.Username); ok {
		return pass
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}
	fmt.Fprintf(os.Stderr, "password for %s@%s: ", opts.Username, opts.Host)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		log.WithError(err).Warn("main: password prompt failed")
		return ""
	}
	password := string(raw)

	if bridge != nil {
		bridge.Save(connName, opts.Username, password)
	}
	return password
}

// defaultDBConn returns the config.db entry name and value marked default,
// if any.
func defaultDBConn(cfg config.Config) (string, *config.DBConn) {
	for name, conn := range cfg.DB {
		if conn.Default {
			c := conn
			return name, &c
		}
	}
	return "", nil
}
