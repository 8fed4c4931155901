package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/backend/rest"
	"github.com/iudanet/screensync/internal/client/iocli"
	"github.com/iudanet/screensync/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/screensync/internal/client/sync"
	"github.com/iudanet/screensync/internal/config"
	"github.com/iudanet/screensync/internal/logging"
)

// app хранит общие для всех команд флаги и открытые ресурсы
type app struct {
	io      iocli.IO
	loader  *config.Loader
	cfgFile string

	store *boltdb.Storage
	port  *rest.Client
	repo  *clientsync.Repository
}

// NewRootCommand builds the syncctl command tree.
func NewRootCommand(version string, stdio iocli.IO) *cobra.Command {
	a := &app{io: stdio, loader: config.NewLoader()}

	root := &cobra.Command{
		Use:           "syncctl",
		Short:         "Offline-first sync client for screensync",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.String("server", "", "syncd URL")
	flags.String("db", "", "path to the local database")
	flags.String("token", "", "bearer token issued by 'syncd token'")
	flags.String("resolver", "", "conflict policy: manual, backend or lww")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")

	for key, name := range map[string]string{
		"client.server_url": "server",
		"client.db_path":    "db",
		"client.token":      "token",
		"client.resolver":   "resolver",
		"logging.level":     "log-level",
		"logging.format":    "log-format",
	} {
		// Флаги объявлены выше, ошибка здесь означает опечатку в имени
		if err := a.loader.BindFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(
		a.putCommand(),
		a.deleteCommand(),
		a.getCommand(),
		a.listCommand(),
		a.queueCommand(),
		a.syncCommand(),
		a.pullCommand(),
		a.statusCommand(),
		a.conflictsCommand(),
		a.resolveCommand(),
		a.daemonCommand(),
	)
	return root
}

func (a *app) putCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "put <id> [payload]",
		Short: "Create or update an entity locally and queue the change",
		Example: `  syncctl put home-screen '{"layout":"grid"}'
  syncctl put home-screen --file screen.json
  cat screen.json | syncctl put home-screen --file -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.run(func(ctx context.Context, c *Cli, cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, args[1:], file)
			if err != nil {
				return err
			}
			if payload == nil {
				return errors.New("payload is required: pass it as an argument or with --file")
			}
			return c.runPut(ctx, args[0], payload)
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read payload from file, '-' for stdin")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft delete an entity and queue the change",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, args []string) error {
			return c.runDelete(ctx, args[0])
		}),
	}
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a cached entity",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, args []string) error {
			return c.runGet(ctx, args[0])
		}),
	}
}

func (a *app) listCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached entities",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, _ []string) error {
			return c.runList(ctx, all)
		}),
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include deleted entities")
	return cmd
}

func (a *app) queueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show changes waiting for upload",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, _ []string) error {
			return c.runQueue(ctx)
		}),
	}
}

func (a *app) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync cycle: upload the queue and pull remote changes",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, _ []string) error {
			return c.runSync(ctx)
		}),
	}
}

func (a *app) pullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Download remote changes into the local cache",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, _ []string) error {
			return c.runPull(ctx)
		}),
	}
}

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend reachability, queue size and open conflicts",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, _ []string) error {
			return c.runStatus(ctx)
		}),
	}
}

func (a *app) conflictsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List open conflicts",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, _ []string) error {
			return c.runConflicts(ctx)
		}),
	}
}

func (a *app) resolveCommand() *cobra.Command {
	var (
		payload string
		file    string
	)
	cmd := &cobra.Command{
		Use:   "resolve <conflict-id> [local|remote|merge|defer|abort]",
		Short: "Resolve an open conflict",
		Example: `  syncctl resolve 1b4e28ba-2fa1-11d2-883f-0016d3cca427 local
  syncctl resolve 1b4e28ba-2fa1-11d2-883f-0016d3cca427 merge --file merged.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.run(func(ctx context.Context, c *Cli, cmd *cobra.Command, args []string) error {
			var kind string
			if len(args) == 2 {
				kind = args[1]
			}
			var inline []string
			if cmd.Flags().Changed("payload") {
				inline = []string{payload}
			}
			data, err := readPayload(cmd, inline, file)
			if err != nil {
				return err
			}
			return c.runResolve(ctx, args[0], kind, data)
		}),
	}
	cmd.Flags().StringVarP(&payload, "payload", "p", "", "merged payload")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read merged payload from file, '-' for stdin")
	return cmd
}

func (a *app) daemonCommand() *cobra.Command {
	var (
		opts     DaemonOptions
		schedule string
	)
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Keep syncing in the background and print state changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loader.Load(a.cfgFile)
			if err != nil {
				return err
			}
			opts.Schedule = cfg.Client.Schedule
			if schedule != "" {
				opts.Schedule = schedule
			}
			opts.ProbeInterval = cfg.Client.ProbeInterval

			return a.run(func(ctx context.Context, c *Cli, _ *cobra.Command, _ []string) error {
				return c.runDaemon(ctx, opts)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule, overrides client.schedule")
	cmd.Flags().StringSliceVarP(&opts.Watch, "watch", "w", nil, "entity ids to follow in real time")
	return cmd
}

const closeTimeout = 5 * time.Second

type runFunc func(ctx context.Context, c *Cli, cmd *cobra.Command, args []string) error

// run открывает ресурсы перед командой и закрывает их после нее
func (a *app) run(fn runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		defer func() {
			err = errors.Join(err, a.close())
		}()

		c, err := a.open(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, c, cmd, args)
	}
}

func (a *app) open(ctx context.Context) (*Cli, error) {
	cfg, err := a.loader.Load(a.cfgFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		return nil, err
	}

	resolver, ok := clientsync.ResolverByName(cfg.Client.Resolver)
	if !ok {
		return nil, fmt.Errorf("unknown resolver %q: use manual, backend or lww", cfg.Client.Resolver)
	}

	token := cfg.Client.Token
	if token == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		token, err = a.io.ReadPassword("Access token (empty to stay offline): ")
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
	}

	a.store, err = boltdb.New(ctx, cfg.Client.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a.port = rest.NewClient(cfg.Client.ServerURL, token, logger, rest.WithTimeout(cfg.Client.RequestTimeout))
	registry := backend.NewRegistry(logger)
	registry.Register(a.port)

	a.repo = clientsync.NewRepository(registry, a.store, logger,
		clientsync.WithBatchSize(cfg.Client.BatchSize),
		clientsync.WithBatchTimeout(cfg.Client.BatchTimeout),
		clientsync.WithPageSize(cfg.Client.PageSize),
		clientsync.WithResolver(resolver),
	)

	logger.Debug("Client initialized",
		"server", cfg.Client.ServerURL,
		"db", cfg.Client.DBPath,
		"resolver", cfg.Client.Resolver)

	return New(a.io, a.repo, registry, token, logger), nil
}

func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	var errs []error
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
		a.repo = nil
	}
	if a.port != nil {
		errs = append(errs, a.port.Disconnect(ctx))
		a.port = nil
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	return errors.Join(errs...)
}

// readPayload берет payload из аргумента или файла; nil означает, что его не передали
func readPayload(cmd *cobra.Command, args []string, file string) ([]byte, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, errors.New("pass the payload either inline or with --file, not both")
	case len(args) > 0:
		return []byte(args[0]), nil
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
		}
		return data, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return data, nil
	default:
		return nil, nil
	}
}

// Execute runs the command tree and reports the error to stderr.
func Execute(ctx context.Context, root *cobra.Command) int {
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
