// cmd/pgcenter/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yibit/pgcenter/internal/cli"
	"github.com/yibit/pgcenter/internal/config"
	"github.com/yibit/pgcenter/internal/console"
	"github.com/yibit/pgcenter/internal/hostsampler"
	"github.com/yibit/pgcenter/internal/refresh"
	"github.com/yibit/pgcenter/internal/render"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pgcenter: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags config.Flags
	var showVersion bool

	cmd := &cobra.Command{
		Use:     "pgcenter [DBNAME [USERNAME]]",
		Short:   "Interactive terminal dashboard for a running PostgreSQL server",
		Version: version,
		Args:    cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println("pgcenter", version)
				return nil
			}
			if len(args) > 0 {
				flags.PositionalDB = args[0]
			}
			if len(args) > 1 {
				flags.PositionalUser = args[1]
			}
			return run(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Host, "host", "h", "", "database server host")
	cmd.Flags().StringVarP(&flags.Port, "port", "p", "", "database server port")
	cmd.Flags().StringVarP(&flags.User, "user", "U", "", "database user name")
	cmd.Flags().StringVarP(&flags.DBName, "dbname", "d", "", "database name to connect to")
	cmd.Flags().BoolVarP(&flags.NoPassword, "no-password", "w", false, "never prompt for a password")
	cmd.Flags().BoolVarP(&flags.PromptPass, "password", "W", false, "force a password prompt")
	cmd.Flags().BoolVarP(&showVersion, "version", "V", false, "output version information, then exit")

	return cmd
}

// run wires config, the eight consoles, and the Refresh Engine together and
// blocks until the engine returns (spec.md §6 CLI, §1 overview).
func run(flags config.Flags) error {
	ctx := context.Background()

	home, _ := os.UserHomeDir()
	rcConns, err := config.LoadRCFile(filepath.Join(home, ".pgcenterrc"))
	if err != nil {
		return fmt.Errorf("read .pgcenterrc: %w", err)
	}

	var password string
	if flags.PromptPass {
		password, err = cli.ReadPassword("Password: ")
		if err != nil {
			return err
		}
	}

	// The first .pgcenterrc line takes console 0 unless a connection option
	// or positional argument was given on the command line.
	console0 := config.ConnParamsFromFlags(flags, password)
	cliGiven := flags.Host != "" || flags.Port != "" || flags.User != "" || flags.DBName != "" ||
		flags.PositionalDB != "" || flags.PositionalUser != "" || flags.PromptPass
	var conns []console.ConnParams
	if cliGiven || len(rcConns) == 0 {
		conns = append(conns, console0)
	}
	conns = append(conns, rcConns...)
	if len(conns) > console.MaxConsoles {
		conns = conns[:console.MaxConsoles]
	}

	sampler := hostsampler.New()
	if _, err := sampler.ReadCPU(); err != nil {
		return fmt.Errorf("/proc/stat: %w", err)
	}

	keys, err := cli.NewKeyReader()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer keys.Restore()

	renderer := render.New(os.Stdout)
	engine := refresh.NewEngine(renderer, sampler, keys)

	// Consoles are opened concurrently (each owns a disjoint slot in
	// engine.Conns/Consoles, so there is nothing to serialize on): one slow
	// or unreachable server no longer holds up the other seven.
	var g errgroup.Group
	var warnMu sync.Mutex
	var warnings []string
	for i, params := range conns {
		i, params := i, params
		g.Go(func() error {
			err := openWithRetry(ctx, engine, i, params, flags.NoPassword)
			if err == nil {
				return nil
			}
			if len(conns) == 1 {
				return fmt.Errorf("unable to connect to %s: %w", params.Label(), err)
			}
			warnMu.Lock()
			warnings = append(warnings, fmt.Sprintf("warning: unable to connect to %s: %v", params.Label(), err))
			warnMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	// Raw mode starts only after every password prompt has been answered.
	keys, err := cli.NewKeyReader()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer keys.Restore()
	engine.Keys = keys

	return engine.Run(ctx)
}

// promptMu serializes password prompts from consoles being opened
// concurrently, since they all share the one terminal.
var promptMu sync.Mutex

// openWithRetry implements spec.md §7's connect-failure policy: if the
// server reports that a password is required, re-prompt once and retry
// before giving up on this console.
func openWithRetry(ctx context.Context, engine *refresh.Engine, idx int, params console.ConnParams, noPassword bool) error {
	err := engine.OpenConsole(ctx, idx, params)
	if err == nil || noPassword || params.Password != "" {
		return err
	}
	if !looksLikePasswordRequired(err) {
		return err
	}

	promptMu.Lock()
	password, perr := cli.ReadPassword(fmt.Sprintf("Password for %s: ", params.Label()))
	promptMu.Unlock()
	if perr != nil {
		return err
	}
	params.Password = password
	return engine.OpenConsole(ctx, idx, params)
}

func looksLikePasswordRequired(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "password")
}
