package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/unity-tools/go-cupi-client/core"
	"github.com/unity-tools/go-cupi-client/internal/logging"
)

const usage = `usage: cupictl [flags] <command> [args]

commands:
  version              show server product and version
  cluster              show cluster members
  timezones            list time zones
  templates            list notification templates
  vmsservers           list VMS servers
  users [alias-prefix] list users
  user <alias>         show one user with its credentials
`

type commandParams struct {
	profilesPath string
	profile      string
	debug        bool
	pageSize     int
}

func (c *commandParams) Read(args []string) ([]string, bool) {
	fs := flag.NewFlagSet("cupictl", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&c.profilesPath, "profiles", "", "YAML profiles file")
	fs.StringVar(&c.profile, "profile", "default", "profile name inside the profiles file")
	fs.BoolVar(&c.debug, "debug", false, "log requests and responses")
	fs.IntVar(&c.pageSize, "page-size", 100, "rows per page when listing users")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return nil, false
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, false
	}
	return fs.Args(), true
}

func main() {
	var params commandParams
	args, ok := params.Read(os.Args)
	if !ok {
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, params, args); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, params commandParams, args []string) error {
	profile, err := loadProfile(params.profilesPath, params.profile)
	if err != nil {
		return err
	}
	logger, _ := logging.New(logging.Options{Level: profile.LogLevel, File: profile.LogFile})
	defer func() { _ = logger.Sync() }()

	cfg, err := profile.config()
	if err != nil {
		return err
	}
	if cfg.Password == "" {
		if cfg.Password, err = promptPassword(os.Stdin, cfg.Login); err != nil {
			return err
		}
	}
	cfg.Logger = logger
	cfg.Debug = params.debug

	server, err := core.Connect(ctx, cfg)
	if err != nil {
		logger.Error("connect failed", zap.String("host", profile.Host), zap.Error(err))
		return err
	}
	status("connected to %s", server)

	cmd := commands[args[0]]
	if cmd == nil {
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd(ctx, server, params, args[1:])
}

func status(format string, args ...any) {
	color.New(color.FgGreen).Fprintf(os.Stderr, "» ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
