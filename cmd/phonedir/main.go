package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"phonedir/internal/config"
	"phonedir/internal/directory"
	"phonedir/internal/logger"
	"phonedir/internal/polycom"
	"phonedir/internal/voipms"
)

const (
	exitError         = 1
	exitInputNotFound = 2
)

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	code := exitCode(err)
	if code == 0 {
		return
	}
	if errors.Is(err, errUsage) {
		usage(os.Stderr)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return errUsage
	}

	log := logger.New(cfg.LogLevel, stderr).With("run_id", uuid.NewString(), "command", args[0])

	cmd := args[0]
	switch cmd {
	case "directory:build":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		fs.SetOutput(stderr)
		out := fs.String("out", cfg.OutputPath, "output Cisco directory path")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		svc, err := newDirectoryService(cfg, log)
		if err != nil {
			return err
		}
		count, err := svc.BuildCisco(ctx, *out)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %s with %d entries\n", *out, count)
	case "directory:polycom":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		fs.SetOutput(stderr)
		in := fs.String("in", cfg.InputPath, "input Cisco directory path")
		out := fs.String("out", cfg.PolycomOutputPath, "output Polycom directory path")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		count, err := polycom.ConvertFile(*in, *out)
		if err != nil {
			return err
		}
		log.Info("polycom directory written", "input", *in, "output", *out, "items", count)
		fmt.Fprintf(stdout, "Wrote %s (%d entries)\n", *out, count)
	case "directory:list":
		svc, err := newDirectoryService(cfg, log)
		if err != nil {
			return err
		}
		entries, err := svc.Entries(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, directory.FormatTable(entries))
	case "directory:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		fs.SetOutput(stderr)
		out := fs.String("out", cfg.XLSXOutputPath, "output xlsx path")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		svc, err := newDirectoryService(cfg, log)
		if err != nil {
			return err
		}
		count, err := svc.ExportXLSX(ctx, *out)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "exported %d entries to %s\n", count, *out)
	default:
		return errUsage
	}
	return nil
}

// newDirectoryService validates credentials and the timeout before anything touches the network.
func newDirectoryService(cfg config.Config, log *slog.Logger) (*directory.Service, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}
	if err := cfg.RequireTimeout(); err != nil {
		return nil, err
	}
	aliases, err := directory.LoadAliases(cfg.AliasesFile)
	if err != nil {
		return nil, err
	}
	client := voipms.NewClient(cfg, aliases.Collection)
	return directory.NewService(cfg, aliases, client, log), nil
}

// exitCode maps a run error to the process status. A -h on a subcommand has
// already printed that command's flags and is not a failure.
func exitCode(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	var notFound *polycom.InputNotFoundError
	if errors.As(err, &notFound) {
		return exitInputNotFound
	}
	return exitError
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: phonedir <command>")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  directory:build [--out=dir.xml]")
	fmt.Fprintln(w, "  directory:polycom [--in=dir.xml] [--out=000000000000-directory.xml]")
	fmt.Fprintln(w, "  directory:list")
	fmt.Fprintln(w, "  directory:xlsx [--out=dir.xlsx]")
}
