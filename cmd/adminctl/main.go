// adminctl drives the admin gateway from a terminal the way the dashboard
// pages do: list a resource with filters, delete entities and flip boolean
// fields. Several ids are processed concurrently.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/citylink/admin-gateway/internal/dashboard"
	"github.com/citylink/admin-gateway/pkg/logger"
)

const defaultGateway = "http://localhost:3000"

var errUsage = errors.New("usage")

type commandFn func(ctx context.Context, env *commandEnv, args []string) error

type command struct {
	description string
	run         commandFn
}

// commandEnv carries the process streams and environment into a command.
type commandEnv struct {
	stdout io.Writer
	stderr io.Writer
	stdin  *bufio.Reader
	getenv func(string) string
}

// connection holds the flags every command shares.
type connection struct {
	url      string
	token    string
	resource string
	workers  int
	verbose  bool
}

func commands() map[string]command {
	return map[string]command{
		"list":   {description: "List one page of a resource", run: runList},
		"delete": {description: "Delete one or more entities", run: runDelete},
		"toggle": {description: "Set a boolean field on one or more entities", run: runToggle},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := &commandEnv{
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdin:  bufio.NewReader(os.Stdin),
		getenv: os.Getenv,
	}
	err := run(ctx, env, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, env *commandEnv, args []string) error {
	if len(args) == 0 {
		printUsage(env.stderr)
		return errUsage
	}
	cmd, ok := commands()[args[0]]
	if !ok {
		fmt.Fprintf(env.stderr, "unknown command %q\n\n", args[0])
		printUsage(env.stderr)
		return errUsage
	}
	return cmd.run(ctx, env, args[1:])
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: adminctl <command> [flags]\n\nCommands:\n")
	names := make([]string, 0)
	for n := range commands() {
		names = append(names, n)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", n, commands()[n].description)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\nResources: %s\n", strings.Join(resourceNames(), ", "))
}

func newFlagSet(name string, env *commandEnv, conn *connection) *pflag.FlagSet {
	fs := pflag.NewFlagSet("adminctl "+name, pflag.ContinueOnError)
	fs.SetOutput(env.stderr)

	gateway := env.getenv("ADMINCTL_URL")
	if gateway == "" {
		gateway = defaultGateway
	}
	fs.StringVar(&conn.url, "url", gateway, "gateway base URL (env ADMINCTL_URL)")
	fs.StringVar(&conn.token, "token", env.getenv("ADMINCTL_TOKEN"), "session token (env ADMINCTL_TOKEN)")
	fs.StringVarP(&conn.resource, "resource", "r", "", "resource to act on: "+strings.Join(resourceNames(), ", "))
	fs.IntVar(&conn.workers, "workers", 4, "concurrent operations when several ids are given")
	fs.BoolVarP(&conn.verbose, "verbose", "v", false, "log every gateway call")
	return fs
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if extra := fs.Args(); len(extra) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, extra[0])
	}
	return nil
}

// open resolves the resource and builds an authenticated client.
func (conn *connection) open(env *commandEnv) (*dashboard.Client, dashboard.Resource, zerolog.Logger, error) {
	log := logger.New(logger.Options{Level: "warn", Development: conn.verbose, Output: env.stderr})

	res, ok := resources[conn.resource]
	if !ok {
		fmt.Fprintf(env.stderr, "unknown resource %q; one of: %s\n", conn.resource, strings.Join(resourceNames(), ", "))
		return nil, res, log, errUsage
	}
	if conn.token == "" {
		return nil, res, log, fmt.Errorf("%w: --token or ADMINCTL_TOKEN is required", errUsage)
	}
	c, err := dashboard.NewClient(conn.url, dashboard.WithBearer(conn.token), dashboard.WithLogger(log))
	if err != nil {
		return nil, res, log, err
	}
	return c, res, log, nil
}

func runList(ctx context.Context, env *commandEnv, args []string) error {
	var conn connection
	var f dashboard.Filters
	var columns []string
	fs := newFlagSet("list", env, &conn)
	fs.StringVar(&f.Search, "search", "", "search term")
	fs.StringVar(&f.Status, "status", "", "status filter")
	fs.StringVar(&f.Category, "category", "", "category filter")
	fs.IntVar(&f.Page, "page", 1, "page number")
	fs.StringSliceVar(&columns, "columns", []string{"name", "isActive"}, "fields to print after the id")
	if err := parse(fs, args); err != nil {
		return err
	}

	c, res, _, err := conn.open(env)
	if err != nil {
		return err
	}
	page := dashboard.NewPage(c, res)
	if err := page.Apply(ctx, f); err != nil {
		return err
	}
	return printItems(env.stdout, page.State(), columns)
}

func printItems(w io.Writer, s dashboard.State, columns []string) error {
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	header := []string{"ID"}
	for _, col := range columns {
		header = append(header, strings.ToUpper(col))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, it := range s.Items {
		row := []string{it.ID()}
		for _, col := range columns {
			v, ok := it[col]
			if !ok || v == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprint(v))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if p := s.Pagination; p != nil && p.Page != nil && p.TotalPages != nil {
		fmt.Fprintf(w, "page %d of %d", *p.Page, *p.TotalPages)
		if p.Total != nil {
			fmt.Fprintf(w, " (%d total)", *p.Total)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func runDelete(ctx context.Context, env *commandEnv, args []string) error {
	var conn connection
	var ids []string
	var yes bool
	fs := newFlagSet("delete", env, &conn)
	fs.StringSliceVar(&ids, "id", nil, "entity id; repeat or comma-separate for several")
	fs.BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	if err := parse(fs, args); err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: --id is required", errUsage)
	}

	c, res, log, err := conn.open(env)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		confirmed := true
		err := dashboard.NewPage(c, res).Delete(ctx, ids[0], func(id string) bool {
			confirmed = yes || env.confirm(fmt.Sprintf("Delete %s %s?", conn.resource, id))
			return confirmed
		})
		if err != nil {
			return err
		}
		if confirmed {
			fmt.Fprintf(env.stdout, "deleted %s\n", ids[0])
		}
		return nil
	}

	if !yes && !env.confirm(fmt.Sprintf("Delete %d %s?", len(ids), conn.resource)) {
		return nil
	}
	return batch(ctx, env, log, conn.workers, ids, func(ctx context.Context, id string) error {
		return res.Delete(ctx, c, id)
	})
}

func runToggle(ctx context.Context, env *commandEnv, args []string) error {
	var conn connection
	var ids []string
	var field string
	var value bool
	fs := newFlagSet("toggle", env, &conn)
	fs.StringSliceVar(&ids, "id", nil, "entity id; repeat or comma-separate for several")
	fs.StringVar(&field, "field", "isActive", "boolean field to set")
	fs.BoolVar(&value, "value", false, "value to set")
	if err := parse(fs, args); err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: --id is required", errUsage)
	}
	if !fs.Changed("value") {
		return fmt.Errorf("%w: --value is required", errUsage)
	}

	c, res, log, err := conn.open(env)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		if err := dashboard.NewPage(c, res).Toggle(ctx, ids[0], field, value); err != nil {
			return err
		}
		fmt.Fprintf(env.stdout, "%s %s=%t\n", ids[0], field, value)
		return nil
	}
	return batch(ctx, env, log, conn.workers, ids, func(ctx context.Context, id string) error {
		return res.Toggle(ctx, c, id, field, value)
	})
}

// batch runs fn for every id on a dispatcher and prints one line per id.
func batch(ctx context.Context, env *commandEnv, log zerolog.Logger, workers int, ids []string, fn func(context.Context, string) error) error {
	d := dashboard.NewDispatcher(workers, log)
	d.Start(ctx)
	for _, id := range ids {
		id := id
		d.Enqueue(dashboard.Op{ID: id, Run: func(ctx context.Context) error { return fn(ctx, id) }})
	}
	outcomes := d.Wait()

	byID := make(map[string]error, len(outcomes))
	for _, o := range outcomes {
		byID[o.ID] = o.Err
	}

	failed := 0
	tw := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
	for _, id := range ids {
		if err := byID[id]; err != nil {
			failed++
			fmt.Fprintf(tw, "%s\tFAILED\t%v\n", id, err)
			continue
		}
		fmt.Fprintf(tw, "%s\tok\t\n", id)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d operations failed", failed, len(ids))
	}
	return nil
}

func (env *commandEnv) confirm(prompt string) bool {
	fmt.Fprintf(env.stderr, "%s [y/N] ", prompt)
	line, _ := env.stdin.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
