// Command ficha manages enrollment records and prints their enrollment forms.
//
//	ficha [-config ficha.yaml] [-metrics-file path] <command> [flags]
//
// Commands: next-code, open, save -f record.yaml, show -code N, list, render -code N.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/artenioreis/fichadeinscricao/internal/blob"
	"github.com/artenioreis/fichadeinscricao/internal/core"
	"github.com/artenioreis/fichadeinscricao/internal/infra/persistence/sqlstore"
	"github.com/artenioreis/fichadeinscricao/internal/platform/config"
	"github.com/artenioreis/fichadeinscricao/internal/platform/logger"
	"github.com/artenioreis/fichadeinscricao/internal/platform/metrics"
	"github.com/artenioreis/fichadeinscricao/internal/render"
	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

const usage = `usage: ficha [-config path] [-metrics-file path] <command>

commands:
  next-code            print the next free record code
  open                 print a blank record as YAML
  save -f FILE         save the record described in a YAML file
  show -code N         print a stored record as YAML
  list                 list stored records ordered by name
  render -code N       print the enrollment form of a stored record
`

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ficha", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "ficha.yaml", "path to configuration file")
	metricsFile := fs.String("metrics-file", "", "write prometheus metrics in textfile format on exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console",
		Output: stderr,
	})

	m := metrics.New()
	a, err := newApp(ctx, cfg, m)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	err = a.run(ctx, fs.Arg(0), fs.Args()[1:], stdout, stderr)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	textfile := *metricsFile
	if textfile == "" {
		textfile = cfg.Metrics.TextfilePath
	}
	if textfile != "" {
		if merr := m.WriteTextfile(textfile); merr != nil {
			logger.Warn().Err(merr).Str("path", textfile).Msg("metrics textfile not written")
		}
	}
	return report(err, stderr)
}

// report prints err for the user and maps it to an exit code.
func report(err error, stderr io.Writer) int {
	var (
		ve *domain.ValidationError
		dk *domain.DuplicateKeyError
		ue usageError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return 2
	case errors.As(err, &ve):
		fmt.Fprintf(stderr, "record not saved: %v\n", ve)
	case errors.As(err, &dk):
		fmt.Fprintf(stderr, "record not saved: CPF %s already belongs to record %s\n", dk.NationalID, domain.FormatCode(dk.ExistingCode))
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return 1
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

type app struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	store   domain.RecordStore
	svc     *core.Service
}

func newApp(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*app, error) {
	store, err := core.OpenRecordStore(ctx, core.StorageConfig{
		Driver:      core.StorageDriver(cfg.Storage.Driver),
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
	}, sqlstore.Options{Logger: logger.With("store"), Metrics: m})
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	return &app{
		cfg:     cfg,
		metrics: m,
		store:   store,
		svc:     core.NewService(store, lazyRenderer{cfg: cfg, metrics: m}, core.WithLogger(logger.Get())),
	}, nil
}

func (a *app) close() error { return a.store.Close() }

// lazyRenderer opens the artifact store only when a form is printed.
type lazyRenderer struct {
	cfg     *config.Config
	metrics *metrics.Metrics
}

func (l lazyRenderer) Render(ctx context.Context, rec domain.Record) (render.Artifact, error) {
	s3 := l.cfg.Artifacts.S3
	artifacts, err := blob.Open(ctx, blob.Config{
		Driver: blob.Driver(l.cfg.Artifacts.Driver),
		FSRoot: l.cfg.Artifacts.FSRoot,
		S3: blob.S3Config{
			Bucket:    s3.Bucket,
			Region:    s3.Region,
			Prefix:    s3.Prefix,
			Endpoint:  s3.Endpoint,
			PathStyle: s3.PathStyle,
		},
	})
	if err != nil {
		return render.Artifact{}, fmt.Errorf("open artifact store: %w", err)
	}
	r := render.New(artifacts, render.Options{
		Logger:   logger.Get(),
		Metrics:  l.metrics,
		LogoPath: l.cfg.Render.LogoPath,
		Compress: l.cfg.Render.Compress,
	})
	return r.Render(ctx, rec)
}

func (a *app) run(ctx context.Context, cmd string, args []string, stdout, stderr io.Writer) error {
	switch cmd {
	case "next-code":
		code, err := a.store.NextCode(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, domain.FormatCode(code))
		return err
	case "open":
		rec, err := a.svc.Open(ctx)
		if err != nil {
			return err
		}
		return writeRecord(stdout, rec)
	case "save":
		fs := subFlags(cmd, stderr)
		file := fs.String("f", "", "YAML record file")
		if err := fs.Parse(args); err != nil {
			return usageError{err.Error()}
		}
		if *file == "" {
			return usageError{"save: -f is required"}
		}
		rec, err := readRecord(*file)
		if err != nil {
			return err
		}
		saved, err := a.svc.Save(ctx, rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "saved %s %s\n", saved.DisplayCode(), saved.FullName())
		return err
	case "show":
		code, err := codeFlag(cmd, args, stderr)
		if err != nil {
			return err
		}
		rec, ok, err := a.svc.Fetch(ctx, code)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("code %s: %w", domain.FormatCode(code), core.ErrRecordNotFound)
		}
		return writeRecord(stdout, rec)
	case "list":
		roster, err := a.svc.Roster(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME\tCPF")
		for _, e := range roster {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", domain.FormatCode(e.Code), e.FullName, e.NationalID)
		}
		return tw.Flush()
	case "render":
		code, err := codeFlag(cmd, args, stderr)
		if err != nil {
			return err
		}
		art, err := a.svc.RenderByCode(ctx, code)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(stdout, "%s (%d pages)\n", art.Key, art.Pages)
		return err
	default:
		return usageError{fmt.Sprintf("unknown command %q", cmd)}
	}
}

func subFlags(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func codeFlag(cmd string, args []string, stderr io.Writer) (int, error) {
	fs := subFlags(cmd, stderr)
	code := fs.Int("code", 0, "record code")
	if err := fs.Parse(args); err != nil {
		return 0, usageError{err.Error()}
	}
	if *code <= 0 {
		return 0, usageError{cmd + ": -code must be positive"}
	}
	return *code, nil
}

// writeRecord prints rec as a YAML mapping in column order.
func writeRecord(w io.Writer, rec domain.Record) error {
	m := rec.ToMap()
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, col := range domain.Columns() {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: col},
			&yaml.Node{Kind: yaml.ScalarNode, Value: m[col], Tag: scalarTag(col)},
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// scalarTag keeps values such as a numeric CPF quoted as strings.
func scalarTag(col string) string {
	if col == domain.CodeColumn {
		return "!!int"
	}
	return "!!str"
}

// readRecord loads a column-keyed YAML mapping.
func readRecord(path string) (domain.Record, error) {
	raw, err := os.ReadFile(path) // #nosec G304: operator-supplied record file
	if err != nil {
		return domain.Record{}, fmt.Errorf("read record: %w", err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return domain.Record{}, fmt.Errorf("parse record %s: %w", path, err)
	}
	return domain.RecordFromMap(m)
}
