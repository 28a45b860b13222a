// Package cli implements azc's command-line surface: manual os.Args
// parsing (no flag/cobra dependency, matching how this tree has always
// parsed its subcommands), driving the lex/parse/analyze/lower pipeline
// and dispatching the result to a backend.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/azula-lang/azc/internal/analyzer"
	"github.com/azula-lang/azc/internal/backend"
	"github.com/azula-lang/azc/internal/backend/grpcbackend"
	"github.com/azula-lang/azc/internal/backend/nullbackend"
	"github.com/azula-lang/azc/internal/config"
	"github.com/azula-lang/azc/internal/history"
	"github.com/azula-lang/azc/internal/lexer"
	"github.com/azula-lang/azc/internal/lower"
	"github.com/azula-lang/azc/internal/parser"
	"github.com/azula-lang/azc/internal/pipeline"
	"github.com/azula-lang/azc/internal/session"
)

// DefaultManifest is the azula.yaml path looked for in the current
// working directory when no --config flag is given.
const DefaultManifest = config.ManifestName

// Run is the entry point invoked by cmd/azc/main.go. It returns the
// process exit code.
func Run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "build":
		return runBuild(args[1:])
	case "run":
		return runRun(args[1:])
	case "print-ir":
		return runPrintIR(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "azc: unknown subcommand %q\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: azc <subcommand> [options] <file.azl>

subcommands:
  build       compile a source file via the configured backend
  run         compile and immediately exercise the null backend
  print-ir    lex, parse, analyze, lower, and dump textual IR
  help        show this message

options:
  --release          select the speed optimization tier
  --target <triple>   override the backend target triple
  --emit-llvm         request intermediate output from the backend
  --config <path>      explicit azula.yaml path`)
}

// options are the flags shared by build/run/print-ir, parsed manually
// off os.Args the way this codebase has always done it.
type options struct {
	release    bool
	target     string
	emitLLVM   bool
	configPath string
	file       string
}

func parseOptions(args []string) options {
	var o options
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--release":
			o.release = true
		case "--target":
			if i+1 < len(args) {
				i++
				o.target = args[i]
			}
		case "--emit-llvm":
			o.emitLLVM = true
		case "--config":
			if i+1 < len(args) {
				i++
				o.configPath = args[i]
			}
		default:
			if o.file == "" {
				o.file = args[i]
			}
		}
	}
	return o
}

func runPrintIR(args []string) int {
	o := parseOptions(args)
	if o.file == "" {
		fmt.Fprintln(os.Stderr, "azc print-ir: missing source file")
		return 1
	}
	ctx, ok := compile(o.file)
	if !ok {
		renderDiagnostics(ctx)
		return 1
	}
	ctx.Module.WriteText(os.Stdout)
	return 0
}

func runBuild(args []string) int {
	return doBuildOrRun(args, false)
}

func runRun(args []string) int {
	return doBuildOrRun(args, true)
}

func doBuildOrRun(args []string, isRun bool) int {
	o := parseOptions(args)
	if o.file == "" {
		fmt.Fprintln(os.Stderr, "azc: missing source file")
		return 1
	}

	cfg, err := config.LoadOrDefault(resolveConfigPath(o))
	if err != nil {
		fmt.Fprintf(os.Stderr, "azc: %v\n", err)
		return 1
	}

	start := time.Now()
	ctx, ok := compile(o.file)
	if !ok {
		renderDiagnostics(ctx)
		recordHistory(ctx, cfg, false, start)
		return 1
	}

	be := selectBackend(cfg, isRun)
	opts := backend.Options{
		Name:             be.Name(),
		DestinationDir:   filepath.Dir(o.file),
		EmitIntermediate: o.emitLLVM,
		TargetTriple:     o.target,
		Opt:              optLevel(o, cfg),
		SessionID:        ctx.SessionID,
	}

	if err := be.Codegen(context.Background(), opts, ctx.Module); err != nil {
		fmt.Fprintf(os.Stderr, "azc: backend error: %v\n", err)
		recordHistory(ctx, cfg, false, start)
		return 1
	}

	recordHistory(ctx, cfg, true, start)
	fmt.Printf("azc: compiled %s (%s) via %s backend\n", o.file, humanize.Bytes(uint64(len(ctx.Source))), be.Name())
	return 0
}

func resolveConfigPath(o options) string {
	if o.configPath != "" {
		return o.configPath
	}
	return DefaultManifest
}

func optLevel(o options, cfg *config.Config) backend.OptLevel {
	if o.release {
		return backend.OptSpeed
	}
	return backend.OptLevel(cfg.OptLevel)
}

func selectBackend(cfg *config.Config, isRun bool) backend.Backend {
	if isRun {
		return nullbackend.New()
	}
	switch cfg.Backend {
	case config.BackendGRPC:
		return grpcbackend.New(cfg.BackendAddr)
	default:
		return nullbackend.New()
	}
}

// compile drives the full lex -> parse -> analyze -> lower pipeline,
// halting after any phase that produced diagnostics — later phases
// assume a program free of the errors the earlier ones would have caught.
func compile(path string) (*pipeline.PipelineContext, bool) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "azc: %v\n", err)
		return nil, false
	}

	ctx := &pipeline.PipelineContext{
		SessionID: session.New(),
		Filename:  path,
		Source:    string(source),
	}

	stages := []pipeline.Processor{lexer.Processor{}, parser.Processor{}}
	ctx = pipeline.New(stages...).Run(ctx)
	if len(ctx.Diagnostics) > 0 {
		return ctx, false
	}

	ctx = pipeline.New(analyzer.Processor{}).Run(ctx)
	if len(ctx.Diagnostics) > 0 {
		return ctx, false
	}

	ctx = pipeline.New(lower.Processor{}).Run(ctx)
	return ctx, true
}

func renderDiagnostics(ctx *pipeline.PipelineContext) {
	if ctx == nil {
		return
	}
	color := isatty.IsTerminal(os.Stderr.Fd())
	for _, d := range ctx.Diagnostics {
		d.Render(os.Stderr, ctx.Source, ctx.Filename, color)
	}
	fmt.Fprintf(os.Stderr, "azc: %s\n", humanize.Comma(int64(len(ctx.Diagnostics)))+" error(s)")
}

func recordHistory(ctx *pipeline.PipelineContext, cfg *config.Config, succeeded bool, start time.Time) {
	if ctx == nil {
		return
	}
	home, _ := os.UserHomeDir()
	path := history.DefaultPath(os.Getenv("XDG_STATE_HOME"), home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	store, err := history.Open(path)
	if err != nil {
		return
	}
	defer store.Close()

	_ = store.Append(history.Record{
		SessionID:       ctx.SessionID,
		SourceFile:      ctx.Filename,
		Backend:         cfg.Backend,
		DiagnosticCount: diagnosticCount(ctx),
		Succeeded:       succeeded,
		StartedAt:       start,
		Duration:        time.Since(start),
	})
}

func diagnosticCount(ctx *pipeline.PipelineContext) int {
	if ctx == nil {
		return 0
	}
	return len(ctx.Diagnostics)
}
