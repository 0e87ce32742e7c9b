package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/gops/agent"
	_ "github.com/viant/afsc/gs"
	_ "github.com/viant/afsc/s3"
	"github.com/viant/easymix/logger"
	"github.com/viant/easymix/question"
	"github.com/viant/easymix/service"
)

func main() {
	startGops()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "mix":
		mixCmd(os.Args[2:])
	case "inspect":
		inspectCmd(os.Args[2:])
	case "codes":
		codesCmd(os.Args[2:])
	case "keys":
		keysCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: easymix <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  mix      Generate shuffled exams, answer guides and the answer workbook")
	fmt.Fprintln(os.Stderr, "  inspect  Validate the source document question by question")
	fmt.Fprintln(os.Stderr, "  codes    Print generated version codes")
	fmt.Fprintln(os.Stderr, "  keys     List archived runs or the answers of one run")
}

// configFlags are shared by every subcommand; non-empty values override the YAML config.
type configFlags struct {
	config      *string
	src         *string
	out         *string
	versions    *string
	count       *int
	mode        *string
	start       *int
	seed        *uint64
	concurrency *int
	keystore    *string
	logPath     *string
	verbose     *bool
}

func bindConfigFlags(flags *flag.FlagSet) *configFlags {
	return &configFlags{
		config:      flags.String("config", "", "config yaml (optional)"),
		src:         flags.String("src", "", "source exam document (.docx)"),
		out:         flags.String("out", "", "output location"),
		versions:    flags.String("versions", "", "comma or space separated version codes"),
		count:       flags.Int("count", 0, "number of version codes to generate"),
		mode:        flags.String("mode", "", "code generation mode: random|sequential"),
		start:       flags.Int("start", 0, "leading digit of sequential codes"),
		seed:        flags.Uint64("seed", 0, "random seed (0: random)"),
		concurrency: flags.Int("concurrency", 0, "versions processed in parallel (0: number of CPUs)"),
		keystore:    flags.String("keystore", "", "answer archive DSN (sqlite file, postgres:// or mysql)"),
		logPath:     flags.String("log", "", "JSON log file"),
		verbose:     flags.Bool("v", false, "log to console"),
	}
}

// resolve loads the config file, applies the flags and validates the result.
func (f *configFlags) resolve(validate bool) *service.Config {
	cfg := &service.Config{}
	if *f.config != "" {
		loaded, err := service.LoadConfig(*f.config)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	} else if err := cfg.Init(".env"); err != nil {
		log.Fatalf("config: %v", err)
	}
	setString(&cfg.Source, *f.src)
	setString(&cfg.Output, *f.out)
	setString(&cfg.Generator.Mode, *f.mode)
	setString(&cfg.Keystore.DSN, *f.keystore)
	setString(&cfg.Log.Path, *f.logPath)
	if *f.versions != "" {
		cfg.Versions = strings.FieldsFunc(*f.versions, func(r rune) bool { return r == ',' || r == ' ' })
	}
	if *f.count > 0 {
		cfg.Generator.Count = *f.count
	}
	if *f.start > 0 {
		cfg.Generator.Start = *f.start
	}
	if *f.seed > 0 {
		cfg.Seed = *f.seed
	}
	if *f.concurrency > 0 {
		cfg.Concurrency = *f.concurrency
	}
	if *f.verbose {
		cfg.Log.Console = true
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	return cfg
}

func setString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func mixCmd(args []string) {
	flags := flag.NewFlagSet("mix", flag.ExitOnError)
	cf := bindConfigFlags(flags)
	flags.Parse(args)
	cfg := cf.resolve(true)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	zl := logger.New(cfg.Log)
	defer func() { _ = zl.Sync() }()

	options := []service.Option{service.WithLogger(zl)}
	keys, err := service.OpenKeystore(ctx, cfg.Keystore)
	if err != nil {
		log.Fatalf("keystore: %v", err)
	}
	if keys != nil {
		defer keys.Close()
		options = append(options, service.WithKeystore(keys))
	}
	result, err := service.New(cfg, options...).Mix(ctx)
	if result == nil {
		log.Fatalf("mix: %v", err)
	}
	for _, diagnostic := range result.Diagnostics {
		color.Yellow("  ! %s", diagnostic)
	}
	for _, version := range result.Versions {
		if version.Err != nil {
			color.Red("✗ %s  %v", version.Code, version.Err)
			continue
		}
		color.Green("✓ %s  %s", version.Code, version.Exam)
		for _, diagnostic := range version.Diagnostics {
			color.Yellow("    ! %s", diagnostic)
		}
	}
	if err != nil {
		log.Fatalf("mix: %v", err)
	}
	color.Cyan("answers: %s (run %s)", result.Workbook, result.RunID)
	if result.Partial() {
		os.Exit(1)
	}
}

func inspectCmd(args []string) {
	flags := flag.NewFlagSet("inspect", flag.ExitOnError)
	cf := bindConfigFlags(flags)
	flags.Parse(args)
	cfg := cf.resolve(false)
	if cfg.Source == "" {
		log.Fatalf("inspect: --src required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	report, err := service.New(cfg, service.WithLogger(logger.New(cfg.Log))).Inspect(ctx)
	if err != nil {
		log.Fatalf("inspect: %v", err)
	}
	for _, diagnostic := range report.Diagnostics {
		color.Yellow("! %s", diagnostic)
	}
	for _, q := range report.Questions {
		line := fmt.Sprintf("Câu %d\t%-14s %-2s answers=%d", q.Number, q.Type, q.Level, q.Answers)
		if q.Points != "" {
			line += " points=" + q.Points
		}
		if len(q.Diagnostics) == 0 {
			color.Green("✓ %s", line)
			continue
		}
		color.Red("✗ %s", line)
		for _, diagnostic := range q.Diagnostics {
			color.Yellow("    %s: %s", diagnostic.Code, diagnostic.Message)
		}
	}
	for _, t := range question.Precedence {
		fmt.Printf("%s: %d\n", t, report.Counts[t])
	}
	if unknown := report.Counts[question.Unknown]; unknown > 0 {
		fmt.Printf("%s: %d\n", question.Unknown, unknown)
	}
	if !report.Valid() {
		os.Exit(1)
	}
}

func codesCmd(args []string) {
	flags := flag.NewFlagSet("codes", flag.ExitOnError)
	cf := bindConfigFlags(flags)
	flags.Parse(args)
	cfg := cf.resolve(false)
	fmt.Println(strings.Join(cfg.Codes(), " "))
}

func keysCmd(args []string) {
	flags := flag.NewFlagSet("keys", flag.ExitOnError)
	cf := bindConfigFlags(flags)
	runID := flags.String("run", "", "run id (empty: list runs)")
	flags.Parse(args)
	cfg := cf.resolve(false)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	keys, err := service.OpenKeystore(ctx, cfg.Keystore)
	if err != nil {
		log.Fatalf("keystore: %v", err)
	}
	if keys == nil {
		log.Fatalf("keys: --keystore required")
	}
	defer keys.Close()
	records, runs, err := service.New(cfg, service.WithKeystore(keys)).Keys(ctx, *runID)
	if err != nil {
		log.Fatalf("keys: %v", err)
	}
	for _, run := range runs {
		fmt.Printf("%s\t%d versions\t%s\n", run.ID, run.Versions, run.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	for _, record := range records {
		fmt.Printf("%s\t%s\t%d\t%s\t%s\n", record.Version, record.Type, record.Number, record.Answer, record.Points)
	}
}

func startGops() {
	if os.Getenv("EASYMIX_GOPS") != "1" {
		return
	}
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		log.Printf("gops: %v", err)
	}
}
