// Command lithium is the CLI entry point: it parses the flag surface,
// resolves the selected strategy, loads the testcase, wires up a
// subprocess oracle, and drives an engine.Engine to completion.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"golang.org/x/term"

	"lithium/internal/config"
	"lithium/internal/engine"
	"lithium/internal/logging"
	"lithium/internal/oracle"
	"lithium/internal/strategy"
	"lithium/internal/testcase"
)

const (
	exitOK         = 0
	exitNotReduced = 1
	exitUsage      = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// cliArgs mirrors readArgs' struct-of-flag-pointers shape: every field is
// populated by a flag.FlagSet registration and dereferenced after Parse.
type cliArgs struct {
	testcasePath *string
	tempDir      *string
	verbose      *bool
	strategyName *string

	lines     *bool
	char      *bool
	js        *bool
	symbol    *bool
	cutBefore *string
	cutAfter  *string

	configPath *string
	noColor    *bool
	runID      *string

	oracleTimeout *int
}

func run(argv []string) int {
	configPath, _ := scanFlagValue(argv, "config")
	defaults, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	strategyName, found := scanFlagValue(argv, "strategy")
	if !found {
		strategyName = defaults.Strategy
	}
	if strategyName == "" {
		strategyName = strategy.DefaultStrategyName
	}

	registry := strategy.NewRegistry()
	ctor, ok := registry[strategyName]
	if !ok {
		fmt.Fprintf(os.Stderr, "lithium: unknown --strategy %q\n", strategyName)
		return exitUsage
	}
	strat := ctor()

	fs := flag.NewFlagSet("lithium", flag.ContinueOnError)
	a := &cliArgs{
		testcasePath: fs.String("testcase", "", "path to the file to reduce (overrides the positional file argument)"),
		tempDir:      fs.String("tempdir", defaults.TempDir, "directory for intermediate artifacts (default: a fresh temp dir)"),
		verbose:      fs.Bool("v", false, "verbose output"),
		strategyName: fs.String("strategy", strategyName, "reduction strategy to use"),

		lines:     fs.Bool("l", true, "split on lines (default)"),
		char:      fs.Bool("c", false, "split on individual bytes"),
		js:        fs.Bool("j", false, "split on JS string characters"),
		symbol:    fs.Bool("s", false, "split on symbol delimiters"),
		cutBefore: fs.String("cut-before", testcase.DefaultCutBefore, "delimiters that start a new symbol token"),
		cutAfter:  fs.String("cut-after", testcase.DefaultCutAfter, "delimiters that end a symbol token"),

		configPath: fs.String("config", configPath, "optional YAML file of flag defaults"),
		noColor:    fs.Bool("no-color", false, "disable colorized log output"),
		runID:      fs.String("run-id", "", "override the random suffix used for the default --tempdir"),

		oracleTimeout: fs.Int("oracle-timeout", 0, "kill a single condition invocation after this many seconds (0 = oracle.DefaultTimeout)"),
	}
	fs.BoolVar(a.verbose, "verbose", false, "verbose output")
	fs.BoolVar(a.lines, "lines", true, "split on lines (default)")

	strat.AddArgs(fs)

	if err := fs.Parse(argv); err != nil {
		return exitUsage
	}

	if err := strat.ProcessArgs(); err != nil {
		fmt.Fprintln(os.Stderr, "lithium:", err)
		return exitUsage
	}

	splitter, err := resolveSplitter(a)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lithium:", err)
		return exitUsage
	}

	positional := fs.Args()
	var conditionAndFile []string
	targetPath := *a.testcasePath
	if targetPath == "" {
		if len(positional) < 2 {
			fmt.Fprintln(os.Stderr, "lithium: usage: lithium [flags] condition [condition-args...] file-to-reduce")
			return exitUsage
		}
		conditionAndFile = positional
		targetPath = conditionAndFile[len(conditionAndFile)-1]
		conditionAndFile = conditionAndFile[:len(conditionAndFile)-1]
	} else {
		if len(positional) < 1 {
			fmt.Fprintln(os.Stderr, "lithium: usage: lithium [flags] --testcase PATH condition [condition-args...]")
			return exitUsage
		}
		conditionAndFile = positional
	}
	condition, conditionArgs := conditionAndFile[0], conditionAndFile[1:]

	tc, err := testcase.Load(targetPath, splitter)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lithium:", err)
		return exitNotReduced
	}

	tempDir := *a.tempDir
	if tempDir == "" {
		runID := *a.runID
		if runID == "" {
			runID = ksuid.New().String()
		}
		tempDir = filepath.Join(os.TempDir(), "lithium-"+runID)
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "lithium:", err)
		return exitUsage
	}

	enableColor := !*a.noColor && term.IsTerminal(int(os.Stdout.Fd()))
	verbosity := 0
	if *a.verbose {
		verbosity = 1
	}
	log := logging.Configure(verbosity, enableColor)

	var oracleTimeout time.Duration
	if *a.oracleTimeout > 0 {
		oracleTimeout = time.Duration(*a.oracleTimeout) * time.Second
	}
	o := oracle.NewSubprocess(condition, conditionArgs, oracleTimeout)

	eng := engine.New(tc, strat, o, log, tempDir)

	ctx := context.Background()
	code, err := eng.Run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lithium:", err)
		return exitNotReduced
	}
	return code
}

// resolveSplitter enforces that atom selection is mutually exclusive
// and builds the concrete Splitter for whichever flag was set.
func resolveSplitter(a *cliArgs) (testcase.Splitter, error) {
	set := 0
	if *a.char {
		set++
	}
	if *a.js {
		set++
	}
	if *a.symbol {
		set++
	}
	if set > 1 {
		return nil, fmt.Errorf("-c/-j/-s are mutually exclusive")
	}

	switch {
	case *a.char:
		return testcase.CharSplitter{}, nil
	case *a.js:
		return testcase.JsStrSplitter{}, nil
	case *a.symbol:
		return testcase.NewSymbolSplitter([]byte(*a.cutBefore), []byte(*a.cutAfter)), nil
	default:
		return testcase.LineSplitter{}, nil
	}
}

// scanFlagValue looks up a --name/-name value by hand, before the real
// FlagSet (whose contents depend on which strategy is selected) is
// built, so --strategy and --config can be resolved in a first pass
// without choking on flags that belong to an as-yet-unknown strategy.
func scanFlagValue(argv []string, name string) (string, bool) {
	longEq := "--" + name + "="
	shortEq := "-" + name + "="
	for i, a := range argv {
		if a == "--"+name || a == "-"+name {
			if i+1 < len(argv) {
				return argv[i+1], true
			}
			return "", false
		}
		if strings.HasPrefix(a, longEq) {
			return strings.TrimPrefix(a, longEq), true
		}
		if strings.HasPrefix(a, shortEq) {
			return strings.TrimPrefix(a, shortEq), true
		}
	}
	return "", false
}
