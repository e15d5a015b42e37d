// Command svelab drives elaboration of an already-parsed, typed, and
// constant-folded SystemVerilog AST into a structural netlist. The front
// end that produces that AST is out of scope: svelab is
// invoked as a subcommand of the host driver that owns parsing and
// compilation, the same relationship the reference vhdl-lint has to its
// tree-sitter grammar, just one layer further out — here the grammar and
// semantic analysis both live upstream of this binary.
package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/robert-at-pretension-io/sv-elab/internal/config"
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/hierarchy"
	"github.com/robert-at-pretension-io/sv-elab/internal/lintpolicy"
	"github.com/robert-at-pretension-io/sv-elab/internal/schema"
)

func main() {
	app := cli.NewApp()
	app.Name = "svelab"
	app.Usage = "elaborate a typed SystemVerilog AST into a structural netlist"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a svelab.json configuration file",
		},
		cli.StringFlag{
			Name:  "top",
			Usage: "top module name, overriding the config file's top_module",
		},
		cli.BoolFlag{
			// The one flag this command line adds beyond the upstream
			// SystemVerilog driver's surface: dump the elaborated AST.
			Name:  "dump-ast",
			Usage: "dump the elaborated AST before running elaboration",
		},
	}
	app.Commands = []cli.Command{
		initCommand,
		validateConfigCommand,
	}
	app.Action = runElaborate

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "svelab: %v\n", err)
		os.Exit(1)
	}
}

var initCommand = cli.Command{
	Name:      "init",
	Usage:     "create a svelab.json configuration file",
	ArgsUsage: "",
	Action: func(ctx *cli.Context) error {
		path := "svelab.json"
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Config file %s already exists. Overwrite? [y/N]: ", path)
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return fmt.Errorf("creating config: %w", err)
		}
		fmt.Printf("Created %s\n", path)
		return nil
	},
}

var validateConfigCommand = cli.Command{
	Name:      "validate-config",
	Usage:     "check a svelab.json file against the config schema",
	ArgsUsage: "[path]",
	Action: func(ctx *cli.Context) error {
		path := ctx.Args().First()
		if path == "" {
			path = "svelab.json"
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		v, err := schema.New()
		if err != nil {
			return fmt.Errorf("compiling schemas: %w", err)
		}
		if err := v.ValidateConfig(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Printf("%s: ok\n", path)
		return nil
	},
}

// runElaborate loads configuration and constructs the elaboration pipeline
// (schema validator, hierarchy driver). It stops short of parsing source
// itself; a host driver embedding svelab links against internal/hierarchy
// directly and calls Driver.Elaborate with the AST its own front end
// produced, the same integration point this command's Action documents.
// The --dump-ast flag is accepted but not read here, so it dumps nothing.
func runElaborate(ctx *cli.Context) error {
	root := ctx.Args().First()
	if root == "" {
		root = "."
	}

	var cfg *config.Config
	var err error
	if p := ctx.GlobalString("config"); p != "" {
		cfg, err = config.LoadFile(p)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if top := ctx.GlobalString("top"); top != "" {
		cfg.TopModule = top
	}
	if cfg.TopModule == "" {
		return fmt.Errorf("no top module: set top_module in the config file or pass --top")
	}

	validator, err := schema.New()
	if err != nil {
		return fmt.Errorf("compiling schemas: %w", err)
	}

	lintEngine, err := lintpolicy.New()
	if err != nil {
		return fmt.Errorf("compiling lint rules: %w", err)
	}

	driver := hierarchy.New(1024, hierarchy.WithSchema(validator))
	defer driver.Warnings.PrintWarnings()

	fmt.Fprintf(os.Stderr,
		"svelab: configured for top module %q; waiting on a host-supplied AST to elaborate (see internal/hierarchy.Driver.Elaborate)\n",
		cfg.TopModule)

	// A host driver calls driver.Elaborate(top) here with the AST its own
	// front end produced, then runs the lint policy over every resulting
	// module before printing the summary below.
	for _, name := range driver.Design.ModuleOrder {
		m := driver.Design.Modules[name]
		result, err := lintEngine.Evaluate(lintpolicy.BuildInput(m))
		if err != nil {
			return fmt.Errorf("evaluating lint policy for %q: %w", name, err)
		}
		for _, v := range result.Violations {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", v.Severity, v.Rule, v.Message)
		}
	}

	summary := diag.Summary{Modules: len(driver.Design.ModuleOrder)}
	summary.PrintSummary(os.Stdout)
	return nil
}
