package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/pkg/errors"
	"github.com/pontaoski/tinyc/codegen"
	"github.com/pontaoski/tinyc/reader"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
)

func build(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.Errorf("build takes one program file, got %d", c.NArg())
	}
	in := c.Args().First()

	doc, err := readModuleInfo(c.String("config"))
	if err != nil {
		return tracerr.Wrap(err)
	}

	level := doc.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	if err := setupLogging(level); err != nil {
		return tracerr.Wrap(err)
	}

	prog, err := reader.ReadProgram(in)
	if err != nil {
		return tracerr.Wrap(err)
	}
	if c.Bool("dump-ast") {
		repr.Println(prog, repr.Indent("  "))
	}

	opts := doc.options()
	if c.IsSet("passes") {
		opts.Passes = c.StringSlice("passes")
	}
	if c.Bool("no-verify") {
		opts.SkipVerify = true
	}

	compiler, err := codegen.New(opts)
	if err != nil {
		return tracerr.Wrap(err)
	}

	module, err := compiler.CompileProgram(prog)
	if err != nil {
		return err
	}

	if c.Bool("dump") {
		fmt.Println(module.String())
		return nil
	}

	out := c.String("output")
	if out == "" {
		out = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".ll"
	}
	if err := ioutil.WriteFile(out, []byte(module.String()), 0644); err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "tinyc",
		Usage: "lower tinyc syntax trees to LLVM IR",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print errors with a stack trace",
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			if c.Bool("trace") {
				tracerr.PrintSourceColor(err)
			} else {
				fmt.Fprintln(os.Stderr, tracerr.Unwrap(err))
			}
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write a " + moduleInfoFile + " for a new module",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return errors.New("no module name provided")
					}
					return tracerr.Wrap(writeModuleInfo(moduleInfoFile, defaultModuleInfo(name)))
				},
			},
			{
				Name:      "build",
				Usage:     "compile a program's syntax tree",
				ArgsUsage: "<program.yaml>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
					},
					&cli.StringFlag{
						Name:  "config",
						Value: moduleInfoFile,
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the module instead of writing it",
					},
					&cli.BoolFlag{
						Name:  "dump-ast",
						Usage: "print the decoded syntax tree",
					},
					&cli.StringSliceFlag{
						Name:  "passes",
						Usage: "optimization passes to run, in order",
					},
					&cli.BoolFlag{
						Name: "no-verify",
					},
					&cli.StringFlag{
						Name: "log-level",
					},
				},
				Action: build,
			},
			{
				Name:      "typeinfo",
				Usage:     "dump typeinfo from a compiled module",
				ArgsUsage: "<module.ll>",
				Action: func(c *cli.Context) error {
					data, err := reader.ReadTypeInfo(c.Args().First())
					if err != nil {
						return tracerr.Wrap(err)
					}
					repr.Println(data)
					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}
