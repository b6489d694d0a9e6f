package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/uganh16/luadec/internal/config"
	"github.com/uganh16/luadec/internal/driver"
	"github.com/uganh16/luadec/internal/report"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	configPath := flag.String("config", "", "Configuration file (default: "+config.FileName+" in the working directory or above)")
	suffix := flag.String("suffix", "", "Suffix inserted before the extension of output files (default _d)")
	indent := flag.String("indent", "", "Indent unit of the formatted output (default tab)")
	jobs := flag.Int("j", 0, "Number of files decompiled in parallel (default number of CPUs)")
	reportPath := flag.String("report", "", "Write a YAML run report to this file")
	check := flag.Bool("check", false, "Re-parse the decompiled source and report syntax errors")
	raw := flag.Bool("raw", false, "Write the decompiler output without formatting")
	listing := flag.Bool("l", false, "List the bytecode of the given chunks instead of decompiling them")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: luadec [options] path...\n\n")
		fmt.Fprintf(os.Stderr, "Decompiles Lua 4.0 precompiled chunks. A file f.lua is written to f_d.lua;\n")
		fmt.Fprintf(os.Stderr, "a directory dir is decompiled into dir_d.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "suffix":
			cfg.Output.Suffix = *suffix
		case "indent":
			cfg.Format.Indent = *indent
		case "j":
			cfg.Output.Jobs = *jobs
		case "report":
			cfg.Output.Report = *reportPath
		case "check":
			cfg.Decompile.Check = *check
		case "raw":
			cfg.Format.Raw = *raw
		case "v":
			if *verbose {
				cfg.Log.Verbosity = max(cfg.Log.Verbosity, 1)
			}
		}
	})

	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logFile)
	log := commonlog.GetLogger("luadec")
	if cfg.Path != "" {
		log.Infof("using configuration %s", cfg.Path)
	}

	if *listing {
		os.Exit(listFiles(os.Stdout, flag.Args()))
	}

	rep := report.New("luadec")
	drv := driver.New(driver.Options{
		Suffix:    cfg.Output.Suffix,
		Jobs:      cfg.Output.Jobs,
		Indent:    cfg.Format.Indent,
		Raw:       cfg.Format.Raw,
		Check:     cfg.Decompile.Check,
		Condition: cfg.Decompile.Condition,
	}, os.Stdout, rep)
	sum := drv.Run(flag.Args())

	if cfg.Output.Report != "" {
		if err := rep.WriteFile(cfg.Output.Report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log.Infof("report written to %s", cfg.Output.Report)
	}

	fmt.Printf("\nDone! %d file%s: %d decompiled, %d with errors, %d invalid, %d failed\n",
		sum.Total, s(sum.Total), sum.OK, sum.Warnings, sum.Invalid, sum.Failed)
	if sum.Invalid+sum.Failed > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.FindAndLoad(wd)
}
