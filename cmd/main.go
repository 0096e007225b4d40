package main

import (
	"flag"
	"fmt"
	"os"

	"fpwalk/internal/logger"
	"fpwalk/internal/tracer"
	"fpwalk/pkg/color"
	"fpwalk/pkg/unwind"

	"github.com/charmbracelet/log"
)

// Main entry point for fpwalk.
func main() {
	options := tracer.Tracer{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.StringVar(&options.Format, "f", "text", "Output format (text, json, yaml)")
	flag.IntVar(&options.MaxDepth, "d", unwind.DefaultMaxDepth, "Maximum number of return addresses, 0 for no cap")
	flag.BoolVar(&options.Collapse, "collapse", false, "Let the compiler inline the outer call level")
	flag.BoolVar(&options.CrossCheck, "x", false, "Cross-check return addresses against runtime.Callers")
	flag.BoolVar(&options.Unchecked, "unchecked", false, "Read frame records without probing them")
	flag.StringVar(&options.LogFile, "log", "", "Also write logs to this file (rotated)")

	flag.Parse()

	closeLog := logger.Init(logger.Options{
		Debug:   options.Verbose,
		NoColor: options.NoColor,
		File:    options.LogFile,
	})
	defer closeLog()

	if options.Help {
		fmt.Printf("Usage: %s [options]\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if options.CrossCheck && !options.Verbose {
		log.SetLevel(log.InfoLevel)
	}

	if args := flag.Args(); len(args) > 0 {
		log.Warn("Ignoring arguments", "args", args)
	}

	if err := options.Trace(); err != nil {
		log.Fatal("Trace failed", "error", err)
	}
}
