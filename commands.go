package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/FitrahHaque/huffpack/compressor/huffman"
	"github.com/FitrahHaque/huffpack/config"
	"github.com/FitrahHaque/huffpack/engine"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func isUsageError(err error) bool {
	var ue *usageError
	return errors.As(err, &ue)
}

// commonFlags are accepted by every file command.
type commonFlags struct {
	configPath string
	progress   bool
	verify     bool
	noColor    bool
	debug      bool
}

func newFlagSet(name string, stderr io.Writer) (*pflag.FlagSet, *commonFlags) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	fs.StringVar(&common.configPath, "config", "", "YAML config file")
	fs.BoolVar(&common.progress, "progress", false, "show a progress bar while encoding")
	fs.BoolVar(&common.verify, "verify", false, "decode each container before writing it")
	fs.BoolVar(&common.noColor, "no-color", false, "plain report output")
	fs.BoolVar(&common.debug, "debug", false, "debug logging")
	return fs, &common
}

func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}
	return nil
}

// setup loads the config file and applies the flags that were given on top
// of it.
func setup(fs *pflag.FlagSet, common *commonFlags, stderr io.Writer) (config.Config, *engine.Engine, *printer, error) {
	cfg, err := config.Load(config.Path(common.configPath))
	if err != nil {
		return cfg, nil, nil, err
	}
	if fs.Changed("progress") {
		cfg.Progress = common.progress
	}
	if fs.Changed("verify") {
		cfg.Verify = common.verify
	}
	if common.noColor {
		cfg.Color = false
	}
	if common.debug || os.Getenv("HUFFPACK_DEBUG") != "" {
		cfg.LogLevel = "debug"
	}
	level, err := cfg.Level()
	if err != nil {
		return cfg, nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))
	logger.Debug("configuration loaded", "progress", cfg.Progress, "verify", cfg.Verify, "extension", cfg.OutputExtension)
	e := engine.New(engine.Options{
		Progress:       cfg.Progress,
		ProgressOutput: stderr,
		Verify:         cfg.Verify,
		Logger:         logger,
	})
	return cfg, e, newPrinter(cfg.Color), nil
}

func encodeCmd(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("encode", stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageErrorf("encode takes <source> <destination>, got %d arguments", fs.NArg())
	}
	_, e, p, err := setup(fs, common, stderr)
	if err != nil {
		return err
	}
	p.status(stdout, "Compressing...")
	report, err := e.Encode(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	p.encodeReport(stdout, report)
	return nil
}

func decodeCmd(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("decode", stderr)
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageErrorf("decode takes <source> <destination>, got %d arguments", fs.NArg())
	}
	_, e, p, err := setup(fs, common, stderr)
	if err != nil {
		return err
	}
	p.status(stdout, "Decompressing...")
	report, err := e.Decode(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	p.decodeReport(stdout, report)
	return nil
}

func compressCmd(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("compress", stderr)
	outputFileExtension := fs.String("outfileext", "", "extension appended to each output file (default from config)")
	deleteAfterCompress := fs.Bool("delete", false, "delete each source file after compression")
	if err := parse(fs, args); err != nil {
		return err
	}
	var files []string
	for _, arg := range fs.Args() {
		files = append(files, strings.Split(arg, ",")...)
	}
	trimSpace(files)
	files = dropEmpty(files)
	if len(files) == 0 {
		return usageErrorf("no file provided for compression")
	}
	cfg, e, p, err := setup(fs, common, stderr)
	if err != nil {
		return err
	}
	if fs.Changed("outfileext") {
		cfg.OutputExtension = *outputFileExtension
		if err := cfg.Validate(); err != nil {
			return &usageError{msg: err.Error()}
		}
	}
	p.status(stdout, "Compressing...")
	reports, err := e.CompressFiles(files, cfg.OutputExtension)
	for i := range reports {
		p.encodeReport(stdout, &reports[i])
	}
	if err != nil {
		return err
	}
	if *deleteAfterCompress {
		return deleteFiles(files)
	}
	return nil
}

func inspectCmd(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("inspect", stderr)
	showCodes := fs.Bool("codes", false, "list every symbol with its code")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usageErrorf("inspect takes <container>, got %d arguments", fs.NArg())
	}
	_, e, p, err := setup(fs, common, stderr)
	if err != nil {
		return err
	}
	info, err := e.Inspect(fs.Arg(0))
	if err != nil {
		return err
	}
	p.inspectReport(stdout, info, *showCodes)
	return nil
}

func dropEmpty(s []string) []string {
	out := s[:0]
	for _, v := range s {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

type printer struct {
	label  *color.Color
	value  *color.Color
	notice *color.Color
}

func newPrinter(enabled bool) *printer {
	p := &printer{
		label:  color.New(color.FgCyan),
		value:  color.New(color.FgGreen, color.Bold),
		notice: color.New(color.FgYellow),
	}
	if !enabled {
		p.label.DisableColor()
		p.value.DisableColor()
		p.notice.DisableColor()
	}
	return p
}

func (p *printer) line(w io.Writer, label string, value any) {
	p.label.Fprintf(w, "%s: ", label)
	p.value.Fprintf(w, "%v\n", value)
}

func (p *printer) encodeReport(w io.Writer, r *engine.Report) {
	p.line(w, "File", r.Source+" -> "+r.Destination)
	p.line(w, "Original size (in bytes)", r.OriginalSize)
	p.line(w, "Compressed size (in bytes)", r.CompressedSize)
	p.line(w, "Compression ratio", fmt.Sprintf("%.2f%%", r.Ratio()))
	p.line(w, "BLAKE3", r.DigestHex())
}

func (p *printer) decodeReport(w io.Writer, r *engine.Report) {
	p.line(w, "File", r.Source+" -> "+r.Destination)
	p.line(w, "Compressed size (in bytes)", r.CompressedSize)
	p.line(w, "Decompressed size (in bytes)", r.OriginalSize)
	p.line(w, "BLAKE3", r.DigestHex())
}

func (p *printer) inspectReport(w io.Writer, info *huffman.ContainerInfo, showCodes bool) {
	p.line(w, "Table length (in bytes)", info.TableLength)
	p.line(w, "Symbols", info.Symbols)
	p.line(w, "Longest code (in bits)", info.MaxCodeLength)
	p.line(w, "Payload length (in bytes)", info.PayloadLength)
	p.line(w, "Tail bits", info.TailBits)
	p.line(w, "Payload bits", info.BitLength)
	if !showCodes {
		return
	}
	for _, symbol := range info.Table.Symbols() {
		p.line(w, strconv.QuoteRune(symbol), info.Table[symbol])
	}
}

func (p *printer) status(w io.Writer, msg string) {
	p.notice.Fprintln(w, msg)
}
