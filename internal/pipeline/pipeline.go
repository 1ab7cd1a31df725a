// Package pipeline runs a .lad file through every stage and writes the
// annotated program and the schedule report.
package pipeline

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"ladders/grammar"
	"ladders/internal/access"
	"ladders/internal/config"
	"ladders/internal/emit"
	"ladders/internal/errors"
	"ladders/internal/program"
	"ladders/internal/schedule"
	"ladders/internal/source"
)

var log = commonlog.GetLogger("ladders.pipeline")

// Extension is the required input suffix.
const Extension = ".lad"

// Output is everything produced for one input.
type Output struct {
	Unit      *program.Unit
	Sets      []*access.Set
	Result    *schedule.Result
	Report    string
	Annotated string
	Warnings  []errors.CompilerError
}

// CheckInput validates the command-line argument before any work is done.
func CheckInput(path string) error {
	if path == "" {
		return errors.MissingArgument()
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return errors.FileNotFound(path)
	}
	if filepath.Ext(path) != Extension {
		return errors.WrongExtension(path)
	}
	return nil
}

// Transpile schedules src. Nothing is written.
func Transpile(path, src string, cfg config.Config) (*Output, error) {
	file := source.Split(path, src)

	tree, err := grammar.ParseString(path, file.Code)
	if err != nil {
		var syntaxErr *grammar.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			return nil, errors.Syntax(syntaxErr.Message, syntaxErr.Position)
		}
		return nil, err
	}

	unit, err := program.Capture(file, tree, cfg.Entry)
	if err != nil {
		return nil, err
	}
	log.Debugf("%s: captured %d statements from %s", path, len(unit.Statements), unit.EntryName())

	opts := cfg.AccessOptions()
	opts.Macros = file.Macros
	classified, err := access.ClassifyAll(unit.Statements, opts)
	if err != nil {
		return nil, err
	}

	result := schedule.Run(classified.Sets, cfg.ScheduleOptions())
	log.Infof("%s: %d hoisted, %d batches", path, len(result.Declarations), len(result.Batches))

	return &Output{
		Unit:      unit,
		Sets:      classified.Sets,
		Result:    result,
		Report:    emit.Report(result),
		Annotated: emit.Annotated(unit, result, cfg.EmitOptions()),
		Warnings:  classified.Warnings,
	}, nil
}

// TranspileFile reads path and transpiles it.
func TranspileFile(path string, cfg config.Config) (*Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileNotFound(path)
	}
	return Transpile(path, string(data), cfg)
}

// OutputPaths returns where <base>.c and <base>.sched go for input.
func OutputPaths(input, outputDir string) (annotated, report string) {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), Extension)
	return filepath.Join(dir, base+".c"), filepath.Join(dir, base+".sched")
}

// Write stores both outputs. Each file goes through a temporary file and a
// rename; when any step fails no output file is left behind.
func (o *Output) Write(input, outputDir string) ([]string, error) {
	annotatedPath, reportPath := OutputPaths(input, outputDir)
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, errors.OutputWrite(outputDir, err)
		}
	}

	files := []struct {
		path    string
		content string
	}{
		{reportPath, o.Report},
		{annotatedPath, o.Annotated},
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range temps {
			os.Remove(tmp)
		}
	}
	for _, f := range files {
		tmp, err := writeTemp(f.path, f.content)
		if err != nil {
			cleanup()
			return nil, errors.OutputWrite(f.path, err)
		}
		temps = append(temps, tmp)
	}

	var written []string
	for i, f := range files {
		if err := os.Rename(temps[i], f.path); err != nil {
			for _, done := range written {
				os.Remove(done)
			}
			temps = temps[i:]
			cleanup()
			return nil, errors.OutputWrite(f.path, err)
		}
		written = append(written, f.path)
	}
	log.Infof("wrote %s", strings.Join(written, ", "))
	return written, nil
}

func writeTemp(path, content string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
