// Package driver runs the decompiler over files and directory trees.
package driver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/uganh16/luadec/internal/binary"
	"github.com/uganh16/luadec/internal/decompiler"
	"github.com/uganh16/luadec/internal/format"
	"github.com/uganh16/luadec/internal/report"
	"github.com/uganh16/luadec/internal/syntax"
)

type Options struct {
	Suffix    string
	Jobs      int
	Indent    string
	Raw       bool /* skip the formatter */
	Check     bool /* re-parse the output */
	Condition string
}

type Driver struct {
	opts   Options
	log    commonlog.Logger
	report *report.Report

	mu     sync.Mutex
	status io.Writer
}

type task struct {
	in  string
	out string
}

// New returns a driver printing one status line per file to status. A nil
// rep gets a fresh report.
func New(opts Options, status io.Writer, rep *report.Report) *Driver {
	if opts.Suffix == "" {
		opts.Suffix = "_d"
	}
	if rep == nil {
		rep = report.New("luadec")
	}
	return &Driver{
		opts:   opts,
		log:    commonlog.GetLogger("luadec.driver"),
		report: rep,
		status: status,
	}
}

func (d *Driver) Report() *report.Report {
	return d.report
}

// OutputPath returns the file the decompiled source of in is written to:
// the suffix goes between the stem and the extension.
func OutputPath(in, suffix string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + suffix + ext
}

// Run decompiles every file named by paths. Directories are walked and their
// output mirrored into a sibling directory carrying the suffix. One bad
// file never stops the others.
func (d *Driver) Run(paths []string) report.Summary {
	var tasks []task
	for _, path := range paths {
		ts, err := d.collect(path)
		if err != nil {
			d.printf("Error: path %q: %v\n", path, err)
			d.report.Add(report.File{Input: path, Status: report.StatusFailed, Error: err.Error()})
		}
		tasks = append(tasks, ts...)
	}
	d.process(tasks)
	return d.report.Summary()
}

func (d *Driver) collect(path string) ([]task, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []task{{in: path, out: OutputPath(path, d.opts.Suffix)}}, nil
	}

	root := filepath.Clean(path)
	if base := filepath.Base(root); base == "." || base == ".." {
		if root, err = filepath.Abs(root); err != nil {
			return nil, err
		}
	}
	outRoot := root + d.opts.Suffix

	var tasks []task
	err = filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		tasks = append(tasks, task{in: p, out: filepath.Join(outRoot, rel)})
		return nil
	})
	return tasks, err
}

func (d *Driver) process(tasks []task) {
	jobs := min(max(d.opts.Jobs, 1), len(tasks))
	ch := make(chan task)
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := d.newWorker()
			for t := range ch {
				d.report.Add(w.file(t))
			}
		}()
	}
	for _, t := range tasks {
		ch <- t
	}
	close(ch)
	wg.Wait()
}

func (d *Driver) printf(msg string, a ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.status, msg, a...)
}

/* worker owns the per-goroutine decompiler and formatter */
type worker struct {
	d    *Driver
	dec  *decompiler.Decompiler
	form *format.Formatter
}

func (d *Driver) newWorker() *worker {
	return &worker{
		d:    d,
		dec:  decompiler.New(decompiler.Config{Condition: d.opts.Condition}),
		form: format.New(d.opts.Indent),
	}
}

func (w *worker) file(t task) report.File {
	entry := report.File{Input: t.in}
	name := filepath.Base(t.in)
	w.d.log.Infof("decompiling %s", t.in)

	text, warnings, err := w.decompile(t.in)
	if err == nil {
		err = writeFile(t.out, text)
	}
	switch {
	case errors.Is(err, binary.ErrInvalidChunk):
		entry.Status = report.StatusInvalid
		entry.Error = err.Error()
		w.d.printf("Error: file %q is not a compiled lua file!\n", name)
		return entry
	case err != nil:
		entry.Status = report.StatusFailed
		entry.Error = err.Error()
		w.d.log.Errorf("%s: %v", t.in, err)
		w.d.printf("Error: file %q: %v\n", name, err)
		return entry
	}

	entry.Output = t.out
	entry.Warnings = warnings
	if len(warnings) > 0 {
		entry.Status = report.StatusWarnings
		w.d.printf("File %q decompiled with errors!\n", name)
	} else {
		entry.Status = report.StatusOK
		w.d.printf("File %q successfully decompiled!\n", name)
	}
	return entry
}

func (w *worker) decompile(path string) (text string, warnings []string, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("internal error: %v", x)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	p, err := binary.Undump(bufio.NewReader(f))
	if err != nil {
		return "", nil, err
	}
	res, err := w.dec.Decompile(p)
	if err != nil {
		return "", nil, err
	}
	for _, wn := range res.Warnings {
		warnings = append(warnings, wn.Error())
	}

	text = res.Text
	if !w.d.opts.Raw {
		text = w.form.Format(text)
	}
	if w.d.opts.Check {
		if err := syntax.Check(text, path); err != nil {
			w.d.log.Warningf("%s: %v", path, err)
			warnings = append(warnings, err.Error())
		}
	}
	return text, warnings, nil
}

func writeFile(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
