package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/spritedev/internal/canvas"
	"github.com/danieljhkim/spritedev/internal/clock"
	"github.com/danieljhkim/spritedev/internal/config"
	"github.com/danieljhkim/spritedev/internal/engine"
	"github.com/danieljhkim/spritedev/internal/fsops"
	"github.com/danieljhkim/spritedev/internal/hash"
	"github.com/danieljhkim/spritedev/internal/history"
	"github.com/danieljhkim/spritedev/internal/host"
	"github.com/danieljhkim/spritedev/internal/persist"
	"github.com/danieljhkim/spritedev/internal/state"
	"github.com/danieljhkim/spritedev/internal/stores"
)

// session bundles the real implementations every command works with.
type session struct {
	settings *config.Settings
	logger   *logrus.Logger
	fs       fsops.FS
	hasher   hash.Hasher
	clock    clock.Clock
	docs     stores.DocumentRepo
	state    state.StateStore
	editor   *canvas.Editor
}

// document is a loaded sprite document.
type document struct {
	dir  string
	meta *stores.Document
	img  *canvas.Image
}

// newSession loads configuration and creates real implementations of all
// dependencies.
func newSession() (*session, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.LoadSettings(paths, cfgFile)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(settings.LogLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	fs := fsops.NewRealFS()
	hasher := hash.NewSHA256Hasher()
	clk := &clock.RealClock{}

	return &session{
		settings: settings,
		logger:   logger,
		fs:       fs,
		hasher:   hasher,
		clock:    clk,
		docs:     stores.NewFileDocumentRepo(fs, hasher, clk),
		state:    state.NewFileStateStore(fs, paths.Session),
		editor:   canvas.New(),
	}, nil
}

// newEngine creates an engine that reports progress for label on stderr.
func (s *session) newEngine(label string) *engine.Engine {
	entry := s.logger.WithField("cmd", label)
	var out io.Writer = os.Stderr
	if jsonOutput {
		out = io.Discard
	}
	return engine.New(s.editor, entry, &progressPrinter{label: label, out: out, logger: entry, last: -1})
}

// resolveDoc returns the document directory named by --doc, or the active
// document of the session.
func (s *session) resolveDoc() (string, error) {
	if docPath != "" {
		return config.DocumentDir(docPath)
	}
	sess, err := s.state.LoadSession()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w selected: pass --doc or run 'spritedev use <path>'", stores.ErrNoDocument)
		}
		return "", err
	}
	if sess.ActiveDocument == "" {
		return "", fmt.Errorf("%w selected: pass --doc or run 'spritedev use <path>'", stores.ErrNoDocument)
	}
	return sess.ActiveDocument, nil
}

// activate makes dir the session's active document.
func (s *session) activate(dir string) error {
	return s.state.SaveSession(&state.SessionState{
		ActiveDocument: dir,
		UpdatedAt:      s.clock.Now(),
	})
}

// open loads the resolved document into the in-memory editor.
func (s *session) open() (*document, error) {
	dir, err := s.resolveDoc()
	if err != nil {
		return nil, err
	}
	meta, snap, err := s.docs.Load(dir)
	if err != nil {
		return nil, err
	}
	img, err := snap.Restore(s.editor)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", dir, err)
	}
	s.logger.WithField("doc", dir).Debug("opened document")
	return &document{dir: dir, meta: meta, img: img}, nil
}

// journal opens the undo history of the document at dir.
func (s *session) journal(dir string) (*history.Journal, error) {
	return history.Open(filepath.Join(dir, history.FileName), s.clock, s.settings.HistoryLimit)
}

// mutate opens the document, runs fn and, when fn reports a change, records
// the previous state in the history journal and saves the document.
func (s *session) mutate(label string, fn func(ctx context.Context, eng *engine.Engine, doc *document) (bool, error)) (*document, error) {
	doc, err := s.open()
	if err != nil {
		return nil, err
	}
	before, err := persist.Capture(doc.img, s.hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot document: %w", err)
	}

	changed, err := fn(context.Background(), s.newEngine(label), doc)
	if err != nil {
		return nil, err
	}
	if !changed {
		return doc, nil
	}

	if err := s.record(doc.dir, label, before); err != nil {
		return nil, err
	}
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *session) record(dir, label string, snap *persist.Snapshot) error {
	data, err := persist.Encode(snap)
	if err != nil {
		return err
	}
	j, err := s.journal(dir)
	if err != nil {
		return err
	}
	defer j.Close()
	if _, err := j.Record(label, data); err != nil {
		return err
	}
	return nil
}

// create saves img as a new document at dir.
func (s *session) create(dir string, img host.Image) (*stores.Document, error) {
	ci, ok := img.(*canvas.Image)
	if !ok {
		return nil, fmt.Errorf("unexpected image type %T", img)
	}
	snap, err := persist.Capture(ci, s.hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot document: %w", err)
	}
	doc, err := s.docs.Create(dir, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

func (s *session) save(doc *document) error {
	snap, err := persist.Capture(doc.img, s.hasher)
	if err != nil {
		return fmt.Errorf("failed to snapshot document: %w", err)
	}
	meta, err := s.docs.Save(doc.dir, snap)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", doc.dir, err)
	}
	doc.meta = meta
	return nil
}

// progressPrinter prints whole-percent progress lines for long operations.
type progressPrinter struct {
	label  string
	out    io.Writer
	logger *logrus.Entry
	last   int
}

// Report prints fraction as a percentage when it has moved since the last
// report.
func (p *progressPrinter) Report(fraction float64) {
	pct := int(fraction * 100)
	if pct == p.last {
		return
	}
	p.last = pct
	_, _ = fmt.Fprintf(p.out, "%s %d%%\n", p.label, pct)
	p.logger.WithField("progress", fraction).Debug("progress")
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
