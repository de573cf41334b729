package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("sharp.workspace")

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrStaleDocument    = errors.New("document changed since the snapshot was taken")
)

type Kind int

const (
	// KindHost is a folder opened by the editor.
	KindHost Kind = iota
	// KindMiscellaneousFiles holds files opened outside any folder.
	KindMiscellaneousFiles
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindMiscellaneousFiles:
		return "miscellaneous"
	}
	return "unknown"
}

// scanLimit bounds the number of files ScanAll reads at once.
const scanLimit = 8

type Workspace struct {
	mu      sync.RWMutex
	kind    Kind
	rootDir string
	docs    map[string]*Document
	// Paths whose content comes from the editor rather than the disk.
	editing map[string]bool
}

func New(rootDir string) *Workspace {
	return &Workspace{
		kind:    KindHost,
		rootDir: filepath.Clean(rootDir),
		docs:    make(map[string]*Document),
		editing: make(map[string]bool),
	}
}

func NewMiscellaneous() *Workspace {
	return &Workspace{
		kind:    KindMiscellaneousFiles,
		docs:    make(map[string]*Document),
		editing: make(map[string]bool),
	}
}

func (w *Workspace) Kind() Kind {
	return w.kind
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// Contains reports whether path lies under the workspace root. A
// miscellaneous-files workspace contains nothing.
func (w *Workspace) Contains(path string) bool {
	if w.kind != KindHost {
		return false
	}
	rel, err := filepath.Rel(w.rootDir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Open stores text as the current content of path. A path that is already
// open keeps its document ID. Disk scans leave the document alone until
// Close.
func (w *Workspace) Open(path, text string, version int32) *Document {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.editing[path] = true
	return w.store(path, text, version)
}

func (w *Workspace) store(path, text string, version int32) *Document {
	id := uuid.New()
	if old, ok := w.docs[path]; ok {
		id = old.ID
	}
	doc := newDocument(w, id, path, text, version)
	w.docs[path] = doc
	return doc
}

// Editing reports whether path was opened by Open and not yet closed.
func (w *Workspace) Editing(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.editing[path]
}

// Update replaces the text of an open document.
func (w *Workspace) Update(path, text string, version int32) (*Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	old, ok := w.docs[path]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", path, ErrDocumentNotFound)
	}
	w.editing[path] = true
	doc := newDocument(w, old.ID, path, text, version)
	w.docs[path] = doc
	return doc, nil
}

// Apply makes doc, a snapshot derived from an open document, the current
// one. It fails when the document was changed after doc's base version.
func (w *Workspace) Apply(doc *Document) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur, ok := w.docs[doc.Path]
	if !ok || cur.ID != doc.ID {
		return fmt.Errorf("apply %s: %w", doc.Path, ErrDocumentNotFound)
	}
	if doc.Version <= cur.Version {
		return fmt.Errorf("apply %s (version %d, current %d): %w", doc.Path, doc.Version, cur.Version, ErrStaleDocument)
	}
	w.docs[doc.Path] = doc
	return nil
}

func (w *Workspace) Close(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, path)
	delete(w.editing, path)
}

func (w *Workspace) Get(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[path]
}

// Documents returns the open documents ordered by path.
func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()

	docs := make([]*Document, 0, len(w.docs))
	for _, d := range w.docs {
		docs = append(docs, d)
	}
	slices.SortFunc(docs, func(a, b *Document) int { return strings.Compare(a.Path, b.Path) })
	return docs
}

// ScanFile loads path from disk. Documents the editor has open are skipped.
func (w *Workspace) ScanFile(path string) error {
	if w.Editing(path) {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.editing[path] {
		return nil
	}
	version := int32(0)
	if old, ok := w.docs[path]; ok {
		if old.Text == string(content) {
			return nil
		}
		version = old.Version + 1
	}
	w.store(path, string(content), version)
	return nil
}

// RemoveFile drops a file deleted from disk unless the editor has it open.
func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.editing[path] {
		return
	}
	delete(w.docs, path)
}

// ScanAll loads every C# file under the root, skipping hidden directories
// and build output.
func (w *Workspace) ScanAll(ctx context.Context) error {
	if w.kind != KindHost {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scanLimit)

	err := filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("walk %s: %s", path, err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.rootDir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSourceFile(path) {
			return nil
		}
		g.Go(func() error {
			return w.ScanFile(path)
		})
		return nil
	})
	if gerr := g.Wait(); gerr != nil {
		return gerr
	}
	return err
}

// IsSourceFile reports whether path names a C# source file.
func IsSourceFile(path string) bool {
	return filepath.Ext(path) == ".cs"
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "bin" || name == "obj"
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
