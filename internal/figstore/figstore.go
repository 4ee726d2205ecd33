// Package figstore names and persists rendered figures. Each output category
// owns one directory and one append-only manifest; file names carry a
// per-descriptor sequence number so repeated saves never overwrite earlier
// figures, including figures left over from prior runs.
package figstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JackIHill/CerebellumProject/internal/combos"
	"github.com/google/uuid"
)

// Category selects the output directory and manifest for a save.
type Category string

const (
	Simple Category = "simple"
	Logged Category = "logged"
)

// Dir returns the category's directory name.
func (c Category) Dir() string {
	if c == Logged {
		return "Saved Log Plots"
	}
	return "Saved Simple Plots"
}

// ManifestName returns the category's manifest file name.
func (c Category) ManifestName() string {
	if c == Logged {
		return "LOG_PLOT_DETAILS.txt"
	}
	return "SIMPLE_PLOT_DETAILS.txt"
}

// Plan is one computed save: the resolved file name, its sequence number, the
// figure's ID, and the manifest entry to append. Computing a Plan has no side
// effects; Store.Save applies one.
type Plan struct {
	FileName string
	Sequence int
	FigureID string
	Manifest string
}

// Descriptor is the human-readable label embedded in save file names,
// identifying the plot category and pair count.
func Descriptor(c Category, pairCount int, isDefault bool) string {
	if isDefault {
		return fmt.Sprintf("Default %s", c)
	}
	return fmt.Sprintf("%d %s Plot(s)", pairCount, c)
}

const manifestTimeLayout = "02-01-2006 at 15:04:05"

// Allocate computes a non-colliding save plan against the given set of
// existing file names. The sequence number is the smallest positive integer
// not already used by a file of the same descriptor; it is recomputed from
// existing on every call so allocation reflects the directory as it is now,
// gaps from external deletions included.
func Allocate(c Category, pairs []combos.Pair, isDefault bool, existing map[string]struct{}) Plan {
	return allocateAt(c, pairs, isDefault, existing, uuid.NewString(), time.Now())
}

func allocateAt(c Category, pairs []combos.Pair, isDefault bool, existing map[string]struct{}, id string, at time.Time) Plan {
	desc := Descriptor(c, len(pairs), isDefault)
	seq := nextSequence(desc, existing)

	var b strings.Builder
	fmt.Fprintf(&b, "%s - #%d -\n", desc, seq)
	for _, p := range pairs {
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "- Figure %s Created on %s\n", id, at.Format(manifestTimeLayout))
	b.WriteString("------------------------------------------------------\n")

	return Plan{
		FileName: fmt.Sprintf("%s - #%d.png", desc, seq),
		Sequence: seq,
		FigureID: id,
		Manifest: b.String(),
	}
}

// nextSequence scans existing names of the form "{desc} - #{N}.png" and picks
// the smallest positive N not present.
func nextSequence(desc string, existing map[string]struct{}) int {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(desc) + ` - #(\d+)\.png$`)
	used := make(map[int]bool)
	for name := range existing {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			used[n] = true
		}
	}
	seq := 1
	for used[seq] {
		seq++
	}
	return seq
}

// FS is the filesystem surface the store needs. The OS-backed implementation
// is the default; tests may substitute their own.
type FS interface {
	DirExists(path string) bool
	MkdirAll(path string) error
	ListNames(dir string) ([]string, error)
	WriteFile(path string, data []byte) error
	AppendText(path, content string) error
	RemoveAll(path string) error
}

type osFS struct{}

func (osFS) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (osFS) MkdirAll(path string) error { return os.MkdirAll(path, 0o755) }

func (osFS) ListNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (osFS) WriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func (osFS) AppendText(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (osFS) RemoveAll(path string) error { return os.RemoveAll(path) }

// ErrNoSaveFolder reports a Clean of a category whose folder does not exist.
var ErrNoSaveFolder = errors.New("save folder does not exist")

// Store applies save plans under one output root. Allocation is
// check-then-act over the directory listing, so concurrent savers to the same
// root must serialize externally.
type Store struct {
	root string
	fs   FS
}

// NewStore returns an OS-backed store rooted at root.
func NewStore(root string) *Store { return &Store{root: root, fs: osFS{}} }

// NewStoreFS returns a store with a caller-supplied filesystem.
func NewStoreFS(root string, fs FS) *Store { return &Store{root: root, fs: fs} }

// Dir returns the on-disk directory for a category.
func (s *Store) Dir(c Category) string { return filepath.Join(s.root, c.Dir()) }

// Save allocates a name for the figure against the directory's current
// contents, writes the image bytes, and appends the manifest entry. Any
// filesystem failure is terminal for this one save and reported wrapped;
// nothing is retried.
func (s *Store) Save(c Category, pairs []combos.Pair, isDefault bool, png []byte) (Plan, error) {
	dir := s.Dir(c)
	if err := s.fs.MkdirAll(dir); err != nil {
		return Plan{}, fmt.Errorf("create save folder: %w", err)
	}
	names, err := s.fs.ListNames(dir)
	if err != nil {
		return Plan{}, fmt.Errorf("list save folder: %w", err)
	}
	existing := make(map[string]struct{}, len(names))
	for _, n := range names {
		existing[n] = struct{}{}
	}

	plan := Allocate(c, pairs, isDefault, existing)
	if err := s.fs.WriteFile(filepath.Join(dir, plan.FileName), png); err != nil {
		return Plan{}, fmt.Errorf("write figure: %w", err)
	}
	if err := s.fs.AppendText(filepath.Join(dir, c.ManifestName()), plan.Manifest); err != nil {
		return Plan{}, fmt.Errorf("append manifest: %w", err)
	}
	return plan, nil
}

// Clean removes a category's save folder and everything in it, manifest
// included.
func (s *Store) Clean(c Category) error {
	dir := s.Dir(c)
	if !s.fs.DirExists(dir) {
		return fmt.Errorf("%w: %s", ErrNoSaveFolder, c.Dir())
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove save folder: %w", err)
	}
	return nil
}
