package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/maxWiklund/txConverter/internal/domain"
	"github.com/maxWiklund/txConverter/internal/ports"
)

// Ensure Discoverer implements ports.SequenceDiscoverer
var _ ports.SequenceDiscoverer = (*Discoverer)(nil)

// Matches name.1001.ext and name_1001.ext
var framePattern = regexp.MustCompile(`^(.+?)([._])(\d+)(\.[^.]+)$`)

// Discoverer groups image files into sequences, one directory at a time
type Discoverer struct {
	fs          afero.Fs
	extensions  map[string]bool
	excludeDirs map[string]bool
}

// Option configures a Discoverer
type Option func(*Discoverer)

// WithExtensions restricts discovery to the given extensions
func WithExtensions(exts []string) Option {
	return func(d *Discoverer) {
		if len(exts) == 0 {
			return
		}
		d.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			d.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithExcludeDirs skips directories with these base names
func WithExcludeDirs(dirs []string) Option {
	return func(d *Discoverer) {
		for _, dir := range dirs {
			d.excludeDirs[dir] = true
		}
	}
}

// NewDiscoverer creates a discoverer on top of fs. A nil fs uses the OS filesystem.
func NewDiscoverer(fs afero.Fs, opts ...Option) *Discoverer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	d := &Discoverer{
		fs:          fs,
		excludeDirs: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsDir reports whether path exists and is a directory
func (d *Discoverer) IsDir(path string) bool {
	ok, err := afero.IsDir(d.fs, path)
	return err == nil && ok
}

// Discover walks root and calls fn once per sequence. Directories are
// visited in lexical order and sequences within a directory are sorted by
// name, so repeated scans report the same order.
func (d *Discoverer) Discover(ctx context.Context, root string, fn func(*domain.Sequence) error) error {
	return afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && (d.excludeDirs[info.Name()] || strings.HasPrefix(info.Name(), ".")) {
			return filepath.SkipDir
		}

		seqs, err := d.sequencesIn(path)
		if err != nil {
			return err
		}
		for _, seq := range seqs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(seq); err != nil {
				return err
			}
		}
		return nil
	})
}

// frameFile is one numbered file of a directory listing
type frameFile struct {
	token string
	frame int
}

// padded reports whether the token fixes its width with leading zeros.
// Unpadded tokens only give a lower bound on the width.
func (f frameFile) padded() bool {
	return len(f.token) > 1 && f.token[0] == '0'
}

// sequencesIn groups the files directly inside dir
func (d *Discoverer) sequencesIn(dir string) ([]*domain.Sequence, error) {
	entries, err := afero.ReadDir(d.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	type stem struct{ name, sep, ext string }
	var stems []stem
	numbered := make(map[stem][]frameFile)
	var seqs []*domain.Sequence

	for _, entry := range entries {
		if entry.IsDir() || !d.accepts(entry.Name()) {
			continue
		}
		name := entry.Name()

		m := framePattern.FindStringSubmatch(name)
		frame, ok := parseFrame(m)
		if !ok {
			ext := filepath.Ext(name)
			seqs = append(seqs, &domain.Sequence{
				Dir:  dir,
				Name: strings.TrimSuffix(name, ext),
				Ext:  ext,
			})
			continue
		}

		k := stem{name: m[1], sep: m[2], ext: m[4]}
		if _, ok := numbered[k]; !ok {
			stems = append(stems, k)
		}
		numbered[k] = append(numbered[k], frameFile{token: m[3], frame: frame})
	}

	for _, k := range stems {
		for _, g := range splitByPadding(numbered[k]) {
			seq := &domain.Sequence{
				Dir:     dir,
				Name:    k.name,
				Sep:     k.sep,
				Padding: g.padding,
				Ext:     k.ext,
				Frames:  g.frames,
			}
			if g.padding == 1 {
				seq.Token = "%d"
			}
			slices.Sort(seq.Frames)
			seqs = append(seqs, seq)
		}
	}

	slices.SortStableFunc(seqs, func(a, b *domain.Sequence) int {
		return strings.Compare(a.FilePath(), b.FilePath())
	})
	return seqs, nil
}

func parseFrame(m []string) (int, bool) {
	if m == nil {
		return 0, false
	}
	frame, err := strconv.Atoi(m[3])
	return frame, err == nil
}

type paddingGroup struct {
	padding int
	frames  []int
}

// splitByPadding groups the frames of one name into sequences. Zero-padded
// tokens fix the width of their sequence. An unpadded token joins the widest
// padded sequence that is not wider than itself, since that sequence prints
// it unchanged; otherwise it joins the unpadded sequence, whose width is its
// shortest token. A run such as 9998, 9999, 10000 stays one sequence.
func splitByPadding(files []frameFile) []paddingGroup {
	byWidth := make(map[int]*paddingGroup)
	var widths []int
	group := func(width int) *paddingGroup {
		g, ok := byWidth[width]
		if !ok {
			g = &paddingGroup{padding: width}
			byWidth[width] = g
			widths = append(widths, width)
		}
		return g
	}

	var loose []frameFile
	for _, f := range files {
		if f.padded() {
			g := group(len(f.token))
			g.frames = append(g.frames, f.frame)
		} else {
			loose = append(loose, f)
		}
	}

	padded := slices.Clone(widths)
	slices.Sort(padded)

	var unpadded *paddingGroup
	for _, f := range loose {
		if i, _ := slices.BinarySearch(padded, len(f.token)+1); i > 0 {
			g := byWidth[padded[i-1]]
			g.frames = append(g.frames, f.frame)
			continue
		}
		if unpadded == nil {
			unpadded = &paddingGroup{padding: len(f.token)}
		}
		unpadded.padding = min(unpadded.padding, len(f.token))
		unpadded.frames = append(unpadded.frames, f.frame)
	}

	var out []paddingGroup
	for _, w := range widths {
		out = append(out, *byWidth[w])
	}
	if unpadded != nil {
		out = append(out, *unpadded)
	}
	return out
}

func (d *Discoverer) accepts(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	if d.extensions == nil {
		return true
	}
	return d.extensions[strings.ToLower(filepath.Ext(name))]
}
