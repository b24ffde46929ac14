package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Sequence represents an image sequence on disk, or a single image file
// when Padding is zero.
type Sequence struct {
	Dir     string
	Name    string
	Sep     string // separator before the frame token, "." or "_"
	Padding int    // zero-pad width of the frame number, 0 for single files
	Ext     string // with leading dot
	Frames  []int
	// Token is the printf frame token the sequence was parsed from, such
	// as "%d" or "%4d". Empty means zero padding to Padding digits.
	Token string
}

var (
	// Matches name.%04d.ext, name_%04d.ext
	printfPattern = regexp.MustCompile(`^(.+?)([._])(%0?(\d*)d)(\.[^.]+)$`)
	// Matches name.####.ext and name.@@@@.ext
	hashPattern = regexp.MustCompile(`^(.+?)([._])(#+|@+)(\.[^.]+)$`)
)

// ParseSequencePath builds a Sequence from a pattern path such as
// /shots/plate.%04d.exr or from a plain file path.
func ParseSequencePath(path string) (*Sequence, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}

	dir, file := filepath.Split(path)
	dir = filepath.Clean(dir)

	if m := printfPattern.FindStringSubmatch(file); m != nil {
		padding := 1
		if m[4] != "" {
			p, err := strconv.Atoi(m[4])
			if err != nil {
				return nil, fmt.Errorf("invalid padding in %s: %w", path, err)
			}
			padding = max(p, 1)
		}
		return &Sequence{Dir: dir, Name: m[1], Sep: m[2], Padding: padding, Ext: m[5], Token: m[3]}, nil
	}

	if m := hashPattern.FindStringSubmatch(file); m != nil {
		return &Sequence{Dir: dir, Name: m[1], Sep: m[2], Padding: len(m[3]), Ext: m[4]}, nil
	}

	ext := filepath.Ext(file)
	name := strings.TrimSuffix(file, ext)
	if name == "" {
		return nil, fmt.Errorf("invalid file name: %s", path)
	}
	return &Sequence{Dir: dir, Name: name, Ext: ext}, nil
}

// IsSequence reports whether the sequence carries a frame token.
func (s *Sequence) IsSequence() bool {
	return s.Padding > 0
}

// BaseName returns the file name without frame token and extension.
func (s *Sequence) BaseName() string {
	return s.Name
}

// FilePath returns the pattern path for sequences and the plain path for
// single files.
func (s *Sequence) FilePath() string {
	if !s.IsSequence() {
		return filepath.Join(s.Dir, s.Name+s.Ext)
	}
	return filepath.Join(s.Dir, s.Name+s.Sep+s.token()+s.Ext)
}

func (s *Sequence) token() string {
	if s.Token != "" {
		return s.Token
	}
	return fmt.Sprintf("%%0%dd", s.Padding)
}

// FramePath returns the on-disk path of a single frame.
func (s *Sequence) FramePath(frame int) string {
	return filepath.Join(s.Dir, s.Name+s.Sep+fmt.Sprintf(s.token(), frame)+s.Ext)
}

// Paths expands the sequence into one path per frame, in frame order.
// A single file expands to its own path; a pattern with no frames expands
// to nothing.
func (s *Sequence) Paths() []string {
	if len(s.Frames) == 0 {
		if s.IsSequence() {
			return nil
		}
		return []string{s.FilePath()}
	}

	paths := make([]string, 0, len(s.Frames))
	for _, f := range s.Frames {
		paths = append(paths, s.FramePath(f))
	}
	return paths
}

// FrameRange formats the frames as "1001-1010" style text, or "" for
// single files.
func (s *Sequence) FrameRange() string {
	switch len(s.Frames) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(s.Frames[0])
	}
	return fmt.Sprintf("%d-%d", s.Frames[0], s.Frames[len(s.Frames)-1])
}

// SetExt replaces the extension, adding the leading dot when missing.
func (s *Sequence) SetExt(ext string) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s.Ext = ext
}

// SetName replaces the base name.
func (s *Sequence) SetName(name string) {
	s.Name = name
}

// Clone returns an independent copy.
func (s *Sequence) Clone() *Sequence {
	c := *s
	if s.Frames != nil {
		c.Frames = make([]int, len(s.Frames))
		copy(c.Frames, s.Frames)
	}
	return &c
}
