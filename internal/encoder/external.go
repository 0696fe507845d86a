package encoder

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// External encodes by shelling out to a command-line tool that reads a
// PNG file and writes its output file. No CGO is involved; the format is
// simply unavailable when the tool is not on PATH.
type External struct {
	format string
	tool   string
	hint   string // install instructions
	args   func(quality int, src, dst string) []string

	once sync.Once
	path string
	look func(string) (string, error) // exec.LookPath, replaceable in tests
}

// NewWebP returns the cwebp-backed encoder.
// Install: brew install webp / apt install webp
func NewWebP() *External {
	return &External{
		format: "webp",
		tool:   "cwebp",
		hint:   "brew install webp",
		args: func(q int, src, dst string) []string {
			return []string{"-q", strconv.Itoa(q), "-m", "6", "-mt", "-alpha_q", "100", "-quiet", src, "-o", dst}
		},
	}
}

// NewAVIF returns the avifenc-backed encoder.
// Install: brew install libavif / apt install libavif-bin
func NewAVIF() *External {
	return &External{
		format: "avif",
		tool:   "avifenc",
		hint:   "brew install libavif",
		args: func(q int, src, dst string) []string {
			// avifenc quantizers run the other way: 0 best, 63 worst.
			aq := strconv.Itoa(63 - q*63/100)
			return []string{"--min", aq, "--max", aq, "--speed", "6", "-j", "all", src, dst}
		},
	}
}

func (e *External) Format() string    { return e.format }
func (e *External) Extension() string { return e.format }
func (e *External) Alpha() bool       { return true }

func (e *External) Available() bool {
	e.once.Do(func() {
		look := e.look
		if look == nil {
			look = exec.LookPath
		}
		if p, err := look(e.tool); err == nil {
			e.path = p
		}
	})
	return e.path != ""
}

func (e *External) Encode(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("%s not found in PATH; install with: %s", e.tool, e.hint)
	}

	dir, err := os.MkdirTemp("", "mediagrid_"+e.format+"_*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := dir + string(os.PathSeparator) + "src.png"
	dst := dir + string(os.PathSeparator) + "out." + e.format

	f, err := os.Create(src)
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.path, e.args(clampQuality(quality), src, dst)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", e.tool, err, string(out))
	}
	return os.ReadFile(dst)
}
