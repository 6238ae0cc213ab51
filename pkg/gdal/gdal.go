// Package gdal wraps the GDAL command-line tools used to read raster
// metadata and produce Cloud-Optimized GeoTIFFs.
package gdal

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/isric/go-stac-soilgrids/internal/log"
)

// Default tool names, resolved through PATH unless a bin directory is set.
const (
	InfoTool      = "gdalinfo"
	TranslateTool = "gdal_translate"
	RetileTool    = "gdal_retile.py"
)

// Runner executes an external command and returns its stdout. Implementations
// must include stderr in the returned error on failure.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}

// Tool runs GDAL commands.
type Tool struct {
	binDir string
	runner Runner
	log    zerolog.Logger
}

// Option configures a Tool.
type Option func(*Tool)

// WithBinDir resolves tool names relative to dir instead of PATH.
func WithBinDir(dir string) Option {
	return func(t *Tool) { t.binDir = dir }
}

// WithRunner substitutes the command runner. Used by tests.
func WithRunner(r Runner) Option {
	return func(t *Tool) { t.runner = r }
}

// New returns a Tool that executes the GDAL binaries.
func New(opts ...Option) *Tool {
	t := &Tool{
		runner: execRunner{},
		log:    log.WithComponent("gdal"),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tool) command(name string) string {
	if t.binDir == "" {
		return name
	}
	return filepath.Join(t.binDir, name)
}

// CreationOptions are COG creation options passed as -co arguments.
type CreationOptions struct {
	BlockSize               int
	Compress                string
	Level                   int
	Predictor               bool
	NumThreads              string
	IgnoreExistingOverviews bool
}

// TranslateOptions are the COG creation options used for single-file
// translation.
func TranslateOptions() CreationOptions {
	return CreationOptions{
		BlockSize:               512,
		Compress:                "DEFLATE",
		Predictor:               true,
		IgnoreExistingOverviews: true,
	}
}

// RetileOptions are the COG creation options used when retiling a dataset.
func RetileOptions() CreationOptions {
	return CreationOptions{
		BlockSize:               512,
		Compress:                "DEFLATE",
		Level:                   9,
		Predictor:               true,
		NumThreads:              "ALL_CPUS",
		IgnoreExistingOverviews: true,
	}
}

func (o CreationOptions) args() []string {
	var args []string
	if o.NumThreads != "" {
		args = append(args, "-co", "NUM_THREADS="+o.NumThreads)
	}
	if o.BlockSize > 0 {
		args = append(args, "-co", fmt.Sprintf("BLOCKSIZE=%d", o.BlockSize))
	}
	if o.Compress != "" {
		args = append(args, "-co", "COMPRESS="+o.Compress)
	}
	if o.Level > 0 {
		args = append(args, "-co", fmt.Sprintf("LEVEL=%d", o.Level))
	}
	if o.Predictor {
		args = append(args, "-co", "PREDICTOR=YES")
	}
	if o.IgnoreExistingOverviews {
		args = append(args, "-co", "OVERVIEWS=IGNORE_EXISTING")
	}
	return args
}

// Translate converts src into a Cloud-Optimized GeoTIFF at dst.
func (t *Tool) Translate(ctx context.Context, src, dst string, opts CreationOptions) error {
	args := append([]string{"-of", "COG"}, opts.args()...)
	args = append(args, src, dst)

	t.log.Debug().Str("src", src).Str("dst", dst).Msg("gdal_translate")
	if _, err := t.runner.Run(ctx, t.command(TranslateTool), args...); err != nil {
		return fmt.Errorf("translate %s: %w", src, err)
	}
	return nil
}

// Retile splits src into COG tiles of the given pixel size under dstDir.
func (t *Tool) Retile(ctx context.Context, src, dstDir string, pixelSize [2]int, opts CreationOptions) error {
	args := []string{
		"-ps", fmt.Sprintf("%d", pixelSize[0]), fmt.Sprintf("%d", pixelSize[1]),
		"-of", "COG",
	}
	args = append(args, opts.args()...)
	args = append(args, "-targetDir", dstDir, src)

	t.log.Debug().Str("src", src).Str("dst", dstDir).Msg("gdal_retile")
	if _, err := t.runner.Run(ctx, t.command(RetileTool), args...); err != nil {
		return fmt.Errorf("retile %s: %w", src, err)
	}
	return nil
}
