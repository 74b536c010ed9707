// Package converter shells out to the external PotreeConverter binary.
package converter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lidarhub/potree-api/internal/config"
)

// stderrTailBytes limits how much converter output ends up in job errors.
const stderrTailBytes = 2048

// PotreeConverter wraps the external octree conversion binary.
type PotreeConverter struct {
	path    string
	timeout time.Duration
	log     zerolog.Logger
}

// New validates the configured binary and returns a converter.
func New(cfg *config.Config, log zerolog.Logger) (*PotreeConverter, error) {
	info, err := os.Stat(cfg.PotreePath)
	if err != nil {
		return nil, fmt.Errorf("converter binary %s: %w", cfg.PotreePath, err)
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		return nil, fmt.Errorf("converter binary %s is not executable", cfg.PotreePath)
	}

	return &PotreeConverter{
		path:    cfg.PotreePath,
		timeout: cfg.ConverterTimeout,
		log:     log.With().Str("component", "potree-converter").Logger(),
	}, nil
}

// Convert runs the binary against inputPath, writing the octree into
// outputDir. The proj4 string, when set, is forwarded so the generated
// metadata carries the source projection.
func (c *PotreeConverter) Convert(ctx context.Context, inputPath, outputDir, proj4 string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{inputPath, "-o", outputDir}
	if strings.TrimSpace(proj4) != "" {
		args = append(args, "--projection", proj4)
	}

	cmd := exec.CommandContext(ctx, c.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stderr

	start := time.Now()
	c.log.Info().Str("input", inputPath).Str("output", outputDir).Msg("starting conversion")

	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("conversion timed out after %s", c.timeout)
		}
		return fmt.Errorf("PotreeConverter failed: %v: %s", err, tail(stderr.Bytes()))
	}

	c.log.Info().Dur("elapsed", elapsed).Str("input", inputPath).Msg("conversion finished")
	return nil
}

func tail(out []byte) string {
	out = bytes.TrimSpace(out)
	if len(out) > stderrTailBytes {
		out = out[len(out)-stderrTailBytes:]
	}
	return string(out)
}
