package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cyber-phys/hyperplex/pkg/ai"
	"github.com/cyber-phys/hyperplex/pkg/hypergraph"
	"github.com/cyber-phys/hyperplex/pkg/loader"
	"github.com/cyber-phys/hyperplex/pkg/logger"
)

// IngestScreenshot captures the screen, describes the capture and appends a
// screenshot node. Encoding and annotation failures degrade the node
// instead of failing the ingestion; capture and storage failures are
// returned.
func (p *Pipeline) IngestScreenshot(ctx context.Context) (hypergraph.Node, error) {
	if p.capturer == nil {
		return hypergraph.Node{}, fmt.Errorf("capture: %w", ErrNotConfigured)
	}

	path, err := p.capturer.Capture(ctx)
	if err != nil {
		return hypergraph.Node{}, fmt.Errorf("capture screenshot: %w", err)
	}
	defer removeCapture(path)

	var (
		data        string
		description *string
	)

	encoded, err := loader.EncodeFile(ctx, path)
	switch {
	case err == nil:
		data = encoded.DataURI()
		description = p.describe(ctx, path, encoded)
	case errors.Is(err, loader.ErrEncoding):
		logger.Warn("[Pipeline] Could not encode screenshot, storing without data", "path", path, "err", err)
	default:
		return hypergraph.Node{}, err
	}

	node := hypergraph.NewNode(hypergraph.NodeTypeScreenshot, data, description)
	if err := p.store.AddNode(ctx, node); err != nil {
		return hypergraph.Node{}, fmt.Errorf("store screenshot %s: %w", path, err)
	}

	logger.Info("[Pipeline] Screenshot ingested", "node_id", node.ID, "described", description != nil)
	return node, nil
}

func (p *Pipeline) describe(ctx context.Context, path string, encoded loader.GraphBase64) *string {
	if p.annotator == nil {
		return nil
	}
	desc, err := p.annotator.GenerateImageDescription(ctx, ai.ScreenshotPrompt, encoded)
	if err != nil {
		logger.Warn("[Pipeline] Screenshot annotation failed", "path", path, "err", err)
		return nil
	}
	return &desc
}

func removeCapture(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("[Pipeline] Failed to remove capture", "path", path, "err", err)
	}
}

// RunCaptureLoop ingests up to iterations screenshots, pausing interval
// between them. A failed iteration is logged and the loop moves on. It
// returns the number of successful iterations and, if the loop was cut
// short, the context error.
func (p *Pipeline) RunCaptureLoop(ctx context.Context, iterations int, interval time.Duration) (int, error) {
	succeeded := 0
	for i := range iterations {
		if err := ctx.Err(); err != nil {
			return succeeded, err
		}

		if _, err := p.IngestScreenshot(ctx); err != nil {
			if ctx.Err() != nil {
				return succeeded, ctx.Err()
			}
			logger.Error("[Pipeline] Capture iteration failed", "iteration", i+1, "err", err)
		} else {
			succeeded++
		}

		if i == iterations-1 {
			break
		}
		if err := p.sleep(ctx, interval); err != nil {
			return succeeded, err
		}
	}

	logger.Info("[Pipeline] Capture loop finished", "iterations", iterations, "succeeded", succeeded)
	return succeeded, nil
}
