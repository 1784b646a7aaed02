package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cyber-phys/hyperplex/internal/util"
	"github.com/cyber-phys/hyperplex/pkg/ai"
	"github.com/cyber-phys/hyperplex/pkg/hypergraph"
	"github.com/cyber-phys/hyperplex/pkg/job"
	"github.com/cyber-phys/hyperplex/pkg/loader/ocr"
	"github.com/cyber-phys/hyperplex/pkg/logger"
)

// DocumentOptions selects the optional enrichment stages of IngestDocument.
type DocumentOptions struct {
	// Structure extracts concepts and links them to the document.
	Structure bool
	// Summarize asks the chat model for a summary of the recovered text.
	Summarize bool
	// Speak synthesizes the summary, or the text when there is none.
	Speak bool
	// Name prefixes audio files; defaults to the document node id.
	Name string
}

// DocumentResult reports what IngestDocument produced.
type DocumentResult struct {
	Node     hypergraph.Node
	Concepts []hypergraph.Node
	Edges    []hypergraph.Hyperedge
	Summary  string
	Audio    []string
}

// IngestDocument recovers the text of the document at documentURL through
// the OCR job service and appends a document node carrying it. Optional
// stages run afterwards; the document node is kept when they fail.
func (p *Pipeline) IngestDocument(ctx context.Context, documentURL string, opts DocumentOptions) (DocumentResult, error) {
	if p.ocr == nil {
		return DocumentResult{}, fmt.Errorf("ocr: %w", ErrNotConfigured)
	}

	text, err := p.recoverText(ctx, documentURL)
	if err != nil {
		return DocumentResult{}, fmt.Errorf("ocr %s: %w", documentURL, err)
	}

	node := hypergraph.NewNode(hypergraph.NodeTypeDocument, documentURL, &text)
	result := DocumentResult{Node: node}

	if opts.Structure {
		concepts, edges, err := p.structure(ctx, node, text)
		if err != nil {
			logger.Warn("[Pipeline] Concept extraction failed, storing document only", "url", documentURL, "err", err)
		}
		result.Concepts, result.Edges = concepts, edges
	}

	if err := p.storeDocument(ctx, node, result.Concepts, result.Edges); err != nil {
		return DocumentResult{}, fmt.Errorf("store document %s: %w", documentURL, err)
	}
	logger.Info("[Pipeline] Document ingested", "node_id", node.ID, "url", documentURL, "chars", len(text), "concepts", len(result.Concepts))

	if opts.Summarize {
		summary, err := p.summarize(ctx, text)
		if err != nil {
			return result, fmt.Errorf("summarize %s: %w", documentURL, err)
		}
		result.Summary = summary
	}

	if opts.Speak {
		name := opts.Name
		if name == "" {
			name = node.ID
		}
		spoken := text
		if result.Summary != "" {
			spoken = result.Summary
		}
		locations, err := p.Speak(ctx, name, spoken)
		result.Audio = locations
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (p *Pipeline) recoverText(ctx context.Context, documentURL string) (string, error) {
	handle, err := util.RetryWithContext(ctx, util.RetryOptions{
		MaxTries:  p.submitRetries,
		Backoff:   p.submitBackoff,
		Retryable: func(err error) bool { return errors.Is(err, job.ErrTransport) },
	}, func(ctx context.Context) (job.Handle, error) {
		return p.ocr.Submit(ctx, documentURL)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", job.ErrSubmission, err)
	}
	logger.Debug("[Pipeline] OCR job submitted", "url", documentURL, "handle", handle)

	output, err := p.poller.Wait(ctx, handle)
	if err != nil {
		return "", err
	}

	if ocr.IsURL(output) {
		output, err = p.ocr.FetchText(ctx, strings.TrimSpace(output))
		if err != nil {
			return "", err
		}
	}

	text, err := ocr.Unwrap(output)
	if err != nil {
		logger.Warn("[Pipeline] OCR output wrapper not recognized, keeping raw text", "url", documentURL, "err", err)
		text = output
	}
	return util.CleanText(text), nil
}

func (p *Pipeline) structure(ctx context.Context, doc hypergraph.Node, text string) ([]hypergraph.Node, []hypergraph.Hyperedge, error) {
	if p.annotator == nil {
		return nil, nil, fmt.Errorf("structure: %w", ErrNotConfigured)
	}
	var opts []ai.GenerateOption
	if p.structureModel != "" {
		opts = append(opts, ai.WithModel(p.structureModel))
	}
	concepts, err := ai.ExtractConcepts(ctx, p.annotator, text, opts...)
	if err != nil {
		return nil, nil, err
	}

	nodes := make([]hypergraph.Node, 0, len(concepts))
	targets := make(map[string][]string)
	var labels []string
	for _, c := range concepts {
		var desc *string
		if c.Description != "" {
			d := c.Description
			desc = &d
		}
		n := hypergraph.NewNode(hypergraph.NodeTypeConcept, c.Name, desc)
		nodes = append(nodes, n)

		if _, ok := targets[c.Relation]; !ok {
			labels = append(labels, c.Relation)
		}
		targets[c.Relation] = append(targets[c.Relation], n.ID)
	}

	edges := make([]hypergraph.Hyperedge, 0, len(labels))
	for _, label := range labels {
		edges = append(edges, hypergraph.NewHyperedge(label, []string{doc.ID}, targets[label]))
	}
	return nodes, edges, nil
}

func (p *Pipeline) storeDocument(ctx context.Context, doc hypergraph.Node, concepts []hypergraph.Node, edges []hypergraph.Hyperedge) error {
	_, err := p.store.Update(ctx, func(g hypergraph.Hypergraph) (hypergraph.Hypergraph, error) {
		for _, n := range append([]hypergraph.Node{doc}, concepts...) {
			if g.HasNode(n.ID) {
				return g, fmt.Errorf("%w: %s", hypergraph.ErrDuplicateNode, n.ID)
			}
			g = hypergraph.AppendNode(g, n)
		}
		for _, e := range edges {
			g = hypergraph.AppendEdge(g, e)
		}
		return g, nil
	})
	return err
}

func (p *Pipeline) summarize(ctx context.Context, text string) (string, error) {
	if p.annotator == nil {
		return "", fmt.Errorf("summarize: %w", ErrNotConfigured)
	}
	summary, err := p.annotator.GenerateCompletion(ctx, text, ai.WithSystemPrompts(ai.SummaryPrompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}
