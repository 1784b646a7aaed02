package ai

import (
	"context"
	"strings"

	"github.com/cyber-phys/hyperplex/pkg/chunk"
	"github.com/cyber-phys/hyperplex/pkg/logger"
)

// DefaultRelation labels a concept whose relation the model left empty.
const DefaultRelation = "mentions"

// Concept is one entity a document is about.
type Concept struct {
	Name        string `json:"name" jsonschema_description:"Short unambiguous name of the concept"`
	Relation    string `json:"relation" jsonschema_description:"Lowercase verb phrase linking the document to the concept"`
	Description string `json:"description" jsonschema_description:"One sentence describing the concept as used in the document"`
}

// ConceptSet is the structured output of concept extraction.
type ConceptSet struct {
	Concepts []Concept `json:"concepts"`
}

// conceptChunkTokens bounds the document text sent in one extraction call.
const conceptChunkTokens = 6000

// ExtractConcepts asks client for the concepts in text. Text longer than
// conceptChunkTokens is split on word boundaries and each chunk is sent on
// its own. Names are trimmed, empty names dropped and duplicates
// (case-insensitive) removed across all chunks, keeping the first occurrence.
//
// Sampling defaults to temperature 0; opts are applied after that.
func ExtractConcepts(ctx context.Context, client Annotator, text string, opts ...GenerateOption) ([]Concept, error) {
	return extractConcepts(ctx, client, text, conceptChunkTokens, opts...)
}

func extractConcepts(ctx context.Context, client Annotator, text string, maxTokens int, opts ...GenerateOption) ([]Concept, error) {
	chunks, err := chunk.SplitTokens(text, maxTokens, chunk.DefaultEncoding)
	if err != nil {
		// Roughly four characters per token when the encoding is unavailable.
		logger.Warn("[AI] Tokenizer unavailable, splitting concept text by characters", "err", err)
		chunks = chunk.Split(text, maxTokens*4)
	}
	opts = append([]GenerateOption{WithTemperature(0)}, opts...)

	var all []Concept
	for _, c := range chunks {
		var out ConceptSet
		err := client.GenerateCompletionWithFormat(
			ctx,
			"concepts",
			"Concepts a document is about and how the document relates to them",
			ConceptPrompt+c,
			&out,
			opts...,
		)
		if err != nil {
			return nil, err
		}
		all = append(all, out.Concepts...)
	}

	return normalizeConcepts(all), nil
}

func normalizeConcepts(in []Concept) []Concept {
	seen := make(map[string]struct{}, len(in))
	out := make([]Concept, 0, len(in))
	for _, c := range in {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			continue
		}
		key := strings.ToLower(c.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		c.Relation = strings.ToLower(strings.TrimSpace(c.Relation))
		if c.Relation == "" {
			c.Relation = DefaultRelation
		}
		c.Description = strings.TrimSpace(c.Description)
		out = append(out, c)
	}
	return out
}
