package main

import (
	"fmt"

	"github.com/cyber-phys/hyperplex/internal/pipeline"
	"github.com/cyber-phys/hyperplex/pkg/loader/ocr"

	"github.com/spf13/cobra"
)

var (
	docStructure bool
	docSummarize bool
	docSpeak     bool
	docOut       string
	docName      string
)

var documentCmd = &cobra.Command{
	Use:   "document <url>",
	Short: "OCR a document and store its text as a document node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		if !ocr.IsURL(url) {
			return fmt.Errorf("%q is not an http(s) URL", url)
		}

		p, err := newPipeline(cmd.Context(), cfg, pipelineDeps{ocr: true, speech: docSpeak, audio: docOut})
		if err != nil {
			return err
		}

		res, err := p.IngestDocument(cmd.Context(), url, pipeline.DocumentOptions{
			Structure: docStructure,
			Summarize: docSummarize,
			Speak:     docSpeak,
			Name:      docName,
		})
		out := cmd.OutOrStdout()
		if res.Node.ID != "" {
			fmt.Fprintf(out, "document %s: %d concepts, %d hyperedges\n", res.Node.ID, len(res.Concepts), len(res.Edges))
		}
		if res.Summary != "" {
			fmt.Fprintf(out, "\n%s\n", res.Summary)
		}
		for _, loc := range res.Audio {
			fmt.Fprintln(out, loc)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(documentCmd)
	documentCmd.Flags().BoolVar(&docStructure, "structure", false, "Extract concepts into the hypergraph")
	documentCmd.Flags().BoolVar(&docSummarize, "summarize", false, "Summarize the recovered text")
	documentCmd.Flags().BoolVar(&docSpeak, "speak", false, "Synthesize the summary (or text) to audio")
	documentCmd.Flags().StringVar(&docOut, "out", "", "Local audio directory (overrides AUDIO_DIR and S3)")
	documentCmd.Flags().StringVar(&docName, "name", "", "Audio file prefix (defaults to the node id)")
}
