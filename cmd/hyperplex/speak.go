package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	speakOut      string
	speakMaxChars int
)

var speakCmd = &cobra.Command{
	Use:   "speak <file>",
	Short: "Chunk a text file and synthesize it to audio",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-chars") {
			cfg.MaxChunkChars = speakMaxChars
		}

		p, err := newPipeline(cmd.Context(), cfg, pipelineDeps{speech: true, audio: speakOut})
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		locations, err := p.Speak(cmd.Context(), name, string(content))
		for _, loc := range locations {
			fmt.Fprintln(cmd.OutOrStdout(), loc)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(speakCmd)
	speakCmd.Flags().StringVar(&speakOut, "out", "", "Local audio directory (overrides AUDIO_DIR and S3)")
	speakCmd.Flags().IntVar(&speakMaxChars, "max-chars", 0, "Characters per synthesis request (overrides TTS_MAX_CHUNK_CHARS)")
}
