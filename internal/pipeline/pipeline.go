package pipeline

import (
	"context"
	"time"

	"github.com/cyber-phys/hyperplex/internal/storage"
	"github.com/cyber-phys/hyperplex/pkg/ai"
	"github.com/cyber-phys/hyperplex/pkg/hypergraph"
	"github.com/cyber-phys/hyperplex/pkg/job"
	"github.com/cyber-phys/hyperplex/pkg/loader"
)

const (
	defaultMaxChunkChars = 2500
	defaultVoice         = "alloy"
)

// OCRClient is a job.Client whose successful output may be a link to the
// recovered text rather than the text itself.
type OCRClient interface {
	job.Client
	FetchText(ctx context.Context, outputURL string) (string, error)
}

// Params wires a Pipeline. Only Store is required; stages whose dependency
// is nil are skipped or fail with ErrNotConfigured when asked for.
type Params struct {
	Store *hypergraph.Store

	Capturer  loader.Capturer
	Annotator ai.Annotator
	// StructureModel overrides the annotator's chat model for concept
	// extraction when set.
	StructureModel string

	OCR           OCRClient
	Poll          job.Options
	SubmitRetries int
	SubmitBackoff time.Duration

	Synthesizer   ai.Synthesizer
	Audio         storage.AudioSink
	Voice         string
	Speed         float64
	MaxChunkChars int

	// Sleep paces the capture loop; nil means job.Sleep.
	Sleep job.SleepFunc
}

// Pipeline ingests evidence into a hypergraph store and enriches it.
type Pipeline struct {
	store *hypergraph.Store

	capturer       loader.Capturer
	annotator      ai.Annotator
	structureModel string

	ocr           OCRClient
	poller        *job.Poller
	submitRetries int
	submitBackoff time.Duration

	synthesizer   ai.Synthesizer
	audio         storage.AudioSink
	voice         string
	speed         float64
	maxChunkChars int

	sleep job.SleepFunc
}

// New creates a Pipeline from params.
func New(params Params) *Pipeline {
	p := &Pipeline{
		store: params.Store,

		capturer:       params.Capturer,
		annotator:      params.Annotator,
		structureModel: params.StructureModel,

		ocr:           params.OCR,
		submitRetries: params.SubmitRetries,
		submitBackoff: params.SubmitBackoff,

		synthesizer:   params.Synthesizer,
		audio:         params.Audio,
		voice:         params.Voice,
		speed:         params.Speed,
		maxChunkChars: params.MaxChunkChars,

		sleep: params.Sleep,
	}

	if params.OCR != nil {
		p.poller = job.NewPoller(params.OCR, params.Poll)
	}
	if p.submitRetries <= 0 {
		p.submitRetries = 1
	}
	if p.submitBackoff <= 0 {
		p.submitBackoff = time.Second
	}
	if p.maxChunkChars <= 0 {
		p.maxChunkChars = defaultMaxChunkChars
	}
	if p.voice == "" {
		p.voice = defaultVoice
	}
	if p.sleep == nil {
		p.sleep = job.Sleep
	}
	return p
}
