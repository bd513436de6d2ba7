package contract

import (
	"context"
	"errors"
	"time"

	"housemanagement/config"
	"housemanagement/internal/models"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type Contract struct {
	Filename string
	PDF      []byte
}

type Generator struct {
	engines []Engine
	finder  FontFinder
	company Company
	now     func() time.Time
	log     logger.Logger
}

// NewGenerator builds the engine chain in PDF_ENGINES order.
func NewGenerator(cfg config.Config) *Generator {
	log := logger.New("contract").File("generator")

	var engines []Engine
	for _, name := range cfg.PDFEngineNames() {
		switch name {
		case "chromium":
			engines = append(engines, NewChromiumEngine(cfg.ChromiumPath))
		case "fpdf":
			engines = append(engines, NewFPDFEngine())
		default:
			log.Warn("unknown pdf engine ignored", "engine", name)
		}
	}

	return NewGeneratorWithEngines(engines, StaticFinder{Dirs: cfg.StaticDirs()}, CompanyFromConfig(cfg))
}

func NewGeneratorWithEngines(engines []Engine, finder FontFinder, company Company) *Generator {
	return &Generator{
		engines: engines,
		finder:  finder,
		company: company,
		now:     time.Now,
		log:     logger.New("contract").File("generator"),
	}
}

// Generate renders the quote with the first engine that can run. Engines
// reporting ErrEngineUnavailable are skipped; any other failure stops the
// chain.
func (g *Generator) Generate(ctx context.Context, quote *models.Quote) (*Contract, error) {
	log := g.log.Function("Generate").TraceFromContext(ctx)

	fonts := ResolveFontSet(NormalFontCandidates, BoldFontCandidates, g.finder)
	data := BuildData(quote, g.company, g.now())

	html, err := RenderHTML(data, fonts)
	if err != nil {
		return nil, log.Err("failed to render contract html", err, "quoteID", quote.ID)
	}

	doc := Document{HTML: html, Data: data, Fonts: fonts}
	for _, engine := range g.engines {
		pdf, err := engine.Render(ctx, doc)
		if err == nil {
			log.Info("Contract generated", "quoteID", quote.ID, "engine", engine.Name(), "font", fonts.BodyFamily)
			return &Contract{Filename: Filename(quote.ID), PDF: pdf}, nil
		}

		if errors.Is(err, ErrEngineUnavailable) {
			log.Warn("pdf engine unavailable, trying next", "engine", engine.Name(), "error", err)
			continue
		}

		log.Er("pdf engine failed", err, "engine", engine.Name(), "quoteID", quote.ID)
		return nil, &types.ConfigurationError{Message: MsgRenderFailed, Err: err}
	}

	return nil, &types.ConfigurationError{Message: MsgNoEngine, Err: ErrEngineUnavailable}
}
