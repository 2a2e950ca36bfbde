package assembly

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

// NetWriter persists an assembled net and returns the files it created.
// Implementations must write all of their files or none.
type NetWriter interface {
	Write(net *Net) ([]string, error)
}

// Params holds the pipeline configuration.
type Params struct {
	// InputDir contains the source images 1.<ext> through 6.<ext>
	InputDir string

	// Extensions is the lookup order for source file extensions.
	// Empty selects DefaultExtensions.
	Extensions []string

	// Workers is the number of goroutines used to cut images. 0 and 1 run
	// sequentially, negative values use all CPUs
	Workers int

	// Background fills the sheets before pasting; nil selects DefaultBackground
	Background color.Color

	// KeepPieces retains the rotated quadrants in the Net, for writers that
	// dump them
	KeepPieces bool

	// Writer receives the finished net; nil skips writing
	Writer NetWriter
}

// Result is what a successful Process run produced.
type Result struct {
	Net     *Net
	Metrics Metrics

	// Sources are the paths of the six input images, in order
	Sources []string

	// Files are the paths written by the NetWriter
	Files []string

	Elapsed time.Duration
}

// Assembler runs the complete pipeline: load, assemble, measure, write.
type Assembler struct {
	params *Params

	images  []image.Image
	sources []string
}

// NewAssembler creates an assembler for params.
func NewAssembler(params *Params) *Assembler {
	return &Assembler{params: params}
}

// Process runs the pipeline. It stops at the first error; in that case
// nothing has been written.
func (a *Assembler) Process() (*Result, error) {
	start := time.Now()
	log := Logger()

	log.Info("loading source images", "dir", a.params.InputDir)
	if err := a.loadSources(); err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	log.Info("assembling net")
	workers := a.params.Workers
	if workers == 0 {
		workers = 1
	}
	net, err := Assemble(a.images,
		WithBackground(a.params.Background),
		WithWorkers(workers),
		WithNames(a.sources),
		WithPieces(a.params.KeepPieces),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble net: %w", err)
	}

	metrics := Measure(net)
	for _, cm := range metrics.Cells {
		log.Debug("cell metrics", "sheet", cm.Sheet.String(), "cell", cm.Cell, "source", cm.Source.String(),
			"meanLuminance", cm.MeanLuminance, "stdLuminance", cm.StdLuminance, "meanAlpha", cm.MeanAlpha)
	}

	res := &Result{
		Net:     net,
		Metrics: metrics,
		Sources: a.sources,
	}

	if a.params.Writer != nil {
		log.Info("writing net")
		files, err := a.params.Writer.Write(net)
		if err != nil {
			return nil, fmt.Errorf("failed to write net: %w", err)
		}
		res.Files = files
		for _, f := range files {
			log.Info("wrote file", "path", f)
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// loadSources reads the six images from the input directory
func (a *Assembler) loadSources() error {
	images, paths, err := LoadSources(a.params.InputDir, a.params.Extensions)
	if err != nil {
		return err
	}

	a.images = images
	a.sources = paths
	return nil
}
