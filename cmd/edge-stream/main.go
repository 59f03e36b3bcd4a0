package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ironsheep/edge-stream/internal/config"
	"github.com/ironsheep/edge-stream/internal/golden"
	"github.com/ironsheep/edge-stream/internal/imaging"
	"github.com/ironsheep/edge-stream/internal/pipeline"
	"github.com/ironsheep/edge-stream/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("edge-stream - streaming edge-detection pipeline and MCP server")
	fmt.Println()
	fmt.Println("Usage: edge-stream [--config file.yaml] [command] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                         Run the MCP server on stdin/stdout (default)")
	fmt.Println("  process [flags] <in> <out>    Stream an image as one frame and save the edge map")
	fmt.Println("  golden [flags]                Write golden vectors and check the pipeline against them")
	fmt.Println("  convert <in> <out.raw>        Rasterize an image into a raw RGB565 stream")
	fmt.Println("  stream <in.raw> <out.raw>     Run every frame of a raw RGB565 stream")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config file    YAML pipeline configuration")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Enable debug logging\n", config.LogLevelEnv)
	fmt.Println()
	fmt.Println("In serve mode the server communicates via MCP protocol over stdin/stdout.")
}

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("edge-stream %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	// Logs go to stderr; stdout is for the MCP protocol.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel()}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "", "YAML pipeline configuration")
	flag.Usage = usage
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			slog.Error("config load failed", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}

	cmd, args := "serve", []string(nil)
	if flag.NArg() > 0 {
		cmd, args = flag.Arg(0), flag.Args()[1:]
	}

	var err error
	switch cmd {
	case "serve":
		slog.Debug("starting server", "version", Version, "built", BuildTime, "commit", GitCommit)
		server.Version = Version
		err = server.New(settings).Run()
	case "process":
		err = runProcess(settings, args)
	case "golden":
		err = runGolden(settings, args)
	case "convert":
		err = runConvert(settings, args)
	case "stream":
		err = runStream(settings, args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		slog.Error("edge-stream failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

// geometryFlags registers --width/--height/--blanking overrides on fs.
func geometryFlags(fs *flag.FlagSet, s *config.Settings) func() error {
	width := fs.Int("width", s.Pipeline.Width, "frame width in pixels")
	height := fs.Int("height", s.Pipeline.Height, "frame height in pixels")
	blanking := fs.Int("blanking", s.Drive.Blanking, "idle ticks after every line")
	return func() error {
		s.Pipeline.Width, s.Pipeline.Height = *width, *height
		if *blanking < 0 {
			return fmt.Errorf("blanking must be non-negative, got %d", *blanking)
		}
		s.Drive.Blanking = *blanking
		return s.Pipeline.Validate()
	}
}

func runProcess(s config.Settings, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	apply := geometryFlags(fs, &s)
	native := fs.Bool("native", false, "use the image's own size as the frame geometry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("process needs <in> and <out>")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	img, err := imaging.NewFrameCache().Load(in)
	if err != nil {
		return err
	}
	if err := apply(); err != nil {
		return err
	}
	if *native {
		b := img.Bounds()
		s.Pipeline.Width, s.Pipeline.Height = b.Dx(), b.Dy()
		if err := s.Pipeline.Validate(); err != nil {
			return err
		}
	}

	frame, err := imaging.ToFrame(img, s.Pipeline.Width, s.Pipeline.Height)
	if err != nil {
		return err
	}
	if dev, err := imaging.LumaDeviation(img, frame); err == nil {
		slog.Debug("luma deviation from float grayscale", "max", dev)
	}

	p, err := pipeline.New(s.Pipeline, observer())
	if err != nil {
		return err
	}
	outs, err := p.RunFrame(frame, s.Drive)
	if err != nil {
		return err
	}
	edges := imaging.EdgeMap(outs, s.Pipeline.Width, s.Pipeline.Height, s.Pipeline.Output)
	if err := imaging.SaveEdgeMap(edges, out); err != nil {
		return err
	}

	st := p.Stats()
	slog.Info("edge map written", "path", out, "width", s.Pipeline.Width, "height", s.Pipeline.Height,
		"windows", st.Windows, "emitted", st.Emitted, "edges", st.Edges)
	return nil
}

func runGolden(s config.Settings, args []string) error {
	fs := flag.NewFlagSet("golden", flag.ExitOnError)
	apply := geometryFlags(fs, &s)
	seed := fs.Int64("seed", 123, "random seed for the stimulus frame")
	dir := fs.String("out", "vectors", "directory for .mem files and the report")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := apply(); err != nil {
		return err
	}

	v, err := golden.Generate(s.Pipeline, *seed)
	if err != nil {
		return err
	}
	if err := v.Write(*dir); err != nil {
		return err
	}
	got, err := golden.Run(s.Pipeline, v, s.Drive)
	if err != nil {
		return err
	}
	if err := golden.WriteMem(filepath.Join(*dir, "actual_output.mem"), got); err != nil {
		return err
	}
	report := golden.Compare(got, v.Expected)
	if err := report.WriteJSON(filepath.Join(*dir, "report.json")); err != nil {
		return err
	}
	if !report.Pass() {
		diffPath := filepath.Join(*dir, "diff.png")
		if err := writeDiff(got, v.Expected, v.Width, v.Height, diffPath); err != nil {
			slog.Warn("diff image not written", "path", diffPath, "error", err)
		}
		return fmt.Errorf("golden check failed: %s", report)
	}
	slog.Info("golden check passed", "dir", *dir, "seed", *seed, "words", report.Matched)
	return nil
}

// writeDiff renders the mismatch map of a failed golden run to path.
func writeDiff(actual, expected []uint16, width, height int, path string) error {
	diff, err := golden.DiffImage(actual, expected, width, height)
	if err != nil {
		return err
	}
	return imaging.SaveEdgeMap(diff, path)
}

func metaPath(raw string) string {
	return raw + ".meta"
}

func runConvert(s config.Settings, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	apply := geometryFlags(fs, &s)
	fps := fs.Int("fps", 30, "frame rate recorded in the metadata")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("convert needs <in>... <out.raw>")
	}
	if err := apply(); err != nil {
		return err
	}
	inputs, out := fs.Args()[:fs.NArg()-1], fs.Arg(fs.NArg()-1)

	cache := imaging.NewFrameCache()
	frames := make([][]uint16, 0, len(inputs))
	for _, in := range inputs {
		img, err := cache.Load(in)
		if err != nil {
			return err
		}
		f, err := imaging.ToFrame(img, s.Pipeline.Width, s.Pipeline.Height)
		if err != nil {
			return err
		}
		frames = append(frames, imaging.PackFrame(f))
	}

	w, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create stream file: %w", err)
	}
	defer w.Close()
	if err := imaging.WriteRGB565(w, frames...); err != nil {
		return err
	}
	meta := imaging.StreamMeta{
		Frames: len(frames),
		Width:  s.Pipeline.Width,
		Height: s.Pipeline.Height,
		FPS:    *fps,
		Source: filepath.Base(inputs[0]),
	}
	if err := imaging.WriteMeta(metaPath(out), meta); err != nil {
		return err
	}
	slog.Info("stream written", "path", out, "frames", meta.Frames, "width", meta.Width, "height", meta.Height)
	return nil
}

// runStream runs every frame of a raw stream through one pipeline, frames
// back to back, and writes the edge frames as a raw stream of the same
// geometry.
func runStream(s config.Settings, args []string) error {
	fs := flag.NewFlagSet("stream", flag.ExitOnError)
	blanking := fs.Int("blanking", s.Drive.Blanking, "idle ticks after every line")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("stream needs <in.raw> and <out.raw>")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	meta, err := imaging.ReadMeta(metaPath(in))
	if err != nil {
		return err
	}
	s.Pipeline.Width, s.Pipeline.Height = meta.Width, meta.Height
	s.Drive.Blanking = *blanking
	p, err := pipeline.New(s.Pipeline, observer())
	if err != nil {
		return err
	}

	r, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer r.Close()
	frames, err := imaging.NewRGB565Reader(r, meta.Width, meta.Height)
	if err != nil {
		return err
	}
	w, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create stream file: %w", err)
	}
	defer w.Close()

	n := 0
	for {
		words, err := frames.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		outs, err := p.RunFrame(golden.FrameFromRGB565(meta.Width, meta.Height, words), s.Drive)
		if err != nil {
			return err
		}
		edges := imaging.EdgeMap(outs, meta.Width, meta.Height, s.Pipeline.Output)
		if err := imaging.WriteRGB565(w, packGray(edges.Pix)); err != nil {
			return err
		}
		n++
	}

	meta.Frames = n
	meta.Source = filepath.Base(in)
	if err := imaging.WriteMeta(metaPath(out), meta); err != nil {
		return err
	}
	slog.Info("stream processed", "frames", n, "path", out, "edges", p.Stats().Edges)
	return nil
}

func packGray(pix []uint8) []uint16 {
	words := make([]uint16, len(pix))
	for i, v := range pix {
		words[i] = pipeline.PackEdge565(v)
	}
	return words
}

func observer() pipeline.Option {
	return pipeline.WithObserver(func(ev pipeline.Event) {
		slog.Debug("pipeline: stage", "stage", ev.Stage.String(), "row", ev.Row, "col", ev.Col,
			"magnitude", ev.Magnitude, "binary", ev.Binary)
	})
}
