package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/edge-stream/internal/pipeline"
)

// EdgeDetectResult contains a streamed edge map encoded as base64 PNG.
//
// The map has the frame's dimensions. Each valid output is drawn at its
// window center; the border the window never reaches stays black.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as the streamed frame).
	Width int `json:"width"`

	// Height of the output image in pixels (same as the streamed frame).
	Height int `json:"height"`

	// ImageBase64 is the edge map encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`

	// Mode is the output contract rendered: "magnitude" or "binary".
	Mode string `json:"mode"`

	// Latency is the pipeline depth in ticks.
	Latency int `json:"latency"`

	// Stats are the pipeline counters for the frame.
	Stats pipeline.Stats `json:"stats"`
}

// EdgeMap renders pipeline outputs as a grayscale image.
//
// In magnitude mode the pixel value is the edge magnitude; in binary mode
// edges are white (255) and everything else black.
func EdgeMap(outs []pipeline.Output, width, height int, mode pipeline.OutputMode) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for _, o := range outs {
		if !o.Valid || o.Row < 1 || o.Col < 1 {
			continue
		}
		x, y := int(o.Col)-1, int(o.Row)-1
		if x >= width || y >= height {
			continue
		}
		v := o.Magnitude
		if mode == pipeline.OutputBinary {
			v = 0
			if o.Binary {
				v = 255
			}
		}
		img.SetGray(x, y, color.Gray{Y: v})
	}
	return img
}

// StreamEdgeDetect rasterizes img to the pipeline geometry, streams it as
// one frame through a fresh pipeline and renders the result.
//
// Parameters:
//   - img: Source image (color or grayscale). It is resampled to
//     cfg.Width x cfg.Height when its size differs.
//   - cfg: Pipeline configuration. It is validated before streaming.
//   - opts: Line blanking and drain behavior.
//
// Returns:
//   - *EdgeDetectResult: Edge map as base64 PNG plus pipeline counters.
//   - error: Non-nil if the configuration is invalid or encoding fails.
func StreamEdgeDetect(img image.Image, cfg pipeline.Config, opts pipeline.DriveOptions, popts ...pipeline.Option) (*EdgeDetectResult, error) {
	edges, p, err := StreamFrame(img, cfg, opts, popts...)
	if err != nil {
		return nil, err
	}
	return EncodeEdgeResult(edges, p)
}

// EncodeEdgeResult packages an edge map produced by p as base64 PNG.
func EncodeEdgeResult(edges *image.Gray, p *pipeline.Pipeline) (*EdgeDetectResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, edges); err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	cfg := p.Config()
	return &EdgeDetectResult{
		Width:       cfg.Width,
		Height:      cfg.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Mode:        cfg.Output.String(),
		Latency:     p.Latency(),
		Stats:       p.Stats(),
	}, nil
}

// StreamFrame is StreamEdgeDetect without the encoding step. It returns the
// edge map and the pipeline it used so callers can inspect its counters.
func StreamFrame(img image.Image, cfg pipeline.Config, opts pipeline.DriveOptions, popts ...pipeline.Option) (*image.Gray, *pipeline.Pipeline, error) {
	p, err := pipeline.New(cfg, popts...)
	if err != nil {
		return nil, nil, err
	}
	frame, err := ToFrame(img, cfg.Width, cfg.Height)
	if err != nil {
		return nil, nil, err
	}
	outs, err := p.RunFrame(frame, opts)
	if err != nil {
		return nil, nil, err
	}
	return EdgeMap(outs, cfg.Width, cfg.Height, cfg.Output), p, nil
}

// SaveEdgeMap writes an edge map to path; the format follows the extension.
func SaveEdgeMap(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save edge map: %w", err)
	}
	return nil
}
