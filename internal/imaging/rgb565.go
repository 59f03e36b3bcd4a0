package imaging

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/edge-stream/internal/pipeline"
)

// StreamMeta describes a raw RGB565 stream file. It is stored next to the
// stream as key=value lines.
type StreamMeta struct {
	Frames int    `json:"frames"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	FPS    int    `json:"fps"`
	Format string `json:"format"`
	Source string `json:"source,omitempty"`
}

// FrameWords is the number of 16-bit words in one frame.
func (m StreamMeta) FrameWords() int { return m.Width * m.Height }

// PackFrame converts a pipeline frame to packed RGB565 words.
func PackFrame(f pipeline.Frame) []uint16 {
	words := make([]uint16, len(f.Pix))
	for i, c := range f.Pix {
		words[i] = pipeline.ToRGB565(c)
	}
	return words
}

// WriteRGB565 appends frames to w as little-endian RGB565 words.
func WriteRGB565(w io.Writer, frames ...[]uint16) error {
	bw := bufio.NewWriter(w)
	for _, f := range frames {
		if err := binary.Write(bw, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("failed to write RGB565 frame: %w", err)
		}
	}
	return bw.Flush()
}

// RGB565Reader reads fixed-size frames from a raw little-endian stream.
type RGB565Reader struct {
	r     *bufio.Reader
	words int
}

// NewRGB565Reader reads frames of width*height words from r.
func NewRGB565Reader(r io.Reader, width, height int) (*RGB565Reader, error) {
	if width < 3 || height < 3 {
		return nil, fmt.Errorf("%w: %dx%d", ErrFrameSize, width, height)
	}
	return &RGB565Reader{r: bufio.NewReader(r), words: width * height}, nil
}

// Next returns the next frame, or io.EOF when the stream ends cleanly on a
// frame boundary. A truncated frame yields io.ErrUnexpectedEOF.
func (s *RGB565Reader) Next() ([]uint16, error) {
	frame := make([]uint16, s.words)
	if err := binary.Read(s.r, binary.LittleEndian, frame); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read RGB565 frame: %w", err)
	}
	return frame, nil
}

// WriteMeta stores m at path.
func WriteMeta(path string, m StreamMeta) error {
	if m.Format == "" {
		m.Format = "RGB565"
	}
	lines := []string{
		"frames=" + strconv.Itoa(m.Frames),
		"width=" + strconv.Itoa(m.Width),
		"height=" + strconv.Itoa(m.Height),
		"fps=" + strconv.Itoa(m.FPS),
		"format=" + m.Format,
	}
	if m.Source != "" {
		lines = append(lines, "source="+m.Source)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write stream metadata: %w", err)
	}
	return nil
}

// ReadMeta parses a metadata file written by WriteMeta. Unknown keys are
// ignored.
func ReadMeta(path string) (StreamMeta, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return StreamMeta{}, fmt.Errorf("failed to read stream metadata: %w", err)
	}
	return ParseMeta(string(b))
}

// ParseMeta parses key=value metadata text.
func ParseMeta(text string) (StreamMeta, error) {
	var m StreamMeta
	for _, line := range strings.Split(text, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		var err error
		switch key {
		case "frames":
			m.Frames, err = strconv.Atoi(val)
		case "width":
			m.Width, err = strconv.Atoi(val)
		case "height":
			m.Height, err = strconv.Atoi(val)
		case "fps":
			m.FPS, err = strconv.Atoi(val)
		case "format":
			m.Format = val
		case "source":
			m.Source = val
		}
		if err != nil {
			return StreamMeta{}, fmt.Errorf("invalid metadata %s=%q: %w", key, val, err)
		}
	}
	if m.Format != "" && m.Format != "RGB565" {
		return StreamMeta{}, fmt.Errorf("unsupported stream format %q", m.Format)
	}
	return m, nil
}
