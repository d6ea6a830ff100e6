package assets

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// Audio is an inspected soundtrack. Only its length matters to the engine: a
// composition without an explicit duration runs for as long as its track.
type Audio struct {
	Path       string
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// Frames is the number of frames needed to cover the track at fps, rounded
// up.
func (a Audio) Frames(fps float64) int {
	return int(math.Ceil(a.Duration.Seconds()*fps - 1e-9))
}

// InspectAudio decodes the header of a WAV or MP3 file and measures its
// length.
func InspectAudio(path string) (Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return Audio{}, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	default:
		f.Close()
		return Audio{}, fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		f.Close()
		return Audio{}, err
	}
	defer stream.Close()

	return Audio{
		Path:       path,
		Duration:   format.SampleRate.D(stream.Len()),
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
	}, nil
}
