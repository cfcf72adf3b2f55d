package source

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo describes the first video stream of a file.
type VideoInfo struct {
	Width  int
	Height int
	Frames int // 0 when the container does not record a count
	FPS    float64
}

// videoProbe is the part of ffprobe's JSON output we read.
type videoProbe struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe on path. It needs the ffprobe binary on PATH and is
// informational only: frame reading goes through OpenCV.
func Probe(path string) (*VideoInfo, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe error: %w", err)
	}
	return parseProbe(out)
}

func parseProbe(out string) (*VideoInfo, error) {
	var probe videoProbe
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		info := &VideoInfo{
			Width:  stream.Width,
			Height: stream.Height,
			FPS:    parseRate(stream.AvgFrameRate),
		}
		if n, err := strconv.Atoi(stream.NbFrames); err == nil {
			info.Frames = n
		}
		return info, nil
	}

	return nil, fmt.Errorf("no video stream found")
}

// parseRate parses an ffprobe rational like "30000/1001".
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
