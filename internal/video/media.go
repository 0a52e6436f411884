// Package video implements the video creative-tagging pipeline: keyframe and
// audio extraction, transcription, hook-frame tagging, visual-shift detection,
// and full-video taxonomy tagging with per-ad retry bookkeeping.
package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/admirror/internal/fetch"
)

// ExtractionTimeout is the maximum time to wait for ffmpeg per video
const ExtractionTimeout = 120 * time.Second

// keyframeInterval is the spacing between extracted frames in seconds
const keyframeInterval = 2

// Extraction holds the local artifacts produced from one source video.
// AudioPath is empty when the video carries no audio stream; silent and
// music-only ads are an expected case, not a failure.
type Extraction struct {
	FramePaths      []string
	DurationSeconds float64
	AudioPath       string
}

// MediaExtractor is the video media collaborator contract
type MediaExtractor interface {
	ExtractKeyframesAndAudio(ctx context.Context, videoURL, adID string) (*Extraction, error)
	// CleanupTempFiles removes all local media artifacts for an ad. Called
	// after every pipeline attempt, success or failure, so temp files never
	// leak across runs.
	CleanupTempFiles(adID string) error
}

// FFmpegExtractor implements MediaExtractor by shelling out to ffmpeg/ffprobe
type FFmpegExtractor struct {
	workDir   string
	fetchOpts *fetch.Options
}

// NewFFmpegExtractor creates an extractor rooted at workDir (a temp dir is
// created when empty).
func NewFFmpegExtractor(workDir string) (*FFmpegExtractor, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	if workDir == "" {
		dir, err := os.MkdirTemp("", "admirror-video-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}
		workDir = dir
	} else if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work directory %s: %w", workDir, err)
	}

	return &FFmpegExtractor{workDir: workDir, fetchOpts: fetch.DefaultOptions()}, nil
}

// adDir returns the per-ad scratch directory
func (e *FFmpegExtractor) adDir(adID string) string {
	return filepath.Join(e.workDir, adID)
}

// ExtractKeyframesAndAudio downloads the source video, probes its duration,
// extracts keyframes at a fixed interval, and demuxes the audio track when
// one exists.
func (e *FFmpegExtractor) ExtractKeyframesAndAudio(ctx context.Context, videoURL, adID string) (*Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, ExtractionTimeout)
	defer cancel()

	dir := e.adDir(adID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir for ad %s: %w", adID, err)
	}

	resolved, err := fetch.ResolveMediaURL(ctx, videoURL, e.fetchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve video URL: %w", err)
	}

	videoPath := filepath.Join(dir, "source.mp4")
	if err := e.download(ctx, resolved, videoPath); err != nil {
		return nil, err
	}

	duration, hasAudio, err := e.probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	framePaths, err := e.extractFrames(ctx, videoPath, dir)
	if err != nil {
		return nil, err
	}

	extraction := &Extraction{FramePaths: framePaths, DurationSeconds: duration}

	if hasAudio {
		audioPath := filepath.Join(dir, "audio.mp3")
		cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", videoPath, "-vn", "-acodec", "libmp3lame", "-q:a", "4", audioPath)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, fmt.Errorf("ffmpeg audio extraction failed: %w: %s", err, truncate(string(out)))
		}
		extraction.AudioPath = audioPath
	}

	return extraction, nil
}

// CleanupTempFiles removes the ad's entire scratch directory
func (e *FFmpegExtractor) CleanupTempFiles(adID string) error {
	return os.RemoveAll(e.adDir(adID))
}

// download fetches the video bytes to a local path
func (e *FFmpegExtractor) download(ctx context.Context, url, dest string) error {
	media, err := fetch.FetchImage(ctx, url, e.fetchOpts)
	if err != nil {
		return fmt.Errorf("failed to download video: %w", err)
	}
	if err := os.WriteFile(dest, media.Data, 0644); err != nil {
		return fmt.Errorf("failed to write video file: %w", err)
	}
	return nil
}

// probe reads duration and audio presence via ffprobe
func (e *FFmpegExtractor) probe(ctx context.Context, videoPath string) (duration float64, hasAudio bool, err error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-select_streams", "a", "-show_entries", "stream=codec_type",
		"-of", "default=noprint_wrappers=1", videoPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, false, fmt.Errorf("ffprobe failed: %w: %s", err, truncate(string(out)))
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "duration="); ok {
			if d, perr := strconv.ParseFloat(v, 64); perr == nil {
				duration = d
			}
		}
		if strings.HasPrefix(line, "codec_type=audio") {
			hasAudio = true
		}
	}
	return duration, hasAudio, nil
}

// extractFrames writes one frame every keyframeInterval seconds
func (e *FFmpegExtractor) extractFrames(ctx context.Context, videoPath, dir string) ([]string, error) {
	pattern := filepath.Join(dir, "frame_%03d.jpg")
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y", "-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%d", keyframeInterval), "-q:v", "3", pattern)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction failed: %w: %s", err, truncate(string(out)))
	}

	frames, err := filepath.Glob(filepath.Join(dir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", videoPath)
	}
	return frames, nil
}

// truncate keeps tool output in error messages readable
func truncate(s string) string {
	const max = 400
	if len(s) > max {
		return s[:max] + "..."
	}
	return strings.TrimSpace(s)
}
