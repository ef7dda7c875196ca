package extractor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alanbriolat/media-downloader/metadata"
)

const (
	DefaultYtDlpPath = "yt-dlp"

	progressTemplate = "download:[progress] %(progress.downloaded_bytes)s %(progress.total_bytes,progress.total_bytes_estimate)s"
	stderrTailLines  = 20
)

var progressLine = regexp.MustCompile(`^\[progress\] (\d+)(?:\.\d+)? (\S+)`)

// YtDlp runs the yt-dlp binary, downloading and printing the final info document as JSON in one go.
type YtDlp struct {
	Path string
	log  *zap.SugaredLogger
}

// NewYtDlp creates a YtDlp for the binary at path, or DefaultYtDlpPath if empty. A nil logger means zap.L().
func NewYtDlp(path string, logger *zap.Logger) *YtDlp {
	if path == "" {
		path = DefaultYtDlpPath
	}
	if logger == nil {
		logger = zap.L()
	}
	return &YtDlp{Path: path, log: logger.Sugar().Named("extractor")}
}

// Args are the full command line arguments for one extraction.
func (y *YtDlp) Args(url string, opts Options) []string {
	args := []string{"--dump-single-json", "--no-simulate", "--paths", opts.OutputDir}
	if opts.Progress != nil {
		args = append(args, "--progress", "--newline", "--progress-template", progressTemplate)
	}
	args = append(args, opts.Args...)
	return append(args, "--", url)
}

func (y *YtDlp) Extract(ctx context.Context, url string, opts Options) (metadata.Document, error) {
	args := y.Args(url, opts)
	y.log.Infof("Running %s %s", y.Path, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, y.Path, args...)
	cmd.Dir = opts.OutputDir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", y.Path, err)
	}
	tail := y.consumeStderr(stderr, opts.Progress)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", y.Path, err, strings.Join(tail, "\n"))
	}

	return decodeDocument(stdout.Bytes())
}

// consumeStderr forwards progress lines to progress and returns the last few other lines.
func (y *YtDlp) consumeStderr(r io.Reader, progress ProgressFunc) []string {
	var tail []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if downloaded, expected, ok := parseProgress(line); ok {
			if progress != nil {
				progress(downloaded, expected)
			}
			continue
		}
		y.log.Debug(line)
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}
	return tail
}

func parseProgress(line string) (int64, int64, bool) {
	m := progressLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, 0, false
	}
	downloaded, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	var expected int64
	if f, err := strconv.ParseFloat(m[2], 64); err == nil {
		expected = int64(f)
	}
	return downloaded, expected, true
}

func decodeDocument(data []byte) (metadata.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	// Only the last line is the document; anything before it is stray output.
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}
	var doc metadata.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode info document: %w", err)
	}
	return doc, nil
}
