package writer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateMode selects how log files rotate.
type RotateMode int

const (
	// RotateModeTime rotates on a fixed time interval.
	RotateModeTime RotateMode = iota
	// RotateModeSize rotates when the file exceeds a size limit.
	RotateModeSize
)

func (m RotateMode) String() string {
	switch m {
	case RotateModeTime:
		return "time"
	case RotateModeSize:
		return "size"
	default:
		return "unknown"
	}
}

// RotateConfig describes the target file and its rotation policy.
type RotateConfig struct {
	Mode     RotateMode
	Filepath string
	Filename string
	FileExt  string
	Time     TimeRotateConfig
	Size     SizeRotateConfig
}

// TimeRotateConfig holds the time-based policy, in hours.
type TimeRotateConfig struct {
	MaxAge       int
	RotationTime int
}

// SizeRotateConfig holds the size-based policy.
type SizeRotateConfig struct {
	MaxSize    int // megabytes per file
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// File creates a rotating file writer for the configured mode.
func File(config RotateConfig) (io.Writer, error) {
	switch config.Mode {
	case RotateModeTime:
		return timeRotateWriter(config)
	case RotateModeSize:
		return sizeRotateWriter(config)
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %v", config.Mode)
	}
}

func timeRotateWriter(config RotateConfig) (io.Writer, error) {
	w, err := rotatelogs.New(
		config.fullPathWithFormat("%Y%m%d%H%M"),
		rotatelogs.WithLinkName(config.fullPath()),
		rotatelogs.WithMaxAge(time.Duration(config.Time.MaxAge)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(config.Time.RotationTime)*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create time rotate writer: %w", err)
	}
	return w, nil
}

func sizeRotateWriter(config RotateConfig) (io.Writer, error) {
	return &lumberjack.Logger{
		Filename:   config.fullPath(),
		MaxSize:    config.Size.MaxSize,
		MaxBackups: config.Size.MaxBackups,
		MaxAge:     config.Size.MaxAge,
		Compress:   config.Size.Compress,
	}, nil
}

func (c *RotateConfig) fullPath() string {
	return c.fullPathWithFormat("")
}

func (c *RotateConfig) fullPathWithFormat(format string) string {
	var b strings.Builder
	b.WriteString(c.Filename)
	if format != "" {
		b.WriteByte('.')
		b.WriteString(format)
	}
	b.WriteByte('.')
	b.WriteString(c.FileExt)
	return filepath.Join(c.Filepath, b.String())
}
