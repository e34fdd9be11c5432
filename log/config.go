package log

import (
	"github.com/kochabx/apikit/log/writer"
)

// FileConfig configures file output and rotation.
type FileConfig struct {
	Filepath   string            `json:"filepath" default:"log"`
	Filename   string            `json:"filename" default:"app"`
	FileExt    string            `json:"file_ext" default:"log"`
	RotateMode writer.RotateMode `json:"rotate_mode"`
	Time       TimeConfig        `json:"time_config"`
	Size       SizeConfig        `json:"size_config"`
}

// TimeConfig is the time-based rotation policy, in hours.
type TimeConfig struct {
	MaxAge       int `json:"max_age" default:"24"`
	RotationTime int `json:"rotation_time" default:"1"`
}

// SizeConfig is the size-based rotation policy.
type SizeConfig struct {
	MaxSize    int  `json:"max_size" default:"100"`
	MaxBackups int  `json:"max_backups" default:"5"`
	MaxAge     int  `json:"max_age" default:"30"`
	Compress   bool `json:"compress" default:"false"`
}

func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Filepath: c.Filepath,
		Filename: c.Filename,
		FileExt:  c.FileExt,
		Mode:     c.RotateMode,
		Time: writer.TimeRotateConfig{
			MaxAge:       c.Time.MaxAge,
			RotationTime: c.Time.RotationTime,
		},
		Size: writer.SizeRotateConfig{
			MaxSize:    c.Size.MaxSize,
			MaxBackups: c.Size.MaxBackups,
			MaxAge:     c.Size.MaxAge,
			Compress:   c.Size.Compress,
		},
	}
}
