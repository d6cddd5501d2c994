package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Options struct {
	Development bool
	// File, when set, receives a JSON copy of every entry and is rotated by
	// size.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Output     io.Writer
}

func New(opts Options) (*logrus.Logger, error) {
	log := logrus.New()

	log.SetOutput(os.Stderr)
	if opts.Output != nil {
		log.SetOutput(opts.Output)
	}

	if opts.Development {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if opts.File == "" {
		return log, nil
	}

	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 50
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = 28
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Level:      log.GetLevel(),
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open log file %s: %w", opts.File, err)
	}
	log.AddHook(hook)

	return log, nil
}
