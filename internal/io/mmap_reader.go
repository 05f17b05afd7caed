package io

import (
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"
)

// MMapReader exposes the whole content of a file as one byte slice. Files
// between MinMapSize and MaxMapSize are memory mapped, others are read into
// memory.
type MMapReader struct {
	file     *os.File
	data     []byte
	size     int64
	isMapped bool
}

// MMapConfig controls when a file is memory mapped
type MMapConfig struct {
	MinMapSize int64 // smaller files are read with os.ReadFile
	MaxMapSize int64 // larger files are read with os.ReadFile
	UseMmap    bool
}

// DefaultMMapConfig returns a default configuration
func DefaultMMapConfig() MMapConfig {
	return MMapConfig{
		MinMapSize: 1024 * 1024,        // 1MB
		MaxMapSize: 1024 * 1024 * 1024, // 1GB
		UseMmap:    true,
	}
}

// NewMMapReader opens filePath and maps or reads it according to config.
// A failed mapping falls back to a regular read.
func NewMMapReader(filePath string, config MMapConfig, logger zerolog.Logger) (*MMapReader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	reader := &MMapReader{file: file, size: fileInfo.Size()}

	useMmap := config.UseMmap && reader.size >= config.MinMapSize &&
		(config.MaxMapSize <= 0 || reader.size <= config.MaxMapSize) && reader.size > 0
	if useMmap {
		err := reader.mmapFile()
		if err == nil {
			return reader, nil
		}
		logger.Warn().Err(err).Str("file", filePath).Msg("memory mapping failed, falling back to regular I/O")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	reader.data = data
	return reader, nil
}

func (r *MMapReader) mmapFile() error {
	data, err := syscall.Mmap(int(r.file.Fd()), 0, int(r.size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("memory mapping failed: %w", err)
	}
	r.data = data
	r.isMapped = true
	return nil
}

// Bytes returns the file content. A mapped slice is only valid until Close.
func (r *MMapReader) Bytes() []byte {
	return r.data
}

// Size returns the file size
func (r *MMapReader) Size() int64 {
	return r.size
}

// IsMapped reports whether the content is memory mapped
func (r *MMapReader) IsMapped() bool {
	return r.isMapped
}

// Close unmaps the file if necessary and closes it
func (r *MMapReader) Close() error {
	var err error

	if r.isMapped && r.data != nil {
		if unmapErr := syscall.Munmap(r.data); unmapErr != nil {
			err = fmt.Errorf("unmap failed: %w", unmapErr)
		}
		r.isMapped = false
	}
	r.data = nil

	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil {
			if err != nil {
				err = fmt.Errorf("%v; close failed: %w", err, closeErr)
			} else {
				err = fmt.Errorf("close failed: %w", closeErr)
			}
		}
		r.file = nil
	}

	return err
}
