package engine

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/rankstat/internal/connectors"
	"github.com/peekknuf/rankstat/internal/parser"
	"github.com/peekknuf/rankstat/internal/schema"
)

func writeCSV(t *testing.T, dir, name, content string) connectors.FileMeta {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return connectors.FileMeta{Path: path, Size: int64(len(content))}
}

func TestDescribeFiles(t *testing.T) {
	dir := t.TempDir()
	files := []connectors.FileMeta{
		writeCSV(t, dir, "a.csv", "Nom;Inscrits;Votants\nA;10;8\nB;20;15\n"),
		writeCSV(t, dir, "empty.csv", ""),
		writeCSV(t, dir, "b.csv", "x,y\n1,2\n3,4\n5,\n"),
	}

	var done int32
	opts := Options{
		Workers:    2,
		Parser:     parser.DefaultParserConfig(),
		OnFileDone: func(string) { atomic.AddInt32(&done, 1) },
	}

	results, err := DescribeFiles(context.Background(), files, opts, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&done))

	assert.NoError(t, results[0].Error)
	assert.Equal(t, 2, results[0].RowCount)
	require.Len(t, results[0].Summaries, 2)
	assert.Equal(t, "Inscrits", results[0].Summaries[0].Column)
	assert.InDelta(t, 15.0, results[0].Summaries[0].Mean, 1e-9)

	assert.ErrorIs(t, results[1].Error, parser.ErrEmptyFile)

	require.NoError(t, results[2].Error)
	require.Len(t, results[2].Summaries, 2)
	assert.Equal(t, 1, results[2].Summaries[1].Missing)
}

func TestDescribeFileWithColumns(t *testing.T) {
	dir := t.TempDir()
	file := writeCSV(t, dir, "e.csv", "Inscrits,Votants,Exprimés\n10,8,7\n20,15,14\n")

	opts := Options{
		Parser:  parser.DefaultParserConfig(),
		Columns: []schema.Field{{Name: "exprimes", Patterns: []string{"exprim"}}},
	}
	result := DescribeFile(file.Path, opts, zerolog.Nop())
	require.NoError(t, result.Error)
	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "Exprimés", result.Summaries[0].Column)

	opts.Columns = []schema.Field{{Name: "blancs", Patterns: []string{"blanc"}}}
	result = DescribeFile(file.Path, opts, zerolog.Nop())
	require.ErrorIs(t, result.Error, schema.ErrColumnNotFound)
}

func TestDescribeFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []connectors.FileMeta{writeCSV(t, dir, "a.csv", "x\n1\n")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DescribeFiles(ctx, files, Options{Parser: parser.DefaultParserConfig()}, zerolog.Nop())
	require.ErrorIs(t, err, context.Canceled)
}

func TestWorkerCount(t *testing.T) {
	cpus := runtime.NumCPU()
	maxWorkers := min(3*cpus, 32)

	files := make([]connectors.FileMeta, 4)
	assert.Equal(t, min(2, maxWorkers), workerCount(files, 2))
	assert.Equal(t, min(4, maxWorkers), workerCount(files, 100))
	assert.Equal(t, 1, workerCount(nil, 0))

	// auto mode doubles the CPU count for large batches, within the cap
	large := make([]connectors.FileMeta, 100)
	for i := range large {
		large[i].Size = 10 * 1024 * 1024
	}
	assert.Equal(t, min(2*cpus, maxWorkers), workerCount(large, 0))
	assert.Equal(t, 1, workerCount(large, 1))
}
