package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/hasher"
	"github.com/AnyUserName/imgconv/internal/report"
	"go.uber.org/zap"
)

// BatchConfig holds all parameters for a directory conversion run.
type BatchConfig struct {
	InputDir  string
	OutputDir string
	Format    string
	Workers   int
}

// Batch converts every image under a directory tree to one format.
type Batch struct {
	cfg  BatchConfig
	conv *Converter
	log  *zap.Logger
}

// NewBatch creates a configured batch run.
func NewBatch(conv *Converter, cfg BatchConfig, log *zap.Logger) *Batch {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Batch{cfg: cfg, conv: conv, log: log}
}

// batchResult holds the outcome of converting a single source.
type batchResult struct {
	src   Source
	entry report.Entry
	err   error
}

// Run converts all sources and returns the report. Individual failures
// are recorded in the report; Run fails only when nothing converted.
func (b *Batch) Run(ctx context.Context) (*report.Report, error) {
	enc, err := b.conv.Encoder(b.cfg.Format)
	if err != nil {
		return nil, err
	}

	sources, err := ScanImages(b.cfg.InputDir, b.conv.ReadableFormats(), b.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", b.cfg.InputDir)
	}
	b.log.Info("batch started",
		zap.Int("sources", len(sources)),
		zap.String("format", enc.Format()),
		zap.Int("workers", b.cfg.Workers),
	)

	sources, clashes := splitClashes(sources, enc.Extension())

	results := make([]batchResult, len(sources), len(sources)+len(clashes))
	var wg sync.WaitGroup
	sem := make(chan struct{}, b.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = batchResult{src: s, err: err}
				return
			}
			results[idx] = b.convertOne(s, enc)
		}(i, src)
	}
	wg.Wait()
	results = append(results, clashes...)

	rep := report.New(enc.Format())
	rep.Workers = b.cfg.Workers
	for _, r := range results {
		if r.err != nil {
			b.log.Warn("convert failed", zap.String("source", r.src.RelPath), zap.Error(r.err))
			rep.Failures = append(rep.Failures, report.Failure{
				Key:    r.src.Key,
				Source: r.src.RelPath,
				Kind:   codec.KindOf(r.err).String(),
				Error:  r.err.Error(),
			})
			continue
		}
		rep.Entries[r.src.Key] = r.entry
	}
	sort.Slice(rep.Failures, func(i, j int) bool {
		if rep.Failures[i].Key != rep.Failures[j].Key {
			return rep.Failures[i].Key < rep.Failures[j].Key
		}
		return rep.Failures[i].Source < rep.Failures[j].Source
	})
	rep.ComputeStats()

	if len(rep.Entries) == 0 {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		return rep, fmt.Errorf("all %d images failed to convert", len(sources))
	}
	return rep, nil
}

// splitClashes keeps the first source for each key and turns every later
// source that would write the same output into a failed result. Sources
// arrive in walk order, so the choice is deterministic.
func splitClashes(sources []Source, ext string) ([]Source, []batchResult) {
	owner := make(map[string]string, len(sources))
	kept := sources[:0:0]
	var clashes []batchResult
	for _, s := range sources {
		if first, dup := owner[s.Key]; dup {
			clashes = append(clashes, batchResult{
				src: s,
				err: fmt.Errorf("output %q also produced by %q", s.Key+"."+ext, first),
			})
			continue
		}
		owner[s.Key] = s.RelPath
		kept = append(kept, s)
	}
	return kept, clashes
}

func (b *Batch) convertOne(s Source, enc codec.Encoder) batchResult {
	res := batchResult{src: s}

	f, err := os.Open(s.AbsPath)
	if err != nil {
		res.err = fmt.Errorf("open %s: %w", s.RelPath, err)
		return res
	}
	defer f.Close()

	var buf bytes.Buffer
	info, err := b.conv.Do(f, &buf, b.cfg.Format)
	if err != nil {
		res.err = err
		return res
	}

	relOut := s.Key + "." + enc.Extension()
	outPath := filepath.Join(b.cfg.OutputDir, filepath.FromSlash(relOut))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		res.err = fmt.Errorf("create output dir: %w", err)
		return res
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		res.err = codec.NewWriteFailure(enc.Format(), err)
		return res
	}

	res.entry = report.Entry{
		Source:       s.RelPath,
		SourceFormat: info.SourceFormat,
		SourceSize:   s.Size,
		Width:        info.Width,
		Height:       info.Height,
		Flattened:    info.Flattened,
		Output:       relOut,
		Size:         int64(buf.Len()),
		Hash:         hasher.ContentHash(buf.Bytes(), 16),
	}
	return res
}
