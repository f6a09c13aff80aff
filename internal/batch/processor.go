package batch

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"rpgm-asset-decrypter/internal/asset"
	"rpgm-asset-decrypter/internal/imageconv"
	"rpgm-asset-decrypter/internal/index"
)

// Mode selects the direction of a batch run.
type Mode string

const (
	Decrypt Mode = "decrypt"
	Encrypt Mode = "encrypt"
)

// Config holds all shared settings for a batch run.
type Config struct {
	OutputDir   string
	Mode        Mode
	Key         *asset.Key // nil = recover per file (decrypt only)
	Engine      asset.Engine
	ImageFormat string // imageconv format for decrypted images
	MaxSize     int
	Workers     int
	Logger      *logrus.Logger
}

// Result holds the outcome of processing one asset.
type Result struct {
	Source  string
	Output  string
	Type    asset.FileType
	Key     string
	Success bool
	Error   string
}

// Validate checks settings that would make every file fail.
func (cfg Config) Validate() error {
	switch cfg.Mode {
	case Decrypt:
	case Encrypt:
		if cfg.Key == nil {
			return fmt.Errorf("batch: encrypt: %w", asset.ErrMissingKey)
		}
	default:
		return fmt.Errorf("batch: unknown mode %q", cfg.Mode)
	}
	if cfg.ImageFormat != "" && !imageconv.Valid(cfg.ImageFormat) {
		return fmt.Errorf("batch: unknown image format %q", cfg.ImageFormat)
	}
	return nil
}

// Run processes all entries using a worker pool.
func Run(cfg Config, entries []index.Entry) []Result {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	total := len(entries)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.WithFields(logrus.Fields{
						"done":  p,
						"total": total,
						"rate":  fmt.Sprintf("%.1f/s", float64(p)/elapsed),
					}).Info("progress")
				}
			}
		}
	}()

	// Worker pool
	entryChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range entryChan {
				// Without a configured key every file recovers its own.
				d := asset.New()
				if cfg.Key != nil {
					d.SetKey(*cfg.Key)
				}
				results[idx] = processEntry(cfg, d, entries[idx])
				if !results[idx].Success {
					log.WithFields(logrus.Fields{
						"file":  entries[idx].Rel,
						"error": results[idx].Error,
					}).Warn("asset failed")
				} else {
					log.WithField("file", entries[idx].Rel).Debug("asset done")
				}
				processed.Add(1)
			}
		}()
	}

	// Send work. An output already claimed by an earlier entry fails
	// instead of being written twice.
	claimed := make(map[string]string, total)
	for i, e := range entries {
		out := outputName(cfg, e)
		if first, ok := claimed[out]; ok {
			results[i] = Result{
				Source: e.Rel,
				Type:   e.Type,
				Error:  fmt.Sprintf("output %s already produced from %s", out, first),
			}
			log.WithFields(logrus.Fields{
				"file":   e.Rel,
				"output": out,
			}).Warn("duplicate output skipped")
			processed.Add(1)
			continue
		}
		claimed[out] = e.Rel
		entryChan <- i
	}
	close(entryChan)

	wg.Wait()
	close(done)

	return results
}

func processEntry(cfg Config, d *asset.Decrypter, e index.Entry) Result {
	res := Result{Source: e.Rel, Type: e.Type}

	data, err := os.ReadFile(e.Path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	var out []byte
	switch cfg.Mode {
	case Encrypt:
		if err := d.EncryptInPlace(data); err != nil {
			res.Error = err.Error()
			return res
		}
	default:
		out, err = d.DecryptInPlace(data, e.Type)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		if e.Type == asset.Image && cfg.ImageFormat != "" {
			out, _, err = imageconv.Convert(out, imageconv.Options{Format: cfg.ImageFormat, MaxSize: cfg.MaxSize})
			if err != nil {
				res.Error = err.Error()
				return res
			}
		}
	}

	if k, ok := d.Key(); ok {
		res.Key = k.String()
	}

	res.Output = outputName(cfg, e)
	outPath := filepath.Join(cfg.OutputDir, res.Output)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.Mode == Encrypt {
		err = writeSegments(outPath, asset.Signature[:], data)
	} else {
		err = os.WriteFile(outPath, out, 0644)
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

// outputName maps an entry to its path relative to the output directory.
func outputName(cfg Config, e index.Entry) string {
	ext := asset.DecryptedExt(e.Type)
	switch {
	case cfg.Mode == Encrypt:
		ext = asset.EncryptedExt(e.Type, cfg.Engine)
	case e.Type == asset.Image && cfg.ImageFormat != "":
		ext = cfg.ImageFormat
	}
	return strings.TrimSuffix(e.Rel, filepath.Ext(e.Rel)) + "." + ext
}

// writeSegments writes the header and the mixed content back to back
// without joining them first.
func writeSegments(path string, segments ...[]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bufs := net.Buffers(segments)
	if _, err := bufs.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
