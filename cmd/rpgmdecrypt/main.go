package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"rpgm-asset-decrypter/internal/asset"
	"rpgm-asset-decrypter/internal/batch"
	"rpgm-asset-decrypter/internal/config"
	"rpgm-asset-decrypter/internal/index"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json or config.yaml")
	inputDir := flag.String("input", "", "Game or asset directory (default: current directory)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/decrypted or <input>/encrypted)")
	mode := flag.String("mode", "", "decrypt or encrypt (default: decrypt)")
	key := flag.String("key", "", "Encryption key, 32 hex chars (default: System.json, then per-file recovery)")
	useDefault := flag.Bool("default-key", false, "Fall back to the engine's blank-password key")
	engine := flag.String("engine", "", "Extension family for encrypt: mv or mz (default: mz)")
	imageFormat := flag.String("image-format", "", "Decrypted image format: png, webp or tga (default: png)")
	maxSize := flag.Int("max-size", 0, "Downscale decrypted images to this longest side")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	logLevel := flag.String("log-level", "", "Log level (default: info)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:     *inputDir,
		OutputDir:    *outputDir,
		Mode:         *mode,
		Key:          *key,
		Engine:       *engine,
		ImageFormat:  *imageFormat,
		MaxImageSize: *maxSize,
		Workers:      *workers,
		LogLevel:     *logLevel,
	})

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.SetLevel(level)

	eng, err := asset.ParseEngine(cfg.Engine)
	if err != nil {
		log.Fatal(err)
	}

	// Key precedence: flag/config, System.json, default, none.
	keyStr := cfg.Key
	if keyStr == "" && cfg.SystemJSON != "" {
		keyStr, err = config.LoadSystemKey(cfg.SystemJSON)
		if err != nil {
			log.WithError(err).Warn("System.json unreadable, ignoring")
		} else if keyStr != "" {
			log.WithField("path", cfg.SystemJSON).Info("key loaded from System.json")
		}
	}
	if keyStr == "" && *useDefault {
		keyStr = asset.DefaultKey
	}
	var batchKey *asset.Key
	if keyStr != "" {
		k, err := asset.ParseKey(keyStr)
		if err != nil {
			log.Fatal(err)
		}
		batchKey = &k
	}

	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Mode:        batch.Mode(cfg.Mode),
		Key:         batchKey,
		Engine:      eng,
		ImageFormat: cfg.ImageFormat,
		MaxSize:     cfg.MaxImageSize,
		Workers:     cfg.Workers,
		Logger:      log,
	}
	if err := batchCfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// Build asset index
	idx, err := index.Build(cfg.InputDir, batchCfg.Mode == batch.Decrypt, cfg.OutputDir)
	if err != nil {
		log.Fatalf("scan %s: %v", cfg.InputDir, err)
	}
	if idx.Len() == 0 {
		fmt.Println("No assets to process.")
		os.Exit(0)
	}

	counts := idx.CountByType()
	keyDesc := "recover per file"
	if batchKey != nil {
		keyDesc = batchKey.String()
	}
	fmt.Printf("RPG Maker assets: %s\n", cfg.Mode)
	fmt.Printf("Images: %d, Vorbis: %d, M4A: %d, Workers: %d\n",
		counts[asset.Image], counts[asset.Vorbis], counts[asset.M4A], cfg.Workers)
	fmt.Printf("Key: %s\n", keyDesc)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batchCfg, idx.Entries())

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Processed: %d/%d\n", success, len(results))
	if keys := batch.Keys(results); batchKey == nil && len(keys) > 0 {
		fmt.Printf("Recovered keys: %v\n", keys)
	}

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Source, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.WithError(err).Warn("manifest write failed")
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
