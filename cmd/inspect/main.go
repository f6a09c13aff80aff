package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"rpgm-asset-decrypter/internal/asset"
	"rpgm-asset-decrypter/internal/container"
)

func main() {
	keyFlag := flag.String("key", "", "Decrypt with this key instead of recovering it")
	pages := flag.Int("pages", 4, "Ogg pages to list")
	depth := flag.Int("depth", 3, "MP4 box nesting to list")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-key hex] <asset>...")
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := inspect(path, *keyFlag, *pages, *depth); err != nil {
			fmt.Printf("  Error: %v\n", err)
			failed = true
		}
		fmt.Println()
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path, key string, pages, depth int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	fmt.Printf("%s (%d bytes)\n", path, len(data))

	if t, err := asset.ClassifyPlain(ext); err == nil {
		fmt.Printf("  Type: %s (plain)\n", t)
		return describe(data, t, pages, depth)
	}

	t, err := asset.Classify(ext)
	if err != nil {
		return err
	}
	eng, _ := asset.EngineOf(ext)
	fmt.Printf("  Type: %s (%s, encrypted)\n", t, strings.ToUpper(eng.String()))

	content, err := asset.StripHeader(data)
	if err != nil {
		return err
	}
	fmt.Printf("  Header: % x\n", data[:asset.HeaderLength])
	fmt.Printf("  Block:  % x\n", content[:min(len(content), 16)])

	d := asset.New()
	if key != "" {
		if err := d.SetKeyFromString(key); err != nil {
			return err
		}
	} else {
		w, err := asset.KnownWindow(content, t)
		if err != nil {
			return err
		}
		fmt.Printf("  Known:  % x (offset %d)\n", w.Plaintext[:], w.Offset)
		k, err := d.SetKeyFromFile(data, t)
		if err != nil {
			return err
		}
		fmt.Printf("  Key:    %s (recovered)\n", k)
	}

	plain, err := d.Decrypt(data, t)
	if err != nil {
		return err
	}
	return describe(plain, t, pages, depth)
}

func describe(plain []byte, t asset.FileType, pages, depth int) error {
	switch t {
	case asset.Image:
		cfg, err := png.DecodeConfig(bytes.NewReader(plain))
		if err != nil {
			return err
		}
		fmt.Printf("  PNG: %dx%d\n", cfg.Width, cfg.Height)
	case asset.Vorbis:
		ps, err := container.ReadPages(plain, pages)
		for i, p := range ps {
			fmt.Printf("  Page[%d] @%d: type=0x%02x granule=%d serial=%08x seq=%d segments=%d body=%d\n",
				i, p.Offset, p.HeaderType, p.Granule, p.Serial, p.Sequence, len(p.Segments), p.BodyLength)
		}
		if err != nil {
			return err
		}
	case asset.M4A:
		return container.WalkBoxes(plain, 0, depth, func(b container.Box) error {
			fmt.Printf("  %s%s @%d size=%d\n", strings.Repeat("  ", b.Depth), b.Type[:], b.Offset, b.Size)
			return nil
		})
	}
	return nil
}
