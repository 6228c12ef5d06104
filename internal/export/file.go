package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks a zstd-compressed export file.
const CompressedExt = ".zst"

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("export version %d, want %d", doc.Version, Version)
	}
	return &doc, nil
}

// WriteFile writes doc to path, compressing when the name ends in .zst.
func WriteFile(path string, doc *Document) error {
	if strings.HasSuffix(path, CompressedExt) {
		return WriteCompressed(path, doc)
	}
	return WriteJSON(path, doc)
}

// ReadFile reads an export written by WriteFile.
func ReadFile(path string) (*Document, error) {
	if strings.HasSuffix(path, CompressedExt) {
		return ReadCompressed(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}

// WriteJSON writes doc to path as plain JSON.
func WriteJSON(path string, doc *Document) error {
	return writeFile(path, doc, false)
}

// WriteCompressed writes doc to path as zstd-compressed JSON.
func WriteCompressed(path string, doc *Document) error {
	return writeFile(path, doc, true)
}

func writeFile(path string, doc *Document, compress bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if compress {
		enc, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		w = enc
	}

	bw := bufio.NewWriterSize(w, 1<<20)
	if err := Encode(bw, doc); err != nil {
		if enc != nil {
			enc.Close()
		}
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return err
		}
	}
	if err := f.Sync(); err != nil {
		return err
	}

	if info, err := f.Stat(); err == nil {
		slog.Info("export written", "path", path, "size", humanize.Bytes(uint64(info.Size())), "compressed", compress)
	}
	return nil
}

// ReadCompressed reads an export written by WriteCompressed.
func ReadCompressed(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return Decode(bufio.NewReader(dec))
}
