package docrag

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Cache record layout, little-endian:
//
//	magic "DRIX" | version u32 | model | doc hash | source path |
//	chunk count u32 | dimension u32 | chunk strings | flat float32 buffer
//
// Strings are u32-length-prefixed UTF-8. Anything that does not decode
// cleanly against this schema is reported as ErrCacheCorrupt.
const (
	cacheMagic   = "DRIX"
	cacheVersion = uint32(1)

	// maxFieldBytes caps a single length-prefixed field so a garbled
	// length prefix cannot trigger a huge allocation.
	maxFieldBytes = 64 << 20
)

// LoadCache reads a cached index from path. A missing file or a record
// whose (doc hash, model) key does not match is a plain miss (nil, nil).
// An unreadable or structurally inconsistent record returns
// ErrCacheCorrupt.
func LoadCache(path, docHash, model string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	magic := make([]byte, len(cacheMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", ErrCacheCorrupt, err)
	}
	if string(magic) != cacheMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCacheCorrupt, magic)
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: reading version: %v", ErrCacheCorrupt, err)
	}
	if version != cacheVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCacheCorrupt, version)
	}

	meta := Meta{}
	if meta.Model, err = readString(r); err != nil {
		return nil, err
	}
	if meta.DocHash, err = readString(r); err != nil {
		return nil, err
	}
	if meta.Source, err = readString(r); err != nil {
		return nil, err
	}

	var count, dim uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading chunk count: %v", ErrCacheCorrupt, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("%w: reading dimension: %v", ErrCacheCorrupt, err)
	}

	chunks := make([]string, count)
	for i := range chunks {
		if chunks[i], err = readString(r); err != nil {
			return nil, err
		}
	}
	embeddings := make([][]float32, count)
	for i := range embeddings {
		row := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, fmt.Errorf("%w: reading embedding row %d: %v", ErrCacheCorrupt, i, err)
		}
		embeddings[i] = row
	}

	// Validity check happens after a full structural decode so a stale
	// record is distinguishable from a broken one.
	if meta.DocHash != docHash || meta.Model != model {
		return nil, nil
	}

	ix, err := New(chunks, embeddings, meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	return ix, nil
}

// SaveCache writes the index to path atomically: the record goes to a
// temp file first and is renamed into place only on full success.
func SaveCache(path string, ix *Index) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := encodeCache(w, ix); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func encodeCache(w io.Writer, ix *Index) error {
	if _, err := w.Write([]byte(cacheMagic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, cacheVersion); err != nil {
		return err
	}
	for _, s := range []string{ix.meta.Model, ix.meta.DocHash, ix.meta.Source} {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ix.chunks))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(ix.Dimension())); err != nil {
		return err
	}
	for _, chunk := range ix.chunks {
		if err := writeString(w, chunk); err != nil {
			return err
		}
	}
	for _, row := range ix.embeddings {
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("%w: reading string length: %v", ErrCacheCorrupt, err)
	}
	if n > maxFieldBytes {
		return "", fmt.Errorf("%w: string length %d exceeds limit", ErrCacheCorrupt, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: reading string body: %v", ErrCacheCorrupt, err)
	}
	return string(buf), nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
