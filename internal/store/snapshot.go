package store

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Magic bytes identifying the snapshot format.
	magicBytes = "SLAM"
	// Current snapshot format version.
	formatVersion = 1
	// flagUncompressed marks a payload stored without lz4 (set when the
	// block compressor reports the data as incompressible).
	flagUncompressed = 1
)

// fileHeader precedes the compressed payload in a snapshot file.
type fileHeader struct {
	Magic    [4]byte
	Version  uint8
	Flags    uint8
	Reserved [2]byte
}

// snapshotData is the on-disk shape of the whole store.
type snapshotData struct {
	Slams map[string]*SlamDocument `msgpack:"slams"`
	Users map[string]*UserRecord   `msgpack:"users"`
}

// Open loads a store from a snapshot file. A missing file yields an
// empty store; any other read problem is an error.
func Open(path string) (*Store, error) {
	s := New()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var header fileHeader
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if string(header.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid snapshot format: %q", string(header.Magic[:]))
	}
	if header.Version != formatVersion {
		return nil, fmt.Errorf("unsupported snapshot version: %d", header.Version)
	}

	var rawSize uint64
	if err := binary.Read(f, binary.LittleEndian, &rawSize); err != nil {
		return nil, fmt.Errorf("read snapshot size: %w", err)
	}
	compressed, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	var raw []byte
	if header.Flags&flagUncompressed != 0 {
		raw = compressed
	} else {
		raw = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(compressed, raw)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot: %w", err)
		}
		raw = raw[:n]
	}

	var data snapshotData
	if err := msgpack.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if data.Slams != nil {
		s.slams = data.Slams
	}
	if data.Users != nil {
		s.users = data.Users
	}
	return s, nil
}

// SaveTo writes a full snapshot. The write goes through a temp file in
// the same directory and a rename, so a crash mid-write never corrupts
// the previous snapshot.
func (s *Store) SaveTo(path string) error {
	s.mu.RLock()
	data := snapshotData{Slams: s.slams, Users: s.users}
	raw, err := msgpack.Marshal(&data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	var flags uint8
	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(raw, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if n == 0 {
		// incompressible payload, store it as-is
		flags = flagUncompressed
		compressed = raw
	} else {
		compressed = compressed[:n]
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".slam-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	header := fileHeader{Magic: [4]byte{'S', 'L', 'A', 'M'}, Version: formatVersion, Flags: flags}
	if err := binary.Write(tmp, binary.LittleEndian, header); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot header: %w", err)
	}
	if err := binary.Write(tmp, binary.LittleEndian, uint64(len(raw))); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot size: %w", err)
	}
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// FlushIfDirty saves a snapshot only when something changed since the
// last flush.
func (s *Store) FlushIfDirty(path string) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.dirty = false
	s.mu.Unlock()

	if err := s.SaveTo(path); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	return nil
}
