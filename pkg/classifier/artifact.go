package classifier

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/snappy"

	"github.com/privalytics/riskpipe/pkg/preprocess"
)

// Artifact couples the fitted forest with the fitted preprocessor. The two
// are lifecycle-coupled: encoders define the feature space the forest was
// trained in, so they are serialized and loaded together, both-or-neither.
type Artifact struct {
	Forest       *RandomForest
	Preprocessor *preprocess.Preprocessor
	TrainedAt    time.Time
}

var (
	artifactMagic = []byte("RPMODEL1")

	// ErrCorruptArtifact is returned when a model file fails integrity checks.
	ErrCorruptArtifact = errors.New("model artifact is corrupt")

	// ErrIncompleteArtifact is returned when a decoded artifact is missing
	// either the forest or the preprocessor.
	ErrIncompleteArtifact = errors.New("model artifact is incomplete")
)

// SaveArtifact writes the artifact to path atomically: the payload is gob
// encoded, snappy compressed, checksummed, written to a temp file and
// renamed into place.
func SaveArtifact(path string, a *Artifact) error {
	if a == nil || a.Forest == nil || a.Preprocessor == nil {
		return ErrIncompleteArtifact
	}
	if !a.Forest.Trained() {
		return ErrNotTrained
	}

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	compressed := snappy.Encode(nil, payload.Bytes())

	var out bytes.Buffer
	out.Write(artifactMagic)
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc32.ChecksumIEEE(compressed))
	out.Write(crcBuf[:])
	out.Write(compressed)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename artifact into place: %w", err)
	}
	return nil
}

// LoadArtifact reads and verifies an artifact written by SaveArtifact.
func LoadArtifact(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	if len(raw) < len(artifactMagic)+4 {
		return nil, fmt.Errorf("%w: file too short", ErrCorruptArtifact)
	}
	if !bytes.Equal(raw[:len(artifactMagic)], artifactMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptArtifact)
	}

	crcOffset := len(artifactMagic)
	wantCRC := binary.LittleEndian.Uint32(raw[crcOffset : crcOffset+4])
	compressed := raw[crcOffset+4:]
	if crc32.ChecksumIEEE(compressed) != wantCRC {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptArtifact)
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}

	var a Artifact
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Forest == nil || a.Preprocessor == nil {
		return nil, ErrIncompleteArtifact
	}
	return &a, nil
}
