// Package docstore persists document snapshots. Snapshots are the
// serialized XML, xz-compressed when the path ends in ".xz", with a
// BLAKE3 digest of the uncompressed bytes kept in a sidecar manifest and
// verified on load.
package docstore

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/pericope/citesync/core/doc"
	"github.com/pericope/citesync/core/errors"
	"github.com/pericope/citesync/internal/logging"
)

// manifestSuffix is appended to the snapshot path for the sidecar.
const manifestSuffix = ".manifest.json"

// manifest describes one stored snapshot.
type manifest struct {
	BLAKE3     string `json:"blake3"`
	Size       int    `json:"size"`
	Compressed bool   `json:"compressed"`
}

// digest returns the hex BLAKE3 digest of data.
func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save writes the document snapshot to path, compressing when the path
// ends in ".xz", and writes the digest manifest alongside it.
func Save(path string, d *doc.Document) error {
	data := d.Serialize()
	compressed := strings.HasSuffix(path, ".xz")

	out := data
	if compressed {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return errors.Wrapf(err, "creating xz writer for %s", path)
		}
		if _, err := w.Write(data); err != nil {
			return errors.Wrapf(err, "compressing snapshot %s", path)
		}
		if err := w.Close(); err != nil {
			return errors.Wrapf(err, "finalizing snapshot %s", path)
		}
		out = buf.Bytes()
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.Wrapf(err, "writing snapshot %s", path)
	}

	m := manifest{
		BLAKE3:     digest(data),
		Size:       len(data),
		Compressed: compressed,
	}
	mdata, err := json.Marshal(m)
	if err != nil {
		return errors.Wrapf(err, "encoding manifest for %s", path)
	}
	if err := os.WriteFile(path+manifestSuffix, mdata, 0644); err != nil {
		return errors.Wrapf(err, "writing manifest for %s", path)
	}

	logging.SnapshotEvent("save", path, len(out))
	return nil
}

// Load reads a snapshot from path, decompressing ".xz" files, verifies
// the manifest digest when a manifest is present, and parses the
// document. A missing manifest skips verification; a digest mismatch is
// a corruption error.
func Load(path string) (*doc.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("snapshot", path)
		}
		return nil, errors.Wrapf(err, "reading snapshot %s", path)
	}

	data := raw
	if strings.HasSuffix(path, ".xz") {
		r, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "opening xz snapshot %s", path)
		}
		data, err = io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrapf(err, "decompressing snapshot %s", path)
		}
	}

	if mdata, err := os.ReadFile(path + manifestSuffix); err == nil {
		var m manifest
		if err := json.Unmarshal(mdata, &m); err != nil {
			return nil, errors.Wrapf(err, "decoding manifest for %s", path)
		}
		if got := digest(data); got != m.BLAKE3 {
			return nil, errors.NewCorrupt(path, "blake3 digest mismatch")
		}
	}

	d, err := doc.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing snapshot %s", path)
	}

	logging.SnapshotEvent("load", path, len(raw))
	return d, nil
}
