package iostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/testpulse/internal/atomicfile"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
	cp "github.com/otiai10/copy"
)

// MetadataFile is written into every archive directory.
const MetadataFile = "metadata.json"

// maxArchiveCollisions bounds the suffixes tried when a timestamp is already taken.
const maxArchiveCollisions = 100

// DirArchiver copies raw result files into timestamped directories under Root.
type DirArchiver struct {
	Root        string
	SummaryFile string // never archived
}

var _ contract.Archiver = &DirArchiver{} // Compile-time check

// NewArchiver returns an archiver rooted at root.
func NewArchiver(root, summaryFile string) *DirArchiver {
	return &DirArchiver{Root: root, SummaryFile: summaryFile}
}

// Archive creates a new directory named after now and copies the result file of
// every subject into it, followed by a metadata record. An existing archive is
// never reused: a numeric suffix is added when the timestamp is already taken.
func (a *DirArchiver) Archive(ctx context.Context, resultsDir string, subjects []schema.ParsedSubject, now time.Time) (string, error) {
	if err := os.MkdirAll(a.Root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive root: %w", err)
	}

	dest, err := a.reserveDir(now)
	if err != nil {
		return "", err
	}

	copyOptions := cp.Options{
		PreserveTimes: true,
		OnSymlink:     func(string) cp.SymlinkAction { return cp.Deep },
	}

	files := make([]string, 0, len(subjects))
	programs := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if err := ctx.Err(); err != nil {
			return dest, err
		}
		src := s.Path
		if src == "" {
			src = filepath.Join(resultsDir, schema.ResultFileName(s.Name))
		}
		name := filepath.Base(src)
		if name == a.SummaryFile || name == MetadataFile {
			continue
		}
		if err := cp.Copy(src, filepath.Join(dest, name), copyOptions); err != nil {
			return dest, fmt.Errorf("failed to archive %s: %w", name, err)
		}
		files = append(files, name)
		programs = append(programs, src)
	}

	meta := schema.ArchiveMetadata{
		ArchiveID: uuid.NewString(),
		Timestamp: now,
		SourceDir: resultsDir,
		Programs:  programs,
		Files:     files,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return dest, fmt.Errorf("failed to encode archive metadata: %w", err)
	}
	if err := atomicfile.WriteFile(filepath.Join(dest, MetadataFile), append(data, '\n'), atomicfile.DefaultPerm); err != nil {
		return dest, err
	}
	return dest, nil
}

// reserveDir creates the archive directory, adding _1, _2, ... on collision.
func (a *DirArchiver) reserveDir(now time.Time) (string, error) {
	base := now.Format(contract.ArchiveTimeFormat)
	for i := range maxArchiveCollisions {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		dest := filepath.Join(a.Root, name)
		err := os.Mkdir(dest, 0o755)
		if err == nil {
			return dest, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	return "", fmt.Errorf("too many archives for timestamp %s", base)
}

// ReadArchiveMetadata loads the metadata record of an archive directory.
func ReadArchiveMetadata(archiveDir string) (schema.ArchiveMetadata, error) {
	var meta schema.ArchiveMetadata
	data, err := os.ReadFile(filepath.Join(archiveDir, MetadataFile))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("invalid archive metadata: %w", err)
	}
	return meta, nil
}
