package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// archiveName is the file published for every SDK version.
const archiveName = "discord_game_sdk.zip"

// maxArchiveSize bounds the download; the 2.5.6 archive is under 20 MiB.
const maxArchiveSize = 256 << 20

var (
	// ErrDigestMismatch is returned when the archive does not match the
	// expected BLAKE2b-256 digest.
	ErrDigestMismatch = errors.New("archive digest mismatch")

	// ErrUnsafePath is returned for archive entries escaping the output
	// directory.
	ErrUnsafePath = errors.New("unsafe archive path")
)

// kept lists the archive directories that are extracted. Everything else
// (examples, C++ and C# bindings, 32-bit libraries) is skipped.
var kept = []string{
	"lib/x86_64/",
	"lib/aarch64/",
	"c/",
}

// renames gives the loader-friendly name of the unprefixed Unix libraries.
var renames = map[string]string{
	"discord_game_sdk.so":    "libdiscord_game_sdk.so",
	"discord_game_sdk.dylib": "libdiscord_game_sdk.dylib",
}

// Fetcher downloads and unpacks one SDK release.
type Fetcher struct {
	Client  *http.Client
	BaseURL string
	OutDir  string
	// Digest is the expected hex BLAKE2b-256 of the archive; empty skips
	// verification.
	Digest string
}

// ArchiveURL returns the download location of version.
func (f *Fetcher) ArchiveURL(version string) string {
	return strings.TrimSuffix(f.BaseURL, "/") + "/" + version + "/" + archiveName
}

// Fetch downloads version, verifies it and extracts the native libraries
// and the C header into OutDir. It returns the extracted paths.
func (f *Fetcher) Fetch(ctx context.Context, version string) ([]string, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "Fetch",
		"version":  version,
	})

	url := f.ArchiveURL(version)
	logger.WithField("url", url).Info("Downloading SDK archive")

	data, err := f.download(ctx, url)
	if err != nil {
		return nil, err
	}
	logger.WithField("bytes", len(data)).Debug("Archive downloaded")

	if err := VerifyDigest(data, f.Digest); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(f.OutDir); err != nil {
		return nil, fmt.Errorf("clear %s: %w", f.OutDir, err)
	}
	written, err := Extract(data, f.OutDir)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"out_dir": f.OutDir,
		"files":   len(written),
	}).Info("SDK extracted")
	return written, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxArchiveSize {
		return nil, fmt.Errorf("download %s: archive larger than %d bytes", url, maxArchiveSize)
	}
	return data, nil
}

// VerifyDigest compares the BLAKE2b-256 of data with the hex digest want.
// An empty want always succeeds.
func VerifyDigest(data []byte, want string) error {
	if want == "" {
		logrus.WithField("function", "VerifyDigest").Warn("No digest given, archive not verified")
		return nil
	}
	expected, err := hex.DecodeString(want)
	if err != nil {
		return fmt.Errorf("decode digest: %w", err)
	}
	sum := blake2b.Sum256(data)
	if !bytes.Equal(sum[:], expected) {
		return fmt.Errorf("%w: got %x, want %s", ErrDigestMismatch, sum, want)
	}
	return nil
}

// Extract writes the kept entries of the zip archive in data below outDir
// and returns the written paths in archive order.
func Extract(data []byte, outDir string) ([]string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var written []string
	for _, file := range archive.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name, ok := keptName(file.Name)
		if !ok {
			continue
		}
		target, err := safeJoin(outDir, name)
		if err != nil {
			return written, err
		}
		if err := extractFile(file, target); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}

// keptName reports whether an archive entry is extracted and returns its
// name after renaming.
func keptName(name string) (string, bool) {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	for _, prefix := range kept {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasSuffix(name, ".bundle") {
			return "", false
		}
		dir, base := path.Split(name)
		if renamed, ok := renames[base]; ok {
			base = renamed
		}
		return dir + base, true
	}
	return "", false
}

func safeJoin(outDir, name string) (string, error) {
	target := filepath.Join(outDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(outDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", target, err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer src.Close()

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, maxArchiveSize)); err != nil {
		dst.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return dst.Close()
}
