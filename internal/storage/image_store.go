package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// URLPrefix is the public path stored images are served under
const URLPrefix = "/uploads"

// Generated names never collide in practice; refuse to overwrite if one does.
const openFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL

// ErrNotImage is returned for uploads whose content type is not image/*
var ErrNotImage = errors.New("file must be an image")

// ImageStore writes uploaded images into a flat directory
type ImageStore struct {
	fs  afero.Fs
	now func() time.Time
}

// NewImageStore creates an ImageStore rooted at the given filesystem.
// Use NewDiskImageStore for a directory on disk.
func NewImageStore(fs afero.Fs) *ImageStore {
	return &ImageStore{fs: fs, now: time.Now}
}

// NewDiskImageStore creates dir if needed and stores images in it
func NewDiskImageStore(dir string) (*ImageStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}
	return NewImageStore(afero.NewBasePathFs(osFs, dir)), nil
}

// Save stores the image under a freshly generated name and returns its public URL
func (s *ImageStore) Save(originalName, contentType string, r io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	name := GenerateImageName(originalName, contentType, s.now())

	f, err := s.fs.OpenFile(name, openFlags, 0o644)
	if err != nil {
		return "", fmt.Errorf("error creating image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("error writing image file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("error closing image file: %w", err)
	}

	return path.Join(URLPrefix, name), nil
}

// FileSystem exposes the stored images for static serving under URLPrefix.
// Directories are reported as missing so they are never listed.
func (s *ImageStore) FileSystem() http.FileSystem {
	return filesOnly{afero.NewHttpFs(s.fs)}
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

// imageExts maps the extensions kept from client filenames to the content
// type the static file server will answer with
var imageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// GenerateImageName builds "<YYYYMMDD>_<32 hex chars><ext>". The extension
// comes from originalName when it is a known image extension, otherwise from
// contentType, so a stored file is always served as an image.
func GenerateImageName(originalName, contentType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if _, ok := imageExts[ext]; !ok {
		ext = extForContentType(contentType)
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s%s", now.Format("20060102"), token, ext)
}

func extForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
