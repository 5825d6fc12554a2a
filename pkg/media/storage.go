// Package media stores uploaded images on local disk and renders their URLs.
//
// Stored names are slash-separated paths relative to the media root
// ("victims/12/photo.jpg"). URL renders them under the public prefix, and
// AbsoluteURL qualifies that with the scheme and host of the current request.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/utilities"
)

const msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

type Config struct {
	Root string
	URL  string
}

// ConfigFromEnv reads MEDIA_ROOT and MEDIA_URL.
func ConfigFromEnv() Config {
	return Config{
		Root: utilities.EnvString("MEDIA_ROOT", "media"),
		URL:  utilities.EnvString("MEDIA_URL", "/media/"),
	}
}

type Storage struct {
	root   string
	prefix string
}

func NewStorage(cfg Config) *Storage {
	prefix := cfg.URL
	if prefix == "" {
		prefix = "/media/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Storage{root: cfg.Root, prefix: prefix}
}

// Prefix is the public URL prefix, always ending in "/".
func (s *Storage) Prefix() string { return s.prefix }

// Save validates that fh holds an image and writes it below dir. The
// returned name is unique: an existing file of the same name gets a
// short random suffix. Invalid images are reported as a validation error
// on field.
func (s *Storage) Save(field, dir string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 || !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "", apperr.Invalid(field, msgInvalidImage)
	}

	base := validFilename(fh.Filename)
	if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(dir)), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	return s.create(dir, base, io.MultiReader(bytes.NewReader(head[:n]), src))
}

// create writes r to a new file named base below dir, adding a suffix when
// the name is taken. A failed write leaves no file behind.
func (s *Storage) create(dir, base string, r io.Reader) (string, error) {
	name := path.Join(dir, base)
	dst, err := os.OpenFile(s.fsPath(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		ext := path.Ext(base)
		name = path.Join(dir, strings.TrimSuffix(base, ext)+"_"+utilities.ShortSuffix(7)+ext)
		dst, err = os.OpenFile(s.fsPath(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}

	_, err = io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(s.fsPath(name))
		return "", fmt.Errorf("write media file: %w", err)
	}
	return name, nil
}

// Delete removes a stored file; a missing file is not an error.
func (s *Storage) Delete(name string) error {
	if name == "" {
		return nil
	}
	if err := os.Remove(s.fsPath(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL returns the public path of a stored name, or "" for no file.
func (s *Storage) URL(name string) string {
	if name == "" {
		return ""
	}
	if isAbsoluteURL(name) {
		return name
	}
	return s.prefix + strings.TrimPrefix(name, "/")
}

// AbsoluteURL returns URL(name) qualified with r's scheme and host. Without
// a request it falls back to URL(name).
func (s *Storage) AbsoluteURL(r *http.Request, name string) string {
	u := s.URL(name)
	if u == "" || r == nil || isAbsoluteURL(u) {
		return u
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + u
}

// NullableURL is AbsoluteURL for image fields that serialize as null when
// empty.
func (s *Storage) NullableURL(r *http.Request, name *string) *string {
	if name == nil || *name == "" {
		return nil
	}
	u := s.AbsoluteURL(r, *name)
	return &u
}

// Handler serves stored files below Prefix. Directories are not listed.
func (s *Storage) Handler() http.Handler {
	return http.StripPrefix(s.prefix, http.FileServer(filesOnly{http.Dir(s.root)}))
}

// filesOnly hides directories so the file server answers 404 for them.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}

func (s *Storage) fsPath(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

func isAbsoluteURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

var unsafeChars = regexp.MustCompile(`[^-\w.]`)

// validFilename keeps letters, digits, '-', '_' and '.' from the client name.
func validFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "upload"
	}
	return name
}
