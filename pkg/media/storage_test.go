package media

import (
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/media/mediatest"
)

func TestSaveAndDedupe(t *testing.T) {
	root := t.TempDir()
	s := NewStorage(Config{Root: root, URL: "/media"})

	name, err := s.Save("v_photo", "victims/new", mediatest.FileHeader(t, "v_photo", "my photo.png", mediatest.PNG))
	require.NoError(t, err)
	assert.Equal(t, "victims/new/my_photo.png", name)
	_, err = os.Stat(filepath.Join(root, "victims", "new", "my_photo.png"))
	require.NoError(t, err)

	second, err := s.Save("v_photo", "victims/new", mediatest.FileHeader(t, "v_photo", "my photo.png", mediatest.PNG))
	require.NoError(t, err)
	assert.NotEqual(t, name, second)
	assert.True(t, strings.HasPrefix(second, "victims/new/my_photo_"))
	assert.True(t, strings.HasSuffix(second, ".png"))

	require.NoError(t, s.Delete(second))
	require.NoError(t, s.Delete(second))
}

func TestSaveRejectsNonImage(t *testing.T) {
	s := NewStorage(Config{Root: t.TempDir()})
	_, err := s.Save("s_photo", "suspects/new", mediatest.FileHeader(t, "s_photo", "notes.txt", []byte("hello world")))
	require.Error(t, err)
	v, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, v.Fields["s_photo"][0], "Upload a valid image")
}

func TestURLs(t *testing.T) {
	s := NewStorage(Config{Root: t.TempDir(), URL: "/media/"})
	assert.Equal(t, "", s.URL(""))
	assert.Equal(t, "/media/victims/1/a.png", s.URL("victims/1/a.png"))
	assert.Equal(t, "/media/victims/1/a.png", s.AbsoluteURL(nil, "victims/1/a.png"))

	r := httptest.NewRequest(http.MethodGet, "http://records.local:8431/api/crimes/1/", nil)
	assert.Equal(t, "http://records.local:8431/media/victims/1/a.png", s.AbsoluteURL(r, "victims/1/a.png"))
	r.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://records.local:8431/media/victims/1/a.png", s.AbsoluteURL(r, "victims/1/a.png"))
	assert.Equal(t, "https://cdn.example/x.png", s.AbsoluteURL(r, "https://cdn.example/x.png"))

	assert.Nil(t, s.NullableURL(r, nil))
	empty := ""
	assert.Nil(t, s.NullableURL(r, &empty))
}

func TestHandlerServesFiles(t *testing.T) {
	root := t.TempDir()
	s := NewStorage(Config{Root: root})
	name, err := s.Save("id_image", "ids", mediatest.FileHeader(t, "id_image", "id.png", mediatest.PNG))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, s.URL(name), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mediatest.PNG, rec.Body.Bytes())
}

func TestHandlerHidesDirectories(t *testing.T) {
	s := NewStorage(Config{Root: t.TempDir()})
	_, err := s.Save("id_image", "ids", mediatest.FileHeader(t, "id_image", "id.png", mediatest.PNG))
	require.NoError(t, err)

	for _, target := range []string{"/media/", "/media/ids/", "/media/ids"} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "id.png", target)
	}
}

func TestCreateRemovesPartialFile(t *testing.T) {
	root := t.TempDir()
	s := NewStorage(Config{Root: root})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ids"), 0o755))

	boom := errors.New("connection reset")
	_, err := s.create("ids", "id.png", io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(boom)))
	require.ErrorIs(t, err, boom)

	_, err = os.Stat(filepath.Join(root, "ids", "id.png"))
	assert.True(t, os.IsNotExist(err))

	name, err := s.create("ids", "id.png", strings.NewReader("whole"))
	require.NoError(t, err)
	assert.Equal(t, "ids/id.png", name)
}

func TestValidFilename(t *testing.T) {
	assert.Equal(t, "evil.png", validFilename("../../evil.png"))
	assert.Equal(t, "a_b.jpg", validFilename(`C:\Users\x\a b.jpg`))
	assert.Equal(t, "upload", validFilename("..."))
}
