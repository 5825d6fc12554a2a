package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
)

// Accept selects which request encodings a handler takes.
type Accept int

const (
	AcceptJSON Accept = 1 << iota
	AcceptForm        // multipart/form-data and application/x-www-form-urlencoded
)

// DefaultMaxMemory bounds the in-memory part of multipart parsing; larger
// file parts spill to temporary files.
const DefaultMaxMemory = 10 << 20

// Payload is a decoded request body flattened to text values and files.
// JSON scalars are rendered as text (true/false, numbers as written, null
// as the empty string) so one binding path serves every encoding.
type Payload struct {
	values map[string]string
	nulls  map[string]bool
	files  map[string]*multipart.FileHeader
}

// NewPayload builds a Payload from text values, mainly for tests and CLIs.
func NewPayload(values map[string]string) *Payload {
	p := &Payload{values: map[string]string{}, nulls: map[string]bool{}, files: map[string]*multipart.FileHeader{}}
	for k, v := range values {
		p.values[k] = v
	}
	return p
}

// Has reports whether name was sent, as text or as a file.
func (p *Payload) Has(name string) bool {
	if _, ok := p.values[name]; ok {
		return true
	}
	_, ok := p.files[name]
	return ok
}

// HasText reports whether name was sent as a text value.
func (p *Payload) HasText(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Get returns the text value of name ("" when absent).
func (p *Payload) Get(name string) string { return p.values[name] }

// IsNull reports whether name was sent as JSON null.
func (p *Payload) IsNull(name string) bool { return p.nulls[name] }

// File returns the uploaded file for name, or nil.
func (p *Payload) File(name string) *multipart.FileHeader { return p.files[name] }

// ParsePayload decodes r according to its Content-Type. A missing
// Content-Type is treated as an empty form.
func ParsePayload(r *http.Request, maxMemory int64, accept Accept) (*Payload, error) {
	p := NewPayload(nil)
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return p, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, unsupported(ct)
	}
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	switch {
	case mt == "application/json" && accept&AcceptJSON != 0:
		return p, p.decodeJSON(r.Body)
	case mt == "multipart/form-data" && accept&AcceptForm != 0:
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, bodyError(err)
		}
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				p.values[k] = vs[len(vs)-1]
			}
		}
		for k, fs := range r.MultipartForm.File {
			if len(fs) > 0 {
				p.files[k] = fs[0]
			}
		}
		return p, nil
	case mt == "application/x-www-form-urlencoded" && accept&AcceptForm != 0:
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				p.values[k] = vs[len(vs)-1]
			}
		}
		return p, nil
	default:
		return nil, unsupported(mt)
	}
}

func (p *Payload) decodeJSON(body io.Reader) error {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return &apperr.Detailed{Kind: ErrMalformedBody, Detail: "JSON parse error - " + err.Error()}
	}
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
			p.values[k] = ""
			p.nulls[k] = true
		case string:
			p.values[k] = t
		case bool:
			p.values[k] = strconv.FormatBool(t)
		case json.Number:
			p.values[k] = t.String()
		default:
			b, _ := json.Marshal(t)
			p.values[k] = string(b)
		}
	}
	return nil
}

func unsupported(ct string) error {
	return &apperr.Detailed{Kind: ErrUnsupportedMediaType, Detail: fmt.Sprintf("Unsupported media type %q in request.", ct)}
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrBodyTooLarge
	}
	return &apperr.Detailed{Kind: ErrMalformedBody, Detail: "Multipart form parse error - " + err.Error()}
}
