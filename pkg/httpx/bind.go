package httpx

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ovaphlow/pitchfork/service-records-go/pkg/apperr"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/civil"
	"github.com/ovaphlow/pitchfork/service-records-go/pkg/validation"
)

const (
	msgRequired = "This field is required."
	msgNull     = "This field may not be null."
)

// Binder copies payload values onto destination fields, validating as it
// goes. Absent fields are left untouched, which gives PATCH its partial
// semantics; with partial=false required fields must be present.
type Binder struct {
	p       *Payload
	partial bool
	errs    apperr.ValidationError
}

func NewBinder(p *Payload, partial bool) *Binder {
	return &Binder{p: p, partial: partial}
}

// Payload exposes the underlying payload.
func (b *Binder) Payload() *Payload { return b.p }

// Partial reports whether absent required fields are tolerated.
func (b *Binder) Partial() bool { return b.partial }

// Err returns the collected validation errors, if any.
func (b *Binder) Err() error { return b.errs.Err() }

// Text binds an optional text field of at most max characters (0 = no limit).
func (b *Binder) Text(name string, dst *string, max int) {
	if !b.p.HasText(name) {
		return
	}
	v := strings.TrimSpace(b.p.Get(name))
	if b.checkLen(name, v, max) {
		*dst = v
	}
}

// RequiredText binds a text field that must be present and non-blank.
func (b *Binder) RequiredText(name string, dst *string, max int) {
	if !b.p.HasText(name) {
		if !b.partial {
			b.errs.Add(name, msgRequired)
		}
		return
	}
	v := strings.TrimSpace(b.p.Get(name))
	if v == "" && b.p.IsNull(name) {
		b.errs.Add(name, msgNull)
		return
	}
	if b.check(name, v, validation.Tags("required", validation.Max(max))) {
		*dst = v
	}
}

// Password binds a required secret as sent, without trimming.
func (b *Binder) Password(name string, dst *string) {
	if !b.p.HasText(name) {
		if !b.partial {
			b.errs.Add(name, msgRequired)
		}
		return
	}
	v := b.p.Get(name)
	if b.check(name, v, "required") {
		*dst = v
	}
}

// NullableText binds a text field where blank or null stores NULL.
func (b *Binder) NullableText(name string, dst **string, max int) {
	if !b.p.HasText(name) {
		return
	}
	v := strings.TrimSpace(b.p.Get(name))
	if v == "" {
		*dst = nil
		return
	}
	if b.checkLen(name, v, max) {
		*dst = &v
	}
}

// Choice binds a field restricted to choices. allowBlank admits "".
func (b *Binder) Choice(name string, dst *string, choices []string, allowBlank bool) {
	if !b.p.HasText(name) {
		return
	}
	v := strings.TrimSpace(b.p.Get(name))
	if v == "" {
		if b.check(name, v, validation.Tags(requiredUnless(allowBlank))) {
			*dst = ""
		}
		return
	}
	if b.check(name, v, validation.OneOf(choices)) {
		*dst = v
	}
}

func requiredUnless(allowBlank bool) string {
	if allowBlank {
		return ""
	}
	return "required"
}

// Date binds a nullable YYYY-MM-DD field.
func (b *Binder) Date(name string, dst **civil.Date) {
	if !b.p.HasText(name) {
		return
	}
	v := strings.TrimSpace(b.p.Get(name))
	if v == "" {
		*dst = nil
		return
	}
	d, err := civil.Parse(v)
	if err != nil {
		b.errs.Add(name, "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		return
	}
	*dst = &d
}

// Bool binds a boolean field accepting the usual form spellings.
func (b *Binder) Bool(name string, dst *bool) {
	if !b.p.HasText(name) {
		return
	}
	v, ok := ParseBool(b.p.Get(name))
	if !ok {
		b.errs.Add(name, "Must be a valid boolean.")
		return
	}
	*dst = v
}

// RequiredInt binds a required positive integer id.
func (b *Binder) RequiredInt(name string, dst *int64) {
	if !b.p.HasText(name) {
		if !b.partial {
			b.errs.Add(name, msgRequired)
		}
		return
	}
	v := strings.TrimSpace(b.p.Get(name))
	if v == "" {
		b.errs.Add(name, msgNull)
		return
	}
	if !b.check(name, v, "number") {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		b.errs.Add(name, validation.MsgPKValue)
		return
	}
	*dst = n
}

func (b *Binder) checkLen(name, v string, max int) bool {
	return b.check(name, v, validation.Max(max))
}

// check runs v through the validator tag, recording failures on name.
func (b *Binder) check(name, v, tag string) bool {
	if tag == "" {
		return true
	}
	return validation.Check(&b.errs, name, v, tag)
}

// ParseBool accepts true/false, 1/0, yes/no, on/off in any case.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "t", "y":
		return true, true
	case "false", "0", "no", "off", "f", "n":
		return false, true
	default:
		return false, false
	}
}

// TextField describes one optional text field for Texts.
type TextField struct {
	Name string
	Dst  *string
	Max  int
}

// Texts binds a list of optional text fields.
func (b *Binder) Texts(fields []TextField) {
	for _, f := range fields {
		b.Text(f.Name, f.Dst, f.Max)
	}
}

// Image inspects an image field. It returns the uploaded file when one was
// sent, or clear=true when the field was sent empty or null, which removes
// the stored image. A non-empty text value is a field error.
func (b *Binder) Image(name string) (fh *multipart.FileHeader, clear bool) {
	if fh = b.p.File(name); fh != nil {
		return fh, false
	}
	if !b.p.HasText(name) {
		return nil, false
	}
	if strings.TrimSpace(b.p.Get(name)) == "" {
		return nil, true
	}
	b.errs.Add(name, "The submitted data was not a file. Check the encoding type on the form.")
	return nil, false
}
