package media

import "mime/multipart"

// Upload is the requested change to one image field: a new file, a clear,
// or (zero value) no change.
type Upload struct {
	File  *multipart.FileHeader
	Clear bool
}

// Apply stores u.File below dir when present and returns the value the
// image field should hold afterwards.
func (s *Storage) Apply(field, dir string, current *string, u Upload) (*string, error) {
	switch {
	case u.File != nil:
		name, err := s.Save(field, dir, u.File)
		if err != nil {
			return nil, err
		}
		return &name, nil
	case u.Clear:
		return nil, nil
	default:
		return current, nil
	}
}

// Replaced removes old once a row no longer references it. Errors are
// returned for logging only.
func (s *Storage) Replaced(old, current *string) error {
	if old == nil || *old == "" {
		return nil
	}
	if current != nil && *current == *old {
		return nil
	}
	return s.Delete(*old)
}
