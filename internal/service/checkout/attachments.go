package checkout

import (
	"fmt"
	"strings"

	"corporate-checkout/internal/apperr"
	"corporate-checkout/internal/domain"
)

// Attachment bounds.
const (
	MaxAttachments     = 5
	MaxAttachmentBytes = 10 << 20
)

// AddAttachment records attachment metadata on the request.
func (s *Session) AddAttachment(name string, sizeBytes int64, kind domain.AttachmentKind) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return domain.Snapshot{}, s.reject("add_attachment", err)
	}
	name = strings.TrimSpace(name)
	if err := s.checkAttachmentLocked(name, sizeBytes, kind); err != nil {
		return domain.Snapshot{}, s.reject("add_attachment", err)
	}

	req := s.req.Clone()
	req.Attachments = append(req.Attachments, domain.Attachment{
		Name:      name,
		SizeBytes: sizeBytes,
		Kind:      kind,
		AddedAt:   s.engine.Now(),
	})
	s.req = req
	return s.evaluatedLocked(), nil
}

func (s *Session) checkAttachmentLocked(name string, sizeBytes int64, kind domain.AttachmentKind) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: attachment name is required", apperr.ErrInvalid)
	case sizeBytes < 0:
		return fmt.Errorf("%w: attachment size must not be negative", apperr.ErrInvalid)
	case !kind.Valid():
		return fmt.Errorf("%w: %q", ErrAttachmentKind, kind)
	case sizeBytes > MaxAttachmentBytes:
		return fmt.Errorf("%w: %d bytes", ErrAttachmentTooLarge, sizeBytes)
	case len(s.req.Attachments) >= MaxAttachments:
		return ErrAttachmentLimit
	}
	for _, a := range s.req.Attachments {
		if a.Name == name {
			return fmt.Errorf("%w: %q", ErrAttachmentDuplicate, name)
		}
	}
	return nil
}

// RemoveAttachment deletes an attachment by name.
func (s *Session) RemoveAttachment(name string) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		return domain.Snapshot{}, s.reject("remove_attachment", err)
	}
	name = strings.TrimSpace(name)
	req := s.req.Clone()
	for i, a := range req.Attachments {
		if a.Name == name {
			req.Attachments = append(req.Attachments[:i], req.Attachments[i+1:]...)
			s.req = req
			return s.evaluatedLocked(), nil
		}
	}
	return domain.Snapshot{}, s.reject("remove_attachment", fmt.Errorf("%w: attachment %q", apperr.ErrNotFound, name))
}
