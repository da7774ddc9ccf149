package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/lmendes/studytrack/internal/cloud"
	"github.com/lmendes/studytrack/internal/errors"
	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/repository"
)

// CloudSyncService mirrors the whole local collection to the cloud store,
// keyed by email. Sync is replace-not-merge in both directions.
type CloudSyncService interface {
	SyncToCloud(ctx context.Context, email string) (int, error)
	LoadFromCloud(ctx context.Context, email string) (*cloud.Snapshot, error)
	DeleteFromCloud(ctx context.Context, email string) error
}

type cloudSyncService struct {
	mirror   cloud.MirrorStore
	subjects SubjectService
	contacts repository.ContactRepository
}

// NewCloudSyncService creates a new CloudSyncService. mirror may be nil when
// no cloud store is configured; every operation then reports local mode.
func NewCloudSyncService(mirror cloud.MirrorStore, subjects SubjectService, contacts repository.ContactRepository) CloudSyncService {
	return &cloudSyncService{mirror: mirror, subjects: subjects, contacts: contacts}
}

func (s *cloudSyncService) localModeErr() error {
	return errors.NewUnavailableError("cloud sync not configured, running in local mode")
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.NewValidationError("email", "must not be empty")
	}
	return email, nil
}

func (s *cloudSyncService) SyncToCloud(ctx context.Context, email string) (int, error) {
	log := logger.FromContext(ctx)

	if s.mirror == nil {
		return 0, s.localModeErr()
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return 0, err
	}

	subjects, err := s.subjects.Export(ctx)
	if err != nil {
		return 0, err
	}

	snapshot := cloud.Snapshot{Email: email, Subjects: subjects}
	contact, err := s.contacts.Get(ctx)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if contact != nil {
		snapshot.Contact = *contact
	}

	if err := s.mirror.Put(ctx, snapshot); err != nil {
		log.Error("cloud sync failed: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return len(subjects), nil
}

// LoadFromCloud fetches the snapshot for email and replaces the local
// collection (and stored contact, when present) with it.
func (s *cloudSyncService) LoadFromCloud(ctx context.Context, email string) (*cloud.Snapshot, error) {
	log := logger.FromContext(ctx)

	if s.mirror == nil {
		return nil, s.localModeErr()
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.mirror.Fetch(ctx, email)
	if stderrors.Is(err, cloud.ErrNotFound) {
		return nil, errors.NewNotFoundError("cloud data", email)
	}
	if err != nil {
		log.Error("cloud load failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if _, err := s.subjects.Import(ctx, snapshot.Subjects, time.Now().UTC()); err != nil {
		return nil, err
	}
	if snapshot.Contact.Email != "" && snapshot.Contact.Phone != "" {
		if err := s.contacts.Save(ctx, snapshot.Contact); err != nil {
			log.Warn("failed to restore contact from cloud: %v", err)
		}
	}

	log.Info("restored %d subjects from cloud for %s", len(snapshot.Subjects), email)
	return snapshot, nil
}

func (s *cloudSyncService) DeleteFromCloud(ctx context.Context, email string) error {
	if s.mirror == nil {
		return s.localModeErr()
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	if err := s.mirror.Delete(ctx, email); err != nil {
		if stderrors.Is(err, cloud.ErrNotFound) {
			return errors.NewNotFoundError("cloud data", email)
		}
		return errors.NewInternalError(err)
	}
	return nil
}
