// Package api exposes the tracker over a JSON REST surface: subject CRUD
// and review, the notification relay endpoints, and cloud sync.
package api

import (
	"time"

	"github.com/lmendes/studytrack/internal/cloud"
	"github.com/lmendes/studytrack/internal/db"
	"github.com/lmendes/studytrack/internal/repository"
	"github.com/lmendes/studytrack/internal/services"
)

type Server struct {
	Subjects      services.SubjectService
	Notifications services.NotificationService
	CloudSync     services.CloudSyncService
	Contacts      repository.ContactRepository
	DB            *db.DB
	Mirror        cloud.MirrorStore // nil in local mode
	PolicyName    string

	startedAt time.Time
}

func NewServer(
	subjects services.SubjectService,
	notifications services.NotificationService,
	cloudSync services.CloudSyncService,
	contacts repository.ContactRepository,
	database *db.DB,
	mirror cloud.MirrorStore,
	policyName string,
) *Server {
	return &Server{
		Subjects:      subjects,
		Notifications: notifications,
		CloudSync:     cloudSync,
		Contacts:      contacts,
		DB:            database,
		Mirror:        mirror,
		PolicyName:    policyName,
		startedAt:     time.Now(),
	}
}
