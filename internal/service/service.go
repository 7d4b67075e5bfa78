// Package service is the application state object shared by the HTTP API,
// the Telegram bot and the CLI.
package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Spok95/qc-tracker/internal/catalog"
	"github.com/Spok95/qc-tracker/internal/models"
	"github.com/Spok95/qc-tracker/internal/repository"
	"github.com/Spok95/qc-tracker/internal/store"
)

// Notifier is told about record changes that concern an agent.
type Notifier interface {
	RecordSaved(ctx context.Context, rec models.QCRecord, kind string)
	RecordDeleted(ctx context.Context, rec models.QCRecord)
}

type nopNotifier struct{}

func (nopNotifier) RecordSaved(context.Context, models.QCRecord, string) {}
func (nopNotifier) RecordDeleted(context.Context, models.QCRecord)       {}

type Config struct {
	Location   *time.Location
	SessionTTL time.Duration
}

type Service struct {
	Catalog    *catalog.Catalog
	Users      *repository.Users
	Records    *repository.Records
	Production *repository.Production
	Sessions   *repository.Sessions

	kv       store.KV
	log      *zap.Logger
	loc      *time.Location
	ttl      time.Duration
	notifier Notifier

	now   func() time.Time
	newID func() string

	randMu sync.Mutex
	rng    *rand.Rand
}

func New(kv store.KV, cat *catalog.Catalog, log *zap.Logger, cfg Config) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	locks := store.NewKeyLocks()
	return &Service{
		Catalog:    cat,
		Users:      repository.NewUsers(kv, locks, cat.InitialUsers),
		Records:    repository.NewRecords(kv, locks),
		Production: repository.NewProduction(kv, locks),
		Sessions:   repository.NewSessions(kv),
		kv:         kv,
		log:        log,
		loc:        cfg.Location,
		ttl:        cfg.SessionTTL,
		notifier:   nopNotifier{},
		now:        time.Now,
		newID:      uuid.NewString,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
	}
}

// SetNotifier installs n; nil restores the no-op notifier.
func (s *Service) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

// Now is the service clock in the configured location.
func (s *Service) Now() time.Time { return s.now().In(s.loc) }

// Today is the local calendar date used by every same-day rule.
func (s *Service) Today() string { return s.Now().Format(models.DateLayout) }

func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) Ping(ctx context.Context) error { return s.kv.Ping(ctx) }

func (s *Service) nowMillis() int64 { return s.now().UnixMilli() }
