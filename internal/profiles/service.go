package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/thihanaing/minpos-backend/pkg/db/models"
	"github.com/thihanaing/minpos-backend/pkg/enums"
	pkgerrors "github.com/thihanaing/minpos-backend/pkg/errors"
	"github.com/thihanaing/minpos-backend/pkg/outbox"
	"github.com/thihanaing/minpos-backend/pkg/outbox/payloads"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type profileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error)
	SaveWithTx(tx *gorm.DB, profile *models.MerchantProfile) error
}

type photoUploader interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes merchant profile operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateProfileDTO) (*ProfileDTO, error)
	UploadPhoto(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (*ProfileDTO, error)
}

type service struct {
	tx       txRunner
	repo     profileRepository
	uploader photoUploader
	outbox   outboxPublisher
}

// NewService builds the profile service. The uploader may be nil, in which
// case photo uploads are rejected.
func NewService(tx txRunner, repo profileRepository, uploader photoUploader, publisher outboxPublisher) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{tx: tx, repo: repo, uploader: uploader, outbox: publisher}, nil
}

// Get returns the stored profile, or an empty profile when none exists yet.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ProfileDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileDTO) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	profile, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.ShopName != nil {
		name := strings.TrimSpace(*input.ShopName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name cannot be blank")
		}
		profile.ShopName = name
	}
	if input.Address != nil {
		profile.Address = strings.TrimSpace(*input.Address)
	}
	if input.Salesperson != nil {
		profile.Salesperson = strings.TrimSpace(*input.Salesperson)
	}

	if err := s.persist(ctx, userID, profile); err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

// UploadPhoto stores the shop photo in the blob bucket and records its
// public URL on the profile.
func (s *service) UploadPhoto(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if s.uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "photo storage is not configured")
	}
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename required")
	}
	if body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "photo body required")
	}

	object := fmt.Sprintf("profiles/%s/%s", userID, filename)
	url, err := s.uploader.Upload(ctx, object, contentType, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload photo")
	}

	profile, err := s.loadOrInit(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.PhotoURL = &url

	if err := s.persist(ctx, userID, profile); err != nil {
		return nil, err
	}
	return FromModel(profile), nil
}

func (s *service) loadOrInit(ctx context.Context, userID uuid.UUID) (*models.MerchantProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.MerchantProfile{ID: uuid.New(), UserID: userID}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func (s *service) persist(ctx context.Context, userID uuid.UUID, profile *models.MerchantProfile) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.SaveWithTx(tx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventProfileUpdated,
			AggregateType: enums.AggregateProfile,
			AggregateID:   userID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.ProfileUpdatedEvent{
				UserID:   userID,
				ShopName: profile.ShopName,
				PhotoSet: profile.PhotoURL != nil,
			},
		})
	})
}
