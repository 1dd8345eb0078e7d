// Package cvupload stores an instructor's CV in object storage and records
// where it went on the instructor.
package cvupload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"time"

	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// MaxSize is the largest accepted CV, in bytes.
	MaxSize = 5 * 1024 * 1024
	// ContentType is the only accepted media type.
	ContentType = "application/pdf"
)

var (
	ErrNotFound       = errors.New("instructor not found")
	ErrTooLarge       = fmt.Errorf("file exceeds %d bytes", MaxSize)
	ErrBadContentType = errors.New("only application/pdf files are accepted")
	ErrEmpty          = errors.New("file is empty")
)

// Result is where the CV was stored.
type Result struct {
	Path string `json:"cv_storage_path"`
	URL  string `json:"cv_url"`
}

type Service struct {
	store       storage.Store
	instructors *instructorstore.Store
	audit       *auditlog.Logger
	log         *zap.Logger

	// URLExpiry is the lifetime of presigned CV links on backends that
	// support them. Zero means the storage default.
	URLExpiry time.Duration
}

func New(store storage.Store, instructors *instructorstore.Store, audit *auditlog.Logger, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, instructors: instructors, audit: audit, log: log}
}

// URL returns a link to the stored CV. S3 hands out a presigned URL; local
// and memory backends fall back to their public URL.
func (s *Service) URL(ctx context.Context, key string) (string, error) {
	url, err := s.store.PresignedURL(ctx, key, &storage.PresignOptions{
		Expires:     s.URLExpiry,
		ContentType: ContentType,
	})
	if errors.Is(err, storage.ErrPresignNotSupported) {
		return s.store.URL(key), nil
	}
	return url, err
}

// Key is the storage key of an instructor's CV.
func Key(instructorID primitive.ObjectID) string {
	return "instructors/" + instructorID.Hex() + "/cv.pdf"
}

// CheckContentType accepts application/pdf with or without parameters.
func CheckContentType(ct string) error {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil || mt != ContentType {
		return ErrBadContentType
	}
	return nil
}

// Upload validates and stores a CV, then points the instructor at it. size is
// the declared length, or -1 when unknown; the body is checked either way.
func (s *Service) Upload(ctx context.Context, instructorID primitive.ObjectID, r io.Reader, size int64, contentType string) (Result, error) {
	if err := CheckContentType(contentType); err != nil {
		return Result{}, err
	}
	if size > MaxSize {
		return Result{}, ErrTooLarge
	}
	if _, err := s.instructors.GetByID(ctx, instructorID); err != nil {
		if errors.Is(err, instructorstore.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxSize {
		return Result{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Result{}, ErrEmpty
	}

	key := Key(instructorID)
	upCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Upload(), s.log, "cv upload")
	defer cancel()
	opts := &storage.PutOptions{
		ContentType:        ContentType,
		ContentDisposition: `inline; filename="cv.pdf"`,
	}
	if err := s.store.Put(upCtx, key, bytes.NewReader(data), opts); err != nil {
		return Result{}, fmt.Errorf("store cv: %w", err)
	}
	url, err := s.URL(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("cv url: %w", err)
	}

	if err := s.instructors.SetCV(ctx, instructorID, key, url); err != nil {
		if errors.Is(err, instructorstore.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, fmt.Errorf("record cv: %w", err)
	}
	s.audit.CVUploaded(ctx, instructorID, key)
	s.log.Info("instructor cv uploaded",
		zap.String("instructor_id", instructorID.Hex()),
		zap.String("path", key),
		zap.Int("bytes", len(data)))
	return Result{Path: key, URL: url}, nil
}
