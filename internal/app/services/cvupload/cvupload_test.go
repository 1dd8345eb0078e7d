package cvupload_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/programhub/internal/app/services/cvupload"
	"github.com/dalemusser/programhub/internal/app/store/audit"
	instructorstore "github.com/dalemusser/programhub/internal/app/store/instructors"
	"github.com/dalemusser/programhub/internal/app/system/auditlog"
	"github.com/dalemusser/programhub/internal/app/system/docstore"
	"github.com/dalemusser/programhub/internal/domain/models"
	"github.com/dalemusser/programhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fixture struct {
	svc         *cvupload.Service
	objects     *storage.Memory
	instructors *instructorstore.Store
	audit       *audit.Store
}

func newFixture() fixture {
	mem := docstore.NewMemory()
	objects := storage.NewMemory(storage.MemoryConfig{BaseURL: "https://files.test"})
	instructors := instructorstore.New(mem)
	auditStore := audit.New(mem)
	logger := auditlog.New(auditStore, zap.NewNop(), auditlog.Config{Admin: "db"})
	return fixture{
		svc:         cvupload.New(objects, instructors, logger, zap.NewNop()),
		objects:     objects,
		instructors: instructors,
		audit:       auditStore,
	}
}

func TestUpload_StoresAndRecords(t *testing.T) {
	f := newFixture()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in, _ := f.instructors.Create(ctx, models.Instructor{FullName: "Ada"})
	data := []byte("%PDF-1.7 cv")

	res, err := f.svc.Upload(ctx, in.ID, bytes.NewReader(data), int64(len(data)), "application/pdf")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	wantKey := "instructors/" + in.ID.Hex() + "/cv.pdf"
	if res.Path != wantKey || res.URL != "https://files.test/"+wantKey {
		t.Errorf("unexpected result: %+v", res)
	}

	stored, err := f.objects.GetBytes(ctx, wantKey)
	if err != nil || !bytes.Equal(stored, data) {
		t.Errorf("stored object = %q, %v", stored, err)
	}
	info, err := f.objects.Head(ctx, wantKey)
	if err != nil || info.ContentType != "application/pdf" {
		t.Errorf("stored object info = %+v, %v", info, err)
	}
	got, _ := f.instructors.GetByID(ctx, in.ID)
	if got.CVStoragePath != wantKey || got.CVURL != res.URL {
		t.Errorf("instructor CV fields = %q, %q", got.CVStoragePath, got.CVURL)
	}

	events, _ := f.audit.GetByEntity(ctx, in.ID, 10)
	if len(events) != 1 || events[0].EventType != audit.EventCVUploaded {
		t.Errorf("expected cv_uploaded audit event, got %+v", events)
	}
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	in, _ := f.instructors.Create(ctx, models.Instructor{FullName: "Ada"})

	big := bytes.Repeat([]byte("x"), cvupload.MaxSize+1)
	tests := []struct {
		name        string
		id          primitive.ObjectID
		body        []byte
		size        int64
		contentType string
		want        error
	}{
		{"wrong type", in.ID, []byte("hi"), 2, "image/png", cvupload.ErrBadContentType},
		{"garbage type", in.ID, []byte("hi"), 2, ";;", cvupload.ErrBadContentType},
		{"declared too large", in.ID, []byte("hi"), cvupload.MaxSize + 1, "application/pdf", cvupload.ErrTooLarge},
		{"body too large", in.ID, big, -1, "application/pdf", cvupload.ErrTooLarge},
		{"empty", in.ID, nil, 0, "application/pdf", cvupload.ErrEmpty},
		{"missing instructor", primitive.NewObjectID(), []byte("%PDF"), 4, "application/pdf", cvupload.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Upload(ctx, tt.id, bytes.NewReader(tt.body), tt.size, tt.contentType)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if _, err := f.objects.GetBytes(ctx, cvupload.Key(in.ID)); !errors.Is(err, storage.ErrNotFound) {
		t.Error("rejected uploads must not store anything")
	}
}

func TestUpload_ExactLimitAccepted(t *testing.T) {
	f := newFixture()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	in, _ := f.instructors.Create(ctx, models.Instructor{FullName: "Ada"})

	body := strings.Repeat("x", cvupload.MaxSize)
	if _, err := f.svc.Upload(ctx, in.ID, strings.NewReader(body), int64(len(body)), "application/pdf; charset=binary"); err != nil {
		t.Errorf("expected a file of exactly MaxSize to be accepted, got %v", err)
	}
}
