package service_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/shipdocs/pkg/internal/model"
	"github.com/yeisme/shipdocs/pkg/internal/types"
)

var errBoom = errors.New("boom")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

type storedBlob struct {
	body        []byte
	contentType string
	metadata    map[string]string
	encrypted   bool
	disposition string
}

type grant struct {
	key       string
	expiresAt time.Time
	presign   types.BlobPresign
}

// fetched 模拟通过预签名链接取回对象时看到的响应.
type fetched struct {
	body               []byte
	contentType        string
	contentDisposition string
	cacheControl       string
}

// fakeBlobs 内存对象存储，预签名链接按注入的时钟过期.
type fakeBlobs struct {
	mu     sync.Mutex
	clock  *fakeClock
	blobs  map[string]storedBlob
	grants map[string]grant
	seq    int

	putErr     error
	presignErr error
	deleteErr  error
	existsErr  error
	afterPut   func()
}

func newFakeBlobs(clock *fakeClock) *fakeBlobs {
	return &fakeBlobs{clock: clock, blobs: map[string]storedBlob{}, grants: map[string]grant{}}
}

func (f *fakeBlobs) Put(_ context.Context, in types.BlobPut) error {
	if f.putErr != nil {
		return f.putErr
	}

	f.mu.Lock()
	f.blobs[in.Key] = storedBlob{
		body:        slices.Clone(in.Body),
		contentType: in.ContentType,
		metadata:    in.Metadata,
		encrypted:   in.Encrypt,
		disposition: in.ContentDisposition,
	}
	f.mu.Unlock()

	if f.afterPut != nil {
		f.afterPut()
	}

	return nil
}

func (f *fakeBlobs) Presign(_ context.Context, in types.BlobPresign) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	url := fmt.Sprintf("https://s3.test/bucket/%s?X-Amz-Signature=%d", in.Key, f.seq)
	f.grants[url] = grant{key: in.Key, expiresAt: f.clock.Now().Add(in.TTL), presign: in}

	return url, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.blobs, key)

	return nil
}

func (f *fakeBlobs) ListKeys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string

	for k := range f.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	slices.Sort(keys)

	return keys, nil
}

func (f *fakeBlobs) Exists(_ context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}

	return f.has(key), nil
}

// Fetch 使用预签名链接读取对象.
func (f *fakeBlobs) Fetch(url string) (fetched, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.grants[url]
	if !ok {
		return fetched{}, errors.New("signature does not match")
	}

	if !f.clock.Now().Before(g.expiresAt) {
		return fetched{}, errors.New("request has expired")
	}

	b, ok := f.blobs[g.key]
	if !ok {
		return fetched{}, errors.New("no such key")
	}

	return fetched{
		body:               b.body,
		contentType:        g.presign.ResponseContentType,
		contentDisposition: g.presign.ResponseContentDisposition,
		cacheControl:       g.presign.ResponseCacheControl,
	}, nil
}

func (f *fakeBlobs) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.blobs[key]

	return ok
}

func (f *fakeBlobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.blobs)
}

// fakeMeta 内存元数据存储，槽位唯一.
type fakeMeta struct {
	mu     sync.Mutex
	clock  *fakeClock
	rows   map[uint]model.Document
	nextID uint

	upsertErr error
	deleteErr error
	findErr   error
}

func newFakeMeta(clock *fakeClock) *fakeMeta {
	return &fakeMeta{clock: clock, rows: map[uint]model.Document{}}
}

func (f *fakeMeta) FindByID(_ context.Context, id uint) (*model.Document, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	return &d, nil
}

func (f *fakeMeta) FindBySlot(_ context.Context, jobID uint, docType string) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.rows {
		if d.JobID == jobID && d.DocType == docType {
			return &d, nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMeta) UpsertBySlot(_ context.Context, doc *model.Document) (*model.Document, string, error) {
	if f.upsertErr != nil {
		return nil, "", f.upsertErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()

	for id, d := range f.rows {
		if d.JobID == doc.JobID && d.DocType == doc.DocType {
			prev := d.StorageKey
			d.StorageKey = doc.StorageKey
			d.OriginalName = doc.OriginalName
			d.MimeType = doc.MimeType
			d.SizeBytes = doc.SizeBytes
			d.UploadedBy = doc.UploadedBy
			d.UpdatedAt = now
			f.rows[id] = d

			return &d, prev, nil
		}
	}

	f.nextID++
	row := *doc
	row.ID = f.nextID
	row.CreatedAt = now
	row.UpdatedAt = now
	f.rows[row.ID] = row

	return &row, "", nil
}

func (f *fakeMeta) Delete(_ context.Context, id uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.rows, id)

	return nil
}

func (f *fakeMeta) ListByJob(_ context.Context, jobID uint) ([]model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var docs []model.Document

	for _, d := range f.rows {
		if d.JobID == jobID {
			docs = append(docs, d)
		}
	}

	slices.SortFunc(docs, func(a, b model.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return int(b.ID) - int(a.ID)
	})

	return docs, nil
}

func (f *fakeMeta) StorageKeys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.rows))
	for _, d := range f.rows {
		keys = append(keys, d.StorageKey)
	}

	return keys, nil
}

func (f *fakeMeta) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.rows)
}

type fakeJobs struct {
	mu   sync.Mutex
	jobs map[uint]bool
	err  error
}

func newFakeJobs(ids ...uint) *fakeJobs {
	j := &fakeJobs{jobs: map[uint]bool{}}
	for _, id := range ids {
		j.jobs[id] = true
	}

	return j
}

func (f *fakeJobs) JobExists(_ context.Context, jobID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.jobs[jobID], nil
}

func (f *fakeJobs) remove(id uint) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.jobs, id)
}
