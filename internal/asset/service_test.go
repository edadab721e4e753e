package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/anoixa/tryon-server/database/models"
	"github.com/anoixa/tryon-server/database/repo/assets"
	"github.com/anoixa/tryon-server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeStorage 内存存储实现，记录上传与删除操作
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	puts    int

	// failPutSubstr 非空时，键包含该子串的上传失败
	failPutSubstr string
	failDelete    bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) PutWithContext(ctx context.Context, key string, file io.Reader, size int64, contentType string) (storage.ObjectRef, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return storage.ObjectRef{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPutSubstr != "" && strings.Contains(key, f.failPutSubstr) {
		return storage.ObjectRef{}, errors.New("simulated upload failure")
	}
	f.objects[key] = data
	return storage.ObjectRef{URL: "http://fake.example.com/" + key, Key: key}, nil
}

func (f *fakeStorage) GetWithContext(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) DeleteWithContext(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("simulated delete failure")
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStorage) Health(ctx context.Context) error { return nil }

func (f *fakeStorage) Name() string { return "fake" }

func (f *fakeStorage) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeStorage) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

// makeFileHeader 通过真实的 multipart 编解码构造文件头，保证 Open 可用
func makeFileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	headers := form.File[field]
	require.Len(t, headers, 1)
	return headers[0]
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Garment{}, &models.ImageScan{}))
	require.NoError(t, db.Create(&models.User{Username: "alice", Email: "alice@example.com", Password: "x"}).Error)
	return db
}

func newGarmentService(t *testing.T, store storage.Provider) *Service[models.Garment] {
	t.Helper()
	repo := assets.NewRepository[models.Garment](setupServiceDB(t))
	return NewService(GarmentDefinition(), repo, store, nil, 0, semaphore.NewWeighted(4))
}

func garmentInput(t *testing.T, businessID string) CreateInput {
	t.Helper()
	return CreateInput{
		BusinessID: businessID,
		Fields:     map[string]string{"name": "blue jacket"},
		Files: map[string]*multipart.FileHeader{
			"preview": makeFileHeader(t, "preview", "preview.png", "image/png", []byte("png-bytes")),
			"model":   makeFileHeader(t, "model", "jacket.obj", "application/octet-stream", []byte("obj-bytes")),
		},
	}
}

// TestService_Create_SuppliedID 客户端指定标识符的完整创建流程
func TestService_Create_SuppliedID(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)

	record, err := svc.Create(context.Background(), 1, garmentInput(t, "GRM-TEST-00001"))
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "GRM-TEST-00001", record.GarmentID)
	assert.Equal(t, "blue jacket", record.Name)
	assert.Equal(t, uint(1), record.CreatedBy)
	assert.NotEmpty(t, record.PreviewKey)
	assert.NotEmpty(t, record.ModelKey)
	assert.Contains(t, record.PreviewURL, record.PreviewKey)
	assert.Contains(t, record.ModelURL, record.ModelKey)

	// 两个对象都已落盘，没有任何补偿删除
	assert.Equal(t, 2, store.liveCount())
	assert.Empty(t, store.deleted)
}

// TestService_Create_GeneratedID 未提供标识符时自动分配
func TestService_Create_GeneratedID(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)

	record, err := svc.Create(context.Background(), 1, garmentInput(t, ""))
	require.NoError(t, err)
	assert.Regexp(t, garmentIDPattern, record.GarmentID)
}

// TestService_Create_MissingFile 缺失必传文件时校验失败且不产生上传
func TestService_Create_MissingFile(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)

	input := garmentInput(t, "")
	delete(input.Files, "model")

	_, err := svc.Create(context.Background(), 1, input)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "model", vErr.Field)
	assert.Zero(t, store.putCount())
}

// TestService_Create_InvalidMime 文件类型不符合规则
func TestService_Create_InvalidMime(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)

	input := garmentInput(t, "")
	input.Files["preview"] = makeFileHeader(t, "preview", "preview.txt", "text/plain", []byte("not an image"))

	_, err := svc.Create(context.Background(), 1, input)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "preview", vErr.Field)
	assert.Zero(t, store.putCount())
}

// TestService_Create_DuplicateSuppliedID 指定标识符冲突时在上传前拒绝
func TestService_Create_DuplicateSuppliedID(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, garmentInput(t, "GRM-DUP-00001"))
	require.NoError(t, err)
	putsBefore := store.putCount()

	_, err = svc.Create(ctx, 1, garmentInput(t, "GRM-DUP-00001"))
	require.ErrorIs(t, err, ErrDuplicateID)

	// 查重在上传之前，不应产生新的对象
	assert.Equal(t, putsBefore, store.putCount())
	assert.Empty(t, store.deleted)
}

// TestService_Create_UploadFailureCompensates 单个文件上传失败时补偿删除其余对象
func TestService_Create_UploadFailureCompensates(t *testing.T) {
	store := newFakeStorage()
	store.failPutSubstr = "jacket.obj"
	svc := newGarmentService(t, store)

	_, err := svc.Create(context.Background(), 1, garmentInput(t, "GRM-FAIL-00001"))
	require.Error(t, err)

	var uErr *UploadError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, "model", uErr.Field)

	// 已成功上传的对象必须被补偿删除
	assert.Zero(t, store.liveCount())

	// 记录不应落库
	_, err = svc.GetByBusinessID(context.Background(), 1, "GRM-FAIL-00001")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestService_GetByBusinessID_OwnerIsolation 属主隔离
func TestService_GetByBusinessID_OwnerIsolation(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, garmentInput(t, "GRM-OWN-00001"))
	require.NoError(t, err)

	found, err := svc.GetByBusinessID(ctx, 1, "GRM-OWN-00001")
	require.NoError(t, err)
	assert.Equal(t, "GRM-OWN-00001", found.GarmentID)

	// 他人无法读取
	_, err = svc.GetByBusinessID(ctx, 2, "GRM-OWN-00001")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestService_GetLatest_Empty 无记录时返回 ErrNotFound
func TestService_GetLatest_Empty(t *testing.T) {
	svc := newGarmentService(t, newFakeStorage())

	_, err := svc.GetLatest(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestService_DeleteByBusinessID 删除记录并清理存储对象
func TestService_DeleteByBusinessID(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, garmentInput(t, "GRM-DEL-00001"))
	require.NoError(t, err)

	deleted, err := svc.DeleteByBusinessID(ctx, 1, "GRM-DEL-00001")
	require.NoError(t, err)
	assert.Equal(t, created.GarmentID, deleted.GarmentID)

	// 对象与记录都被删除
	assert.Zero(t, store.liveCount())
	assert.ElementsMatch(t, []string{created.PreviewKey, created.ModelKey}, store.deleted)

	// 重复删除
	_, err = svc.DeleteByBusinessID(ctx, 1, "GRM-DEL-00001")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestService_Delete_StorageFailureNonFatal 对象删除失败不阻断记录删除
func TestService_Delete_StorageFailureNonFatal(t *testing.T) {
	store := newFakeStorage()
	svc := newGarmentService(t, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, garmentInput(t, "GRM-ORPHAN-001"))
	require.NoError(t, err)

	store.failDelete = true
	_, err = svc.DeleteLatest(ctx, 1)
	require.NoError(t, err)

	// 元数据已删除，孤儿对象留在存储中
	_, err = svc.GetByBusinessID(ctx, 1, "GRM-ORPHAN-001")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, store.liveCount())
}

// TestService_Scan_RequiresGarmentID 扫描类型必须由客户端提供标识符
func TestService_Scan_RequiresGarmentID(t *testing.T) {
	store := newFakeStorage()
	repo := assets.NewRepository[models.ImageScan](setupServiceDB(t))
	svc := NewService(ScanDefinition(), repo, store, nil, 0, semaphore.NewWeighted(4))

	input := CreateInput{
		Fields: map[string]string{"category": "tops"},
		Files: map[string]*multipart.FileHeader{
			"image": makeFileHeader(t, "image", "scan.png", "image/png", []byte("png-bytes")),
		},
	}

	_, err := svc.Create(context.Background(), 1, input)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "garmentId", vErr.Field)
	assert.Zero(t, store.putCount())
}

// TestService_Scan_Create 扫描创建与最近记录查询
func TestService_Scan_Create(t *testing.T) {
	store := newFakeStorage()
	repo := assets.NewRepository[models.ImageScan](setupServiceDB(t))
	svc := NewService(ScanDefinition(), repo, store, nil, 0, semaphore.NewWeighted(4))
	ctx := context.Background()

	input := CreateInput{
		BusinessID: "GRM-SCAN-00001",
		Fields:     map[string]string{"garmentId": "GRM-SCAN-00001", "category": "tops"},
		Files: map[string]*multipart.FileHeader{
			"image": makeFileHeader(t, "image", "scan.png", "image/png", []byte("png-bytes")),
		},
	}

	record, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)
	assert.Equal(t, "GRM-SCAN-00001", record.GarmentID)
	assert.Equal(t, "tops", record.Category)

	latest, err := svc.GetLatest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, record.GarmentID, latest.GarmentID)
}
