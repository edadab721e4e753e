package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)
	return store
}

// TestLocalStorage_PutGetDelete 测试对象读写删除
func TestLocalStorage_PutGetDelete(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()
	content := []byte("hello object")

	ref, err := store.PutWithContext(ctx, "123-test.png", bytes.NewReader(content), int64(len(content)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "123-test.png", ref.Key)
	assert.Equal(t, "http://localhost:8080/files/123-test.png", ref.URL)
	assert.True(t, ref.Complete())

	reader, err := store.GetWithContext(ctx, "123-test.png")
	require.NoError(t, err)
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	assert.Equal(t, content, got)

	exists, err := store.Exists(ctx, "123-test.png")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.DeleteWithContext(ctx, "123-test.png"))

	exists, err = store.Exists(ctx, "123-test.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestLocalStorage_DeleteMissing 删除不存在的对象不报错
func TestLocalStorage_DeleteMissing(t *testing.T) {
	store := newTestLocalStorage(t)
	assert.NoError(t, store.DeleteWithContext(context.Background(), "no-such-object.png"))
}

// TestLocalStorage_GetMissing 读取不存在的对象
func TestLocalStorage_GetMissing(t *testing.T) {
	store := newTestLocalStorage(t)
	_, err := store.GetWithContext(context.Background(), "no-such-object.png")
	assert.Error(t, err)
}

// TestLocalStorage_RejectsTraversal 拒绝目录遍历键
func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store := newTestLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"../escape.txt", "/etc/passwd", "a/../../b"} {
		_, err := store.PutWithContext(ctx, key, bytes.NewReader([]byte("x")), 1, "text/plain")
		assert.Error(t, err, "key: %s", key)
	}
}

// TestLocalStorage_Health 健康检查
func TestLocalStorage_Health(t *testing.T) {
	store := newTestLocalStorage(t)
	assert.NoError(t, store.Health(context.Background()))
	assert.Equal(t, "local", store.Name())
}

// TestIsValidObjectKey 对象键合法性校验
func TestIsValidObjectKey(t *testing.T) {
	valid := []string{"a.png", "1700000000000-photo.jpg", "dir/sub/file.obj", "a-b_c.d"}
	for _, key := range valid {
		assert.True(t, IsValidObjectKey(key), "key: %s", key)
	}

	invalid := []string{"", "../a.png", "/abs/path.png", "a b.png", "key%00.png", "中文.png"}
	for _, key := range invalid {
		assert.False(t, IsValidObjectKey(key), "key: %s", key)
	}
}

// TestBuildObjectKey 对象键由时间戳和清洗后的文件名组成
func TestBuildObjectKey(t *testing.T) {
	key := BuildObjectKey("my photo (1).png")
	assert.Regexp(t, `^\d+-my_photo__1_.png$`, key)
	assert.True(t, IsValidObjectKey(key))

	// 路径部分被剥离
	key = BuildObjectKey("../../etc/passwd")
	assert.True(t, IsValidObjectKey(key))
	assert.NotContains(t, key, "..")
}
