package assets

import (
	"context"
	"testing"
	"time"

	"github.com/anoixa/tryon-server/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Garment{}))

	// 资产记录的属主
	require.NoError(t, db.Create(&models.User{Username: "alice", Email: "alice@example.com", Password: "x"}).Error)
	require.NoError(t, db.Create(&models.User{Username: "bob", Email: "bob@example.com", Password: "x"}).Error)

	return db
}

func newGarment(businessID string, ownerID uint, createdAt time.Time) *models.Garment {
	return &models.Garment{
		GarmentID:  businessID,
		Name:       "test garment",
		PreviewURL: "http://example.com/p.png",
		PreviewKey: "p.png",
		ModelURL:   "http://example.com/m.obj",
		ModelKey:   "m.obj",
		CreatedBy:  ownerID,
		CreatedAt:  createdAt,
	}
}

// TestRepository_InsertAndFind 测试插入与查询
func TestRepository_InsertAndFind(t *testing.T) {
	repo := NewRepository[models.Garment](setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newGarment("GRM-A-00001", 1, time.Now())))

	found, err := repo.FindByBusinessIDAndOwner(ctx, "GRM-A-00001", 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "GRM-A-00001", found.GarmentID)
	assert.Equal(t, uint(1), found.CreatedBy)
}

// TestRepository_InsertDuplicate 重复业务标识符返回 ErrDuplicateKey
func TestRepository_InsertDuplicate(t *testing.T) {
	repo := NewRepository[models.Garment](setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newGarment("GRM-DUP-00001", 1, time.Now())))

	err := repo.Insert(ctx, newGarment("GRM-DUP-00001", 2, time.Now()))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

// TestRepository_FindMiss 未命中时返回 (nil, nil)
func TestRepository_FindMiss(t *testing.T) {
	repo := NewRepository[models.Garment](setupTestDB(t))
	ctx := context.Background()

	found, err := repo.FindByBusinessIDAndOwner(ctx, "GRM-MISSING", 1)
	require.NoError(t, err)
	assert.Nil(t, found)

	exists, err := repo.ExistsByBusinessID(ctx, "GRM-MISSING")
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestRepository_OwnerScoping 属主隔离
func TestRepository_OwnerScoping(t *testing.T) {
	repo := NewRepository[models.Garment](setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newGarment("GRM-ALICE-0001", 1, time.Now())))

	// bob 查不到 alice 的记录
	found, err := repo.FindByBusinessIDAndOwner(ctx, "GRM-ALICE-0001", 2)
	require.NoError(t, err)
	assert.Nil(t, found)

	// 不限属主的查重可以看到
	exists, err := repo.ExistsByBusinessID(ctx, "GRM-ALICE-0001")
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestRepository_FindLatestByOwner 按创建时间取最近记录
func TestRepository_FindLatestByOwner(t *testing.T) {
	repo := NewRepository[models.Garment](setupTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Insert(ctx, newGarment("GRM-OLD-00001", 1, base)))
	require.NoError(t, repo.Insert(ctx, newGarment("GRM-NEW-00001", 1, base.Add(time.Minute))))
	require.NoError(t, repo.Insert(ctx, newGarment("GRM-OTHER-0001", 2, base.Add(2*time.Minute))))

	latest, err := repo.FindLatestByOwner(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "GRM-NEW-00001", latest.GarmentID)

	// 没有记录的属主
	latest, err = repo.FindLatestByOwner(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

// TestRepository_ListByOwner 列表按创建时间倒序
func TestRepository_ListByOwner(t *testing.T) {
	repo := NewRepository[models.Garment](setupTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Insert(ctx, newGarment("GRM-1-00001", 1, base)))
	require.NoError(t, repo.Insert(ctx, newGarment("GRM-2-00001", 1, base.Add(time.Minute))))

	list, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "GRM-2-00001", list[0].GarmentID)
	assert.Equal(t, "GRM-1-00001", list[1].GarmentID)
}

// TestRepository_DeleteByID 软删除后业务标识符可被重新使用
func TestRepository_DeleteByID(t *testing.T) {
	repo := NewRepository[models.Garment](setupTestDB(t))
	ctx := context.Background()

	record := newGarment("GRM-DEL-00001", 1, time.Now())
	require.NoError(t, repo.Insert(ctx, record))
	require.NoError(t, repo.DeleteByID(ctx, record.ID))

	// 软删除后查询不到
	found, err := repo.FindByBusinessIDAndOwner(ctx, "GRM-DEL-00001", 1)
	require.NoError(t, err)
	assert.Nil(t, found)

	// 部分唯一索引只约束未删除的行，标识符可以复用
	require.NoError(t, repo.Insert(ctx, newGarment("GRM-DEL-00001", 1, time.Now())))

	// 再次删除不存在的主键
	err = repo.DeleteByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
