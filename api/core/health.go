package core

import (
	"context"
	"time"

	"github.com/anoixa/tryon-server/cache/types"
	"github.com/anoixa/tryon-server/internal/repositories"
	"github.com/anoixa/tryon-server/storage"
)

// checkDatabaseHealth 检查数据库连接
func checkDatabaseHealth(repos *repositories.Repositories) string {
	if repos == nil || repos.Accounts == nil {
		return "not initialized"
	}

	sqlDB, err := repos.Accounts.DB().DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// checkCacheHealth 检查缓存可用性
func checkCacheHealth(cacheProvider types.Cache) string {
	if cacheProvider == nil {
		return "not initialized"
	}

	if err := cacheProvider.Set("health_check", "ok", 10*time.Second); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// checkStorageHealth 检查默认存储提供者
func checkStorageHealth(factory *storage.Factory) string {
	if factory == nil {
		return "not initialized"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := factory.GetDefault().Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
