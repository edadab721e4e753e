// Package app 依赖注入容器，集中装配数据库、存储、缓存与业务服务
package app

import (
	"fmt"
	"log"
	"time"

	"github.com/anoixa/tryon-server/cache"
	"github.com/anoixa/tryon-server/cache/types"
	"github.com/anoixa/tryon-server/config"
	"github.com/anoixa/tryon-server/database"
	"github.com/anoixa/tryon-server/internal/asset"
	"github.com/anoixa/tryon-server/internal/auth"
	"github.com/anoixa/tryon-server/internal/repositories"
	"github.com/anoixa/tryon-server/storage"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config *config.Config

	databaseFactory *database.Factory
	storageFactory  *storage.Factory
	cacheProvider   types.Cache
	repositories    *repositories.Repositories
	jwtService      *auth.JWTService
	loginService    *auth.LoginService
	assetServices   *asset.Services
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// Init 初始化全部依赖，顺序：数据库 → 仓库 → 存储 → 缓存 → 服务
func (c *Container) Init() error {
	if err := c.initDatabase(); err != nil {
		return err
	}
	if err := c.initStorage(); err != nil {
		return err
	}
	if err := c.initCache(); err != nil {
		return err
	}
	if err := c.initServices(); err != nil {
		return err
	}
	return nil
}

func (c *Container) initDatabase() error {
	factory, err := database.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database factory: %w", err)
	}
	c.databaseFactory = factory
	c.repositories = repositories.NewRepositories(factory.GetProvider().DB())
	return nil
}

func (c *Container) initStorage() error {
	factory, err := storage.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage factory: %w", err)
	}
	c.storageFactory = factory
	return nil
}

func (c *Container) initCache() error {
	provider, err := cache.NewCache(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize cache provider: %w", err)
	}
	c.cacheProvider = provider
	return nil
}

func (c *Container) initServices() error {
	jwtService, err := auth.NewJWTService(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	c.jwtService = jwtService

	c.loginService = auth.NewLoginService(
		c.repositories.Accounts,
		c.repositories.Devices,
		jwtService,
	)

	cacheTTL := time.Duration(c.config.CacheAssetTTL) * time.Second
	c.assetServices = asset.NewServices(
		c.repositories,
		c.storageFactory.GetDefault(),
		c.cacheProvider,
		cacheTTL,
		c.config.UploadMaxConcurrency,
	)

	return nil
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetDatabaseFactory 获取数据库工厂
func (c *Container) GetDatabaseFactory() *database.Factory {
	return c.databaseFactory
}

// GetStorageFactory 获取存储工厂
func (c *Container) GetStorageFactory() *storage.Factory {
	return c.storageFactory
}

// GetCacheProvider 获取缓存提供者
func (c *Container) GetCacheProvider() types.Cache {
	return c.cacheProvider
}

// GetRepositories 获取仓库集合
func (c *Container) GetRepositories() *repositories.Repositories {
	return c.repositories
}

// GetJWTService 获取 JWT 服务
func (c *Container) GetJWTService() *auth.JWTService {
	return c.jwtService
}

// GetLoginService 获取登录服务
func (c *Container) GetLoginService() *auth.LoginService {
	return c.loginService
}

// GetAssetServices 获取资产服务集合
func (c *Container) GetAssetServices() *asset.Services {
	return c.assetServices
}

// Close 关闭所有服务
func (c *Container) Close() error {
	if c.cacheProvider != nil {
		if err := c.cacheProvider.Close(); err != nil {
			log.Printf("Error closing cache provider: %v", err)
		}
	}

	if c.databaseFactory != nil {
		if err := c.databaseFactory.Close(); err != nil {
			log.Printf("Error closing database factory: %v", err)
			return err
		}
	}

	return nil
}
