package accounts

import (
	"errors"
	"time"

	"github.com/anoixa/tryon-server/database/models"
	"gorm.io/gorm"
)

// DeviceRepository 登录设备仓库
type DeviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository 创建设备仓库
func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// CreateLoginDevice 记录一次登录会话
func (r *DeviceRepository) CreateLoginDevice(userID uint, deviceID, refreshToken string, expiry time.Time) error {
	device := &models.Device{
		UserID:       userID,
		DeviceID:     deviceID,
		RefreshToken: refreshToken,
		Expiry:       expiry,
	}
	return r.db.Create(device).Error
}

// GetDeviceByRefreshTokenAndDeviceID 查找未过期的会话
func (r *DeviceRepository) GetDeviceByRefreshTokenAndDeviceID(refreshToken, deviceID string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("refresh_token = ? AND device_id = ? AND expiry > ?", refreshToken, deviceID, time.Now()).
		First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// RotateRefreshToken 轮换刷新令牌
func (r *DeviceRepository) RotateRefreshToken(userID uint, deviceID, newRefreshToken string, newExpiry time.Time) error {
	result := r.db.Model(&models.Device{}).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Updates(map[string]interface{}{
			"refresh_token": newRefreshToken,
			"expiry":        newExpiry,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDeviceByDeviceID 删除登录会话
func (r *DeviceRepository) DeleteDeviceByDeviceID(deviceID string) error {
	return r.db.Where("device_id = ?", deviceID).Delete(&models.Device{}).Error
}

// DeleteExpiredDevices 清理过期会话
func (r *DeviceRepository) DeleteExpiredDevices() (int64, error) {
	result := r.db.Where("expiry <= ?", time.Now()).Delete(&models.Device{})
	return result.RowsAffected, result.Error
}
