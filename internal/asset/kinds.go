package asset

import (
	"github.com/anoixa/tryon-server/cache"
	"github.com/anoixa/tryon-server/database/models"
	"github.com/anoixa/tryon-server/storage"
	"github.com/anoixa/tryon-server/utils/validator"
)

// 上传大小上限
const (
	garmentMaxSize = 200 << 20 // 200MB
	scanMaxSize    = 50 << 20  // 50MB
	model3DMaxSize = 100 << 20 // 100MB
)

// GarmentDefinition 服装资产装配规则
// preview 必须为图片，model 必须为 OBJ 文件
func GarmentDefinition() Definition[models.Garment] {
	return Definition[models.Garment]{
		Kind:             "garment",
		IDPrefix:         "GRM-",
		AllowGeneratedID: true,
		Files: []FileField{
			{
				Name:     "preview",
				Required: true,
				Rule: validator.FileRule{
					MaxSizeBytes: garmentMaxSize,
					MimePrefixes: []string{"image/"},
				},
			},
			{
				Name:     "model",
				Required: true,
				Rule: validator.FileRule{
					MaxSizeBytes: garmentMaxSize,
					MimeTypes:    []string{"application/octet-stream"},
					Extensions:   []string{".obj"},
				},
			},
		},
		New: func(businessID string, input CreateInput, refs map[string]storage.ObjectRef, ownerID uint) *models.Garment {
			return &models.Garment{
				GarmentID:  businessID,
				Name:       input.Field("name"),
				PreviewURL: refs["preview"].URL,
				PreviewKey: refs["preview"].Key,
				ModelURL:   refs["model"].URL,
				ModelKey:   refs["model"].Key,
				CreatedBy:  ownerID,
			}
		},
		RecordID:   func(g *models.Garment) uint { return g.ID },
		BusinessID: func(g *models.Garment) string { return g.GarmentID },
		ObjectKeys: func(g *models.Garment) []string {
			return []string{g.PreviewKey, g.ModelKey}
		},
		CacheKeys: cache.Garment,
	}
}

// ScanDefinition 身体扫描图像装配规则
func ScanDefinition() Definition[models.ImageScan] {
	return Definition[models.ImageScan]{
		Kind:             "scan",
		AllowGeneratedID: false,
		RequiredFields:   []string{"garmentId"},
		Files: []FileField{
			{
				Name:     "image",
				Required: true,
				Rule: validator.FileRule{
					MaxSizeBytes: scanMaxSize,
					MimePrefixes: []string{"image/"},
				},
			},
		},
		New: func(businessID string, input CreateInput, refs map[string]storage.ObjectRef, ownerID uint) *models.ImageScan {
			return &models.ImageScan{
				GarmentID: businessID,
				Category:  input.Field("category"),
				ImageURL:  refs["image"].URL,
				ImageKey:  refs["image"].Key,
				CreatedBy: ownerID,
			}
		},
		RecordID:   func(s *models.ImageScan) uint { return s.ID },
		BusinessID: func(s *models.ImageScan) string { return s.GarmentID },
		ObjectKeys: func(s *models.ImageScan) []string {
			return []string{s.ImageKey}
		},
		CacheKeys: cache.Scan,
	}
}

// model3DRule 3D 模型通用上传规则，兼顾模型与预览图两类内容
func model3DRule() validator.FileRule {
	return validator.FileRule{
		MaxSizeBytes: model3DMaxSize,
		MimeTypes: []string{
			"application/octet-stream",
			"model/gltf+json",
			"model/gltf-binary",
			"text/plain",
			"image/jpeg",
			"image/png",
			"image/jpg",
		},
		Extensions: []string{".obj", ".glb", ".gltf", ".fbx"},
	}
}

// ProcessedModelDefinition 处理完成 3D 模型装配规则
func ProcessedModelDefinition() Definition[models.ProcessedModel] {
	return Definition[models.ProcessedModel]{
		Kind:             "model3d",
		AllowGeneratedID: false,
		RequiredFields:   []string{"garmentId"},
		Files: []FileField{
			{
				Name:     "preview",
				Required: true,
				Rule:     model3DRule(),
			},
			{
				Name:     "model",
				Required: true,
				Rule:     model3DRule(),
			},
		},
		New: func(businessID string, input CreateInput, refs map[string]storage.ObjectRef, ownerID uint) *models.ProcessedModel {
			return &models.ProcessedModel{
				GarmentID:  businessID,
				PreviewURL: refs["preview"].URL,
				PreviewKey: refs["preview"].Key,
				ModelURL:   refs["model"].URL,
				ModelKey:   refs["model"].Key,
				CreatedBy:  ownerID,
			}
		},
		RecordID:   func(m *models.ProcessedModel) uint { return m.ID },
		BusinessID: func(m *models.ProcessedModel) string { return m.GarmentID },
		ObjectKeys: func(m *models.ProcessedModel) []string {
			return []string{m.PreviewKey, m.ModelKey}
		},
		CacheKeys: cache.Model3D,
	}
}
