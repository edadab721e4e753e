package asset

import (
	"context"
	"errors"
	"fmt"

	"github.com/anoixa/tryon-server/database/repo/assets"
	"github.com/anoixa/tryon-server/storage"
	"golang.org/x/sync/errgroup"
)

// Create 执行上传-落库流程
//
// 阶段顺序:
//  1. 前置校验，未通过时不产生任何副作用
//  2. 客户端指定标识符时先查重，避免白白上传
//  3. 并发上传全部文件
//  4. 未指定标识符时分配新标识符
//  5. 装配记录并插入，唯一约束由数据库最终裁决
//
// 阶段 3 之后的任何失败都会补偿删除已上传的对象
func (s *Service[T]) Create(ctx context.Context, ownerID uint, input CreateInput) (*T, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	if input.BusinessID != "" {
		taken, err := s.repo.ExistsByBusinessID(ctx, input.BusinessID)
		if err != nil {
			return nil, fmt.Errorf("failed to check identifier availability: %w", err)
		}
		if taken {
			return nil, ErrDuplicateID
		}
	}

	refs, err := s.uploadFiles(ctx, input)
	if err != nil {
		return nil, err
	}

	businessID := input.BusinessID
	if businessID == "" {
		businessID, err = AllocateID(ctx, s.def.IDPrefix, s.repo.ExistsByBusinessID)
		if err != nil {
			s.compensate(context.WithoutCancel(ctx), refValues(refs))
			return nil, err
		}
	}

	record := s.def.New(businessID, input, refs, ownerID)
	if err := s.repo.Insert(ctx, record); err != nil {
		s.compensate(context.WithoutCancel(ctx), refValues(refs))
		if errors.Is(err, assets.ErrDuplicateKey) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("failed to insert %s record: %w", s.def.Kind, err)
	}

	s.invalidateCache(ownerID, businessID)
	return record, nil
}

// validateInput 前置校验：必填字段、标识符策略、文件规则
func (s *Service[T]) validateInput(input CreateInput) error {
	for _, name := range s.def.RequiredFields {
		if input.Field(name) == "" {
			return &ValidationError{Field: name, Reason: "is required"}
		}
	}

	if input.BusinessID == "" && !s.def.AllowGeneratedID {
		return &ValidationError{Field: "garmentId", Reason: "is required"}
	}

	for _, ff := range s.def.Files {
		header := input.Files[ff.Name]
		if header == nil {
			if ff.Required {
				return &ValidationError{Field: ff.Name, Reason: "file is required"}
			}
			continue
		}
		if err := ff.Rule.Validate(header); err != nil {
			return &ValidationError{Field: ff.Name, Reason: err.Error()}
		}
	}

	return nil
}

// uploadFiles 并发上传全部文件
// 任一文件失败时补偿删除其余已成功的对象
func (s *Service[T]) uploadFiles(ctx context.Context, input CreateInput) (map[string]storage.ObjectRef, error) {
	type slot struct {
		field string
		ref   storage.ObjectRef
	}

	uploads := make([]FileField, 0, len(s.def.Files))
	for _, ff := range s.def.Files {
		if input.Files[ff.Name] != nil {
			uploads = append(uploads, ff)
		}
	}

	results := make([]slot, len(uploads))
	g, gctx := errgroup.WithContext(ctx)

	for i, ff := range uploads {
		i, ff := i, ff
		header := input.Files[ff.Name]

		g.Go(func() error {
			if s.sem != nil {
				if err := s.sem.Acquire(gctx, 1); err != nil {
					return &UploadError{Field: ff.Name, Err: err}
				}
				defer s.sem.Release(1)
			}

			file, err := header.Open()
			if err != nil {
				return &UploadError{Field: ff.Name, Err: err}
			}
			defer func() { _ = file.Close() }()

			key := storage.BuildObjectKey(header.Filename)
			ref, err := s.store.PutWithContext(gctx, key, file, header.Size, header.Header.Get("Content-Type"))
			if err != nil {
				return &UploadError{Field: ff.Name, Err: err}
			}
			if !ref.Complete() {
				// url 与 key 必须成对出现，半成品引用视为上传失败
				s.compensate(context.WithoutCancel(gctx), []storage.ObjectRef{ref})
				return &UploadError{Field: ff.Name, Err: errors.New("storage returned incomplete object reference")}
			}

			results[i] = slot{field: ff.Name, ref: ref}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		partial := make([]storage.ObjectRef, 0, len(results))
		for _, r := range results {
			if r.ref.Key != "" {
				partial = append(partial, r.ref)
			}
		}
		s.compensate(context.WithoutCancel(ctx), partial)
		return nil, err
	}

	refs := make(map[string]storage.ObjectRef, len(results))
	for _, r := range results {
		refs[r.field] = r.ref
	}
	return refs, nil
}

// refValues 提取全部对象引用
func refValues(refs map[string]storage.ObjectRef) []storage.ObjectRef {
	out := make([]storage.ObjectRef, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref)
	}
	return out
}
