package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avdoshkin/blog_platform/internal/models"
)

func (r *GormRepo) CreatePost(ctx context.Context, p *models.Post) error {
	tx := r.DB.WithContext(ctx).Where("slug = ?", p.Slug).FirstOrCreate(p)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrSlugTaken
	}
	return nil
}

func (r *GormRepo) FindPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.DB.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *GormRepo) FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *GormRepo) ListPublishedPosts(ctx context.Context, offset, limit int) (int64, []models.Post, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Post{}).Where("published = ?", true).Count(&total).Error
	if err != nil {
		return 0, nil, err
	}

	var posts []models.Post
	err = r.DB.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return 0, nil, err
	}
	return total, posts, nil
}

func (r *GormRepo) DeletePost(ctx context.Context, id uuid.UUID) error {
	tx := r.DB.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
