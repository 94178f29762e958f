package repository

import (
	"agrimart-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KnowledgeRepository interface {
	FindAll() ([]model.KnowledgePost, error)
	FindByID(id uuid.UUID) (*model.KnowledgePost, error)
	Create(post *model.KnowledgePost) error
	Update(post *model.KnowledgePost) error
	Delete(id uuid.UUID) error
	AddComment(comment *model.KnowledgeComment) error
}

type knowledgeRepo struct {
	db *gorm.DB
}

func NewKnowledgeRepo(db *gorm.DB) KnowledgeRepository {
	return &knowledgeRepo{db}
}

func (r *knowledgeRepo) FindAll() ([]model.KnowledgePost, error) {
	var posts []model.KnowledgePost
	err := r.db.Preload("Comments").Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *knowledgeRepo) FindByID(id uuid.UUID) (*model.KnowledgePost, error) {
	var post model.KnowledgePost
	err := r.db.Preload("Comments").First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *knowledgeRepo) Create(post *model.KnowledgePost) error {
	return r.db.Create(post).Error
}

func (r *knowledgeRepo) Update(post *model.KnowledgePost) error {
	return r.db.Save(post).Error
}

func (r *knowledgeRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.KnowledgePost{}, "id = ?", id).Error
}

func (r *knowledgeRepo) AddComment(comment *model.KnowledgeComment) error {
	return r.db.Create(comment).Error
}
