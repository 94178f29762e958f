package service

import (
	"errors"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var ErrPostNotFound = errors.New("post not found")

type KnowledgeService interface {
	GetPosts() ([]model.KnowledgePost, error)
	GetPostByID(id uuid.UUID) (*model.KnowledgePost, error)
	CreatePost(author *model.User, req *KnowledgePostRequest) (*model.KnowledgePost, error)
	UpdatePost(id uuid.UUID, req *KnowledgePostRequest) (*model.KnowledgePost, error)
	DeletePost(id uuid.UUID) error
	AddComment(commenter *model.User, postID uuid.UUID, text string) error
}

// KnowledgePostRequest may be entirely empty on create: an empty body seeds an
// editable sample post, mirroring the admin console flow.
type KnowledgePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Image    string `json:"image"`
	VideoURL string `json:"video_url"`
}

type knowledgeService struct {
	knowledgeRepo repository.KnowledgeRepository
	sanitizer     *bluemonday.Policy
}

func NewKnowledgeService(knowledgeRepo repository.KnowledgeRepository) KnowledgeService {
	return &knowledgeService{
		knowledgeRepo: knowledgeRepo,
		// Strict policy: posts and comments are plain text, markup is stripped.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *knowledgeService) GetPosts() ([]model.KnowledgePost, error) {
	return s.knowledgeRepo.FindAll()
}

func (s *knowledgeService) GetPostByID(id uuid.UUID) (*model.KnowledgePost, error) {
	post, err := s.knowledgeRepo.FindByID(id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *knowledgeService) CreatePost(author *model.User, req *KnowledgePostRequest) (*model.KnowledgePost, error) {
	post := &model.KnowledgePost{
		Title:    req.Title,
		Content:  s.sanitizer.Sanitize(req.Content),
		Category: req.Category,
		Author:   req.Author,
		Image:    req.Image,
		VideoURL: req.VideoURL,
	}

	if post.Title == "" {
		post.Title = "Sample Title"
		post.Content = "Sample Content"
		post.Category = "Crop Care"
		post.Author = author.Name
		post.Image = "/images/sample.jpg"
	}
	if post.Author == "" {
		post.Author = "Agri Expert"
	}

	if err := s.knowledgeRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *knowledgeService) UpdatePost(id uuid.UUID, req *KnowledgePostRequest) (*model.KnowledgePost, error) {
	post, err := s.knowledgeRepo.FindByID(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = s.sanitizer.Sanitize(req.Content)
	}
	if req.Category != "" {
		post.Category = req.Category
	}
	if req.Author != "" {
		post.Author = req.Author
	}
	if req.Image != "" {
		post.Image = req.Image
	}
	if req.VideoURL != "" {
		post.VideoURL = req.VideoURL
	}

	if err := s.knowledgeRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *knowledgeService) DeletePost(id uuid.UUID) error {
	if _, err := s.knowledgeRepo.FindByID(id); err != nil {
		return ErrPostNotFound
	}
	return s.knowledgeRepo.Delete(id)
}

func (s *knowledgeService) AddComment(commenter *model.User, postID uuid.UUID, text string) error {
	text = s.sanitizer.Sanitize(text)
	if text == "" {
		return errors.New("comment text is required")
	}

	post, err := s.knowledgeRepo.FindByID(postID)
	if err != nil {
		return ErrPostNotFound
	}

	comment := &model.KnowledgeComment{
		PostID: post.ID,
		UserID: commenter.ID,
		Name:   commenter.Name,
		Text:   text,
	}
	return s.knowledgeRepo.AddComment(comment)
}
