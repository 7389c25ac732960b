package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/avdoshkin/blog_platform/internal/es"
	"github.com/avdoshkin/blog_platform/internal/events"
	"github.com/avdoshkin/blog_platform/internal/logging"
	"github.com/avdoshkin/blog_platform/internal/models"
	"github.com/avdoshkin/blog_platform/internal/repo"
	"github.com/avdoshkin/blog_platform/internal/util"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("slug already in use")
	ErrSearchOff    = errors.New("search is not configured")
)

type PostService struct {
	Repo     *repo.GormRepo
	ES       *elasticsearch.Client
	ESIndex  string
	Producer *events.Producer
}

type CreatePostInput struct {
	Title     string
	Excerpt   string
	Body      string
	Published bool
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, in CreatePostInput) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "post.create")

	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		missing = append(missing, "body is required")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}

	post := models.Post{
		Title:     strings.TrimSpace(in.Title),
		Slug:      util.Slugify(in.Title),
		Excerpt:   strings.TrimSpace(in.Excerpt),
		Body:      in.Body,
		AuthorID:  authorID,
		Published: in.Published,
	}
	if err := s.Repo.CreatePost(ctx, &post); err != nil {
		if errors.Is(err, repo.ErrSlugTaken) {
			return nil, ErrSlugTaken
		}
		l.Error("post_create_failed", "error", err)
		return nil, err
	}

	if post.Published {
		s.indexAndAnnounce(ctx, &post)
	}

	l.Info("post_created", "post_id", post.ID.String(), "slug", post.Slug)
	return &post, nil
}

// indexAndAnnounce is best effort: a broken search or broker node must not
// fail the write that already happened.
func (s *PostService) indexAndAnnounce(ctx context.Context, post *models.Post) {
	l := logging.FromContext(ctx).With("svc", "post.publish", "post_id", post.ID.String())

	if s.ES != nil {
		if err := es.IndexPost(ctx, s.ES, s.ESIndex, post); err != nil {
			l.Error("post_index_failed", "error", err)
		}
	}

	event := map[string]interface{}{
		"type":      "post_published",
		"post_id":   post.ID.String(),
		"slug":      post.Slug,
		"author_id": post.AuthorID.String(),
	}
	if err := s.Producer.PublishEvent(ctx, events.TopicPostEvents, post.ID.String(), event); err != nil {
		l.Error("event_publish_failed", "topic", events.TopicPostEvents, "error", err)
	}
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.Repo.FindPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, page, size int) (int64, []models.Post, error) {
	from, limit := util.Calculate(page, size)
	return s.Repo.ListPublishedPosts(ctx, from, limit)
}

func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, repo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

func (s *PostService) Search(ctx context.Context, query string, page, size int) (int64, []es.PostHit, error) {
	if s.ES == nil {
		return 0, nil, ErrSearchOff
	}
	from, limit := util.Calculate(page, size)
	return es.SearchPosts(ctx, s.ES, s.ESIndex, query, from, limit)
}
