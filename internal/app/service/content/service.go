package content

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/tool"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotAuthor guards edits and deletes: only the author or a
	// community admin may touch a post or comment.
	ErrNotAuthor     = errors.New("only the author may modify this")
	ErrParentMissing = errors.New("parent comment does not belong to this post")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (s *Service) CreatePost(ctx context.Context, communityID, authorID string, req *CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		ID:          tool.GenerateUUIDV7(),
		CommunityID: communityID,
		AuthorID:    authorID,
		Title:       req.Title,
		Content:     req.Content,
	}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("post created", "post_id", post.ID, "community_id", communityID)
	return post, nil
}

type ListPostsRequest struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// ListPosts returns the community feed, pinned posts first then newest.
func (s *Service) ListPosts(ctx context.Context, communityID string, req *ListPostsRequest) ([]models.Post, int64, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 || size > 50 {
		size = 20
	}

	q := s.db.WithContext(ctx).Model(&models.Post{}).Where("community_id = ?", communityID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []models.Post
	err := q.Preload("Author").
		Order("pinned DESC, created_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, total, nil
}

func (s *Service) PostByID(ctx context.Context, communityID, postID string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("Author").
		First(&post, "id = ? AND community_id = ?", postID, communityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	return &post, nil
}

type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
}

// UpdatePost edits a post. Authors may edit body fields; pinning is an
// admin concern and the handler only passes it through for admins.
func (s *Service) UpdatePost(ctx context.Context, communityID, postID, actorID string, isAdmin bool, req *UpdatePostRequest) (*models.Post, error) {
	post, err := s.PostByID(ctx, communityID, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID && !isAdmin {
		return nil, ErrNotAuthor
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Pinned != nil && isAdmin {
		updates["pinned"] = *req.Pinned
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update post: %w", err)
		}
	}
	return post, nil
}

// DeletePost removes a post and its comments. Author-or-admin only.
func (s *Service) DeletePost(ctx context.Context, communityID, postID, actorID string, isAdmin bool) error {
	post, err := s.PostByID(ctx, communityID, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID && !isAdmin {
		return ErrNotAuthor
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		return tx.Delete(&models.Post{}, "id = ?", postID).Error
	})
}

type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required"`
	ParentID *string `json:"parent_id"`
}

// CreateComment adds a reply to a post, optionally nested under a parent
// comment of the same post.
func (s *Service) CreateComment(ctx context.Context, communityID, postID, authorID string, req *CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.PostByID(ctx, communityID, postID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		var parent models.Comment
		err := s.db.WithContext(ctx).First(&parent, "id = ?", *req.ParentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.PostID != postID) {
			return nil, ErrParentMissing
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query parent comment: %w", err)
		}
	}

	comment := &models.Comment{
		ID:       tool.GenerateUUIDV7(),
		PostID:   postID,
		AuthorID: authorID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, postID, commentID, actorID string, isAdmin bool) error {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, "id = ? AND post_id = ?", commentID, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query comment: %w", err)
	}
	if comment.AuthorID != actorID && !isAdmin {
		return ErrNotAuthor
	}

	// Replies are reparented to the deleted comment's parent so threads
	// never orphan.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Comment{}).Where("parent_id = ?", commentID).
			Update("parent_id", comment.ParentID).Error; err != nil {
			return fmt.Errorf("failed to reparent replies: %w", err)
		}
		return tx.Delete(&models.Comment{}, "id = ?", commentID).Error
	})
}

// CommentNode is one comment plus its nested replies.
type CommentNode struct {
	models.Comment
	Replies []*CommentNode `json:"replies"`
}

// CommentTree loads all comments of a post and nests them by parent.
func (s *Service) CommentTree(ctx context.Context, communityID, postID string) ([]*CommentNode, error) {
	if _, err := s.PostByID(ctx, communityID, postID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree nests a flat comment list by ParentID. Siblings stay in
// chronological order. A comment whose parent is missing from the list is
// treated as top-level rather than dropped.
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: comments[i], Replies: []*CommentNode{}}
	}

	var roots []*CommentNode
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentID != nil {
			if parent, ok := nodes[*comments[i].ParentID]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	var sortSiblings func([]*CommentNode)
	sortSiblings = func(level []*CommentNode) {
		sort.SliceStable(level, func(i, j int) bool {
			return level[i].CreatedAt.Before(level[j].CreatedAt)
		})
		for _, n := range level {
			sortSiblings(n.Replies)
		}
	}
	sortSiblings(roots)
	return roots
}
