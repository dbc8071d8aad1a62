package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/content"
	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/response"
)

func contentErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, content.ErrPostNotFound), errors.Is(err, content.ErrCommentNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, content.ErrNotAuthor):
		return response.APIResponseCodeForbidden
	case errors.Is(err, content.ErrParentMissing):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

// ApiListPosts
// @Summary      Community feed
// @Tags         Forum
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/community/{slug}/posts [get]
func ApiListPosts(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req content.ListPostsRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		posts, total, err := svc.ListPosts(c.Request.Context(), d.Community.ID, &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(listResponse[models.Post]{Items: posts, Total: total}))
	}
}

// ApiCreatePost opens a new thread in the community feed.
func ApiCreatePost(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req content.CreatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		post, err := svc.CreatePost(c.Request.Context(), d.Community.ID,
			c.GetString(middleware.ContextUserIDKey), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(post))
	}
}

// ApiGetPost returns one thread with its comment tree.
func ApiGetPost(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		post, err := svc.PostByID(c.Request.Context(), d.Community.ID, c.Param("post_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](contentErrCode(err), err.Error()))
			return
		}
		comments, err := svc.CommentTree(c.Request.Context(), d.Community.ID, post.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](contentErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{"post": post, "comments": comments}))
	}
}

// ApiUpdatePost edits a thread. Author or community admin.
func ApiUpdatePost(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req content.UpdatePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		post, err := svc.UpdatePost(c.Request.Context(), d.Community.ID, c.Param("post_id"),
			c.GetString(middleware.ContextUserIDKey), d.IsCommunityAdmin(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](contentErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(post))
	}
}

// ApiDeletePost removes a thread and its comments. Author or community admin.
func ApiDeletePost(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		err := svc.DeletePost(c.Request.Context(), d.Community.ID, c.Param("post_id"),
			c.GetString(middleware.ContextUserIDKey), d.IsCommunityAdmin())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](contentErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiCreateComment replies to a thread, optionally nested under a parent.
func ApiCreateComment(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req content.CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		comment, err := svc.CreateComment(c.Request.Context(), d.Community.ID, c.Param("post_id"),
			c.GetString(middleware.ContextUserIDKey), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](contentErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(comment))
	}
}

// ApiDeleteComment removes a reply, reparenting its children.
func ApiDeleteComment(svc *content.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		err := svc.DeleteComment(c.Request.Context(), c.Param("post_id"), c.Param("comment_id"),
			c.GetString(middleware.ContextUserIDKey), d.IsCommunityAdmin())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](contentErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
