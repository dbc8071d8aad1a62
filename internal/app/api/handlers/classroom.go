package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/classroom"
	"github.com/comunidadhq/backend/pkg/response"
)

func classroomErrCode(err error) response.APIResponseCode {
	if errors.Is(err, classroom.ErrCourseNotFound) || errors.Is(err, classroom.ErrLessonNotFound) {
		return response.APIResponseCodeNotFound
	}
	return response.APIResponseCodeError
}

// ApiListCourses
// @Summary      Classroom catalog
// @Tags         Classroom
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/community/{slug}/classroom [get]
func ApiListCourses(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		courses, err := svc.ListCourses(c.Request.Context(), d.Community.ID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(courses))
	}
}

// ApiGetCourse returns a course with lessons in display order.
func ApiGetCourse(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		course, err := svc.CourseByID(c.Request.Context(), d.Community.ID, c.Param("course_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](classroomErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(course))
	}
}

// ApiCreateCourse adds a course. Community admin only.
func ApiCreateCourse(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req classroom.CourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		course, err := svc.CreateCourse(c.Request.Context(), d.Community.ID, &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(course))
	}
}

// ApiUpdateCourse replaces course fields. Community admin only.
func ApiUpdateCourse(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req classroom.CourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		course, err := svc.UpdateCourse(c.Request.Context(), d.Community.ID, c.Param("course_id"), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](classroomErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(course))
	}
}

// ApiDeleteCourse removes a course and its lessons. Community admin only.
func ApiDeleteCourse(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		if err := svc.DeleteCourse(c.Request.Context(), d.Community.ID, c.Param("course_id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](classroomErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// ApiGetLesson returns one lesson.
func ApiGetLesson(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		lesson, err := svc.LessonByID(c.Request.Context(), d.Community.ID,
			c.Param("course_id"), c.Param("lesson_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](classroomErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(lesson))
	}
}

// ApiCreateLesson adds a lesson to a course. Community admin only.
func ApiCreateLesson(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req classroom.LessonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		lesson, err := svc.CreateLesson(c.Request.Context(), d.Community.ID, c.Param("course_id"), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](classroomErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(lesson))
	}
}

// ApiUpdateLesson replaces lesson fields. Community admin only.
func ApiUpdateLesson(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req classroom.LessonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d := middleware.Decision(c)
		lesson, err := svc.UpdateLesson(c.Request.Context(), d.Community.ID,
			c.Param("course_id"), c.Param("lesson_id"), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](classroomErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(lesson))
	}
}

// ApiDeleteLesson removes one lesson. Community admin only.
func ApiDeleteLesson(svc *classroom.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := middleware.Decision(c)
		err := svc.DeleteLesson(c.Request.Context(), d.Community.ID,
			c.Param("course_id"), c.Param("lesson_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](classroomErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}
