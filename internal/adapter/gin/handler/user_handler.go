package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-graph-service/internal/adapter/gin/problem"
	domain "user-graph-service/internal/domain/user"
	"user-graph-service/internal/usecase/user"
	apperrors "user-graph-service/pkg/errors"
	"user-graph-service/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// FollowRequest represents the HTTP request body for follow and unfollow
type FollowRequest struct {
	FollowedID string `json:"followed_id"`
}

// ListUsers handles GET /users/
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, "ListUsers", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// SearchUsers handles GET /users/search?user=&limit=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	req, ok := h.searchRequest(c)
	if !ok {
		return
	}

	users, err := h.uc.Search(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, "SearchUsers", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// SearchFolloweds handles GET /users/followeds/:id/search?user=&limit=
func (h *UserHandler) SearchFolloweds(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	req, ok := h.searchRequest(c)
	if !ok {
		return
	}

	users, err := h.uc.SearchFolloweds(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, "SearchFolloweds", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	u, err := h.uc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "GetUser", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetUserByEmail handles GET /users/email/:email
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	u, err := h.uc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.handleError(c, "GetUserByEmail", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// SignUp handles POST /users/signup
func (h *UserHandler) SignUp(c *gin.Context) {
	var req user.SignUpRequest
	if !h.bind(c, &req) {
		return
	}

	h.log.Info("Gin SignUp request", zap.String("username", req.Username), zap.String("email", req.Email))

	u, err := h.uc.SignUp(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, "SignUp", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// SignUpAdmin handles POST /users/admin/signup
func (h *UserHandler) SignUpAdmin(c *gin.Context) {
	var req user.AdminSignUpRequest
	if !h.bind(c, &req) {
		return
	}

	h.log.Info("Gin SignUpAdmin request", zap.String("email", req.Email))

	admin, err := h.uc.SignUpAdmin(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, "SignUpAdmin", err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// SetLocation handles POST /users/location/:id
func (h *UserHandler) SetLocation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req user.SetLocationRequest
	if !h.bind(c, &req) {
		return
	}

	u, err := h.uc.SetLocation(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, "SetLocation", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// SetInterests handles POST /users/interests/:id
func (h *UserHandler) SetInterests(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var interests []string
	if !h.bind(c, &interests) {
		return
	}

	u, err := h.uc.SetInterests(c.Request.Context(), id, interests)
	if err != nil {
		h.handleError(c, "SetInterests", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// SetGoals handles POST /users/goals/:id
func (h *UserHandler) SetGoals(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var goals []string
	if !h.bind(c, &goals) {
		return
	}

	u, err := h.uc.SetGoals(c.Request.Context(), id, goals)
	if err != nil {
		h.handleError(c, "SetGoals", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Rename handles PUT /users/name/:id?name=
func (h *UserHandler) Rename(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	u, err := h.uc.Rename(c.Request.Context(), id, user.RenameRequest{Name: c.Query("name")})
	if err != nil {
		h.handleError(c, "Rename", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Block handles PATCH /users/block/:id
func (h *UserHandler) Block(c *gin.Context) {
	h.setBlocked(c, "Block", h.uc.Block)
}

// Unblock handles PATCH /users/unblock/:id
func (h *UserHandler) Unblock(c *gin.Context) {
	h.setBlocked(c, "Unblock", h.uc.Unblock)
}

func (h *UserHandler) setBlocked(c *gin.Context, op string, fn func(context.Context, uuid.UUID) (*domain.User, error)) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	h.log.Info("Gin "+op+" request", zap.String("id", id.String()))

	u, err := fn(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Follow handles POST /users/follow/:id
func (h *UserHandler) Follow(c *gin.Context) {
	source, ok := h.pathID(c)
	if !ok {
		return
	}
	var req FollowRequest
	if !h.bind(c, &req) {
		return
	}
	target, ok := h.parseID(c, "followed_id", req.FollowedID)
	if !ok {
		return
	}

	u, err := h.uc.Follow(c.Request.Context(), source, target)
	if err != nil {
		h.handleError(c, "Follow", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Unfollow handles DELETE /users/follow/:id. The followed id is read from the
// followed_id query parameter, falling back to the JSON body.
func (h *UserHandler) Unfollow(c *gin.Context) {
	source, ok := h.pathID(c)
	if !ok {
		return
	}

	raw := c.Query("followed_id")
	if raw == "" && c.Request.ContentLength != 0 {
		var req FollowRequest
		if !h.bind(c, &req) {
			return
		}
		raw = req.FollowedID
	}
	target, ok := h.parseID(c, "followed_id", raw)
	if !ok {
		return
	}

	u, err := h.uc.Unfollow(c.Request.Context(), source, target)
	if err != nil {
		h.handleError(c, "Unfollow", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListFollowers handles GET /users/followers/:id
func (h *UserHandler) ListFollowers(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	users, err := h.uc.ListFollowers(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "ListFollowers", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// ListFolloweds handles GET /users/followeds/:id
func (h *UserHandler) ListFolloweds(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	users, err := h.uc.ListFolloweds(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "ListFolloweds", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// Recommendations handles GET /users/recommendations/:id
func (h *UserHandler) Recommendations(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	summaries, err := h.uc.Recommend(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "Recommendations", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(summaries))
}

// Interests handles GET /users/interests/
func (h *UserHandler) Interests(c *gin.Context) {
	c.JSON(http.StatusOK, h.uc.Interests())
}

// Reset handles DELETE /users/
func (h *UserHandler) Reset(c *gin.Context) {
	if err := h.uc.Reset(c.Request.Context()); err != nil {
		h.handleError(c, "Reset", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	return h.parseID(c, "id", c.Param("id"))
}

func (h *UserHandler) parseID(c *gin.Context, field, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		h.log.Warn("Invalid user ID", zap.String(field, raw), zap.Error(err))
		problem.AbortWithError(c, apperrors.NewValidationError(field, "must be a valid UUID, got: "+strconv.Quote(raw)))
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Warn("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		problem.AbortWithError(c, apperrors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

func (h *UserHandler) searchRequest(c *gin.Context) (user.SearchRequest, bool) {
	req := user.SearchRequest{Query: c.Query("user")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			problem.AbortWithError(c, apperrors.NewValidationError("limit", "must be an integer, got: "+strconv.Quote(raw)))
			return req, false
		}
		req.Limit = limit
	}
	return req, true
}

// handleError converts usecase errors to problem responses
func (h *UserHandler) handleError(c *gin.Context, op string, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)
	if problem.StatusOf(err) == http.StatusInternalServerError {
		log.Error("Gin "+op+" failed", zap.Error(err))
	} else {
		log.Debug("Gin "+op+" rejected", zap.Error(err))
	}
	problem.AbortWithError(c, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
