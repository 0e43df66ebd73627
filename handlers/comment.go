package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"server/models"
)

type CommentCreateRequest struct {
	Text string `form:"text" binding:"required"`
}

// CommentCreate appends a comment to a post and sends the viewer back to it.
// Registered on the auth router, so anonymous viewers never reach this and
// get redirected to login instead.
func CommentCreate(c *gin.Context, user *models.User) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	req := CommentCreateRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := models.CommentCreate(post.ID, user.ID, req.Text); err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.Redirect(http.StatusFound, "/post/"+strconv.FormatUint(post.ID, 10))
}
