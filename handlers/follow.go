package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"server/feed"
	"server/models"
)

// Follow subscribes the current user to an author and sends them back to the
// profile. Self-follow and an already existing follow land on the same
// redirect without creating anything.
func Follow(c *gin.Context, user *models.User) {
	handle := c.Param("handle")
	err := Feed.Follow(c.Request.Context(), user.ID, handle)
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+handle)
}

func Unfollow(c *gin.Context, user *models.User) {
	handle := c.Param("handle")
	err := Feed.Unfollow(c.Request.Context(), user.ID, handle)
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+handle)
}
