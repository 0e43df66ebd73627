package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"server/auth"
	"server/feed"
	"server/models"
)

// GlobalFeed is the public home page listing. Served from the feed cache
// within the TTL window, so newly published posts may lag here.
func GlobalFeed(c *gin.Context) {
	result, err := Feed.Global(c.Request.Context(), pageParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GroupFeed(c *gin.Context) {
	result, err := Feed.Group(c.Request.Context(), c.Param("slug"), pageParam(c))
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ProfileFeed is public; the follow state in the response is only filled in
// for authenticated viewers.
func ProfileFeed(c *gin.Context) {
	viewerID := auth.LoadSession(c).UserID()
	result, err := Feed.Profile(c.Request.Context(), c.Param("handle"), viewerID, pageParam(c))
	if errors.Is(err, feed.ErrNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, result)
}

func FollowingFeed(c *gin.Context, user *models.User) {
	result, err := Feed.Following(c.Request.Context(), user.ID, pageParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CacheClear drops all memoized feed pages so the next read hits the DB
func CacheClear(c *gin.Context, user *models.User) {
	Feed.ClearCache(c.Request.Context())
	c.JSON(http.StatusOK, OKResponse)
}
