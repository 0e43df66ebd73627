package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"server/feed"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	NotFoundResponse = Response{"not found"}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
)

// Feed is the shared feed assembler, set once at startup
var Feed *feed.Service

func Init(feedService *feed.Service) {
	Feed = feedService
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
