package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

type CacheRouter struct {
	CacheTime int // defaults to CacheNoCache = 0
	// Public marks responses as shareable by intermediaries. Only safe for
	// content that does not depend on the session, e.g. post images.
	Public bool
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cr.CacheTime != CacheCustom {
			if cr.CacheTime == CacheNoCache {
				c.Header("cache-control", "no-cache")
			} else if cr.Public {
				c.Header("cache-control", "public, max-age="+strconv.Itoa(cr.CacheTime))
			} else {
				c.Header("cache-control", "private, max-age="+strconv.Itoa(cr.CacheTime))
			}
		}
		c.Next()
	}
}
