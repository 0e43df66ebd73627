package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"server/db"
	"server/models"
)

type GroupCreateRequest struct {
	Title       string `form:"title" binding:"required"`
	Slug        string `form:"slug" binding:"required"`
	Description string `form:"description"`
}

// GroupCreate is admin-only; there is no edit or delete path for groups
func GroupCreate(c *gin.Context, user *models.User) {
	req := GroupCreateRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group := models.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := db.Instance.Create(&group).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": group.ID, "slug": group.Slug})
}

type GroupInfo struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func GroupList(c *gin.Context) {
	rows, err := db.Instance.Table("groups").Select("id, title, slug").Order("title ASC").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	result := []GroupInfo{}
	for rows.Next() {
		groupInfo := GroupInfo{}
		if err = rows.Scan(&groupInfo.ID, &groupInfo.Title, &groupInfo.Slug); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		result = append(result, groupInfo)
	}
	c.JSON(http.StatusOK, result)
}
