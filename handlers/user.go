package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"server/auth"
	"server/db"
	"server/models"
)

type UserSignupRequest struct {
	Handle   string `form:"handle" binding:"required"`
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserLoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func UserSignup(c *gin.Context) {
	req := UserSignupRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := models.UserCreate(req.Handle, req.Name, req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	auth.LoadSession(c).LoginUser(user.ID)
	c.Redirect(http.StatusFound, "/")
}

// UserLoginForm is where protected routes redirect anonymous viewers
func UserLoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"error": "authentication required", "fields": []string{"email", "password"}})
}

func UserLogin(c *gin.Context) {
	req := UserLoginRequest{}
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, success := models.UserLogin(req.Email, req.Password)
	if !success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong credentials"})
		return
	}
	auth.LoadSession(c).LoginUser(user.ID)
	c.Redirect(http.StatusFound, "/")
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.Redirect(http.StatusFound, "/")
}

func UserGetStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, gin.H{"error": "", "handle": user.Handle, "name": user.Name, "admin": user.Admin})
}

type UserInfo struct {
	ID     uint64 `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

func UserList(c *gin.Context, user *models.User) {
	rows, err := db.Instance.Table("users").Select("id, handle, name").Order("created_at DESC").Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	result := []UserInfo{}
	for rows.Next() {
		userInfo := UserInfo{}
		if err = rows.Scan(&userInfo.ID, &userInfo.Handle, &userInfo.Name); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		result = append(result, userInfo)
	}
	c.JSON(http.StatusOK, result)
}
