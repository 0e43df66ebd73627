package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"server/db"
	"server/models"
	"server/storage"
	"server/utils"
)

const thumbSize = 400

var errInvalidImage = errors.New("attachment is not a valid image")

type PostSaveRequest struct {
	Text    string  `form:"text" binding:"required"`
	GroupID *uint64 `form:"group_id"`
}

type CommentInfo struct {
	ID        uint64 `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

type PostDetailResponse struct {
	ID          uint64        `json:"id"`
	Text        string        `json:"text"`
	PublishedAt int64         `json:"published_at"`
	Author      string        `json:"author"`
	AuthorName  string        `json:"author_name"`
	Group       string        `json:"group,omitempty"`
	HasImage    bool          `json:"has_image"`
	Comments    []CommentInfo `json:"comments"`
	Followers   int64         `json:"followers"`
	Following   int64         `json:"following"`
}

// savePostImage validates and stores an optional image attachment. A present
// but undecodable attachment fails the whole mutation: nothing is stored.
func savePostImage(c *gin.Context) (imagePath, thumbPath string, err error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No attachment
		return "", "", nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()
	var original bytes.Buffer
	if _, err = io.Copy(&original, file); err != nil {
		return "", "", err
	}
	var thumb bytes.Buffer
	if _, err = utils.CreateThumb(thumbSize, bytes.NewReader(original.Bytes()), &thumb); err != nil {
		return "", "", errInvalidImage
	}
	name := uuid.New().String()
	imagePath = "posts/" + name
	thumbPath = "posts/" + name + ".thumb.jpg"
	store := storage.GetDefaultStorage()
	if _, err = store.Save(imagePath, bytes.NewReader(original.Bytes())); err != nil {
		return "", "", err
	}
	if _, err = store.Save(thumbPath, &thumb); err != nil {
		store.Delete(imagePath)
		return "", "", err
	}
	return imagePath, thumbPath, nil
}

func bindPostSaveRequest(c *gin.Context) (req PostSaveRequest, ok bool) {
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	if req.GroupID != nil {
		var group models.Group
		if db.Instance.First(&group, *req.GroupID).Error != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown group"})
			return req, false
		}
	}
	return req, true
}

func PostCreate(c *gin.Context, user *models.User) {
	req, ok := bindPostSaveRequest(c)
	if !ok {
		return
	}
	imagePath, thumbPath, err := savePostImage(c)
	if errors.Is(err, errInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if _, err := models.PostCreate(user.ID, req.Text, req.GroupID, imagePath, thumbPath); err != nil {
		removeImages(imagePath, thumbPath)
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// PostEdit changes text/group/image of an own post. A non-owner is silently
// sent back to the post view. The publication time never changes.
func PostEdit(c *gin.Context, user *models.User) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	readView := "/post/" + strconv.FormatUint(post.ID, 10)
	if post.UserID != user.ID {
		c.Redirect(http.StatusFound, readView)
		return
	}
	req, ok := bindPostSaveRequest(c)
	if !ok {
		return
	}
	imagePath, thumbPath, err := savePostImage(c)
	if errors.Is(err, errInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	oldImagePath, oldThumbPath := post.ImagePath, post.ThumbPath
	post.Text = req.Text
	post.GroupID = req.GroupID
	if imagePath != "" {
		post.ImagePath = imagePath
		post.ThumbPath = thumbPath
	}
	err = db.Instance.Model(&post).
		Select("Text", "GroupID", "ImagePath", "ThumbPath").
		Updates(&post).Error
	if err != nil {
		removeImages(imagePath, thumbPath)
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	if imagePath != "" && oldImagePath != "" {
		removeImages(oldImagePath, oldThumbPath)
	}
	c.Redirect(http.StatusFound, readView)
}

// PostDetail is the public single-post view: the post, its comments newest
// first and the author's follow counts.
func PostDetail(c *gin.Context) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	comments, err := models.CommentsForPost(post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := PostDetailResponse{
		ID:          post.ID,
		Text:        post.Text,
		PublishedAt: post.PublishedAt,
		Author:      post.User.Handle,
		AuthorName:  post.User.Name,
		HasImage:    post.ImagePath != "",
		Comments:    make([]CommentInfo, len(comments)),
		Followers:   models.FollowerCount(post.UserID),
		Following:   models.FollowingCount(post.UserID),
	}
	if post.Group != nil {
		result.Group = post.Group.Slug
	}
	for i, comment := range comments {
		result.Comments[i] = CommentInfo{
			ID:        comment.ID,
			Author:    comment.User.Handle,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, result)
}

func PostImage(c *gin.Context) {
	servePostFile(c, func(post *models.Post) string { return post.ImagePath })
}

func PostThumb(c *gin.Context) {
	servePostFile(c, func(post *models.Post) string { return post.ThumbPath })
}

func servePostFile(c *gin.Context, pick func(*models.Post) string) {
	post, ok := loadPost(c)
	if !ok {
		return
	}
	path := pick(&post)
	if path == "" {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	storage.GetDefaultStorage().Serve(path, c.Request, c.Writer)
}

func loadPost(c *gin.Context) (post models.Post, ok bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return post, false
	}
	post, err = models.PostByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return post, false
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return post, false
	}
	return post, true
}

func removeImages(paths ...string) {
	store := storage.GetDefaultStorage()
	for _, path := range paths {
		if path != "" {
			_ = store.Delete(path)
		}
	}
}
