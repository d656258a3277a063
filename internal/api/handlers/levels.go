package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/minigolf/internal/game"
	"github.com/playmatatu/minigolf/internal/levels"
	"github.com/playmatatu/minigolf/internal/logging"
	"github.com/playmatatu/minigolf/internal/models"
)

// maxLevelFileSize bounds uploaded level files.
const maxLevelFileSize = 4 << 20

// LevelStore is the persistence the level endpoints need.
type LevelStore interface {
	List(ctx context.Context) ([]models.LevelRecord, error)
	Get(ctx context.Context, id int) (*models.LevelRecord, error)
	Create(ctx context.Context, data game.LevelData) (*models.LevelRecord, error)
	Delete(ctx context.Context, id int) error
	Import(ctx context.Context, data []game.LevelData, replace bool) (int, error)
}

// ListLevels returns every stored level in play order.
func ListLevels(store LevelStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := store.List(c.Request.Context())
		if err != nil {
			logging.L().Errorf("[ERROR] ListLevels: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load levels"})
			return
		}
		if recs == nil {
			recs = []models.LevelRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"levels": recs, "count": len(recs)})
	}
}

// GetLevel returns one stored level.
func GetLevel(store LevelStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := levelID(c)
		if !ok {
			return
		}
		rec, err := store.Get(c.Request.Context(), id)
		if errors.Is(err, levels.ErrLevelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Level not found"})
			return
		}
		if err != nil {
			logging.L().Errorf("[ERROR] GetLevel %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load level"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// CreateLevel stores one level sent as JSON in the saved-level format.
func CreateLevel(store LevelStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data game.LevelData
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level JSON"})
			return
		}
		if err := data.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec, err := store.Create(c.Request.Context(), data)
		if err != nil {
			logging.L().Errorf("[ERROR] CreateLevel: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save level"})
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

// ImportLevels stores every level of an uploaded JSON or YAML level file.
// With ?replace=true the existing levels are removed first.
func ImportLevels(store LevelStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Level file required"})
			return
		}
		if fh.Size > maxLevelFileSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Level file too large"})
			return
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable level file"})
			return
		}
		defer f.Close()

		raw, err := io.ReadAll(io.LimitReader(f, maxLevelFileSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable level file"})
			return
		}

		data, err := game.ParseLevelFile(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		for i := range data {
			if err := data[i].Validate(); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "level": i})
				return
			}
		}

		replace := c.Query("replace") == "true"
		n, err := store.Import(c.Request.Context(), data, replace)
		if errors.Is(err, levels.ErrNoLevels) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Level file contains no levels"})
			return
		}
		if err != nil {
			logging.L().Errorf("[ERROR] ImportLevels: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import levels"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"imported": n, "replaced": replace})
	}
}

// DeleteLevel removes a stored level.
func DeleteLevel(store LevelStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := levelID(c)
		if !ok {
			return
		}
		err := store.Delete(c.Request.Context(), id)
		if errors.Is(err, levels.ErrLevelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Level not found"})
			return
		}
		if err != nil {
			logging.L().Errorf("[ERROR] DeleteLevel %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete level"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func levelID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level id"})
		return 0, false
	}
	return id, true
}
