package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simpleym/yard_backend/config"
	"github.com/simpleym/yard_backend/models"
	"github.com/simpleym/yard_backend/store"
	"github.com/simpleym/yard_backend/utils"
)

// recordRequest is the shared body of /add-record and /update-record.
type recordRequest struct {
	Collection string           `json:"collection"`
	Data       []map[string]any `json:"data"`
}

// respondError translates domain errors to HTTP at the endpoint boundary:
// validation 400, conflict 400, not-found 404, anything else 500 with the
// upstream message embedded.
func respondError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	var conflictErr *utils.ConflictError
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.As(err, &validationErr), errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func (a *apiServer) rootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s Yard Management Software", config.CompanyName()),
		})
	}
}

func (a *apiServer) collectionSchemaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.CollectionSchema())
	}
}

func (a *apiServer) currentTimeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().In(config.LocalZone())
		c.JSON(http.StatusOK, gin.H{
			"current_time": now.Format("2006-01-02 03:04:05 PM") + " EST",
		})
	}
}

func (a *apiServer) locationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"locations": a.locations.Names(c.Request.Context())})
	}
}

func (a *apiServer) lastKnownLocationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := a.engine.LastKnownLocations(c.Request.Context())
		if err != nil {
			respondError(c, fmt.Errorf("Failed to fetch last known locations: %s", err))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (a *apiServer) trailerStatisticsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := a.engine.Statistics(c.Request.Context())
		if err != nil {
			respondError(c, fmt.Errorf("Failed to fetch trailer statistics: %s", err))
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func (a *apiServer) fetchDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Query("collection")
		if collection == "" {
			respondError(c, utils.NewValidationError("Collection name is required"))
			return
		}
		data, err := a.records.FetchAll(c.Request.Context(), collection)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

func (a *apiServer) addRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recordRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Collection == "" || len(req.Data) == 0 {
			respondError(c, utils.NewValidationError("Invalid data or collection name."))
			return
		}

		if _, err := a.records.Insert(c.Request.Context(), req.Collection, req.Data); err != nil {
			respondError(c, fmt.Errorf("Error adding record: %s", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Record added successfully to %s.", req.Collection),
		})
	}
}

func (a *apiServer) updateRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recordRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Collection == "" || len(req.Data) == 0 {
			respondError(c, utils.NewValidationError("Invalid data or collection name."))
			return
		}
		if len(req.Data) != 1 {
			respondError(c, utils.NewValidationError("Can only update one record at a time."))
			return
		}

		err := a.records.UpdateOne(c.Request.Context(), req.Collection, req.Data[0])
		if err != nil {
			var validationErr *utils.ValidationError
			if !errors.Is(err, utils.ErrorRecordNotFound) && !errors.As(err, &validationErr) {
				err = fmt.Errorf("Error updating record: %s", err)
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Record updated successfully in %s.", req.Collection),
		})
	}
}

// updateRecordByIDHandler is the query-param flavor of record updates used
// by the admin screens: collection and id in the query string, the fields
// to merge in the body.
func (a *apiServer) updateRecordByIDHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Query("collection")
		id := c.Query("id")
		if collection == "" || id == "" {
			respondError(c, utils.NewValidationError("Collection name and record ID are required"))
			return
		}

		var fields map[string]any
		if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
			respondError(c, utils.NewValidationError("Invalid data or collection name."))
			return
		}
		fields["id"] = id

		if err := a.records.UpdateOne(c.Request.Context(), collection, fields); err != nil {
			if !errors.Is(err, utils.ErrorRecordNotFound) {
				err = fmt.Errorf("Error updating record: %s", err)
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Record with ID %s successfully updated in %s.", id, collection),
		})
	}
}

func (a *apiServer) updateMoveTimestampsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		moveID := c.Param("move_id")
		event := models.MoveEvent(c.Query("event"))

		err := a.moves.UpdateEvent(c.Request.Context(), moveID, event)
		if err != nil {
			var validationErr *utils.ValidationError
			switch {
			case errors.Is(err, store.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"detail": "Move not found."})
			case errors.As(err, &validationErr):
				respondError(c, err)
			default:
				respondError(c, fmt.Errorf("Error updating timestamps: %s", err))
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Successfully updated %s timestamp for move %s.", event, moveID),
		})
	}
}

func (a *apiServer) deleteRecordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := c.Query("collection")
		id := c.Query("id")
		if collection == "" || id == "" {
			respondError(c, utils.NewValidationError("Collection name and record ID are required"))
			return
		}

		err := a.records.Delete(c.Request.Context(), collection, id)
		if err != nil {
			if !errors.Is(err, utils.ErrorRecordNotFound) {
				err = fmt.Errorf("Error deleting record: %s", err)
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Record with ID %s successfully deleted from %s.", id, collection),
		})
	}
}

func (a *apiServer) createAuthUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewAuthUser
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, utils.NewValidationError("email, password, name and role are required"))
			return
		}

		uid, err := a.users.CreateAuthUser(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":              fmt.Sprintf("User %s created successfully with role %s.", req.Email, req.Role),
			"uid":                  uid,
			"created_in_auth":      true,
			"created_in_firestore": true,
		})
	}
}

func (a *apiServer) addTempCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var check map[string]any
		if err := c.ShouldBindJSON(&check); err != nil || len(check) == 0 {
			respondError(c, utils.NewValidationError("Invalid temperature check payload."))
			return
		}

		id, err := a.tempChecks.Add(c.Request.Context(), check)
		if err != nil {
			respondError(c, fmt.Errorf("Failed to add temperature check: %s", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Temperature check added with ID %s.", id),
		})
	}
}

func (a *apiServer) dashboardDataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := a.dashboard.Fetch(c.Request.Context())
		if err != nil {
			config.LogError(c.Request.Context(), a.logger, "handlers.go", "dashboardDataHandler", "aggregate dashboard", nil, err)
			respondError(c, errors.New("Failed to fetch dashboard data."))
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

func (a *apiServer) validateTrailerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		trailerID := c.Query("trailer_id")
		if trailerID == "" {
			respondError(c, utils.NewValidationError("trailer_id is required"))
			return
		}
		exists, err := a.trailers.Exists(c.Request.Context(), trailerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": exists})
	}
}
