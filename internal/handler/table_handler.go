package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/user-table-api/internal/dto"
	"github.com/noah-isme/user-table-api/internal/models"
	"github.com/noah-isme/user-table-api/internal/service"
	appErrors "github.com/noah-isme/user-table-api/pkg/errors"
	"github.com/noah-isme/user-table-api/pkg/response"
)

type tableSessions interface {
	Create(ctx context.Context) (*service.TableService, error)
	Delete(id string) error
}

type exportRenderer interface {
	Render(format service.ExportFormat, users []models.User) (*service.ExportFile, error)
}

// TableHandler drives table sessions over HTTP. Every mutating call answers with the refreshed view.
type TableHandler struct {
	sessions tableSessions
	exporter exportRenderer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTableHandler builds a new handler.
func NewTableHandler(sessions tableSessions, exporter exportRenderer, validate *validator.Validate, logger *zap.Logger) *TableHandler {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableHandler{sessions: sessions, exporter: exporter, validate: validate, logger: logger}
}

// Register mounts the table routes. session must resolve :id into the gin context.
func (h *TableHandler) Register(group *gin.RouterGroup, session gin.HandlerFunc) {
	group.POST("/tables", h.Create)

	tables := group.Group("/tables/:id", session)
	tables.GET("", h.View)
	tables.DELETE("", h.Close)
	tables.POST("/reload", h.Reload)

	tables.PUT("/filter", h.SetFilter)
	tables.DELETE("/filter", h.ClearFilters)
	tables.DELETE("/filter/dates", h.ClearDateFilter)
	tables.POST("/sort", h.SortBy)
	tables.POST("/page", h.GoToPage)
	tables.PUT("/page-size", h.SetPageSize)

	tables.POST("/selection/toggle", h.ToggleSelect)
	tables.POST("/selection/toggle-all", h.ToggleSelectAll)
	tables.DELETE("/selection", h.ClearSelection)

	tables.POST("/users/delete-selected", h.DeleteSelected)
	tables.POST("/users/:userID/toggle-status", h.ToggleStatus)
	tables.DELETE("/users/:userID", h.DeleteUser)

	tables.POST("/edit/save", h.SaveEdit)
	tables.POST("/edit/:userID", h.StartEdit)
	tables.PATCH("/edit", h.ChangeEdit)
	tables.DELETE("/edit", h.CancelEdit)

	tables.POST("/add", h.OpenAdd)
	tables.PATCH("/add", h.ChangeAdd)
	tables.POST("/add/submit", h.SubmitAdd)
	tables.DELETE("/add", h.CloseAdd)

	tables.POST("/details/:userID", h.OpenDetails)
	tables.DELETE("/details", h.CloseDetails)

	tables.GET("/export", h.Export)
}

// Create godoc
// @Summary Open a table session
// @Description Creates a session and loads the user list. A load failure still returns the session id in meta.
// @Tags Tables
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /tables [post]
func (h *TableHandler) Create(c *gin.Context) {
	session, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		meta := map[string]interface{}{}
		if session != nil {
			meta["table_id"] = session.ID()
		}
		response.ErrorWithMeta(c, err, meta)
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%s", c.FullPath(), session.ID()))
	response.Created(c, session.View())
}

// View godoc
// @Summary Render a table session
// @Tags Tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tables/{id} [get]
func (h *TableHandler) View(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		response.JSON(c, http.StatusOK, t.View(), nil)
	})
}

// Close godoc
// @Summary Close a table session
// @Tags Tables
// @Param id path string true "Table ID"
// @Success 204
// @Router /tables/{id} [delete]
func (h *TableHandler) Close(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reload godoc
// @Summary Reload users from the remote API
// @Tags Tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /tables/{id}/reload [post]
func (h *TableHandler) Reload(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		if err := t.Load(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// SetFilter godoc
// @Summary Replace the filter
// @Tags Tables
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.FilterRequest true "Filter"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/filter [put]
func (h *TableHandler) SetFilter(c *gin.Context) {
	var req dto.FilterRequest
	if !h.bind(c, &req, "invalid filter payload") {
		return
	}
	h.withTable(c, func(t *service.TableService) {
		if err := t.SetFilter(req.State()); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// ClearFilters godoc
// @Summary Reset every filter
// @Tags Tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/filter [delete]
func (h *TableHandler) ClearFilters(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		t.ClearFilters()
		h.respondView(c, t)
	})
}

// ClearDateFilter godoc
// @Summary Reset the date range filter
// @Tags Tables
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/filter/dates [delete]
func (h *TableHandler) ClearDateFilter(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		t.ClearDateFilter()
		h.respondView(c, t)
	})
}

// SortBy godoc
// @Summary Sort by a column, flipping direction when it is already active
// @Tags Tables
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.SortRequest true "Sort column"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/sort [post]
func (h *TableHandler) SortBy(c *gin.Context) {
	var req dto.SortRequest
	if !h.bind(c, &req, "invalid sort payload") {
		return
	}
	h.withTable(c, func(t *service.TableService) {
		if err := t.SortBy(models.SortColumn(req.Column)); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// GoToPage godoc
// @Summary Go to a page
// @Description Out-of-range pages are ignored; meta.scroll_to_top reports whether the page changed.
// @Tags Tables
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.PageRequest true "Page"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/page [post]
func (h *TableHandler) GoToPage(c *gin.Context) {
	var req dto.PageRequest
	if !h.bind(c, &req, "invalid page payload") {
		return
	}
	h.withTable(c, func(t *service.TableService) {
		moved := t.GoToPage(req.Page)
		response.JSON(c, http.StatusOK, t.View(), nil, map[string]interface{}{"scroll_to_top": moved})
	})
}

// SetPageSize godoc
// @Summary Change rows per page
// @Tags Tables
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.PageSizeRequest true "Page size"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/page-size [put]
func (h *TableHandler) SetPageSize(c *gin.Context) {
	var req dto.PageSizeRequest
	if !h.bind(c, &req, "invalid page size payload") {
		return
	}
	h.withTable(c, func(t *service.TableService) {
		if err := t.SetPageSize(req.PageSize); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// ToggleSelect godoc
// @Summary Toggle one row's selection
// @Tags Selection
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.SelectRequest true "User id"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/selection/toggle [post]
func (h *TableHandler) ToggleSelect(c *gin.Context) {
	var req dto.SelectRequest
	if !h.bind(c, &req, "invalid selection payload") {
		return
	}
	h.withTable(c, func(t *service.TableService) {
		if err := t.ToggleSelect(req.ID); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// ToggleSelectAll godoc
// @Summary Select or deselect every row of the visible page
// @Tags Selection
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/selection/toggle-all [post]
func (h *TableHandler) ToggleSelectAll(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		t.ToggleSelectAll()
		h.respondView(c, t)
	})
}

// ClearSelection godoc
// @Summary Clear the selection
// @Tags Selection
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/selection [delete]
func (h *TableHandler) ClearSelection(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		t.ClearSelection()
		h.respondView(c, t)
	})
}

// ToggleStatus godoc
// @Summary Toggle a user between active and inactive
// @Tags Users
// @Produce json
// @Param id path string true "Table ID"
// @Param userID path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /tables/{id}/users/{userID}/toggle-status [post]
func (h *TableHandler) ToggleStatus(c *gin.Context) {
	h.withUser(c, func(t *service.TableService, userID int) {
		if err := t.ToggleStatus(c.Request.Context(), userID); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags Users
// @Produce json
// @Param id path string true "Table ID"
// @Param userID path int true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /tables/{id}/users/{userID} [delete]
func (h *TableHandler) DeleteUser(c *gin.Context) {
	h.withUser(c, func(t *service.TableService, userID int) {
		if err := t.DeleteUser(c.Request.Context(), userID); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// DeleteSelected godoc
// @Summary Delete every selected user
// @Tags Users
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /tables/{id}/users/delete-selected [post]
func (h *TableHandler) DeleteSelected(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		deleted, err := t.DeleteSelected(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, dto.DeleteSelectedResponse{Deleted: deleted, View: t.View()}, nil)
	})
}

// StartEdit godoc
// @Summary Start editing a user inline
// @Tags Edit
// @Produce json
// @Param id path string true "Table ID"
// @Param userID path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/edit/{userID} [post]
func (h *TableHandler) StartEdit(c *gin.Context) {
	h.withUser(c, func(t *service.TableService, userID int) {
		if err := t.StartEdit(userID); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// ChangeEdit godoc
// @Summary Change fields of the inline edit form
// @Tags Edit
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.EditChangeRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/edit [patch]
func (h *TableHandler) ChangeEdit(c *gin.Context) {
	var req dto.EditChangeRequest
	if !h.bind(c, &req, "invalid edit payload") {
		return
	}
	h.withTable(c, func(t *service.TableService) {
		state, err := t.ChangeEdit(req.Change())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, state, nil)
	})
}

// SaveEdit godoc
// @Summary Save the inline edit
// @Tags Edit
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /tables/{id}/edit/save [post]
func (h *TableHandler) SaveEdit(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		if err := t.SaveEdit(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
		h.respondView(c, t)
	})
}

// CancelEdit godoc
// @Summary Discard the inline edit
// @Tags Edit
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/edit [delete]
func (h *TableHandler) CancelEdit(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		t.CancelEdit()
		h.respondView(c, t)
	})
}

// OpenAdd godoc
// @Summary Open the add-user dialog
// @Tags Add
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/add [post]
func (h *TableHandler) OpenAdd(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		response.JSON(c, http.StatusOK, t.OpenAdd(), nil)
	})
}

// ChangeAdd godoc
// @Summary Change fields of the add-user draft
// @Description Changed fields are validated immediately; errors come back in the draft state.
// @Tags Add
// @Accept json
// @Produce json
// @Param id path string true "Table ID"
// @Param payload body dto.AddChangeRequest true "Changed fields"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/add [patch]
func (h *TableHandler) ChangeAdd(c *gin.Context) {
	var req dto.AddChangeRequest
	if !h.bind(c, &req, "invalid add payload") {
		return
	}
	h.withTable(c, func(t *service.TableService) {
		state, err := t.ChangeAdd(req.Change())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, state, nil)
	})
}

// SubmitAdd godoc
// @Summary Create the drafted user
// @Tags Add
// @Produce json
// @Param id path string true "Table ID"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /tables/{id}/add/submit [post]
func (h *TableHandler) SubmitAdd(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		user, err := t.SubmitAdd(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, dto.AddUserResponse{User: user, View: t.View()})
	})
}

// CloseAdd godoc
// @Summary Close the add-user dialog
// @Tags Add
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/add [delete]
func (h *TableHandler) CloseAdd(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		t.CloseAdd()
		h.respondView(c, t)
	})
}

// OpenDetails godoc
// @Summary Show a user's details
// @Tags Details
// @Produce json
// @Param id path string true "Table ID"
// @Param userID path int true "User ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/details/{userID} [post]
func (h *TableHandler) OpenDetails(c *gin.Context) {
	h.withUser(c, func(t *service.TableService, userID int) {
		user, err := t.OpenDetails(userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, user, nil)
	})
}

// CloseDetails godoc
// @Summary Hide the details modal
// @Tags Details
// @Produce json
// @Param id path string true "Table ID"
// @Success 200 {object} response.Envelope
// @Router /tables/{id}/details [delete]
func (h *TableHandler) CloseDetails(c *gin.Context) {
	h.withTable(c, func(t *service.TableService) {
		t.CloseDetails()
		h.respondView(c, t)
	})
}

// Export godoc
// @Summary Export users
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Table ID"
// @Param format query string false "csv or pdf" default(csv)
// @Param scope query string false "all, page or selected" default(all)
// @Success 200 {file} file
// @Router /tables/{id}/export [get]
func (h *TableHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if err := h.validate.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if query.Format == "" {
		query.Format = string(service.ExportFormatCSV)
	}

	h.withTable(c, func(t *service.TableService) {
		users, err := t.ExportUsers(service.ExportScope(query.Scope))
		if err != nil {
			response.Error(c, err)
			return
		}
		file, err := h.exporter.Render(service.ExportFormat(query.Format), users)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.logger.Debug("export rendered", zap.String("table_id", t.ID()), zap.String("format", query.Format), zap.Int("rows", len(users)))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		c.Data(http.StatusOK, file.ContentType, file.Body)
	})
}

func (h *TableHandler) bind(c *gin.Context, req interface{}, message string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func (h *TableHandler) withTable(c *gin.Context, fn func(t *service.TableService)) {
	t, ok := tableFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrSessionNotFound)
		return
	}
	fn(t)
}

func (h *TableHandler) withUser(c *gin.Context, fn func(t *service.TableService, userID int)) {
	userID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "user id must be an integer"))
		return
	}
	h.withTable(c, func(t *service.TableService) { fn(t, userID) })
}

func (h *TableHandler) respondView(c *gin.Context, t *service.TableService) {
	response.JSON(c, http.StatusOK, t.View(), nil)
}
