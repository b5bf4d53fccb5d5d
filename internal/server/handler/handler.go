package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/voldash/internal/server/dto"
	"github.com/rickgao/voldash/internal/server/usecase"
)

type HandlerItf interface {
	Health(*gin.Context)
	GetTags(*gin.Context)
	GetState(*gin.Context)
	PutStateTag(*gin.Context)
	GetRecords(*gin.Context)
	GetHotSections(*gin.Context)
	GetDashboard(*gin.Context)
	GetInstrument(*gin.Context)
}

type Handler struct {
	uc usecase.UsecaseItf
}

func NewHandler(uc usecase.UsecaseItf) *Handler {
	return &Handler{uc: uc}
}

func (hd *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.OK(hd.uc.Health()))
}

func (hd *Handler) GetTags(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.OK(hd.uc.Tags()))
}

func (hd *Handler) GetState(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.OK(hd.uc.State()))
}

func (hd *Handler) PutStateTag(ctx *gin.Context) {
	var req dto.SetTagReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(err)
		return
	}

	state, err := hd.uc.SetTag(req.Tag)
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusAccepted, dto.OK(state))
}

func (hd *Handler) GetRecords(ctx *gin.Context) {
	var q dto.RecordsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.Error(err)
		return
	}

	page, err := hd.uc.Records(ctx.Request.Context(), q)
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(page))
}

func (hd *Handler) GetHotSections(ctx *gin.Context) {
	var q dto.TagQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.Error(err)
		return
	}

	res, err := hd.uc.HotSections(ctx.Request.Context(), q.Tag)
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(res))
}

func (hd *Handler) GetDashboard(ctx *gin.Context) {
	var q dto.RecordsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.Error(err)
		return
	}

	res, err := hd.uc.Dashboard(ctx.Request.Context(), q)
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(res))
}

// GetInstrument answers 200 with found=false when the code has no data.
func (hd *Handler) GetInstrument(ctx *gin.Context) {
	var q dto.InstrumentQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.Error(err)
		return
	}

	view, err := hd.uc.Instrument(ctx.Request.Context(), ctx.Param("code"), q.Mode)
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(view))
}
