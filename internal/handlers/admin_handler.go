package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	ucBooking "github.com/MartinRAM24/app-gestion-citas/internal/usecase/booking"
)

type AdminHandler struct {
	listByDate        *ucBooking.ListAppointmentsByDate
	createAppointment *ucBooking.AdminCreateAppointment
	updateAppointment *ucBooking.AdminUpdateAppointment
	deleteAppointment *ucBooking.AdminDeleteAppointment
	sendReminders     *ucBooking.SendReminders
}

func NewAdminHandler(
	listByDate *ucBooking.ListAppointmentsByDate,
	createAppointment *ucBooking.AdminCreateAppointment,
	updateAppointment *ucBooking.AdminUpdateAppointment,
	deleteAppointment *ucBooking.AdminDeleteAppointment,
	sendReminders *ucBooking.SendReminders,
) *AdminHandler {
	return &AdminHandler{
		listByDate:        listByDate,
		createAppointment: createAppointment,
		updateAppointment: updateAppointment,
		deleteAppointment: deleteAppointment,
		sendReminders:     sendReminders,
	}
}

// --------- Requests ---------

type AdminCreateAppointmentRequest struct {
	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Note  string `json:"note"`
}

type AdminUpdateAppointmentRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Note  string `json:"note"`
}

// --------- Handlers ---------

func (h *AdminHandler) ListByDate(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "La fecha debe tener el formato AAAA-MM-DD.")
		return
	}

	apps, err := h.listByDate.Execute(c.Request.Context(), date)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date.Format("2006-01-02"),
		"appointments": apps,
		"total":        len(apps),
	})
}

func (h *AdminHandler) Create(c *gin.Context) {
	var req AdminCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "La fecha debe tener el formato AAAA-MM-DD.")
		return
	}

	ap, err := h.createAppointment.Execute(c.Request.Context(), ucBooking.AdminCreateAppointmentInput{
		Date:  date,
		Time:  req.Time,
		Name:  req.Name,
		Phone: req.Phone,
		Note:  req.Note,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *AdminHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "El identificador de la cita no es válido.")
		return
	}

	var req AdminUpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ap, err := h.updateAppointment.Execute(c.Request.Context(), ucBooking.AdminUpdateAppointmentInput{
		AppointmentID: uint(id),
		Name:          req.Name,
		Phone:         req.Phone,
		Note:          req.Note,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "El identificador de la cita no es válido.")
		return
	}

	if err := h.deleteAppointment.Execute(c.Request.Context(), uint(id)); err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AdminHandler) SendReminders(c *gin.Context) {
	dryRun := c.Query("dry_run") == "1" || c.Query("dry_run") == "true"

	summary, err := h.sendReminders.Execute(c.Request.Context(), dryRun)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
