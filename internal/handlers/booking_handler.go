package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	"github.com/MartinRAM24/app-gestion-citas/internal/middleware"
	ucBooking "github.com/MartinRAM24/app-gestion-citas/internal/usecase/booking"
)

type BookingHandler struct {
	getAvailability   *ucBooking.GetAvailability
	createAppointment *ucBooking.CreateAppointment
	nextAppointment   *ucBooking.NextAppointment
}

func NewBookingHandler(
	getAvailability *ucBooking.GetAvailability,
	createAppointment *ucBooking.CreateAppointment,
	nextAppointment *ucBooking.NextAppointment,
) *BookingHandler {
	return &BookingHandler{
		getAvailability:   getAvailability,
		createAppointment: createAppointment,
		nextAppointment:   nextAppointment,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
	Note string `json:"note"`
}

// --------- Handlers ---------

// Availability is public: patients pick a date before logging in.
func (h *BookingHandler) Availability(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "La fecha debe tener el formato AAAA-MM-DD.")
		return
	}

	free, err := h.getAvailability.Execute(c.Request.Context(), date)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": free,
	})
}

func (h *BookingHandler) Create(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_session", "Inicia sesión para agendar.")
		return
	}

	var req CreateAppointmentRequest
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

	ap, err := h.createAppointment.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		Date:      date,
		Time:      req.Time,
		PatientID: session.PatientID,
		Note:      req.Note,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *BookingHandler) Next(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		httperr.Unauthorized(c, "missing_session", "Inicia sesión primero.")
		return
	}

	ap, found, err := h.nextAppointment.Execute(c.Request.Context(), session.PatientID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if !found {
		httperr.NotFound(c, "no_upcoming_appointment", "No tienes citas próximas.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// writeBookingError maps the core's failure codes to HTTP. Each eligibility
// failure keeps its own corrective guidance; they are never collapsed into
// a generic message.
func writeBookingError(c *gin.Context, err error) {
	switch httperr.BusinessCode(err) {
	case httperr.CodeIneligibleDate:
		httperr.Unprocessable(c, httperr.CodeIneligibleDate,
			"Esa fecha aún no se puede agendar. Elige a partir de pasado mañana.")
	case httperr.CodeFrequencyViolation:
		httperr.Unprocessable(c, httperr.CodeFrequencyViolation,
			"Ya tienes una cita cercana a esa fecha. Solo se permite una cita por semana.")
	case httperr.CodeSlotTaken:
		httperr.Conflict(c, httperr.CodeSlotTaken,
			"Ese horario ya fue tomado. Elige otro.")
	case httperr.CodeInvalidSlot:
		httperr.BadRequest(c, httperr.CodeInvalidSlot,
			"Ese horario no existe para la fecha elegida.")
	case "invalid_phone":
		httperr.BadRequest(c, "invalid_phone", "El teléfono no es válido.")
	case httperr.CodeNotFound:
		httperr.NotFound(c, httperr.CodeNotFound, "No se encontró la cita.")
	case httperr.CodeStorageUnavailable:
		httperr.ServiceUnavailable(c, httperr.CodeStorageUnavailable,
			"El servicio no está disponible en este momento. Intenta de nuevo.")
	default:
		httperr.Internal(c, "internal_error", "Ocurrió un error inesperado.")
	}
}
