package domain

// AppointmentCategory — категория отображения, по ней выбирается цвет карточки
type AppointmentCategory string

const (
	AppointmentCategoryFollowUp     AppointmentCategory = "follow-up"
	AppointmentCategoryCheckup      AppointmentCategory = "checkup"
	AppointmentCategoryConsultation AppointmentCategory = "consultation"
	AppointmentCategoryProcedure    AppointmentCategory = "procedure"
	AppointmentCategoryDefault      AppointmentCategory = "default"
)

func (c AppointmentCategory) CSSClass() string {
	return "appointment-" + string(c)
}
