package schedule_service

import (
	"strings"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
)

type categoryRule struct {
	needles  []string
	category domain.AppointmentCategory
}

// Порядок важен: "Follow-Up Consultation" должен стать follow-up, а не consultation
var categoryRules = []categoryRule{
	{needles: []string{"follow"}, category: domain.AppointmentCategoryFollowUp},
	{needles: []string{"check"}, category: domain.AppointmentCategoryCheckup},
	{needles: []string{"consult"}, category: domain.AppointmentCategoryConsultation},
	{needles: []string{"procedure", "surgery"}, category: domain.AppointmentCategoryProcedure},
}

// ClassifyAppointmentType сопоставляет метку типа с категорией отображения.
// Второе значение false, если метка не распознана и выбрана категория default.
func ClassifyAppointmentType(label domain.AppointmentType) (domain.AppointmentCategory, bool) {
	normalized := strings.ToLower(string(label))

	for _, rule := range categoryRules {
		for _, needle := range rule.needles {
			if strings.Contains(normalized, needle) {
				return rule.category, true
			}
		}
	}

	return domain.AppointmentCategoryDefault, false
}
