package out

import (
	"context"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
)

// DirectoryCachePort кэширует справочники врачей и пациентов.
// Собранные расписания не кэшируются никогда.
type DirectoryCachePort interface {
	GetPatient(ctx context.Context, patientID string) (*domain.Patient, bool)
	StorePatient(ctx context.Context, patient domain.Patient)
	InvalidatePatient(ctx context.Context, patientID string)

	GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, bool)
	StoreDoctor(ctx context.Context, doctor domain.Doctor)
	InvalidateDoctor(ctx context.Context, doctorID string)

	InvalidateAll(ctx context.Context)
}
