package out

type MetricsPort interface {
	ObserveAssembly(view string, softFailed bool)
	ObserveUnknownAppointmentType()
}
