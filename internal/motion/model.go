package motion

// Model is the parameter store motions write into. Indices come from
// ParameterIndex and PartIndex; a negative index means the id is unknown and
// callers skip it.
type Model interface {
	ParameterIndex(id string) int
	ParameterValueByIndex(i int) float64
	ParameterValueByID(id string) float64
	// SetParameterValueByIndex blends v into the current value by weight w.
	SetParameterValueByIndex(i int, v, w float64)
	SetParameterValueByID(id string, v, w float64)
	AddParameterValueByID(id string, v, w float64)
	MultiplyParameterValueByID(id string, v, w float64)
	IsRepeat(i int) bool
	// ParameterRepeatValue wraps v into the parameter's range.
	ParameterRepeatValue(i int, v float64) float64
	// ParameterClampValue clamps v into the parameter's range.
	ParameterClampValue(i int, v float64) float64

	PartIndex(id string) int
	PartOpacityByIndex(i int) float64
	SetPartOpacityByIndex(i int, v float64)

	SetModelOpacity(v float64)
}
