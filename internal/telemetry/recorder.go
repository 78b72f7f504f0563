package telemetry

// Recorder receives feeder telemetry. Implementations must not block.
type Recorder interface {
	RecordWeight(deviceID string, grams float64)
	RecordDispense(deviceID, command string, angle float64, result string)
}

// Nop drops everything.
type Nop struct{}

func (Nop) RecordWeight(string, float64)                  {}
func (Nop) RecordDispense(string, string, float64, string) {}

// Multi fans out to every recorder in order.
type Multi []Recorder

func (m Multi) RecordWeight(deviceID string, grams float64) {
	for _, r := range m {
		r.RecordWeight(deviceID, grams)
	}
}

func (m Multi) RecordDispense(deviceID, command string, angle float64, result string) {
	for _, r := range m {
		r.RecordDispense(deviceID, command, angle, result)
	}
}
