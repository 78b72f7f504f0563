package mqtt

import "fmt"

// TopicPrefix is the root of every feeder topic.
const TopicPrefix = "feeder"

// Topics builds feeder topic names so publishers and subscribers agree on them.
//
//	feeder/{device}/command    core -> device actuator commands
//	feeder/{device}/schedule   core -> device schedule sync
//	feeder/{device}/status     device -> core servo status (idle|moving)
//	feeder/{device}/heartbeat  device -> core liveness
//	feeder/{device}/weight     device -> core bowl weight
//	feeder/core/status         core online/offline (retained, LWT)
type Topics struct{}

func (Topics) Command(deviceID string) string {
	return fmt.Sprintf("%s/%s/command", TopicPrefix, deviceID)
}

func (Topics) Schedule(deviceID string) string {
	return fmt.Sprintf("%s/%s/schedule", TopicPrefix, deviceID)
}

func (Topics) Status(deviceID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefix, deviceID)
}

func (Topics) Heartbeat(deviceID string) string {
	return fmt.Sprintf("%s/%s/heartbeat", TopicPrefix, deviceID)
}

func (Topics) Weight(deviceID string) string {
	return fmt.Sprintf("%s/%s/weight", TopicPrefix, deviceID)
}

// CoreStatus is where the coordinator announces itself; "core" is reserved and
// must not be used as a device id.
func (Topics) CoreStatus() string {
	return TopicPrefix + "/core/status"
}
