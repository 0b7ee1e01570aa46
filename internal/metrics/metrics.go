package metrics

import "time"

// Counter and operation names
const (
	EventVerification = "verification"
	EventRPCCall      = "rpc_call"
	EventTransition   = "payment_transition"
	EventNotification = "notification"

	OpVerify  = "verify"
	OpRPCCall = "rpc_call"
)

// Label keys understood by the recorders
const (
	LabelNetwork = "network"
	LabelKind    = "kind"
)

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
