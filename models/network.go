package models

// Transport is the network transport the device is currently on.
type Transport string

const (
	TransportNone     Transport = "none"
	TransportWiFi     Transport = "wifi"
	TransportCellular Transport = "cellular"
	TransportWired    Transport = "wired"
)

// Reachability is the probe verdict for the cloud endpoint.
type Reachability string

const (
	ReachableUnknown Reachability = "unknown"
	ReachableYes     Reachability = "yes"
	ReachableNo      Reachability = "no"
)

// NetworkState is the process-wide connectivity snapshot, replaced wholesale
// on every monitor event. No history is kept.
type NetworkState struct {
	Connected bool         `json:"connected"`
	Transport Transport    `json:"transport"`
	Reachable Reachability `json:"reachable"`
}
