package domain

// ConnectionState is the last known reachability of the remote collector.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

func (s ConnectionState) String() string {
	return string(s)
}
