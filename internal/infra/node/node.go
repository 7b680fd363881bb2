package node

import (
	"errors"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
)

const (
	EnvDeviceID        = "IOTEDGE_DEVICEID"
	EnvModuleID        = "IOTEDGE_MODULEID"
	EnvGatewayHostName = "IOTEDGE_GATEWAYHOSTNAME"
)

var ErrMissingIdentity = errors.New("module identity is incomplete")

// Node describes the running module instance as the edge runtime sees it.
type Node struct {
	ID              string
	DeviceID        string
	ModuleID        string
	GatewayHostName string
	IPAddress       string
	Version         string
	CommitHash      string
}

var Version = "development"
var CommitHash = "unknown"

var (
	instanceID     string
	instanceIDOnce sync.Once
	nodeIP         string
	nodeIPOnce     sync.Once
)

// GetNodeInfo reads the identity injected by the edge runtime.
func GetNodeInfo() *Node {
	return &Node{
		ID:              getInstanceID(),
		DeviceID:        os.Getenv(EnvDeviceID),
		ModuleID:        os.Getenv(EnvModuleID),
		GatewayHostName: os.Getenv(EnvGatewayHostName),
		IPAddress:       getNodeIPAddress(),
		Version:         Version,
		CommitHash:      CommitHash,
	}
}

// Validate fails when the runtime did not provide a device or module id.
func (n *Node) Validate() error {
	if n.DeviceID == "" || n.ModuleID == "" {
		return ErrMissingIdentity
	}
	return nil
}

// ClientID is the MQTT client id edgeHub expects for a module connection.
func (n *Node) ClientID() string {
	return n.DeviceID + "/" + n.ModuleID
}

func getInstanceID() string {
	instanceIDOnce.Do(func() {
		instanceID = uuid.NewString()
	})
	return instanceID
}

func getNodeIPAddress() string {
	nodeIPOnce.Do(func() {
		nodeIP = lookupIPAddress()
	})
	return nodeIP
}

func lookupIPAddress() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
