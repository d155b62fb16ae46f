package model

import (
	"time"
)

// MonitoringLocation is where generated nodes are monitored from
type MonitoringLocation struct {
	Name string `json:"name"`
	Area string `json:"area"`
}

// DefaultLocation is shared by every node in a run
var DefaultLocation = MonitoringLocation{Name: "Default", Area: "localhost"}

// Node represents a synthetic network device
type Node struct {
	ID       int                `json:"id"`
	Label    string             `json:"label"`
	Location MonitoringLocation `json:"location"`
}

// TruthValue is the SNMP TruthValue enumeration
type TruthValue int

const (
	TruthTrue  TruthValue = 1
	TruthFalse TruthValue = 2
)

// Element is the CDP view of a node. It shares the node's ID.
type Element struct {
	ID             int        `json:"id"`
	Node           *Node      `json:"-"`
	GlobalDeviceID string     `json:"global_device_id"`
	GlobalRun      TruthValue `json:"global_run"`
	LastPollTime   time.Time  `json:"last_poll_time"`
}

// NodeID returns the owning node's ID
func (e *Element) NodeID() int {
	if e.Node == nil {
		return 0
	}
	return e.Node.ID
}

// AddressType is the CiscoNetworkProtocol enumeration used by CDP caches
type AddressType int

const (
	AddressIP        AddressType = 1
	AddressDecnet    AddressType = 2
	AddressChaos     AddressType = 3
	AddressXNS       AddressType = 4
	AddressX121      AddressType = 5
	AddressAppletalk AddressType = 6
	AddressClns      AddressType = 7
	AddressLat       AddressType = 8
	AddressVines     AddressType = 9
	AddressCons      AddressType = 10
	AddressApollo    AddressType = 11
	AddressStun      AddressType = 12
	AddressNovell    AddressType = 13
	AddressQllc      AddressType = 14
	AddressSnapshot  AddressType = 15
	AddressAtmIlmi   AddressType = 16
	AddressBstun     AddressType = 17
	AddressX25pvc    AddressType = 18
	AddressIPv6      AddressType = 19
	AddressCdm       AddressType = 20
	AddressNbf       AddressType = 21
	AddressBpxiGMP   AddressType = 22
	AddressClnsPfx   AddressType = 23
	AddressHTTP      AddressType = 24
	AddressUnknown   AddressType = 65535
)

// Link is a bidirectional CDP neighbor relationship between two elements.
// It becomes two directional rows only when persisted, see Rows.
type Link struct {
	ID           int         `json:"id"`
	Source       *Element    `json:"-"`
	Target       *Element    `json:"-"`
	SourcePort   string      `json:"source_port"`
	TargetPort   string      `json:"target_port"`
	IfIndex      int         `json:"if_index"`
	AddressType  AddressType `json:"address_type"`
	Address      string      `json:"address"`
	Version      string      `json:"version"`
	Platform     string      `json:"platform"`
	DeviceIndex  int         `json:"device_index"`
	LastPollTime time.Time   `json:"last_poll_time"`
}

// LinkRow is one direction of a Link as stored in the cdplink table
type LinkRow struct {
	ID            int         `db:"id"`
	NodeID        int         `db:"nodeid"`
	IfIndex       int         `db:"cdpcacheifindex"`
	InterfaceName string      `db:"cdpinterfacename"`
	AddressType   AddressType `db:"cdpcacheaddresstype"`
	Address       string      `db:"cdpcacheaddress"`
	Version       string      `db:"cdpcacheversion"`
	DeviceID      string      `db:"cdpcachedeviceid"`
	DevicePort    string      `db:"cdpcachedeviceport"`
	Platform      string      `db:"cdpcachedeviceplatform"`
	LastPollTime  time.Time   `db:"cdplinklastpolltime"`
	DeviceIndex   int         `db:"cdpcachedeviceindex"`
}

// Rows materializes the link into its two mirrored rows. The first row is
// owned by the source node and describes the target, the second is the
// reverse. Each row's InterfaceName is the other row's DevicePort.
func (l *Link) Rows() [2]LinkRow {
	forward := LinkRow{
		ID:            2 * l.ID,
		NodeID:        l.Source.NodeID(),
		IfIndex:       l.IfIndex,
		InterfaceName: l.SourcePort,
		AddressType:   l.AddressType,
		Address:       l.Address,
		Version:       l.Version,
		DeviceID:      l.Target.GlobalDeviceID,
		DevicePort:    l.TargetPort,
		Platform:      l.Platform,
		LastPollTime:  l.LastPollTime,
		DeviceIndex:   l.DeviceIndex,
	}

	reverse := forward
	reverse.ID = 2*l.ID + 1
	reverse.NodeID = l.Target.NodeID()
	reverse.InterfaceName = l.TargetPort
	reverse.DeviceID = l.Source.GlobalDeviceID
	reverse.DevicePort = l.SourcePort

	return [2]LinkRow{forward, reverse}
}
