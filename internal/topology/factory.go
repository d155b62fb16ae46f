package topology

import (
	"fmt"
	"strconv"
	"time"

	"github.com/martinsuchenak/topogen/internal/model"
	"github.com/martinsuchenak/topogen/internal/pairgen"
)

// FirstNodeID is the id of the first generated node; lower ids belong to
// whatever the target database already holds.
const FirstNodeID = 100

// FirstLinkID is the id of the first generated link. Its rows take ids
// 2*FirstLinkID and up, clear of the ones kept below the watermark.
const FirstLinkID = 100

// Placeholder CDP cache values shared by every generated link
const (
	cacheIfIndex     = 33
	cacheDeviceIndex = 33
	cacheAddress     = "CdpCacheAddress"
	cacheVersion     = "CdpCacheVersion"
	cachePlatform    = "CdpCacheDevicePlatform"
)

// Factory builds nodes, elements and links
type Factory struct {
	now      func() time.Time
	location model.MonitoringLocation
}

// NewFactory returns a factory that stamps poll times with now
func NewFactory(now func() time.Time) *Factory {
	if now == nil {
		now = time.Now
	}
	return &Factory{now: now, location: model.DefaultLocation}
}

// Nodes creates n nodes with consecutive ids starting at FirstNodeID
func (f *Factory) Nodes(n int) []*model.Node {
	nodes := make([]*model.Node, n)
	for i := range nodes {
		nodes[i] = &model.Node{
			ID:       FirstNodeID + i,
			Label:    "myNode" + strconv.Itoa(i),
			Location: f.location,
		}
	}
	return nodes
}

// Elements creates one element for each of the first n nodes
func (f *Factory) Elements(nodes []*model.Node, n int) []*model.Element {
	if n > len(nodes) {
		n = len(nodes)
	}

	elements := make([]*model.Element, n)
	for i := range elements {
		node := nodes[i]
		elements[i] = &model.Element{
			ID:             node.ID,
			Node:           node,
			GlobalDeviceID: fmt.Sprintf("CdpElementForNode%d", node.ID),
			GlobalRun:      model.TruthFalse,
			LastPollTime:   f.now(),
		}
	}
	return elements
}

// Links draws n pairs and turns each into a link
func (f *Factory) Links(pairs *pairgen.Generator[model.Element], n int) []model.Link {
	links := make([]model.Link, n)
	for i := range links {
		p := pairs.Next()
		links[i] = f.Link(i, n, p.Left, p.Right)
	}
	return links
}

// Link joins source and target as the i-th link of a run of total links. Port
// names come from that position so both ends get distinct, reproducible names.
func (f *Factory) Link(i, total int, source, target *model.Element) model.Link {
	return model.Link{
		ID:           FirstLinkID + i,
		Source:       source,
		Target:       target,
		SourcePort:   strconv.Itoa(total - i - 1),
		TargetPort:   strconv.Itoa(i),
		IfIndex:      cacheIfIndex,
		AddressType:  model.AddressChaos,
		Address:      cacheAddress,
		Version:      cacheVersion,
		Platform:     cachePlatform,
		DeviceIndex:  cacheDeviceIndex,
		LastPollTime: f.now(),
	}
}
