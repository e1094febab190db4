package core

import (
	"fmt"

	psnet "github.com/shirou/gopsutil/v3/net"
	"golang.zx2c4.com/wireguard/wgctrl"
)

// CounterSource reads cumulative byte counters from somewhere on the host.
// Counters are monotonic in normal operation but may jump backwards on
// interface reset; the sampler clamps the resulting deltas.
type CounterSource interface {
	Counters() (recv, sent uint64, err error)
	Name() string
}

// NewCounterSource picks the source configured in cfg. Unknown values fall
// back to the system source.
func NewCounterSource(cfg *Config) (CounterSource, error) {
	switch cfg.Source {
	case "wireguard":
		return NewWireGuardSource(cfg.Interface)
	default:
		return &SystemSource{iface: cfg.Interface}, nil
	}
}

// SystemSource reads NIC counters via gopsutil. With an empty interface
// name it uses the host-wide aggregate, matching what the overlay displays.
type SystemSource struct {
	iface string
}

func (s *SystemSource) Name() string {
	if s.iface == "" {
		return "system"
	}
	return "system:" + s.iface
}

func (s *SystemSource) Counters() (uint64, uint64, error) {
	if s.iface == "" {
		stats, err := psnet.IOCounters(false)
		if err != nil {
			return 0, 0, err
		}
		if len(stats) == 0 {
			return 0, 0, fmt.Errorf("no network counters available")
		}
		return stats[0].BytesRecv, stats[0].BytesSent, nil
	}
	stats, err := psnet.IOCounters(true)
	if err != nil {
		return 0, 0, err
	}
	for _, st := range stats {
		if st.Name == s.iface {
			return st.BytesRecv, st.BytesSent, nil
		}
	}
	return 0, 0, fmt.Errorf("interface %q not found", s.iface)
}

// WireGuardSource sums per-peer transfer counters of a WireGuard device.
// Useful when the box is a tunnel endpoint and only tunnel traffic matters.
type WireGuardSource struct {
	client *wgctrl.Client
	device string
}

func NewWireGuardSource(device string) (*WireGuardSource, error) {
	if device == "" {
		device = "wg0"
	}
	client, err := wgctrl.New()
	if err != nil {
		return nil, fmt.Errorf("wgctrl: %w", err)
	}
	return &WireGuardSource{client: client, device: device}, nil
}

func (s *WireGuardSource) Name() string {
	return "wireguard:" + s.device
}

func (s *WireGuardSource) Counters() (uint64, uint64, error) {
	dev, err := s.client.Device(s.device)
	if err != nil {
		return 0, 0, err
	}
	var recv, sent uint64
	for _, peer := range dev.Peers {
		recv += uint64(peer.ReceiveBytes)
		sent += uint64(peer.TransmitBytes)
	}
	return recv, sent, nil
}

func (s *WireGuardSource) Close() error {
	return s.client.Close()
}
