package capture

import (
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestExtractDeviceName(t *testing.T) {
	tests := []struct {
		name   string
		uevent netlink.UEvent
		want   string
	}{
		{
			name:   "devname absolute",
			uevent: netlink.UEvent{Env: map[string]string{"DEVNAME": "/dev/video0"}},
			want:   "/dev/video0",
		},
		{
			name:   "devname relative",
			uevent: netlink.UEvent{Env: map[string]string{"DEVNAME": "video2"}},
			want:   "/dev/video2",
		},
		{
			name:   "devpath fallback",
			uevent: netlink.UEvent{Env: map[string]string{"DEVPATH": "/devices/pci0000:00/usb1/1-2/video4linux/video0"}},
			want:   "/dev/video0",
		},
		{
			name:   "empty",
			uevent: netlink.UEvent{Env: map[string]string{}},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDeviceName(tt.uevent); got != tt.want {
				t.Errorf("extractDeviceName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewMonitorRequiresDevice(t *testing.T) {
	if m := NewMonitor("  ", nil, nil, nil); m != nil {
		t.Fatal("blank device should yield nil monitor")
	}
	if m := NewMonitor("/dev/video0", nil, nil, nil); m == nil {
		t.Fatal("expected monitor")
	} else if m.Running() {
		t.Fatal("monitor should not be running before Start")
	}
}
