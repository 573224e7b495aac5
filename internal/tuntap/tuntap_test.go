//go:build linux
// +build linux

package tuntap

import (
	"strings"
	"testing"
	"unsafe"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAttachValidation(t *testing.T) {

	Convey("Given an unattached device handle", t, func() {
		d := &Device{fd: -1}

		Convey("An overlong name is rejected before the ioctl", func() {
			err := d.Attach(strings.Repeat("a", 16))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "interface name too long")
			So(d.Name(), ShouldEqual, "")
		})

		Convey("A valid name on a dead descriptor surfaces the system error", func() {
			err := d.Attach("v4-wlan0")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unable to attach tun device v4-wlan0")
			So(d.Name(), ShouldEqual, "")
		})
	})
}

func TestIfreqLayout(t *testing.T) {

	Convey("The attach request matches the kernel ifreq size", t, func() {
		So(unsafe.Sizeof(ifreqDevType{}), ShouldEqual, uintptr(40))
	})
}

func TestAccessors(t *testing.T) {

	Convey("Fd exposes the descriptor it was built with", t, func() {
		d := &Device{fd: 7, name: "v4-wlan0"}
		So(d.Fd(), ShouldEqual, 7)
		So(d.Name(), ShouldEqual, "v4-wlan0")
	})
}
