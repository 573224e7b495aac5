//go:build linux
// +build linux

package rawsocket

import (
	"net"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWritePacketValidation(t *testing.T) {

	Convey("Given a raw socket on a dead descriptor", t, func() {
		s := &rawSocket{fd: -1}

		Convey("A packet shorter than an IPv6 header is rejected before sending", func() {
			err := s.WritePacket(make([]byte, 39))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "short packet of 39 bytes")
		})

		Convey("A routable packet surfaces the system error", func() {
			err := s.WritePacket(make([]byte, 40))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unable to write packet")
		})
	})
}

func TestAnycastRequest(t *testing.T) {

	Convey("Given an IPv6 address and an interface index", t, func() {
		ip := net.ParseIP("2001:db8::464")
		mreq, err := anycastReq(ip, 4)

		Convey("Then the request carries both", func() {
			So(err, ShouldBeNil)
			So(mreq.Interface, ShouldEqual, 4)
			So(net.IP(mreq.Multiaddr[:]).String(), ShouldEqual, "2001:db8::464")
		})
	})

	Convey("Given an IPv4 address", t, func() {
		_, err := anycastReq(net.ParseIP("192.0.0.4"), 4)

		Convey("Then the request is refused", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not an IPv6 address")
		})
	})

	Convey("Given no address at all", t, func() {
		_, err := anycastReq(nil, 0)

		Convey("Then the request is refused", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Joining on a dead descriptor surfaces the system error", t, func() {
		s := &rawSocket{fd: -1}
		err := s.JoinAnycast(net.ParseIP("2001:db8::464"), 1)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "unable to join anycast group")

		err = s.LeaveAnycast(net.ParseIP("2001:db8::464"))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "unable to leave anycast group")
	})
}
