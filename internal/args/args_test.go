package args

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {

	Convey("Given only an uplink interface", t, func() {
		c, err := Parse([]string{"-i", "wlan0"})
		Convey("Then the derived device is prefixed and the optionals report (none)", func() {
			So(err, ShouldBeNil)
			So(c.UplinkInterface, ShouldEqual, "wlan0")
			So(c.Device.String(), ShouldEqual, "v4-wlan0")
			So(c.NetID, ShouldEqual, 0)
			So(c.Mark, ShouldEqual, 0)
			So(c.NetIDString(), ShouldEqual, "(none)")
			So(c.MarkString(), ShouldEqual, "(none)")
		})
	})

	Convey("Given uplink, netid and mark", t, func() {
		c, err := Parse([]string{"-i", "wlan0", "-n", "100", "-m", "5"})
		Convey("Then both integers parse and the raw strings are kept for logging", func() {
			So(err, ShouldBeNil)
			So(c.NetID, ShouldEqual, 100)
			So(c.Mark, ShouldEqual, 5)
			So(c.NetIDString(), ShouldEqual, "100")
			So(c.MarkString(), ShouldEqual, "5")
		})
	})

	Convey("Given a plat prefix", t, func() {
		c, err := Parse([]string{"-i", "rmnet0", "-p", "64:ff9b::"})
		Convey("Then the prefix is passed through uninterpreted", func() {
			So(err, ShouldBeNil)
			So(c.PlatPrefix, ShouldEqual, "64:ff9b::")
		})
	})

	Convey("Given no interface", t, func() {
		_, err := Parse([]string{"-n", "100"})
		Convey("Then parsing fails before anything privileged could run", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "without an interface")
		})
	})

	Convey("Given the help flag", t, func() {
		_, err := Parse([]string{"-h"})
		Convey("Then the help sentinel is returned", func() {
			So(err, ShouldEqual, ErrHelp)
		})
	})

	Convey("Given an unknown flag", t, func() {
		_, err := Parse([]string{"-i", "wlan0", "-x", "1"})
		Convey("Then parsing fails", func() {
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an uplink whose derived name exceeds the buffer", t, func() {
		_, err := Parse([]string{"-i", strings.Repeat("a", 13)})
		Convey("Then parsing fails with the overlong name", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "interface name too long")
		})
	})

	Convey("Given a bad netid", t, func() {
		_, err := Parse([]string{"-i", "wlan0", "-n", "10q"})
		Convey("Then parsing fails naming the value", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid NetID 10q")
		})
	})

	Convey("Given a bad mark", t, func() {
		_, err := Parse([]string{"-i", "wlan0", "-m", "-3"})
		Convey("Then parsing fails naming the value", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid mark")
		})
	})

	Convey("Given a binary literal mark", t, func() {
		_, err := Parse([]string{"-i", "wlan0", "-m", "0b11"})
		Convey("Then parsing fails naming the value", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid mark 0b11")
		})
	})

	Convey("Given a zero netid and mark", t, func() {
		c, err := Parse([]string{"-i", "wlan0", "-n", "0", "-m", "0"})
		Convey("Then zero parses and equals the unset sentinel", func() {
			So(err, ShouldBeNil)
			So(c.NetID, ShouldEqual, 0)
			So(c.Mark, ShouldEqual, 0)
			So(c.NetIDString(), ShouldEqual, "0")
			So(c.MarkString(), ShouldEqual, "0")
		})
	})
}

func TestParseUnsigned(t *testing.T) {

	Convey("Given strings that are exactly unsigned integers", t, func() {
		accepted := map[string]uint32{
			"0":          0,
			"5":          5,
			"100":        100,
			"0x1f":       31,
			"010":        8,
			"4294967295": 4294967295,
		}
		for in, want := range accepted {
			v, err := parseUnsigned(in)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, want)
		}
	})

	Convey("Given anything else", t, func() {
		rejected := []string{
			"", "-1", "+1", " 5", "5 ", "5x", "x5", "0x",
			"1_000", "0b11", "0B11", "0o17", "0O17",
			"4294967296", "0xffffffff0", "1.0", "abc",
		}
		for _, in := range rejected {
			_, err := parseUnsigned(in)
			So(err, ShouldNotBeNil)
		}
	})
}

func TestUsage(t *testing.T) {

	Convey("The usage text names every flag", t, func() {
		u := Usage()
		So(u, ShouldContainSubstring, "-i [uplink interface]")
		So(u, ShouldContainSubstring, "-p [plat prefix]")
		So(u, ShouldContainSubstring, "-n [NetId]")
		So(u, ShouldContainSubstring, "-m [socket mark]")
	})
}
