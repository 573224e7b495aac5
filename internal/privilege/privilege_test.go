package privilege

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"kernel.org/pub/linux/libs/security/libcap/cap"
)

type seamRecorder struct {
	calls  []string
	sets   []*cap.Set
	failOn string
}

func installSeams(r *seamRecorder) func() {
	oldGroups, oldUID, oldApply := setGroups, setUID, applySet

	setGroups = func(gid int, groups ...int) error {
		r.calls = append(r.calls, "setgroups")
		if r.failOn == "setgroups" {
			return fmt.Errorf("denied")
		}
		return nil
	}
	setUID = func(uid int) error {
		r.calls = append(r.calls, "setuid")
		if r.failOn == "setuid" {
			return fmt.Errorf("denied")
		}
		return nil
	}
	applySet = func(s *cap.Set) error {
		r.calls = append(r.calls, "capset")
		r.sets = append(r.sets, s)
		if r.failOn == "capset" {
			return fmt.Errorf("denied")
		}
		return nil
	}

	return func() {
		setGroups, setUID, applySet = oldGroups, oldUID, oldApply
	}
}

func hasCap(s *cap.Set, flag cap.Flag, v cap.Value) bool {
	ok, err := s.GetFlag(flag, v)
	return err == nil && ok
}

func TestDropRoot(t *testing.T) {

	Convey("Given a sequencer in the elevated state", t, func() {
		rec := &seamRecorder{}
		restore := installSeams(rec)
		defer restore()

		seq := NewSequencer()
		So(seq.State(), ShouldEqual, Elevated)

		Convey("When I drop root", func() {
			err := seq.DropRoot(DefaultCredentials())

			Convey("Then groups, identity and capabilities change in that order", func() {
				So(err, ShouldBeNil)
				So(rec.calls, ShouldResemble, []string{"setgroups", "setuid", "capset"})
				So(seq.State(), ShouldEqual, Reduced)
			})

			Convey("Then the installed set holds exactly the reduced capabilities", func() {
				So(err, ShouldBeNil)
				So(len(rec.sets), ShouldEqual, 1)
				installed := rec.sets[0]
				for _, flag := range []cap.Flag{cap.Permitted, cap.Effective, cap.Inheritable} {
					So(hasCap(installed, flag, cap.NET_ADMIN), ShouldBeTrue)
					So(hasCap(installed, flag, cap.NET_RAW), ShouldBeTrue)
					So(hasCap(installed, flag, cap.SYS_ADMIN), ShouldBeFalse)
					So(hasCap(installed, flag, cap.SETUID), ShouldBeFalse)
				}
			})
		})

		Convey("When the identity change fails", func() {
			rec.failOn = "setuid"
			err := seq.DropRoot(DefaultCredentials())

			Convey("Then the sequencer reports the failure and does not advance", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "setresuid failed")
				So(seq.State(), ShouldEqual, Elevated)
			})
		})

		Convey("When the group change fails", func() {
			rec.failOn = "setgroups"
			err := seq.DropRoot(DefaultCredentials())

			Convey("Then nothing after it runs", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "setgroups failed")
				So(rec.calls, ShouldResemble, []string{"setgroups"})
				So(seq.State(), ShouldEqual, Elevated)
			})
		})
	})
}

func TestNarrow(t *testing.T) {

	Convey("Given a sequencer in the reduced state", t, func() {
		rec := &seamRecorder{}
		restore := installSeams(rec)
		defer restore()

		seq := NewSequencer()
		So(seq.DropRoot(DefaultCredentials()), ShouldBeNil)

		Convey("When I narrow", func() {
			err := seq.Narrow()

			Convey("Then only interface administration remains", func() {
				So(err, ShouldBeNil)
				So(seq.State(), ShouldEqual, Minimal)
				So(len(rec.sets), ShouldEqual, 2)
				installed := rec.sets[1]
				So(hasCap(installed, cap.Permitted, cap.NET_ADMIN), ShouldBeTrue)
				So(hasCap(installed, cap.Permitted, cap.NET_RAW), ShouldBeFalse)
				So(hasCap(installed, cap.Effective, cap.NET_RAW), ShouldBeFalse)
			})
		})

		Convey("When the capability change fails", func() {
			rec.failOn = "capset"
			err := seq.Narrow()

			Convey("Then the sequencer does not advance", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "capset failed")
				So(seq.State(), ShouldEqual, Reduced)
			})
		})
	})
}

func TestTransitionsAreOneWay(t *testing.T) {

	Convey("Given a fresh sequencer", t, func() {
		rec := &seamRecorder{}
		restore := installSeams(rec)
		defer restore()

		seq := NewSequencer()

		Convey("Narrowing before dropping root is rejected", func() {
			err := seq.Narrow()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid transition from elevated")
			So(seq.State(), ShouldEqual, Elevated)
		})

		Convey("Dropping root twice is rejected", func() {
			So(seq.DropRoot(DefaultCredentials()), ShouldBeNil)
			err := seq.DropRoot(DefaultCredentials())
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid transition from reduced")
			So(seq.State(), ShouldEqual, Reduced)
		})

		Convey("Narrowing twice is rejected and the state stays minimal", func() {
			So(seq.DropRoot(DefaultCredentials()), ShouldBeNil)
			So(seq.Narrow(), ShouldBeNil)
			err := seq.Narrow()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid transition from minimal")
			So(seq.State(), ShouldEqual, Minimal)
		})
	})
}

func TestCapabilitySetsShrink(t *testing.T) {

	Convey("The minimal set is a strict subset of the reduced set", t, func() {
		reduced := map[cap.Value]bool{}
		for _, v := range ReducedCapabilities() {
			reduced[v] = true
		}
		for _, v := range MinimalCapabilities() {
			So(reduced[v], ShouldBeTrue)
		}
		So(len(MinimalCapabilities()), ShouldBeLessThan, len(ReducedCapabilities()))
	})

	Convey("The default credentials are the platform service identity", t, func() {
		cred := DefaultCredentials()
		So(cred.UID, ShouldEqual, 1029)
		So(cred.GID, ShouldEqual, 1029)
		So(cred.Groups, ShouldResemble, []int{3003, 1016})
	})
}
