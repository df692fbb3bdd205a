package roster_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/salesdeck/pulse/internal/adapters/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given no external roster path", t, func() {
		r, err := roster.Load("")

		Convey("Then the embedded default loads", func() {
			So(err, ShouldBeNil)
			So(r.Len(), ShouldBeGreaterThan, 50)
		})
	})

	Convey("Given an external roster file", t, func() {
		path := filepath.Join(t.TempDir(), "roster.yaml")
		So(os.WriteFile(path, []byte("Pat Example: Tigers\nSam Other: Lions\n"), 0o600), ShouldBeNil)

		r, err := roster.Load(path)

		Convey("Then it replaces the embedded default", func() {
			So(err, ShouldBeNil)
			So(r.Len(), ShouldEqual, 2)
			So(r.TeamFor("Pat Example"), ShouldEqual, "Tigers")
		})
	})

	Convey("Given a missing external file", t, func() {
		_, err := roster.Load(filepath.Join(t.TempDir(), "absent.yaml"))

		Convey("Then loading fails", func() {
			So(errors.Is(err, roster.ErrLoadRoster), ShouldBeTrue)
		})
	})

	Convey("Given a file that is not a mapping", t, func() {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		So(os.WriteFile(path, []byte("- just\n- a\n- list\n"), 0o600), ShouldBeNil)

		_, err := roster.Load(path)

		Convey("Then loading fails", func() {
			So(errors.Is(err, roster.ErrLoadRoster), ShouldBeTrue)
		})
	})
}

func TestTeamFor(t *testing.T) {
	Convey("Given the embedded roster", t, func() {
		r, err := roster.Load("")
		So(err, ShouldBeNil)

		Convey("Then exact names resolve", func() {
			So(r.TeamFor("Aashima Soni"), ShouldEqual, "Botzilla")
		})

		Convey("Then casing and spacing drift still resolve", func() {
			So(r.TeamFor("AASHIMA  soni"), ShouldEqual, "Botzilla")
			So(r.TeamFor("harsh raj"), ShouldEqual, "Botzilla")
		})

		Convey("Then token-overlap variants resolve", func() {
			So(r.TeamFor("Soni Aashima"), ShouldEqual, "Botzilla")
		})

		Convey("Then unknown names map to NA", func() {
			So(r.TeamFor("Nobody Here"), ShouldEqual, "NA")
			So(r.TeamFor(""), ShouldEqual, "NA")
		})
	})
}
