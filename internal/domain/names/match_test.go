package names_test

import (
	"testing"

	"github.com/salesdeck/pulse/internal/domain/names"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatch(t *testing.T) {
	Convey("Given pairs of names", t, func() {
		Convey("Case and spacing variants of the same person match", func() {
			So(names.Match("Aashima Soni", "aashima soni"), ShouldBeTrue)
			So(names.Match("Aashima Soni", "  aashima   SONI "), ShouldBeTrue)
		})

		Convey("Different people do not match", func() {
			So(names.Match("John Smith", "Jane Doe"), ShouldBeFalse)
			So(names.Match("Aditi Soni", "Aashima Soni"), ShouldBeFalse) // only one shared token
		})

		Convey("Equal normalized forms short-circuit even with short tokens", func() {
			So(names.Match("Jo Li", "Jo Li"), ShouldBeTrue)
			So(names.Match("Saloni K", "saloni k"), ShouldBeTrue)
		})

		Convey("Single-token names require full equality", func() {
			So(names.Match("Chandramani", "chandramani"), ShouldBeTrue)
			So(names.Match("Chandramani", "Chandra"), ShouldBeFalse)
		})

		Convey("Token order does not matter", func() {
			So(names.Match("Soni Aashima", "Aashima Soni"), ShouldBeTrue)
		})

		Convey("Initials never count as shared tokens", func() {
			So(names.Match("Shivani V S", "Vikram V S"), ShouldBeFalse)
		})

		Convey("Three-token names need only two significant overlaps", func() {
			So(names.Match("Ankit Kumar Patel", "Ankit Patel"), ShouldBeTrue)
		})

		Convey("Empty names never match", func() {
			So(names.Match("", ""), ShouldBeFalse)
			So(names.Match("Aashima Soni", ""), ShouldBeFalse)
		})
	})
}
