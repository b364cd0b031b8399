package orgunit

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSlug(t *testing.T) {
	Convey("Given unit names", t, func() {
		cases := map[string]string{
			"West Region":         "west-region",
			"  West   Region  ":   "west-region",
			"--Sales & Marketing": "sales-marketing",
			"Team42":              "team42",
			"North América & Co.": "north-am-rica-co",
			"A.B.C":               "a-b-c",
			"!!!":                 "",
		}
		for in, want := range cases {
			So(Slug(in), ShouldEqual, want)
		}
	})

	Convey("Given the same name twice", t, func() {
		So(Slug("Retail Ops"), ShouldEqual, Slug("Retail Ops"))
	})
}

func TestID(t *testing.T) {
	Convey("Given a name with no usable characters", t, func() {
		_, err := ID("& / ?")
		So(err, ShouldEqual, ErrEmptySlug)
	})

	Convey("Given a normal name", t, func() {
		id, err := ID("Platform")
		So(err, ShouldBeNil)
		So(id, ShouldEqual, "platform")
	})
}
