package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/mindset-tracker/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.TableParticipants, convey.ShouldEqual, "mindset-users")
			convey.So(cfg.TableAssessments, convey.ShouldEqual, "mindset-assessments")
			convey.So(cfg.TableAuditLog, convey.ShouldEqual, "mindset-audit-log")
			convey.So(cfg.TableNotes, convey.ShouldEqual, "mindset-notes")
			convey.So(cfg.TableOrgUnits, convey.ShouldEqual, "mindset-vbus")
			convey.So(cfg.ImportBatchSize, convey.ShouldEqual, 25)
			convey.So(cfg.RenameWorkers, convey.ShouldEqual, runtime.NumCPU())
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
