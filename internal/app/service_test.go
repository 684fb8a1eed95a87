package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/census/internal/app"
	"github.com/okian/census/internal/census"
	"github.com/okian/census/internal/domain/city"
	"github.com/okian/census/internal/feed"
	"github.com/okian/census/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			So(svc.TopK(), ShouldEqual, 5)
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["offices"], ShouldEqual, 3)
			So(stats["failurePolicy"], ShouldEqual, "continue")
			So(svc.Top(), ShouldBeEmpty)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithOffices(7, 8),
			service.WithTopK(3),
			service.WithFailurePolicy(census.FailurePolicyAbort),
			service.WithLogger(logger.Discard()),
		)

		Convey("Then the options should be applied", func() {
			So(svc.TopK(), ShouldEqual, 3)
			stats := svc.GetStats()
			So(stats["offices"], ShouldEqual, 2)
			So(stats["failurePolicy"], ShouldEqual, "abort")
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := service.New()
		defer svc.Stop()

		Convey("When reporting before start", func() {
			rec := city.New("Salem", "VA", 25346)
			err := svc.Report(ctx, 1, &rec)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then every office should carry both listeners", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["listeners"], ShouldEqual, 6)
				for _, n := range []int{1, 2, 3} {
					o, ok := svc.Office(n)
					So(ok, ShouldBeTrue)
					So(o.Listeners(), ShouldEqual, 2)
				}
				_, ok := svc.Office(4)
				So(ok, ShouldBeFalse)
			})

			Convey("And stopping should unregister them", func() {
				svc.Stop()
				o, _ := svc.Office(1)
				So(o.HasListeners(), ShouldBeFalse)
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})

	Convey("Given invalid office numbers", t, func() {
		ctx := context.Background()

		Convey("Then start should fail", func() {
			err := service.New(service.WithOffices(1, 0)).Start(ctx)
			So(errors.Is(err, census.ErrInvalidArgument), ShouldBeTrue)

			err = service.New(service.WithOffices(2, 2)).Start(ctx)
			So(errors.Is(err, census.ErrInvalidArgument), ShouldBeTrue)
		})
	})
}

func TestService_Reports(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the seven-city sequence is reported across offices", func() {
			pops := []int{50981, 85181, 96470, 77113, 210309, 447021, 245782}
			for i, p := range pops {
				rec := city.New("City", "VA", p)
				So(svc.Report(ctx, i%3+1, &rec), ShouldBeNil)
			}

			Convey("Then the top five should be the largest populations", func() {
				So(city.Populations(svc.Top()), ShouldResemble, []int{447021, 245782, 210309, 96470, 85181})
				So(svc.GetStats()["history"], ShouldEqual, 7)
			})

			Convey("Then the latest record should come from the last office", func() {
				rec, office, ok := svc.Latest()
				So(ok, ShouldBeTrue)
				So(rec.Population(), ShouldEqual, 245782)
				So(office, ShouldEqual, 1)
			})
		})

		Convey("When a report targets an unknown office", func() {
			rec := city.New("Nowhere", "VA", 1)
			err := svc.Report(ctx, 42, &rec)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, feed.ErrUnknownOffice), ShouldBeTrue)
				_, _, ok := svc.Latest()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a generated feed is replayed", func() {
			reports, err := feed.Generate(ctx, feed.GenerateConfig{Count: 50, Offices: []int{1, 2, 3}})
			So(err, ShouldBeNil)

			stats, err := svc.Replay(ctx, reports)

			Convey("Then the answer should match the reference ranking", func() {
				So(err, ShouldBeNil)
				So(stats.Reports, ShouldEqual, 50)
				So(feed.Verify(svc.Top(), reports, svc.TopK()), ShouldBeNil)
			})
		})
	})

	Convey("Given a stopped service", t, func() {
		_, err := service.New().Replay(context.Background(), nil)

		Convey("Then replay should be rejected", func() {
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}
