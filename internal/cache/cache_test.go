package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/salesdeck/pulse/internal/cache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReadThrough(t *testing.T) {
	ctx := context.Background()

	Convey("Given a read-through cache over a counting loader", t, func() {
		var loads atomic.Int64
		c := cache.NewReadThrough(time.Minute, func(ctx context.Context) ([]string, error) {
			loads.Add(1)
			return []string{"a", "b"}, nil
		})

		Convey("The first Get loads, later Gets hit", func() {
			v1, err := c.Get(ctx)
			So(err, ShouldBeNil)
			So(v1, ShouldResemble, []string{"a", "b"})

			v2, err := c.Get(ctx)
			So(err, ShouldBeNil)
			So(v2, ShouldResemble, []string{"a", "b"})
			So(loads.Load(), ShouldEqual, 1)
		})

		Convey("Invalidate forces a reload", func() {
			_, err := c.Get(ctx)
			So(err, ShouldBeNil)
			c.Invalidate()
			_, err = c.Get(ctx)
			So(err, ShouldBeNil)
			So(loads.Load(), ShouldEqual, 2)
		})

		Convey("Concurrent misses collapse into one load", func() {
			var wg sync.WaitGroup
			for range 16 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = c.Get(ctx)
				}()
			}
			wg.Wait()
			So(loads.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a loader that fails", t, func() {
		boom := errors.New("sheet unreachable")
		calls := 0
		c := cache.NewReadThrough(time.Minute, func(ctx context.Context) (int, error) {
			calls++
			if calls == 1 {
				return 0, boom
			}
			return 42, nil
		})

		Convey("The error surfaces and nothing is cached", func() {
			_, err := c.Get(ctx)
			So(errors.Is(err, boom), ShouldBeTrue)

			v, err := c.Get(ctx)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 42)
		})
	})
}
